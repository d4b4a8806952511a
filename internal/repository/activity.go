package repository

import (
	"context"
	"fmt"

	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
)

// ActivityLogRepository — журнал активности администратора.
// Записи только добавляются и читаются, обновлений нет.
type ActivityLogRepository interface {
	// Insert добавляет событие аудита, заполняет ID и Timestamp.
	Insert(ctx context.Context, e *model.ActivityLog) error
	// ListRecent возвращает последние события, новые первыми.
	ListRecent(ctx context.Context, limit int) ([]*model.ActivityLog, error)
	// ListByFile возвращает события, связанные с записью файла.
	ListByFile(ctx context.Context, fileID int64) ([]*model.ActivityLog, error)
}

// activityLogRepo — реализация ActivityLogRepository.
type activityLogRepo struct {
	db DBTX
}

// NewActivityLogRepository создаёт репозиторий журнала активности.
func NewActivityLogRepository(db DBTX) ActivityLogRepository {
	return &activityLogRepo{db: db}
}

func (r *activityLogRepo) Insert(ctx context.Context, e *model.ActivityLog) error {
	query := `
		INSERT INTO activity_log (action, description, username, ip_address, user_agent, file_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, ts`

	err := r.db.QueryRow(ctx, query,
		e.Action, e.Description, e.Username, e.IPAddress, e.UserAgent, e.FileID,
	).Scan(&e.ID, &e.Timestamp)
	if err != nil {
		return fmt.Errorf("ошибка записи события аудита: %w", err)
	}
	return nil
}

func (r *activityLogRepo) ListRecent(ctx context.Context, limit int) ([]*model.ActivityLog, error) {
	query := `
		SELECT id, action, description, username, ip_address, user_agent, file_id, ts
		FROM activity_log
		ORDER BY ts DESC, id DESC
		LIMIT $1`

	return r.queryList(ctx, query, limit)
}

func (r *activityLogRepo) ListByFile(ctx context.Context, fileID int64) ([]*model.ActivityLog, error) {
	query := `
		SELECT id, action, description, username, ip_address, user_agent, file_id, ts
		FROM activity_log
		WHERE file_id = $1
		ORDER BY ts DESC, id DESC`

	return r.queryList(ctx, query, fileID)
}

func (r *activityLogRepo) queryList(ctx context.Context, query string, args ...any) ([]*model.ActivityLog, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения журнала активности: %w", err)
	}
	defer rows.Close()

	var result []*model.ActivityLog
	for rows.Next() {
		e := &model.ActivityLog{}
		if err := rows.Scan(
			&e.ID, &e.Action, &e.Description, &e.Username,
			&e.IPAddress, &e.UserAgent, &e.FileID, &e.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования события аудита: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
