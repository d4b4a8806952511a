package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
)

// FileRepository — CRUD и поиск по таблице files.
type FileRepository interface {
	// Create вставляет новую запись файла, заполняет ID и метки времени.
	Create(ctx context.Context, f *model.FileRecord) error
	// GetByID возвращает запись по идентификатору.
	GetByID(ctx context.Context, id int64) (*model.FileRecord, error)
	// Search возвращает страницу записей; при непустом term фильтрует
	// по подстроке (без учёта регистра) в title, description, dc_subject.
	Search(ctx context.Context, term string, limit, offset int) ([]*model.FileRecord, error)
	// Count возвращает количество записей с учётом того же фильтра.
	Count(ctx context.Context, term string) (int, error)
	// Delete удаляет запись по идентификатору.
	Delete(ctx context.Context, id int64) error
	// Stats возвращает агрегированную статистику реестра.
	Stats(ctx context.Context) (*model.FileStats, error)
}

// fileRepo — реализация FileRepository.
type fileRepo struct {
	db DBTX
}

// NewFileRepository создаёт репозиторий файлового реестра.
func NewFileRepository(db DBTX) FileRepository {
	return &fileRepo{db: db}
}

// Колонки files в порядке сканирования.
const fileColumns = `id, title, description, stored_name, original_name, size_bytes,
	mime_type, dc_creator, dc_subject, dc_language, dc_rights,
	upload_date, created_at, updated_at`

func (r *fileRepo) Create(ctx context.Context, f *model.FileRecord) error {
	query := `
		INSERT INTO files (title, description, stored_name, original_name, size_bytes,
			mime_type, dc_creator, dc_subject, dc_language, dc_rights, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		f.Title, f.Description, f.StoredName, f.OriginalName, f.SizeBytes,
		f.MimeType, f.Creator, f.Subject, f.Language, f.Rights, f.UploadDate,
	).Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: файл с таким stored_name уже зарегистрирован", ErrConflict)
		}
		return fmt.Errorf("ошибка регистрации файла: %w", err)
	}
	return nil
}

func (r *fileRepo) GetByID(ctx context.Context, id int64) (*model.FileRecord, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	f := &model.FileRecord{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Title, &f.Description, &f.StoredName, &f.OriginalName, &f.SizeBytes,
		&f.MimeType, &f.Creator, &f.Subject, &f.Language, &f.Rights,
		&f.UploadDate, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка получения файла: %w", err)
	}
	return f, nil
}

// searchWhere строит WHERE-условие поиска по подстроке.
// Поиск OR-семантикой по title, description и dc_subject, без ранжирования.
func searchWhere(term string) (string, []any) {
	if term == "" {
		return "", nil
	}
	where := `WHERE title ILIKE '%' || $1 || '%'
		OR description ILIKE '%' || $1 || '%'
		OR dc_subject ILIKE '%' || $1 || '%'`
	return where, []any{term}
}

func (r *fileRepo) Search(ctx context.Context, term string, limit, offset int) ([]*model.FileRecord, error) {
	where, args := searchWhere(term)
	argNum := len(args) + 1

	// Вторичная сортировка по id для стабильного порядка
	// при одинаковом upload_date.
	query := fmt.Sprintf(`
		SELECT `+fileColumns+`
		FROM files
		%s
		ORDER BY upload_date DESC, id DESC
		LIMIT $%d OFFSET $%d`, where, argNum, argNum+1)

	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения списка файлов: %w", err)
	}
	defer rows.Close()

	var result []*model.FileRecord
	for rows.Next() {
		f := &model.FileRecord{}
		if err := rows.Scan(
			&f.ID, &f.Title, &f.Description, &f.StoredName, &f.OriginalName, &f.SizeBytes,
			&f.MimeType, &f.Creator, &f.Subject, &f.Language, &f.Rights,
			&f.UploadDate, &f.CreatedAt, &f.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования файла: %w", err)
		}
		result = append(result, f)
	}
	return result, rows.Err()
}

func (r *fileRepo) Count(ctx context.Context, term string) (int, error) {
	where, args := searchWhere(term)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM files %s`, where)

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчёта файлов: %w", err)
	}
	return count, nil
}

func (r *fileRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("ошибка удаления файла: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *fileRepo) Stats(ctx context.Context) (*model.FileStats, error) {
	query := `
		SELECT COUNT(*),
			COALESCE(SUM(size_bytes), 0),
			COUNT(*) FILTER (WHERE lower(stored_name) ~ '\.(jpg|jpeg|png|gif|bmp|webp)$'),
			COUNT(*) FILTER (WHERE lower(stored_name) ~ '\.(pdf|doc|docx|txt|rtf|odt)$')
		FROM files`

	s := &model.FileStats{}
	if err := r.db.QueryRow(ctx, query).Scan(
		&s.TotalFiles, &s.TotalBytes, &s.Images, &s.Documents,
	); err != nil {
		return nil, fmt.Errorf("ошибка получения статистики: %w", err)
	}
	s.Others = s.TotalFiles - s.Images - s.Documents
	return s, nil
}
