package service

import (
	"context"
	"log/slog"

	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
	"github.com/Gabo-araya/metadatos-app/internal/repository"
	"github.com/Gabo-araya/metadatos-app/internal/storage/filestore"
)

// Pagination — метаданные страницы списка.
type Pagination struct {
	// Page — номер текущей страницы (с 1).
	Page int
	// PageSize — размер страницы.
	PageSize int
	// Total — общее количество записей с учётом фильтра.
	Total int
	// TotalPages — количество страниц.
	TotalPages int
	// HasPrev, HasNext — есть ли соседние страницы.
	HasPrev bool
	HasNext bool
}

// PrevPage возвращает номер предыдущей страницы (не меньше 1).
func (p *Pagination) PrevPage() int {
	if p.Page > 1 {
		return p.Page - 1
	}
	return 1
}

// NextPage возвращает номер следующей страницы (не больше последней).
func (p *Pagination) NextPage() int {
	if p.Page < p.TotalPages {
		return p.Page + 1
	}
	return p.TotalPages
}

// FileDetail — запись файла вместе с признаком наличия blob на диске.
// Отсутствие blob у существующей записи — обнаруживаемая
// рассинхронизация, а не фатальная ошибка.
type FileDetail struct {
	*model.FileRecord
	// BlobExists — есть ли blob в директории загрузок.
	BlobExists bool
}

// FileQueryService — слой чтения файлового реестра:
// постраничный список с поиском, детальный просмотр, статистика.
type FileQueryService struct {
	files  repository.FileRepository
	store  *filestore.FileStore
	logger *slog.Logger
}

// NewFileQueryService создаёт сервис чтения реестра.
func NewFileQueryService(files repository.FileRepository, store *filestore.FileStore, logger *slog.Logger) *FileQueryService {
	return &FileQueryService{
		files:  files,
		store:  store,
		logger: logger.With(slog.String("component", "file_query_service")),
	}
}

// List возвращает страницу записей, отсортированных по дате загрузки
// (новые первыми, стабильно). Непустой term фильтрует по подстроке
// в заголовке, описании и ключевых словах без учёта регистра.
// Страница за пределами диапазона — пустой список с корректным Total.
func (s *FileQueryService) List(ctx context.Context, page, pageSize int, term string) ([]*model.FileRecord, *Pagination, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.files.Count(ctx, term)
	if err != nil {
		return nil, nil, err
	}

	offset := (page - 1) * pageSize
	items, err := s.files.Search(ctx, term, pageSize, offset)
	if err != nil {
		return nil, nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize

	p := &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	return items, p, nil
}

// GetByID возвращает запись с признаком наличия blob.
// Запись без blob логируется как рассинхронизация.
func (s *FileQueryService) GetByID(ctx context.Context, id int64) (*FileDetail, error) {
	record, err := s.files.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists := s.store.Exists(record.StoredName)
	if !exists {
		s.logger.Warn("Запись без blob на диске",
			slog.Int64("file_id", record.ID),
			slog.String("stored_name", record.StoredName),
		)
	}

	return &FileDetail{FileRecord: record, BlobExists: exists}, nil
}

// Stats возвращает агрегированную статистику реестра.
func (s *FileQueryService) Stats(ctx context.Context) (*model.FileStats, error) {
	return s.files.Stats(ctx)
}
