package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/Gabo-araya/metadatos-app/internal/api/middleware"
	"github.com/Gabo-araya/metadatos-app/internal/config"
	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
	"github.com/Gabo-araya/metadatos-app/internal/repository"
	"github.com/Gabo-araya/metadatos-app/internal/storage/filestore"
)

// Границы длины текстовых полей.
const (
	titleMaxLen        = 255
	descriptionMaxLen  = 1000
	subjectMaxLen      = 500
	originalNameMaxLen = 255
)

// IngestParams — параметры загрузки файла.
type IngestParams struct {
	// Title — заголовок записи (обязателен).
	Title string
	// Description — описание записи (обязательно).
	Description string
	// Subject — ключевые слова Dublin Core (опционально).
	Subject string
	// OriginalName — оригинальное имя файла от клиента.
	OriginalName string
	// Reader — поток данных файла.
	Reader io.Reader
	// DeclaredSize — размер из Content-Length multipart part.
	DeclaredSize int64
	// MimeType — MIME-тип из заголовка multipart part.
	MimeType string
	// Actor — имя администратора, выполняющего загрузку.
	Actor string
	// RemoteAddr, UserAgent — происхождение запроса для аудита.
	RemoteAddr string
	UserAgent  string
}

// UploadService — оркестратор конвейера загрузки и зеркальной операции
// удаления. Последовательность Ingest: санитизация текста → санитизация
// имени файла → валидация содержимого → генерация уникального имени →
// запись blob → вставка записи → аудит (best-effort).
type UploadService struct {
	cfg    *config.Config
	files  repository.FileRepository
	store  *filestore.FileStore
	audit  *AuditService
	logger *slog.Logger
}

// NewUploadService создаёт оркестратор загрузки.
func NewUploadService(
	cfg *config.Config,
	files repository.FileRepository,
	store *filestore.FileStore,
	audit *AuditService,
	logger *slog.Logger,
) *UploadService {
	return &UploadService{
		cfg:    cfg,
		files:  files,
		store:  store,
		audit:  audit,
		logger: logger.With(slog.String("component", "upload_service")),
	}
}

// Ingest выполняет полный конвейер загрузки. До записи blob побочных
// эффектов нет; ошибка вставки записи удаляет только что записанный blob.
// Ошибка аудита успешную загрузку не откатывает.
func (s *UploadService) Ingest(ctx context.Context, p IngestParams) (*model.FileRecord, error) {
	// 1. Санитизация текстовых полей
	title := SanitizeText(p.Title, titleMaxLen)
	description := SanitizeText(p.Description, descriptionMaxLen)
	subject := SanitizeText(p.Subject, subjectMaxLen)

	if title == "" {
		return nil, Reject("заголовок обязателен")
	}
	if description == "" {
		return nil, Reject("описание обязательно")
	}

	// Исходное имя хранится только для отображения; усекаем до ёмкости
	// колонки, иначе валидная загрузка упадёт на вставке записи.
	originalName := truncateRunes(p.OriginalName, originalNameMaxLen)

	// 2. Санитизация имени файла
	safeName, err := SanitizeFilename(p.OriginalName)
	if err != nil {
		return nil, err
	}

	// 3. Валидация типа и размера
	if err := ValidateContent(safeName, p.DeclaredSize, s.cfg.MaxContentLength); err != nil {
		return nil, err
	}

	// 4. Уникальное имя хранения
	storedName := MakeUniqueName(safeName, s.store.Exists)

	// 5. Запись blob (temp → fsync → atomic rename)
	if _, err := s.store.Save(p.Reader, storedName); err != nil {
		s.logger.Error("Ошибка записи blob",
			slog.String("stored_name", storedName),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("ошибка сохранения файла на диск: %w", err)
	}

	// 6. Размер берём с диска — заявленный мог отличаться
	size, err := s.store.Size(storedName)
	if err != nil {
		s.removeBlob(storedName)
		return nil, fmt.Errorf("ошибка измерения сохранённого blob: %w", err)
	}

	record := &model.FileRecord{
		Title:        title,
		Description:  description,
		StoredName:   storedName,
		OriginalName: originalName,
		SizeBytes:    size,
		MimeType:     p.MimeType,
		Creator:      model.DefaultCreator,
		Subject:      subject,
		Language:     model.DefaultLanguage,
		Rights:       model.DefaultRights,
		UploadDate:   time.Now().UTC(),
	}

	// 7. Вставка записи; при ошибке убираем blob, полузаписей не оставляем
	if err := s.files.Create(ctx, record); err != nil {
		s.removeBlob(storedName)
		s.logger.Error("Ошибка регистрации файла",
			slog.String("stored_name", storedName),
			slog.String("error", err.Error()),
		)
		middleware.OperationsTotal.WithLabelValues("upload", "error").Inc()
		return nil, fmt.Errorf("ошибка регистрации файла: %w", err)
	}

	// 8. Аудит — best-effort
	s.audit.Emit(ctx, model.ActionUpload,
		fmt.Sprintf("загружен файл %q (%s)", record.Title, storedName),
		p.Actor, p.RemoteAddr, p.UserAgent, &record.ID,
	)

	middleware.OperationsTotal.WithLabelValues("upload", "success").Inc()
	s.logger.Info("Файл загружен",
		slog.Int64("file_id", record.ID),
		slog.String("stored_name", storedName),
		slog.String("original_name", p.OriginalName),
		slog.Int64("size", size),
	)

	return record, nil
}

// Delete — зеркальная операция: запись → blob → запись БД → аудит.
// Отсутствующий blob не считается ошибкой (логируется предупреждение,
// запись всё равно удаляется). Любой другой сбой файловой системы
// прерывает операцию до удаления записи. Ошибка удаления записи
// оставляет уже убранный blob как принятую залогированную рассинхронизацию.
func (s *UploadService) Delete(ctx context.Context, id int64, actor, remoteAddr, userAgent string) error {
	record, err := s.files.GetByID(ctx, id)
	if err != nil {
		return err
	}

	blobRemoved := false
	if err := s.store.Delete(record.StoredName); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Error("Ошибка удаления blob",
				slog.Int64("file_id", id),
				slog.String("stored_name", record.StoredName),
				slog.String("error", err.Error()),
			)
			middleware.OperationsTotal.WithLabelValues("delete", "error").Inc()
			return fmt.Errorf("ошибка удаления файла с диска: %w", err)
		}
		s.logger.Warn("Blob уже отсутствует на диске, удаляем только запись",
			slog.Int64("file_id", id),
			slog.String("stored_name", record.StoredName),
		)
	} else {
		blobRemoved = true
	}

	if err := s.files.Delete(ctx, id); err != nil {
		if blobRemoved {
			// Blob уже убран — восстановление не предпринимается
			s.logger.Error("Запись не удалена, blob уже убран — рассинхронизация",
				slog.Int64("file_id", id),
				slog.String("stored_name", record.StoredName),
				slog.String("error", err.Error()),
			)
		}
		middleware.OperationsTotal.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("ошибка удаления записи: %w", err)
	}

	s.audit.Emit(ctx, model.ActionDelete,
		fmt.Sprintf("удалён файл %q (%s)", record.Title, record.StoredName),
		actor, remoteAddr, userAgent, nil,
	)

	middleware.OperationsTotal.WithLabelValues("delete", "success").Inc()
	s.logger.Info("Файл удалён",
		slog.Int64("file_id", id),
		slog.String("stored_name", record.StoredName),
	)

	return nil
}

// removeBlob убирает blob при откате, ошибки только логируются.
func (s *UploadService) removeBlob(storedName string) {
	if err := s.store.Delete(storedName); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.Error("Не удалось убрать blob при откате",
			slog.String("stored_name", storedName),
			slog.String("error", err.Error()),
		)
	}
}
