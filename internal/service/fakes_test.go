package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Gabo-araya/metadatos-app/internal/domain/model"
	"github.com/Gabo-araya/metadatos-app/internal/repository"
)

// discardLogger — логгер для тестов, пишущий в никуда.
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeFileRepo — in-memory реализация repository.FileRepository.
type fakeFileRepo struct {
	records map[int64]*model.FileRecord
	nextID  int64
	// createErr/deleteErr позволяют имитировать сбой БД.
	createErr error
	deleteErr error
}

func newFakeFileRepo() *fakeFileRepo {
	return &fakeFileRepo{records: map[int64]*model.FileRecord{}, nextID: 1}
}

func (r *fakeFileRepo) Create(_ context.Context, f *model.FileRecord) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.records {
		if existing.StoredName == f.StoredName {
			return repository.ErrConflict
		}
	}
	f.ID = r.nextID
	r.nextID++
	f.CreatedAt = time.Now().UTC()
	f.UpdatedAt = f.CreatedAt
	cp := *f
	r.records[f.ID] = &cp
	return nil
}

func (r *fakeFileRepo) GetByID(_ context.Context, id int64) (*model.FileRecord, error) {
	f, ok := r.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

// matches повторяет семантику поиска: подстрока без учёта регистра
// в title, description или subject.
func matches(f *model.FileRecord, term string) bool {
	if term == "" {
		return true
	}
	t := strings.ToLower(term)
	return strings.Contains(strings.ToLower(f.Title), t) ||
		strings.Contains(strings.ToLower(f.Description), t) ||
		strings.Contains(strings.ToLower(f.Subject), t)
}

func (r *fakeFileRepo) sorted(term string) []*model.FileRecord {
	var all []*model.FileRecord
	for _, f := range r.records {
		if matches(f, term) {
			cp := *f
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].UploadDate.Equal(all[j].UploadDate) {
			return all[i].UploadDate.After(all[j].UploadDate)
		}
		return all[i].ID > all[j].ID
	})
	return all
}

func (r *fakeFileRepo) Search(_ context.Context, term string, limit, offset int) ([]*model.FileRecord, error) {
	all := r.sorted(term)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeFileRepo) Count(_ context.Context, term string) (int, error) {
	return len(r.sorted(term)), nil
}

func (r *fakeFileRepo) Delete(_ context.Context, id int64) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.records[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.records, id)
	return nil
}

func (r *fakeFileRepo) Stats(_ context.Context) (*model.FileStats, error) {
	s := &model.FileStats{}
	for _, f := range r.records {
		s.TotalFiles++
		s.TotalBytes += f.SizeBytes
		switch {
		case f.IsImage():
			s.Images++
		case f.IsDocument():
			s.Documents++
		default:
			s.Others++
		}
	}
	return s, nil
}

// fakeActivityRepo — in-memory журнал активности.
type fakeActivityRepo struct {
	events    []*model.ActivityLog
	insertErr error
}

func (r *fakeActivityRepo) Insert(_ context.Context, e *model.ActivityLog) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	e.ID = int64(len(r.events) + 1)
	e.Timestamp = time.Now().UTC()
	cp := *e
	r.events = append(r.events, &cp)
	return nil
}

func (r *fakeActivityRepo) ListRecent(_ context.Context, limit int) ([]*model.ActivityLog, error) {
	n := len(r.events)
	var out []*model.ActivityLog
	for i := n - 1; i >= 0 && len(out) < limit; i-- {
		cp := *r.events[i]
		out = append(out, &cp)
	}
	return out, nil
}

func (r *fakeActivityRepo) ListByFile(_ context.Context, fileID int64) ([]*model.ActivityLog, error) {
	var out []*model.ActivityLog
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].FileID != nil && *r.events[i].FileID == fileID {
			cp := *r.events[i]
			out = append(out, &cp)
		}
	}
	return out, nil
}

// errDatabase — имитация сбоя записи в БД.
var errDatabase = errors.New("имитация сбоя БД")
