package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/abdur28/boarding-sky-sub000/cache"
	"github.com/abdur28/boarding-sky-sub000/inflight"
	"github.com/abdur28/boarding-sky-sub000/media"
	"github.com/abdur28/boarding-sky-sub000/models"
)

// Record constrains T so that *T is a catalog entity.
type Record[T any] interface {
	*T
	models.Entity
}

type CatalogDeps struct {
	Placeholder string
	Cleaner     *media.Cleaner
	Cache       cache.ListCache
	Guard       inflight.Guard
}

// CatalogService is the create/update/delete/list workflow shared by every
// dashboard-managed entity. Image cleanup always follows a committed write.
type CatalogService[T any, P Record[T]] struct {
	DB   *gorm.DB
	Name string
	deps CatalogDeps
}

func NewCatalogService[T any, P Record[T]](db *gorm.DB, name string, deps CatalogDeps) *CatalogService[T, P] {
	if deps.Guard == nil {
		deps.Guard = inflight.NewMemoryGuard()
	}
	return &CatalogService[T, P]{DB: db, Name: name, deps: deps}
}

// List returns newest first. An empty filter is served from the list cache when possible.
func (s *CatalogService[T, P]) List(ctx context.Context, filter string) ([]T, error) {
	filter = strings.TrimSpace(filter)
	var (
		gen       int64
		cacheable = filter == "" && s.deps.Cache != nil
	)
	if cacheable {
		if cached, ok := s.cachedList(ctx); ok {
			return cached, nil
		}
		// taken before the query so a write committed meanwhile voids the Set
		g, err := s.deps.Cache.Generation(ctx, s.Name)
		if err != nil {
			log.Printf("cache generation %s: %v", s.Name, err)
			cacheable = false
		}
		gen = g
	}

	q := s.DB.WithContext(ctx).Model(new(T))
	if filter != "" {
		q = applyFilter(q, any(P(new(T))), filter)
	}

	var out []T
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve %s: %w", s.Name, err)
	}
	if out == nil {
		out = []T{}
	}

	if cacheable {
		s.storeList(ctx, gen, out)
	}
	return out, nil
}

func (s *CatalogService[T, P]) Get(ctx context.Context, id string) (P, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%s: %w", s.Name, ErrNotFound)
	}
	rec := P(new(T))
	if err := s.DB.WithContext(ctx).First(rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s %s: %w", s.Name, id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to retrieve %s %s: %w", s.Name, id, err)
	}
	return rec, nil
}

// Save creates rec when it has no id, otherwise replaces the stored record.
// Images dropped by the update are deleted only after the update commits.
func (s *CatalogService[T, P]) Save(ctx context.Context, rec P) (P, error) {
	if n, ok := any(rec).(models.Normalizer); ok {
		if err := n.Normalize(); err != nil {
			return nil, err
		}
	}
	if v, ok := any(rec).(models.Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, err
		}
	}

	id := rec.GetID()
	if id == "" {
		if err := s.DB.WithContext(ctx).Create(rec).Error; err != nil {
			return nil, writeError("create "+s.Name, err)
		}
		s.invalidate(ctx)
		return rec, nil
	}

	var orphans []string
	err := inflight.Do(ctx, s.deps.Guard, s.Name+":"+id, func(ctx context.Context) error {
		existing, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		tr := media.NewTracker(s.deps.Placeholder)
		tr.Diff(existing.ImageURLs(), rec.ImageURLs())

		rec.Meta().CreatedAt = existing.Meta().CreatedAt
		if err := s.DB.WithContext(ctx).Save(rec).Error; err != nil {
			return writeError("update "+s.Name, err)
		}
		orphans = tr.Pending()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.deps.Cleaner.Cleanup(ctx, orphans)
	return rec, nil
}

// Delete removes the record, then queues all its non-placeholder images.
func (s *CatalogService[T, P]) Delete(ctx context.Context, id string) error {
	var orphans []string
	err := inflight.Do(ctx, s.deps.Guard, s.Name+":"+id, func(ctx context.Context) error {
		existing, err := s.Get(ctx, id)
		if err != nil {
			return err
		}

		res := s.DB.WithContext(ctx).Delete(P(new(T)), "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete %s %s: %w", s.Name, id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%s %s: %w", s.Name, id, ErrNotFound)
		}

		tr := media.NewTracker(s.deps.Placeholder)
		tr.Diff(existing.ImageURLs(), nil)
		orphans = tr.Pending()
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx)
	s.deps.Cleaner.Cleanup(ctx, orphans)
	return nil
}

func (s *CatalogService[T, P]) cachedList(ctx context.Context) ([]T, bool) {
	if s.deps.Cache == nil {
		return nil, false
	}
	raw, ok, err := s.deps.Cache.Get(ctx, s.Name)
	if err != nil {
		log.Printf("cache get %s: %v", s.Name, err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("cache decode %s: %v", s.Name, err)
		return nil, false
	}
	return out, true
}

func (s *CatalogService[T, P]) storeList(ctx context.Context, gen int64, list []T) {
	raw, err := json.Marshal(list)
	if err != nil {
		log.Printf("cache encode %s: %v", s.Name, err)
		return
	}
	if err := s.deps.Cache.Set(ctx, s.Name, gen, raw); err != nil {
		log.Printf("cache set %s: %v", s.Name, err)
	}
}

func (s *CatalogService[T, P]) invalidate(ctx context.Context) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.Invalidate(ctx, s.Name); err != nil {
		log.Printf("cache invalidate %s: %v", s.Name, err)
	}
}

// applyFilter adds a case-insensitive substring match over the model's searchable columns.
func applyFilter(q *gorm.DB, model any, filter string) *gorm.DB {
	sc, ok := model.(models.Searchable)
	if !ok {
		return q
	}
	cols := sc.SearchColumns()
	if len(cols) == 0 {
		return q
	}

	pattern := "%" + escapeLike(strings.ToLower(filter)) + "%"
	clauses := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		clauses = append(clauses, fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", col))
		args = append(args, pattern)
	}
	return q.Where(strings.Join(clauses, " OR "), args...)
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}
