package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/abdur28/boarding-sky-sub000/config"
	"github.com/abdur28/boarding-sky-sub000/notify"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type recordingStore struct {
	mu      sync.Mutex
	calls   int
	deleted []string
	err     error
}

func (s *recordingStore) Save(_ context.Context, _ string, folder string) (string, error) {
	return "/uploads/" + folder + "/new.png", nil
}

func (s *recordingStore) Delete(_ context.Context, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.deleted = append(s.deleted, urls...)
	return s.err
}

type recordingNotifier struct {
	events []notify.BookingStatusChanged
	err    error
}

func (n *recordingNotifier) BookingStatusChanged(_ context.Context, ev notify.BookingStatusChanged) error {
	n.events = append(n.events, ev)
	return n.err
}

var errBoom = errors.New("boom")
