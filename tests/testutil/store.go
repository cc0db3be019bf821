package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nhle/taskmaker/internal/store"
)

// NewTestStore creates an initialised in-memory SQLiteStore whose logs are
// discarded. It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s := store.NewSQLiteStore(":memory:", DiscardLogger())
	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// Date returns a UTC time on the given day at midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
