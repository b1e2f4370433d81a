package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
)

// setupTestStore opens a throwaway store plus the shared SSE manager used by
// every service under test. The manager is never started; emitted events just
// sit in its buffer.
func setupTestStore(t *testing.T) (*sqlite.Store, *sse.Manager, *slog.Logger) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	return st, sse.NewManager(logger), logger
}

// createServiceTestUser inserts a bare profile row to satisfy foreign keys.
func createServiceTestUser(t *testing.T, st *sqlite.Store, id string) {
	t.Helper()
	now := time.Now()
	err := st.CreateProfile(context.Background(), &domain.Profile{
		ID:        id,
		Username:  id,
		CreatedAt: now,
		UpdatedAt: now,
	})
	require.NoError(t, err)
}

// makeServiceTestPaper builds a paper ready for AddToLibrary.
func makeServiceTestPaper(openalexID, title string) *domain.Paper {
	return &domain.Paper{
		OpenAlexID: openalexID,
		Title:      title,
		Authors:    []string{"Test Author"},
		Year:       2020,
		Source:     domain.DefaultPaperSource,
	}
}
