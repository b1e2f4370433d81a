package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// makeTestProfile creates a domain.Profile with sensible defaults for testing.
func makeTestProfile(id, username string) *domain.Profile {
	now := time.Now()
	return &domain.Profile{
		ID:        id,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// createTestUser inserts a profile row that can serve as an FK target.
func createTestUser(t *testing.T, s *Store, id string) {
	t.Helper()
	if err := s.CreateProfile(context.Background(), makeTestProfile(id, id)); err != nil {
		t.Fatalf("createTestUser(%s): %v", id, err)
	}
}

// makeTestPaper creates a domain.Paper with sensible defaults for testing.
func makeTestPaper(openalexID, title string) *domain.Paper {
	return &domain.Paper{
		OpenAlexID: openalexID,
		Title:      title,
		Authors:    []string{"Ada Lovelace"},
		Year:       2017,
		URL:        "https://openalex.org/" + openalexID,
		Source:     domain.DefaultPaperSource,
		UpdatedAt:  time.Now(),
	}
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	// Verify WAL mode is set.
	var journalMode string
	err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	if err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	// Verify foreign keys are enabled.
	var fk int
	err = s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk)
	if err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	// Verify tables exist.
	tables := []string{"profiles", "papers", "user_papers", "follows", "posts", "post_likes"}
	for _, table := range tables {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open should work (schema is idempotent).
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("re-open store: %v", err)
	}
	defer s2.Close()
}

// recordingEmitter captures emitted events for inspection.
type recordingEmitter struct {
	events []any
}

func (r *recordingEmitter) Emit(event any) { r.events = append(r.events, event) }

// recordingIndexer captures the IDs of indexed papers.
type recordingIndexer struct {
	indexed []string
}

func (r *recordingIndexer) IndexPaper(_ context.Context, p *domain.Paper) error {
	r.indexed = append(r.indexed, p.OpenAlexID)
	return nil
}

func (r *recordingIndexer) DeletePaper(_ context.Context, _ string) error { return nil }

func TestDeleteProfile_EmitsDeletionEvent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &recordingEmitter{}
	s.SetEventEmitter(rec)

	createTestUser(t, s, "user-1")
	if err := s.DeleteProfile(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	if len(rec.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(rec.events))
	}
	ev, ok := rec.events[0].(sse.Event)
	if !ok {
		t.Fatalf("expected sse.Event, got %T", rec.events[0])
	}
	if ev.Type != sse.EventProfileDeleted {
		t.Errorf("Type: got %q, want %q", ev.Type, sse.EventProfileDeleted)
	}
	data, ok := ev.Data.(sse.ProfileDeletedEventData)
	if !ok || data.UserID != "user-1" {
		t.Errorf("Data: got %#v, want user-1 deletion payload", ev.Data)
	}
}

func TestDeleteProfile_MissingUserEmitsNothing(t *testing.T) {
	s := newTestStore(t)

	rec := &recordingEmitter{}
	s.SetEventEmitter(rec)

	err := s.DeleteProfile(context.Background(), "user-404")
	if !errors.Is(err, store.ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("expected no events, got %d", len(rec.events))
	}
}

func TestUpsertPaper_UpdatesSearchIndex(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &recordingIndexer{}
	s.SetSearchIndexer(rec)

	if err := s.UpsertPaper(ctx, makeTestPaper("W1", "Attention Is All You Need")); err != nil {
		t.Fatalf("UpsertPaper: %v", err)
	}
	if len(rec.indexed) != 1 || rec.indexed[0] != "W1" {
		t.Fatalf("indexed: got %v, want [W1]", rec.indexed)
	}

	// A rejected write never reaches the index.
	err := s.UpsertPaper(ctx, &domain.Paper{OpenAlexID: "W2"})
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(rec.indexed) != 1 {
		t.Errorf("indexed after invalid write: got %v, want [W1]", rec.indexed)
	}
}

func TestAddToLibrary_IndexesOnEveryCommittedWrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := &recordingIndexer{}
	s.SetSearchIndexer(rec)

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusToRead)

	// An idempotent re-add still refreshes the metadata, so it reindexes.
	now := time.Now()
	paper := makeTestPaper("W1", "Updated Title")
	entry := &domain.LibraryEntry{UserID: "user-1", OpenAlexID: "W1", Status: domain.StatusToRead, InsertedAt: now}
	post := domain.NewAddedToLibraryPost("post-2", "user-1", "W1", now)
	created, err := s.AddToLibrary(ctx, paper, entry, post)
	if err != nil {
		t.Fatalf("AddToLibrary: %v", err)
	}
	if created {
		t.Fatal("expected idempotent re-add")
	}

	if len(rec.indexed) != 2 {
		t.Fatalf("indexed: got %v, want two W1 writes", rec.indexed)
	}
}
