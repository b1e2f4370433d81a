package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	domainerrors "github.com/papertrailapp/papertrail-server/internal/errors"
	"github.com/papertrailapp/papertrail-server/internal/id"
	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
)

// LibraryService orchestrates library mutations: every state change lands in
// the catalog, the entry table, and the activity log together. The store keeps
// the search index in step with catalog writes.
type LibraryService struct {
	store      *sqlite.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(st *sqlite.Store, sseManager *sse.Manager, logger *slog.Logger) *LibraryService {
	return &LibraryService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
	}
}

// AddToLibrary adds a paper to the user's library on the to-read shelf.
// Re-adding a paper the user already has is an idempotent success that
// refreshes the catalog metadata without touching the entry or the log.
func (s *LibraryService) AddToLibrary(ctx context.Context, userID string, paper *domain.Paper) (*domain.LibraryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !paper.Valid() {
		return nil, domainerrors.Validation("paper requires an OpenAlex ID and a title")
	}

	postID, err := id.Generate("post")
	if err != nil {
		return nil, fmt.Errorf("generate post ID: %w", err)
	}

	now := time.Now()
	entry := &domain.LibraryEntry{
		UserID:     userID,
		OpenAlexID: paper.OpenAlexID,
		Status:     domain.StatusToRead,
		InsertedAt: now,
	}
	post := domain.NewAddedToLibraryPost(postID, userID, paper.OpenAlexID, now)

	created, err := s.store.AddToLibrary(ctx, paper, entry, post)
	if err != nil {
		return nil, fmt.Errorf("add to library: %w", err)
	}

	if !created {
		// Idempotent re-add: report the existing entry.
		existing, err := s.store.GetLibraryEntry(ctx, userID, paper.OpenAlexID)
		if err != nil {
			return nil, fmt.Errorf("get existing entry: %w", err)
		}
		return existing, nil
	}

	s.logger.Info("paper added to library",
		"user_id", userID,
		"openalex_id", paper.OpenAlexID,
	)

	s.sseManager.Emit(sse.NewPostCreatedEvent(post))
	s.sseManager.Emit(sse.NewLibraryUpdatedEvent(userID, paper.OpenAlexID, domain.StatusToRead, false))

	return entry, nil
}

// SetStatus moves a library entry to the given status and logs the change.
// The post is written even when the status does not actually change, so the
// feed mirrors what the user did rather than what differed.
func (s *LibraryService) SetStatus(ctx context.Context, userID, openalexID string, status domain.ReadingStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !status.Valid() {
		return domainerrors.Validation(fmt.Sprintf("unknown reading status %q", status))
	}

	postID, err := id.Generate("post")
	if err != nil {
		return fmt.Errorf("generate post ID: %w", err)
	}

	post := domain.NewStatusChangedPost(postID, userID, openalexID, status, time.Now())

	if err := s.store.SetStatus(ctx, userID, openalexID, status, post); err != nil {
		return fmt.Errorf("set status: %w", err)
	}

	s.logger.Info("reading status changed",
		"user_id", userID,
		"openalex_id", openalexID,
		"status", string(status),
	)

	s.sseManager.Emit(sse.NewPostCreatedEvent(post))
	s.sseManager.Emit(sse.NewLibraryUpdatedEvent(userID, openalexID, status, false))

	return nil
}

// RemoveFromLibrary drops a paper from the user's library. The catalog row
// and the user's past posts about the paper stay behind.
func (s *LibraryService) RemoveFromLibrary(ctx context.Context, userID, openalexID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.RemoveFromLibrary(ctx, userID, openalexID); err != nil {
		return fmt.Errorf("remove from library: %w", err)
	}

	s.logger.Info("paper removed from library",
		"user_id", userID,
		"openalex_id", openalexID,
	)

	s.sseManager.Emit(sse.NewLibraryUpdatedEvent(userID, openalexID, "", true))

	return nil
}

// ListLibrary returns the user's library joined with paper metadata.
// An empty status returns every shelf.
func (s *LibraryService) ListLibrary(ctx context.Context, userID string, status domain.ReadingStatus) ([]*domain.LibraryItem, error) {
	if status != "" && !status.Valid() {
		return nil, domainerrors.Validation(fmt.Sprintf("unknown reading status %q", status))
	}

	items, err := s.store.ListLibrary(ctx, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list library: %w", err)
	}
	return items, nil
}

// GetEntry returns a single library entry.
func (s *LibraryService) GetEntry(ctx context.Context, userID, openalexID string) (*domain.LibraryEntry, error) {
	entry, err := s.store.GetLibraryEntry(ctx, userID, openalexID)
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// Snapshot returns per-shelf counts for the user's dashboard.
func (s *LibraryService) Snapshot(ctx context.Context, userID string) (domain.LibrarySnapshot, error) {
	snap, err := s.store.LibrarySnapshot(ctx, userID)
	if err != nil {
		return domain.LibrarySnapshot{}, fmt.Errorf("library snapshot: %w", err)
	}
	return snap, nil
}

// ReadingByQuarter buckets the user's finished papers into calendar
// quarters, oldest first. Quarters with no reads are omitted.
func (s *LibraryService) ReadingByQuarter(ctx context.Context, userID string) ([]domain.QuarterCount, error) {
	stamps, err := s.store.ReadTimestamps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read timestamps: %w", err)
	}

	var out []domain.QuarterCount
	for _, ts := range stamps {
		label := quarterLabel(ts)
		if n := len(out); n > 0 && out[n-1].Quarter == label {
			out[n-1].Count++
			continue
		}
		out = append(out, domain.QuarterCount{Quarter: label, Count: 1})
	}
	return out, nil
}

// quarterLabel formats a timestamp as "Q1 2026".
func quarterLabel(t time.Time) string {
	t = t.UTC()
	quarter := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("Q%d %d", quarter, t.Year())
}
