package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

// addTestEntry adds a paper to a user's library with a fresh post.
func addTestEntry(t *testing.T, s *Store, userID, openalexID, postID string, status domain.ReadingStatus) {
	t.Helper()
	now := time.Now()
	paper := makeTestPaper(openalexID, "Paper "+openalexID)
	entry := &domain.LibraryEntry{UserID: userID, OpenAlexID: openalexID, Status: status, InsertedAt: now}
	post := domain.NewAddedToLibraryPost(postID, userID, openalexID, now)
	created, err := s.AddToLibrary(context.Background(), paper, entry, post)
	if err != nil {
		t.Fatalf("AddToLibrary(%s, %s): %v", userID, openalexID, err)
	}
	if !created {
		t.Fatalf("AddToLibrary(%s, %s): expected new entry", userID, openalexID)
	}
}

func TestAddToLibrary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusToRead)

	entry, err := s.GetLibraryEntry(ctx, "user-1", "W1")
	if err != nil {
		t.Fatalf("GetLibraryEntry: %v", err)
	}
	if entry.Status != domain.StatusToRead {
		t.Errorf("Status: got %q, want to_read", entry.Status)
	}

	// Paper landed in the catalog.
	if _, err := s.GetPaper(ctx, "W1"); err != nil {
		t.Fatalf("GetPaper: %v", err)
	}

	// Post landed in the log.
	posts, err := s.ListPostsByAuthor(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 1 || posts[0].Type != domain.PostAddedToLibrary {
		t.Fatalf("expected one added_to_library post, got %v", posts)
	}
}

func TestAddToLibrary_DuplicateIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusReading)

	// Re-add with a different status and refreshed metadata.
	paper := makeTestPaper("W1", "Updated Title")
	entry := &domain.LibraryEntry{UserID: "user-1", OpenAlexID: "W1", Status: domain.StatusToRead, InsertedAt: now}
	post := domain.NewAddedToLibraryPost("post-2", "user-1", "W1", now)

	created, err := s.AddToLibrary(ctx, paper, entry, post)
	if err != nil {
		t.Fatalf("AddToLibrary (second): %v", err)
	}
	if created {
		t.Error("expected idempotent re-add, got created=true")
	}

	// Existing status is untouched.
	got, err := s.GetLibraryEntry(ctx, "user-1", "W1")
	if err != nil {
		t.Fatalf("GetLibraryEntry: %v", err)
	}
	if got.Status != domain.StatusReading {
		t.Errorf("Status: got %q, want reading", got.Status)
	}

	// Metadata still refreshed.
	p, err := s.GetPaper(ctx, "W1")
	if err != nil {
		t.Fatalf("GetPaper: %v", err)
	}
	if p.Title != "Updated Title" {
		t.Errorf("Title: got %q, want Updated Title", p.Title)
	}

	// No second post.
	posts, err := s.ListPostsByAuthor(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("expected 1 post, got %d", len(posts))
	}
}

func TestSetStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusToRead)

	post := domain.NewStatusChangedPost("post-2", "user-1", "W1", domain.StatusRead, time.Now())
	if err := s.SetStatus(ctx, "user-1", "W1", domain.StatusRead, post); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	entry, err := s.GetLibraryEntry(ctx, "user-1", "W1")
	if err != nil {
		t.Fatalf("GetLibraryEntry: %v", err)
	}
	if entry.Status != domain.StatusRead {
		t.Errorf("Status: got %q, want read", entry.Status)
	}

	posts, err := s.ListPostsByAuthor(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}
}

func TestSetStatus_SameStatusStillPosts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusReading)

	post := domain.NewStatusChangedPost("post-2", "user-1", "W1", domain.StatusReading, time.Now())
	if err := s.SetStatus(ctx, "user-1", "W1", domain.StatusReading, post); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	posts, err := s.ListPostsByAuthor(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("expected status post even when status is unchanged, got %d posts", len(posts))
	}
}

func TestSetStatus_EntryNotFound(t *testing.T) {
	s := newTestStore(t)

	createTestUser(t, s, "user-1")

	post := domain.NewStatusChangedPost("post-1", "user-1", "W404", domain.StatusRead, time.Now())
	err := s.SetStatus(context.Background(), "user-1", "W404", domain.StatusRead, post)
	if !errors.Is(err, store.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestRemoveFromLibrary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusToRead)

	if err := s.RemoveFromLibrary(ctx, "user-1", "W1"); err != nil {
		t.Fatalf("RemoveFromLibrary: %v", err)
	}

	if _, err := s.GetLibraryEntry(ctx, "user-1", "W1"); !errors.Is(err, store.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound, got %v", err)
	}

	// Catalog row and log survive removal.
	if _, err := s.GetPaper(ctx, "W1"); err != nil {
		t.Errorf("paper should survive removal, got %v", err)
	}
	posts, err := s.ListPostsByAuthor(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("posts should survive removal, got %d", len(posts))
	}

	// Removing again misses.
	if err := s.RemoveFromLibrary(ctx, "user-1", "W1"); !errors.Is(err, store.ErrEntryNotFound) {
		t.Errorf("expected ErrEntryNotFound on re-remove, got %v", err)
	}
}

func TestListLibrary(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusToRead)
	addTestEntry(t, s, "user-1", "W2", "post-2", domain.StatusReading)
	addTestEntry(t, s, "user-1", "W3", "post-3", domain.StatusRead)

	all, err := s.ListLibrary(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ListLibrary: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 items, got %d", len(all))
	}
	for _, item := range all {
		if item.Paper == nil {
			t.Errorf("item %s missing paper metadata", item.Entry.OpenAlexID)
		}
	}

	reading, err := s.ListLibrary(ctx, "user-1", domain.StatusReading)
	if err != nil {
		t.Fatalf("ListLibrary(reading): %v", err)
	}
	if len(reading) != 1 || reading[0].Entry.OpenAlexID != "W2" {
		t.Errorf("expected [W2], got %v", reading)
	}
}

func TestLibrarySnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusToRead)
	addTestEntry(t, s, "user-1", "W2", "post-2", domain.StatusToRead)
	addTestEntry(t, s, "user-1", "W3", "post-3", domain.StatusRead)

	snap, err := s.LibrarySnapshot(ctx, "user-1")
	if err != nil {
		t.Fatalf("LibrarySnapshot: %v", err)
	}
	if snap.ToRead != 2 || snap.Reading != 0 || snap.Read != 1 {
		t.Errorf("snapshot: got %+v, want {2 0 1}", snap)
	}
	if snap.Total() != 3 {
		t.Errorf("Total: got %d, want 3", snap.Total())
	}
}

func TestReadTimestamps(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	addTestEntry(t, s, "user-1", "W1", "post-1", domain.StatusToRead)

	post := domain.NewStatusChangedPost("post-2", "user-1", "W1", domain.StatusRead, time.Now())
	if err := s.SetStatus(ctx, "user-1", "W1", domain.StatusRead, post); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	stamps, err := s.ReadTimestamps(ctx, "user-1")
	if err != nil {
		t.Fatalf("ReadTimestamps: %v", err)
	}
	if len(stamps) != 1 {
		t.Errorf("expected 1 timestamp, got %d", len(stamps))
	}
}
