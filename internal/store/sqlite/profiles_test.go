package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

func TestCreateAndGetProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestProfile("user-1", "ada")
	p.DisplayName = "Ada Lovelace"
	p.Bio = "First programmer"

	if err := s.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Username != "ada" {
		t.Errorf("Username: got %q, want ada", got.Username)
	}
	if got.DisplayName != "Ada Lovelace" {
		t.Errorf("DisplayName: got %q, want Ada Lovelace", got.DisplayName)
	}
	if got.Bio != "First programmer" {
		t.Errorf("Bio: got %q, want First programmer", got.Bio)
	}
}

func TestCreateProfile_DuplicateID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateProfile(ctx, makeTestProfile("user-1", "ada")); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	err := s.CreateProfile(ctx, makeTestProfile("user-1", "other"))
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreateProfile_UsernameTaken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateProfile(ctx, makeTestProfile("user-1", "ada")); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	err := s.CreateProfile(ctx, makeTestProfile("user-2", "ada"))
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetProfile(context.Background(), "user-404")
	if !errors.Is(err, store.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGetProfileByUsername(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateProfile(ctx, makeTestProfile("user-1", "ada")); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	got, err := s.GetProfileByUsername(ctx, "ada")
	if err != nil {
		t.Fatalf("GetProfileByUsername: %v", err)
	}
	if got.ID != "user-1" {
		t.Errorf("ID: got %q, want user-1", got.ID)
	}

	_, err = s.GetProfileByUsername(ctx, "nobody")
	if !errors.Is(err, store.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestGetProfilesByIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	createTestUser(t, s, "user-2")

	got, err := s.GetProfilesByIDs(ctx, []string{"user-1", "user-2", "user-404"})
	if err != nil {
		t.Fatalf("GetProfilesByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(got))
	}
}

func TestUpdateProfile(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestProfile("user-1", "ada")
	if err := s.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	p.Username = "ada_l"
	p.DisplayName = "Ada"
	p.UpdatedAt = time.Now()
	if err := s.UpdateProfile(ctx, p); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	got, err := s.GetProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if got.Username != "ada_l" {
		t.Errorf("Username: got %q, want ada_l", got.Username)
	}
	if got.DisplayName != "Ada" {
		t.Errorf("DisplayName: got %q, want Ada", got.DisplayName)
	}
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateProfile(ctx, makeTestProfile("user-1", "ada")); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if err := s.CreateProfile(ctx, makeTestProfile("user-2", "grace")); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	p := makeTestProfile("user-2", "ada")
	err := s.UpdateProfile(ctx, p)
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUpdateProfile_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateProfile(context.Background(), makeTestProfile("user-404", "ghost"))
	if !errors.Is(err, store.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestDeleteProfile_CascadesEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	createTestUser(t, s, "user-1")
	createTestUser(t, s, "user-2")

	// user-1 adds a paper, follows user-2, and likes user-2's post.
	paper := makeTestPaper("W1", "Paper One")
	entry := &domain.LibraryEntry{UserID: "user-1", OpenAlexID: "W1", Status: domain.StatusToRead, InsertedAt: now}
	addPost := domain.NewAddedToLibraryPost("post-1", "user-1", "W1", now)
	if _, err := s.AddToLibrary(ctx, paper, entry, addPost); err != nil {
		t.Fatalf("AddToLibrary: %v", err)
	}

	edge := &domain.FollowEdge{FollowerID: "user-1", FollowingID: "user-2", CreatedAt: now}
	followPost := domain.NewFollowedPost("post-2", "user-1", "user-2", now)
	if _, err := s.Follow(ctx, edge, followPost); err != nil {
		t.Fatalf("Follow: %v", err)
	}

	joined := domain.NewUserJoinedPost("post-3", "user-2", now)
	if err := s.CreatePost(ctx, joined); err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if _, err := s.ToggleLike(ctx, "post-3", "user-1", now); err != nil {
		t.Fatalf("ToggleLike: %v", err)
	}

	if err := s.DeleteProfile(ctx, "user-1"); err != nil {
		t.Fatalf("DeleteProfile: %v", err)
	}

	// Library entries, posts, follow edges, and likes are gone.
	if _, err := s.GetLibraryEntry(ctx, "user-1", "W1"); !errors.Is(err, store.ErrEntryNotFound) {
		t.Errorf("expected entry to cascade, got %v", err)
	}
	posts, err := s.ListPostsByAuthor(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("expected posts to cascade, got %d", len(posts))
	}
	following, err := s.ListFollowing(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFollowing: %v", err)
	}
	if len(following) != 0 {
		t.Errorf("expected follows to cascade, got %v", following)
	}
	count, err := s.CountLikes(ctx, "post-3")
	if err != nil {
		t.Fatalf("CountLikes: %v", err)
	}
	if count != 0 {
		t.Errorf("expected likes to cascade, got %d", count)
	}

	// The shared catalog row stays.
	if _, err := s.GetPaper(ctx, "W1"); err != nil {
		t.Errorf("paper should survive user deletion, got %v", err)
	}
}

func TestSearchProfiles(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := makeTestProfile("user-1", "ada")
	p.DisplayName = "Ada Lovelace"
	if err := s.CreateProfile(ctx, p); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}
	if err := s.CreateProfile(ctx, makeTestProfile("user-2", "grace")); err != nil {
		t.Fatalf("CreateProfile: %v", err)
	}

	got, err := s.SearchProfiles(ctx, "lovelace", 10)
	if err != nil {
		t.Fatalf("SearchProfiles: %v", err)
	}
	if len(got) != 1 || got[0].ID != "user-1" {
		t.Errorf("expected [user-1], got %v", got)
	}
}
