package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

// followUsers creates a follow edge with a fresh post.
func followUsers(t *testing.T, s *Store, postID, followerID, followingID string) bool {
	t.Helper()
	now := time.Now()
	edge := &domain.FollowEdge{FollowerID: followerID, FollowingID: followingID, CreatedAt: now}
	post := domain.NewFollowedPost(postID, followerID, followingID, now)
	created, err := s.Follow(context.Background(), edge, post)
	if err != nil {
		t.Fatalf("Follow(%s -> %s): %v", followerID, followingID, err)
	}
	return created
}

func TestFollow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	createTestUser(t, s, "user-2")

	created := followUsers(t, s, "post-1", "user-1", "user-2")
	if !created {
		t.Error("expected new edge")
	}

	following, err := s.IsFollowing(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if !following {
		t.Error("expected user-1 to follow user-2")
	}

	// The edge is directed.
	reverse, err := s.IsFollowing(ctx, "user-2", "user-1")
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if reverse {
		t.Error("follow must not imply the reverse edge")
	}

	// The post landed in the log.
	posts, err := s.ListPostsByAuthor(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 1 || posts[0].TargetUserID != "user-2" {
		t.Errorf("expected one followed post targeting user-2, got %v", posts)
	}
}

func TestFollow_RefollowIsIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	createTestUser(t, s, "user-2")

	followUsers(t, s, "post-1", "user-1", "user-2")
	created := followUsers(t, s, "post-2", "user-1", "user-2")
	if created {
		t.Error("expected idempotent re-follow, got created=true")
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

func TestFollow_SelfRejected(t *testing.T) {
	s := newTestStore(t)

	createTestUser(t, s, "user-1")

	now := time.Now()
	edge := &domain.FollowEdge{FollowerID: "user-1", FollowingID: "user-1", CreatedAt: now}
	post := domain.NewFollowedPost("post-1", "user-1", "user-1", now)

	_, err := s.Follow(context.Background(), edge, post)
	if !errors.Is(err, store.ErrSelfFollow) {
		t.Errorf("expected ErrSelfFollow, got %v", err)
	}
}

func TestUnfollow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	createTestUser(t, s, "user-2")
	followUsers(t, s, "post-1", "user-1", "user-2")

	if err := s.Unfollow(ctx, "user-1", "user-2"); err != nil {
		t.Fatalf("Unfollow: %v", err)
	}

	following, err := s.IsFollowing(ctx, "user-1", "user-2")
	if err != nil {
		t.Fatalf("IsFollowing: %v", err)
	}
	if following {
		t.Error("expected edge removed")
	}

	// The followed post stays in the log.
	posts, err := s.ListPostsByAuthor(ctx, "user-1", 10)
	if err != nil {
		t.Fatalf("ListPostsByAuthor: %v", err)
	}
	if len(posts) != 1 {
		t.Errorf("followed post should survive unfollow, got %d posts", len(posts))
	}

	// Unfollowing again is a no-op.
	if err := s.Unfollow(ctx, "user-1", "user-2"); err != nil {
		t.Errorf("Unfollow (absent edge): %v", err)
	}
}

func TestListFollowingAndFollowers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	createTestUser(t, s, "user-1")
	createTestUser(t, s, "user-2")
	createTestUser(t, s, "user-3")

	followUsers(t, s, "post-1", "user-1", "user-2")
	followUsers(t, s, "post-2", "user-1", "user-3")
	followUsers(t, s, "post-3", "user-3", "user-2")

	following, err := s.ListFollowing(ctx, "user-1")
	if err != nil {
		t.Fatalf("ListFollowing: %v", err)
	}
	if len(following) != 2 {
		t.Fatalf("expected 2 followees, got %v", following)
	}

	followers, err := s.ListFollowers(ctx, "user-2")
	if err != nil {
		t.Fatalf("ListFollowers: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("expected 2 followers, got %v", followers)
	}

	counts, err := s.FollowCounts(ctx, "user-2")
	if err != nil {
		t.Fatalf("FollowCounts: %v", err)
	}
	if counts.Followers != 2 || counts.Following != 0 {
		t.Errorf("counts: got %+v, want {2 0}", counts)
	}
}
