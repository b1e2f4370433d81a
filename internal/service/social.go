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
	"github.com/papertrailapp/papertrail-server/internal/store"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
)

// SocialService manages the directed follow graph.
type SocialService struct {
	store      *sqlite.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(st *sqlite.Store, sseManager *sse.Manager, logger *slog.Logger) *SocialService {
	return &SocialService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
	}
}

// Follow creates a follow edge from follower to target and logs the followed
// post. Following a user you already follow is an idempotent success that
// logs nothing. Self-follows are rejected.
func (s *SocialService) Follow(ctx context.Context, followerID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	postID, err := id.Generate("post")
	if err != nil {
		return fmt.Errorf("generate post ID: %w", err)
	}

	now := time.Now()
	edge := &domain.FollowEdge{FollowerID: followerID, FollowingID: targetID, CreatedAt: now}
	post := domain.NewFollowedPost(postID, followerID, targetID, now)

	created, err := s.store.Follow(ctx, edge, post)
	if domainerrors.Is(err, store.ErrSelfFollow) {
		return domainerrors.InvalidOperation("cannot follow yourself")
	}
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	if !created {
		return nil
	}

	s.logger.Info("followed",
		"follower_id", followerID,
		"target_id", targetID,
	)
	s.sseManager.Emit(sse.NewPostCreatedEvent(post))

	return nil
}

// Unfollow removes the follow edge. Removing an edge that does not exist is
// an idempotent success. Past followed posts stay in the log.
func (s *SocialService) Unfollow(ctx context.Context, followerID, targetID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.Unfollow(ctx, followerID, targetID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}

	s.logger.Info("unfollowed",
		"follower_id", followerID,
		"target_id", targetID,
	)
	return nil
}

// IsFollowing reports whether follower follows target.
func (s *SocialService) IsFollowing(ctx context.Context, followerID, targetID string) (bool, error) {
	following, err := s.store.IsFollowing(ctx, followerID, targetID)
	if err != nil {
		return false, fmt.Errorf("is following: %w", err)
	}
	return following, nil
}

// Following returns the profiles the user follows.
func (s *SocialService) Following(ctx context.Context, userID string) ([]*domain.Profile, error) {
	ids, err := s.store.ListFollowing(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return s.resolveProfiles(ctx, ids)
}

// Followers returns the profiles following the user.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]*domain.Profile, error) {
	ids, err := s.store.ListFollowers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return s.resolveProfiles(ctx, ids)
}

// Counts returns follower and following counts for a profile page.
func (s *SocialService) Counts(ctx context.Context, userID string) (domain.FollowCounts, error) {
	counts, err := s.store.FollowCounts(ctx, userID)
	if err != nil {
		return domain.FollowCounts{}, fmt.Errorf("follow counts: %w", err)
	}
	return counts, nil
}

// resolveProfiles maps edge endpoints to profiles, preserving edge order.
func (s *SocialService) resolveProfiles(ctx context.Context, ids []string) ([]*domain.Profile, error) {
	byID, err := s.store.GetProfilesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve profiles: %w", err)
	}

	profiles := make([]*domain.Profile, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			profiles = append(profiles, p)
		}
	}
	return profiles, nil
}
