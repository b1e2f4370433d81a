package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
)

// ReactionService manages post likes.
type ReactionService struct {
	store      *sqlite.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewReactionService creates a new reaction service.
func NewReactionService(st *sqlite.Store, sseManager *sse.Manager, logger *slog.Logger) *ReactionService {
	return &ReactionService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
	}
}

// ToggleLike flips the user's like on a post and returns the resulting state
// and total count. Liking your own post is allowed.
func (s *ReactionService) ToggleLike(ctx context.Context, postID, userID string) (liked bool, count int, err error) {
	if err := ctx.Err(); err != nil {
		return false, 0, err
	}

	liked, err = s.store.ToggleLike(ctx, postID, userID, time.Now())
	if err != nil {
		return false, 0, fmt.Errorf("toggle like: %w", err)
	}

	count, err = s.store.CountLikes(ctx, postID)
	if err != nil {
		return false, 0, fmt.Errorf("count likes: %w", err)
	}

	s.logger.Debug("like toggled",
		"post_id", postID,
		"user_id", userID,
		"liked", liked,
	)
	s.sseManager.Emit(sse.NewLikeToggledEvent(postID, userID, liked, count))

	return liked, count, nil
}
