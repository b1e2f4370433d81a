package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papertrailapp/papertrail-server/internal/config"
	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
)

// FeedService assembles activity feeds: raw posts are fetched in one query,
// then profiles, papers, and like state are resolved in three batch lookups
// regardless of page size.
type FeedService struct {
	store    *sqlite.Store
	logger   *slog.Logger
	pageSize int
}

// NewFeedService creates a new feed service.
func NewFeedService(st *sqlite.Store, cfg *config.Config, logger *slog.Logger) *FeedService {
	pageSize := 100
	if cfg != nil && cfg.Feed.PageSize > 0 {
		pageSize = cfg.Feed.PageSize
	}
	return &FeedService{
		store:    st,
		logger:   logger,
		pageSize: pageSize,
	}
}

// Feed returns the viewer's home feed: the newest posts by everyone they
// follow plus their own, denormalized for display.
func (s *FeedService) Feed(ctx context.Context, viewerID string) ([]*domain.FeedItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	following, err := s.store.ListFollowing(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	authors := append(following, viewerID)

	posts, err := s.store.ListPostsByAuthors(ctx, authors, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	return s.assemble(ctx, viewerID, posts)
}

// UserActivity returns the posts a single user authored, for their profile
// page, denormalized the same way as the home feed.
func (s *FeedService) UserActivity(ctx context.Context, viewerID, userID string) ([]*domain.FeedItem, error) {
	posts, err := s.store.ListPostsByAuthor(ctx, userID, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return s.assemble(ctx, viewerID, posts)
}

// PersonalActivity returns the viewer's own posts plus followed posts where
// the viewer is the target, so "X followed you" shows up in their history.
func (s *FeedService) PersonalActivity(ctx context.Context, viewerID string) ([]*domain.FeedItem, error) {
	posts, err := s.store.ListPersonalActivity(ctx, viewerID, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("list personal activity: %w", err)
	}
	return s.assemble(ctx, viewerID, posts)
}

// assemble resolves profiles, papers, and likes for a page of posts.
func (s *FeedService) assemble(ctx context.Context, viewerID string, posts []*domain.Post) ([]*domain.FeedItem, error) {
	if len(posts) == 0 {
		return []*domain.FeedItem{}, nil
	}

	userIDs := make(map[string]struct{})
	paperIDs := make(map[string]struct{})
	postIDs := make([]string, 0, len(posts))

	for _, p := range posts {
		userIDs[p.UserID] = struct{}{}
		if p.TargetUserID != "" {
			userIDs[p.TargetUserID] = struct{}{}
		}
		if p.OpenAlexID != "" {
			paperIDs[p.OpenAlexID] = struct{}{}
		}
		postIDs = append(postIDs, p.ID)
	}

	profiles, err := s.store.GetProfilesByIDs(ctx, keys(userIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve profiles: %w", err)
	}
	papers, err := s.store.GetPapersByIDs(ctx, keys(paperIDs))
	if err != nil {
		return nil, fmt.Errorf("resolve papers: %w", err)
	}
	likes, err := s.store.LikeSummaries(ctx, postIDs, viewerID)
	if err != nil {
		return nil, fmt.Errorf("resolve likes: %w", err)
	}

	items := make([]*domain.FeedItem, 0, len(posts))
	for _, p := range posts {
		item := &domain.FeedItem{
			Post:  p,
			Actor: profiles[p.UserID],
			Likes: likes[p.ID],
		}
		if p.OpenAlexID != "" {
			if paper, ok := papers[p.OpenAlexID]; ok {
				item.Paper = paper
			} else {
				// Catalog row vanished; keep the post renderable.
				s.logger.Warn("paper missing for post",
					"post_id", p.ID,
					"openalex_id", p.OpenAlexID,
				)
			}
		}
		if p.TargetUserID != "" {
			item.Target = profiles[p.TargetUserID]
		}
		item.Phrase = phrase(p, item.Target)
		items = append(items, item)
	}
	return items, nil
}

// phrase renders the verb fragment shown between the actor's name and the
// subject of the post.
func phrase(p *domain.Post, target *domain.Profile) string {
	switch p.Type {
	case domain.PostUserJoined:
		return "joined PaperTrail"
	case domain.PostAddedToLibrary:
		return "added to library"
	case domain.PostAddedToShelf:
		return "added to " + p.Status.Label()
	case domain.PostStatusChanged:
		return "marked as " + p.Status.Label()
	case domain.PostFollowed:
		label := target.DisplayLabel()
		if label == "" {
			label = p.TargetUserID
		}
		return "followed " + label
	default:
		return string(p.Type)
	}
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
