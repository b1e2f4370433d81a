package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/papertrailapp/papertrail-server/internal/domain"
)

func (s *Server) registerFeedRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/feed",
		Summary:     "Get activity feed",
		Description: "Returns recent posts from the caller and everyone they follow, newest first",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserActivity",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userID}/activity",
		Summary:     "Get a user's activity",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUserActivity)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPersonalActivity",
		Method:      http.MethodGet,
		Path:        "/api/v1/activity",
		Summary:     "Get personal activity",
		Description: "Returns the caller's own posts plus followed posts targeting the caller",
		Tags:        []string{"Feed"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetPersonalActivity)
}

// === DTOs ===

// FeedItemResponse is one rendered feed entry.
type FeedItemResponse struct {
	PostID     string           `json:"post_id" doc:"Post ID"`
	Type       string           `json:"type" doc:"Post kind"`
	CreatedAt  time.Time        `json:"created_at" doc:"When the activity happened"`
	Phrase     string           `json:"phrase" doc:"Rendered activity phrase"`
	ActorID    string           `json:"actor_id" doc:"Acting user ID"`
	ActorLabel string           `json:"actor_label,omitempty" doc:"Display name of the actor"`
	Actor      *ProfileResponse `json:"actor,omitempty" doc:"Acting user's profile"`
	Paper      *PaperResponse   `json:"paper,omitempty" doc:"Referenced paper, if any"`
	Target     *ProfileResponse `json:"target,omitempty" doc:"Followed user, for followed posts"`
	Status     string           `json:"status,omitempty" doc:"New shelf, for status changes"`
	LikeCount  int              `json:"like_count" doc:"Total likes on the post"`
	Liked      bool             `json:"liked" doc:"Whether the caller liked the post"`
}

// FeedOutput wraps a feed page for Huma.
type FeedOutput struct {
	Body struct {
		Items []FeedItemResponse `json:"items" doc:"Feed entries, newest first"`
		Total int                `json:"total" doc:"Number of entries returned"`
	}
}

func toFeedItemResponse(item *domain.FeedItem) FeedItemResponse {
	resp := FeedItemResponse{
		PostID:    item.Post.ID,
		Type:      string(item.Post.Type),
		CreatedAt: item.Post.CreatedAt,
		Phrase:    item.Phrase,
		ActorID:   item.Post.UserID,
		Status:    string(item.Post.Status),
		LikeCount: item.Likes.Count,
		Liked:     item.Likes.Mine,
		Paper:     toPaperResponse(item.Paper),
	}
	if item.Actor != nil {
		actor := toProfileResponse(item.Actor)
		resp.Actor = &actor
		resp.ActorLabel = item.Actor.DisplayLabel()
	}
	if item.Target != nil {
		target := toProfileResponse(item.Target)
		resp.Target = &target
	}
	return resp
}

func feedOutput(items []*domain.FeedItem) *FeedOutput {
	out := &FeedOutput{}
	out.Body.Items = make([]FeedItemResponse, len(items))
	for i, item := range items {
		out.Body.Items[i] = toFeedItemResponse(item)
	}
	out.Body.Total = len(items)
	return out
}

// === Handlers ===

func (s *Server) handleGetFeed(ctx context.Context, _ *struct{}) (*FeedOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Feed.Feed(ctx, userID)
	if err != nil {
		return nil, err
	}

	return feedOutput(items), nil
}

func (s *Server) handleGetUserActivity(ctx context.Context, input *UserPathInput) (*FeedOutput, error) {
	viewerID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Feed.UserActivity(ctx, viewerID, input.UserID)
	if err != nil {
		return nil, err
	}

	return feedOutput(items), nil
}

func (s *Server) handleGetPersonalActivity(ctx context.Context, _ *struct{}) (*FeedOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Feed.PersonalActivity(ctx, userID)
	if err != nil {
		return nil, err
	}

	return feedOutput(items), nil
}
