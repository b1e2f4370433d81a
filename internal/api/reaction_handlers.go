package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerReactionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "toggleLike",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts/{postID}/like",
		Summary:     "Toggle a like",
		Description: "Likes the post if not yet liked by the caller, otherwise removes the like",
		Tags:        []string{"Reactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleToggleLike)
}

// === DTOs ===

// PostPathInput selects a post by ID.
type PostPathInput struct {
	PostID string `path:"postID" doc:"Post ID"`
}

// ToggleLikeOutput reports the like state after the toggle.
type ToggleLikeOutput struct {
	Body struct {
		Liked     bool `json:"liked" doc:"Whether the caller now likes the post"`
		LikeCount int  `json:"like_count" doc:"Total likes on the post"`
	}
}

// === Handlers ===

func (s *Server) handleToggleLike(ctx context.Context, input *PostPathInput) (*ToggleLikeOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	liked, count, err := s.services.Reaction.ToggleLike(ctx, input.PostID, userID)
	if err != nil {
		return nil, err
	}

	out := &ToggleLikeOutput{}
	out.Body.Liked = liked
	out.Body.LikeCount = count
	return out, nil
}
