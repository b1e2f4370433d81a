package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/social/follow/{userID}",
		Summary:     "Follow a user",
		Description: "Creates a follow edge and records one followed post. Re-following is idempotent.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodDelete,
		Path:        "/api/v1/social/follow/{userID}",
		Summary:     "Unfollow a user",
		Description: "Removes the follow edge. The original followed post stays in the log.",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userID}/followers",
		Summary:     "List a user's followers",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userID}/following",
		Summary:     "List who a user follows",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFollowing)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFollowCounts",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{userID}/counts",
		Summary:     "Get follower and following counts",
		Tags:        []string{"Social"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetFollowCounts)
}

// === DTOs ===

// UserPathInput selects a user by ID.
type UserPathInput struct {
	UserID string `path:"userID" doc:"User ID"`
}

// FollowOutput reports the follow state after a follow or unfollow.
type FollowOutput struct {
	Body struct {
		Following bool `json:"following" doc:"Whether the caller now follows the user"`
	}
}

// FollowCountsOutput wraps follower/following counts for Huma.
type FollowCountsOutput struct {
	Body struct {
		Followers   int  `json:"followers" doc:"Number of followers"`
		Following   int  `json:"following" doc:"Number of users followed"`
		IsFollowing bool `json:"is_following" doc:"Whether the caller follows this user"`
	}
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *UserPathInput) (*FollowOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Follow(ctx, userID, input.UserID); err != nil {
		return nil, err
	}

	out := &FollowOutput{}
	out.Body.Following = true
	return out, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *UserPathInput) (*FollowOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, userID, input.UserID); err != nil {
		return nil, err
	}

	out := &FollowOutput{}
	out.Body.Following = false
	return out, nil
}

func (s *Server) handleGetFollowers(ctx context.Context, input *UserPathInput) (*ProfileListOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	profiles, err := s.services.Social.Followers(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	out := &ProfileListOutput{}
	out.Body.Profiles = make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		out.Body.Profiles[i] = toProfileResponse(p)
	}
	return out, nil
}

func (s *Server) handleGetFollowing(ctx context.Context, input *UserPathInput) (*ProfileListOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	profiles, err := s.services.Social.Following(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	out := &ProfileListOutput{}
	out.Body.Profiles = make([]ProfileResponse, len(profiles))
	for i, p := range profiles {
		out.Body.Profiles[i] = toProfileResponse(p)
	}
	return out, nil
}

func (s *Server) handleGetFollowCounts(ctx context.Context, input *UserPathInput) (*FollowCountsOutput, error) {
	viewerID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.services.Social.Counts(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	isFollowing := false
	if viewerID != input.UserID {
		isFollowing, err = s.services.Social.IsFollowing(ctx, viewerID, input.UserID)
		if err != nil {
			return nil, err
		}
	}

	out := &FollowCountsOutput{}
	out.Body.Followers = counts.Followers
	out.Body.Following = counts.Following
	out.Body.IsFollowing = isFollowing
	return out, nil
}
