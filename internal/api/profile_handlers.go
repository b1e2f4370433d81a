package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "joinProfile",
		Method:      http.MethodPost,
		Path:        "/api/v1/profiles/join",
		Summary:     "Join PaperTrail",
		Description: "Creates the caller's profile and records the joined activity. Idempotent.",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleJoinProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/me",
		Summary:     "Get own profile",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateCurrentProfile",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profiles/me",
		Summary:     "Update own profile",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateCurrentProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteCurrentProfile",
		Method:      http.MethodDelete,
		Path:        "/api/v1/profiles/me",
		Summary:     "Delete own account",
		Description: "Removes the profile and all library entries, posts, follows, and likes",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteCurrentProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchProfiles",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/search",
		Summary:     "Search profiles",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchProfiles)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfileByUsername",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{username}",
		Summary:     "Get profile by username",
		Tags:        []string{"Profiles"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetProfileByUsername)
}

// === DTOs ===

// JoinProfileInput contains the onboarding request.
type JoinProfileInput struct {
	Body struct {
		Username    string `json:"username" doc:"Desired username, lowercased on save" validate:"required,min=3,max=30"`
		DisplayName string `json:"display_name,omitempty" doc:"Optional display name" validate:"max=80"`
	}
}

// UpdateProfileInput contains editable profile fields. Absent fields are
// left untouched.
type UpdateProfileInput struct {
	Body struct {
		Username    *string `json:"username,omitempty" doc:"New username" validate:"omitempty,min=3,max=30"`
		DisplayName *string `json:"display_name,omitempty" doc:"New display name" validate:"omitempty,max=80"`
		Bio         *string `json:"bio,omitempty" doc:"New bio" validate:"omitempty,max=500"`
		AvatarURL   *string `json:"avatar_url,omitempty" doc:"New avatar URL" validate:"omitempty,url,max=500"`
	}
}

// GetProfileByUsernameInput selects a profile by username.
type GetProfileByUsernameInput struct {
	Username string `path:"username" doc:"Profile username"`
}

// SearchProfilesInput contains profile search parameters.
type SearchProfilesInput struct {
	Query string `query:"q" doc:"Search term matched against username and display name"`
	Limit int    `query:"limit" doc:"Max results (default 20, max 50)"`
}

// ProfileResponse is the public shape of a profile.
type ProfileResponse struct {
	ID          string    `json:"id" doc:"User ID"`
	Username    string    `json:"username" doc:"Unique username"`
	DisplayName string    `json:"display_name,omitempty" doc:"Display name"`
	Bio         string    `json:"bio,omitempty" doc:"Short bio"`
	AvatarURL   string    `json:"avatar_url,omitempty" doc:"Avatar URL"`
	CreatedAt   time.Time `json:"created_at" doc:"Account creation time"`
}

// ProfileOutput wraps a profile response for Huma.
type ProfileOutput struct {
	Body ProfileResponse
}

// ProfileListOutput wraps a list of profiles for Huma.
type ProfileListOutput struct {
	Body struct {
		Profiles []ProfileResponse `json:"profiles" doc:"Matching profiles"`
	}
}

func toProfileResponse(p *domain.Profile) ProfileResponse {
	return ProfileResponse{
		ID:          p.ID,
		Username:    p.Username,
		DisplayName: p.DisplayName,
		Bio:         p.Bio,
		AvatarURL:   p.AvatarURL,
		CreatedAt:   p.CreatedAt,
	}
}

// === Handlers ===

func (s *Server) handleJoinProfile(ctx context.Context, input *JoinProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.OnUserJoined(ctx, userID, input.Body.Username)
	if err != nil {
		return nil, err
	}

	if input.Body.DisplayName != "" && profile.DisplayName != input.Body.DisplayName {
		profile, err = s.services.Profile.UpdateProfile(ctx, userID, service.ProfileUpdate{
			DisplayName: &input.Body.DisplayName,
		})
		if err != nil {
			return nil, err
		}
	}

	return &ProfileOutput{Body: toProfileResponse(profile)}, nil
}

func (s *Server) handleGetCurrentProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(profile)}, nil
}

func (s *Server) handleUpdateCurrentProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.UpdateProfile(ctx, userID, service.ProfileUpdate{
		Username:    input.Body.Username,
		DisplayName: input.Body.DisplayName,
		Bio:         input.Body.Bio,
		AvatarURL:   input.Body.AvatarURL,
	})
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(profile)}, nil
}

func (s *Server) handleDeleteCurrentProfile(ctx context.Context, _ *struct{}) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Profile.DeleteUser(ctx, userID); err != nil {
		return nil, err
	}

	return messageOutput("Account deleted"), nil
}

func (s *Server) handleSearchProfiles(ctx context.Context, input *SearchProfilesInput) (*ProfileListOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	limit := limitOrDefault(input.Limit, 20, 50)
	profiles, err := s.services.Profile.SearchProfiles(ctx, input.Query, limit)
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

func (s *Server) handleGetProfileByUsername(ctx context.Context, input *GetProfileByUsernameInput) (*ProfileOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	profile, err := s.services.Profile.GetProfileByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}

	return &ProfileOutput{Body: toProfileResponse(profile)}, nil
}
