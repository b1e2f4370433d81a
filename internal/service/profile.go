package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	domainerrors "github.com/papertrailapp/papertrail-server/internal/errors"
	"github.com/papertrailapp/papertrail-server/internal/id"
	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
)

// usernamePattern limits usernames to lowercase letters, digits, and
// underscores after normalization.
var usernamePattern = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// ProfileService manages user identity: profile rows, the one-time joined
// post, and full account deletion.
type ProfileService struct {
	store      *sqlite.Store
	sseManager *sse.Manager
	logger     *slog.Logger
}

// NewProfileService creates a new profile service.
func NewProfileService(st *sqlite.Store, sseManager *sse.Manager, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		store:      st,
		sseManager: sseManager,
		logger:     logger,
	}
}

// NormalizeUsername folds a requested username to its canonical form:
// Unicode NFKC, lowercased, trimmed.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFKC.String(username)))
}

// OnUserJoined runs the first time an authenticated user is seen: it creates
// their profile row and appends the joined post. Safe to call on every
// login; repeats are no-ops.
func (s *ProfileService) OnUserJoined(ctx context.Context, userID, username string) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrProfileNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if profile == nil {
		username = NormalizeUsername(username)
		if !usernamePattern.MatchString(username) {
			return nil, domainerrors.Validation("username must be 3-30 characters of lowercase letters, digits, or underscores")
		}

		now := time.Now()
		profile = &domain.Profile{
			ID:        userID,
			Username:  username,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.store.CreateProfile(ctx, profile); err != nil {
			if errors.Is(err, store.ErrUsernameTaken) {
				return nil, domainerrors.Conflict("Username is taken")
			}
			return nil, fmt.Errorf("create profile: %w", err)
		}

		s.logger.Info("user joined",
			"user_id", userID,
			"username", username,
		)
	}

	// The joined post is appended at most once per user. The partial unique
	// index backs this up if two bootstraps race.
	has, err := s.store.HasJoinedPost(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("check joined post: %w", err)
	}
	if !has {
		postID, err := id.Generate("post")
		if err != nil {
			return nil, fmt.Errorf("generate post ID: %w", err)
		}
		post := domain.NewUserJoinedPost(postID, userID, time.Now())
		if err := s.store.CreatePost(ctx, post); err != nil && !errors.Is(err, store.ErrAlreadyExists) {
			return nil, fmt.Errorf("create joined post: %w", err)
		}
		s.sseManager.Emit(sse.NewPostCreatedEvent(post))
	}

	return profile, nil
}

// GetProfile returns a profile by user ID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// GetProfileByUsername returns a profile by its unique username.
func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	profile, err := s.store.GetProfileByUsername(ctx, NormalizeUsername(username))
	if err != nil {
		return nil, fmt.Errorf("get profile by username: %w", err)
	}
	return profile, nil
}

// ProfileUpdate carries the editable profile fields. Nil pointers leave the
// current value untouched.
type ProfileUpdate struct {
	Username    *string
	DisplayName *string
	Bio         *string
	AvatarURL   *string
}

// UpdateProfile applies edits to the user's own profile.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	if update.Username != nil {
		username := NormalizeUsername(*update.Username)
		if !usernamePattern.MatchString(username) {
			return nil, domainerrors.Validation("username must be 3-30 characters of lowercase letters, digits, or underscores")
		}
		profile.Username = username
	}
	if update.DisplayName != nil {
		profile.DisplayName = strings.TrimSpace(*update.DisplayName)
	}
	if update.Bio != nil {
		profile.Bio = strings.TrimSpace(*update.Bio)
	}
	if update.AvatarURL != nil {
		profile.AvatarURL = strings.TrimSpace(*update.AvatarURL)
	}
	profile.UpdatedAt = time.Now()

	if err := s.store.UpdateProfile(ctx, profile); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return nil, domainerrors.Conflict("Username is taken")
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("profile updated", "user_id", userID)
	s.sseManager.Emit(sse.NewProfileUpdatedEvent(profile))

	return profile, nil
}

// DeleteUser removes the user and everything hanging off them: library
// entries, posts, follow edges in both directions, and likes. Shared catalog
// rows survive.
func (s *ProfileService) DeleteUser(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.store.DeleteProfile(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

// SearchProfiles finds users by username or display name substring.
func (s *ProfileService) SearchProfiles(ctx context.Context, query string, limit int) ([]*domain.Profile, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	profiles, err := s.store.SearchProfiles(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search profiles: %w", err)
	}
	return profiles, nil
}
