package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

// profileColumns is the ordered list of columns selected in profile queries.
// Must match the scan order in scanProfile.
const profileColumns = `id, username, display_name, bio, avatar_url, created_at, updated_at`

// scanProfile scans a sql.Row (or sql.Rows via its Scan method) into a domain.Profile.
func scanProfile(scanner interface{ Scan(dest ...any) error }) (*domain.Profile, error) {
	var p domain.Profile

	var (
		displayName sql.NullString
		bio         sql.NullString
		avatarURL   sql.NullString
		createdAt   string
		updatedAt   string
	)

	err := scanner.Scan(
		&p.ID,
		&p.Username,
		&displayName,
		&bio,
		&avatarURL,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.DisplayName = displayName.String
	p.Bio = bio.String
	p.AvatarURL = avatarURL.String

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreateProfile inserts a new profile row.
// Returns store.ErrAlreadyExists on duplicate ID and store.ErrUsernameTaken
// when another user already holds the username.
func (s *Store) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (id, username, display_name, bio, avatar_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.Username,
		nullString(profile.DisplayName),
		nullString(profile.Bio),
		nullString(profile.AvatarURL),
		formatTime(profile.CreatedAt),
		formatTime(profile.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: profiles.username") {
			return store.ErrUsernameTaken
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetProfile retrieves a profile by user ID.
// Returns store.ErrProfileNotFound if the profile does not exist.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ?`, userID)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfileByUsername retrieves a profile by its unique username.
// Returns store.ErrProfileNotFound if no user holds the username.
func (s *Store) GetProfileByUsername(ctx context.Context, username string) (*domain.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE username = ?`, username)

	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProfilesByIDs retrieves profiles for multiple user IDs.
// Returns a map from user ID to profile. Missing profiles are omitted from the map.
func (s *Store) GetProfilesByIDs(ctx context.Context, userIDs []string) (map[string]*domain.Profile, error) {
	if len(userIDs) == 0 {
		return make(map[string]*domain.Profile), nil
	}

	placeholders, args := inPlaceholders(userIDs)
	query := fmt.Sprintf(
		`SELECT %s FROM profiles WHERE id IN (%s)`,
		profileColumns, placeholders,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := make(map[string]*domain.Profile)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}

// UpdateProfile saves edits to an existing profile.
// Returns store.ErrProfileNotFound if the row is missing and
// store.ErrUsernameTaken when the new username collides with another user.
func (s *Store) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE profiles
		SET username = ?, display_name = ?, bio = ?, avatar_url = ?, updated_at = ?
		WHERE id = ?`,
		profile.Username,
		nullString(profile.DisplayName),
		nullString(profile.Bio),
		nullString(profile.AvatarURL),
		formatTime(profile.UpdatedAt),
		profile.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: profiles.username") {
			return store.ErrUsernameTaken
		}
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrProfileNotFound
	}
	return nil
}

// DeleteProfile removes a user and, through foreign key cascades, their
// library entries, posts, follow edges in both directions, and likes.
// Returns store.ErrProfileNotFound if the user does not exist.
func (s *Store) DeleteProfile(ctx context.Context, userID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM profiles WHERE id = ?`, userID)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrProfileNotFound
	}

	// The cascade removes rows the service layer never sees, so the
	// deletion event is broadcast from here.
	s.emitter.Emit(sse.NewProfileDeletedEvent(userID))

	return nil
}

// SearchProfiles does a case-insensitive substring match over usernames and
// display names, for the people search box.
func (s *Store) SearchProfiles(ctx context.Context, q string, limit int) ([]*domain.Profile, error) {
	if limit <= 0 {
		limit = 25
	}
	pattern := "%" + strings.ToLower(q) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+profileColumns+` FROM profiles
		WHERE LOWER(username) LIKE ? OR LOWER(COALESCE(display_name, '')) LIKE ?
		ORDER BY username ASC
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*domain.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
