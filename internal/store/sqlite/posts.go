package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

// postColumns is the ordered list of columns selected in post queries.
// Must match the scan order in scanPost.
const postColumns = `id, user_id, type, openalex_id, status, target_user_id, created_at`

// scanPost scans a sql.Row (or sql.Rows via its Scan method) into a domain.Post.
func scanPost(scanner interface{ Scan(dest ...any) error }) (*domain.Post, error) {
	var p domain.Post

	var (
		postType     string
		openalexID   sql.NullString
		status       sql.NullString
		targetUserID sql.NullString
		createdAt    string
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&postType,
		&openalexID,
		&status,
		&targetUserID,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	p.Type = domain.PostType(postType)
	p.OpenAlexID = openalexID.String
	p.Status = domain.ReadingStatus(status.String)
	p.TargetUserID = targetUserID.String

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// insertPost writes a post row. Shared by CreatePost and the library
// transactions so the log insert is identical on every path.
func insertPost(ctx context.Context, db execer, post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return store.ErrInvalidInput.WithCause(err)
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO posts (id, user_id, type, openalex_id, status, target_user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.UserID,
		string(post.Type),
		nullString(post.OpenAlexID),
		nullString(string(post.Status)),
		nullString(post.TargetUserID),
		formatTime(post.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// CreatePost appends a post to the activity log.
// Returns store.ErrAlreadyExists on duplicate ID, and also when a second
// joined post is written for the same user.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	return insertPost(ctx, s.db, post)
}

// GetPost retrieves a post by ID.
// Returns store.ErrPostNotFound if the post does not exist.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// HasJoinedPost reports whether a joined post already exists for the user.
func (s *Store) HasJoinedPost(ctx context.Context, userID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM posts WHERE user_id = ? AND type = ?`,
		userID, string(domain.PostUserJoined)).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListPostsByAuthors returns the newest posts authored by any of the given
// users, capped at limit. Equal timestamps break by ID so pages are stable.
func (s *Store) ListPostsByAuthors(ctx context.Context, userIDs []string, limit int) ([]*domain.Post, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}

	placeholders, args := inPlaceholders(userIDs)
	args = append(args, limit)
	query := fmt.Sprintf(`
		SELECT %s FROM posts
		WHERE user_id IN (%s)
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, postColumns, placeholders)

	return s.queryPosts(ctx, query, args...)
}

// ListPostsByAuthor returns the newest posts by a single user.
func (s *Store) ListPostsByAuthor(ctx context.Context, userID string, limit int) ([]*domain.Post, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.queryPosts(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE user_id = ?
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, userID, limit)
}

// ListPersonalActivity returns posts the user authored plus followed posts
// where the user is the target, newest first.
func (s *Store) ListPersonalActivity(ctx context.Context, userID string, limit int) ([]*domain.Post, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.queryPosts(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE user_id = ? OR target_user_id = ?
		ORDER BY created_at DESC, id ASC
		LIMIT ?`, userID, userID, limit)
}

func (s *Store) queryPosts(ctx context.Context, query string, args ...any) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []*domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
