package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

// ToggleLike flips a user's like on a post. A first call likes, a second
// unlikes. Returns whether the post is liked after the call.
// Returns store.ErrPostNotFound if the post does not exist.
func (s *Store) ToggleLike(ctx context.Context, postID, userID string, at time.Time) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		DELETE FROM post_likes WHERE post_id = ? AND user_id = ?`,
		postID, userID)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n > 0 {
		// Row existed, this call is an unlike.
		return false, tx.Commit()
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES (?, ?, ?)`,
		postID, userID, formatTime(at))
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return false, store.ErrPostNotFound
		}
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

// CountLikes returns the number of likes on a post.
func (s *Store) CountLikes(ctx context.Context, postID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM post_likes WHERE post_id = ?`, postID).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// LikeSummaries returns per-post like counts plus whether the viewer liked
// each post, for a batch of post IDs. Posts with no likes are omitted.
func (s *Store) LikeSummaries(ctx context.Context, postIDs []string, viewerID string) (map[string]domain.LikeSummary, error) {
	if len(postIDs) == 0 {
		return make(map[string]domain.LikeSummary), nil
	}

	placeholders, args := inPlaceholders(postIDs)
	args = append([]any{viewerID}, args...)
	query := fmt.Sprintf(`
		SELECT post_id,
		       COUNT(*),
		       MAX(CASE WHEN user_id = ? THEN 1 ELSE 0 END)
		FROM post_likes
		WHERE post_id IN (%s)
		GROUP BY post_id`, placeholders)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make(map[string]domain.LikeSummary)
	for rows.Next() {
		var (
			postID string
			count  int
			mine   int
		)
		if err := rows.Scan(&postID, &count, &mine); err != nil {
			return nil, err
		}
		summaries[postID] = domain.LikeSummary{Count: count, Mine: mine != 0}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return summaries, nil
}
