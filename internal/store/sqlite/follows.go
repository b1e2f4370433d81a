package sqlite

import (
	"context"
	"strings"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

// Follow inserts a follow edge and, when the edge is new, appends the
// followed post in one transaction. Re-following is an idempotent success
// that writes nothing. Returns whether a new edge was created.
func (s *Store) Follow(ctx context.Context, edge *domain.FollowEdge, post *domain.Post) (bool, error) {
	if edge.FollowerID == edge.FollowingID {
		return false, store.ErrSelfFollow
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO follows (follower_id, following_id, created_at)
		VALUES (?, ?, ?)`,
		edge.FollowerID,
		edge.FollowingID,
		formatTime(edge.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return false, store.ErrProfileNotFound
		}
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	created := n > 0

	if created {
		if err := insertPost(ctx, tx, post); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return created, nil
}

// Unfollow removes a follow edge. Removing an absent edge is an idempotent
// success. The followed post stays in the log.
func (s *Store) Unfollow(ctx context.Context, followerID, followingID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID)
	return err
}

// IsFollowing reports whether follower follows following.
func (s *Store) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM follows WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollowing returns the IDs of users the given user follows.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx, `
		SELECT following_id FROM follows WHERE follower_id = ? ORDER BY created_at ASC`,
		userID)
}

// ListFollowers returns the IDs of users following the given user.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	return s.queryIDs(ctx, `
		SELECT follower_id FROM follows WHERE following_id = ? ORDER BY created_at ASC`,
		userID)
}

// FollowCounts returns follower and following counts for a user.
func (s *Store) FollowCounts(ctx context.Context, userID string) (domain.FollowCounts, error) {
	var counts domain.FollowCounts

	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = ?),
			(SELECT COUNT(*) FROM follows WHERE follower_id = ?)`,
		userID, userID).Scan(&counts.Followers, &counts.Following)
	if err != nil {
		return domain.FollowCounts{}, err
	}
	return counts, nil
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
