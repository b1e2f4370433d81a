package domain

import "time"

// FollowEdge is a directed follow relation between two users.
// At most one edge exists per ordered pair and self-follows are rejected.
// Neither endpoint owns the edge; deleting either user removes it.
type FollowEdge struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// FollowCounts holds follower/following cardinalities for a profile page.
type FollowCounts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}
