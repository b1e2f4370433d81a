package domain

import "time"

// Like marks that a user liked a post. One row per (post, user) pair;
// liking twice toggles the like off instead of stacking.
type Like struct {
	PostID    string    `json:"post_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeSummary is the per-post aggregate shown alongside feed items.
type LikeSummary struct {
	Count int  `json:"count"`
	Mine  bool `json:"mine"`
}
