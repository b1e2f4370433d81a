package domain

import (
	"fmt"
	"time"
)

// PostType represents the kind of activity a post records.
type PostType string

const (
	// PostUserJoined is recorded once when a user account is created.
	PostUserJoined PostType = "user_joined"

	// PostAddedToLibrary is recorded when a paper first enters a user's library.
	// Idempotent re-adds do not produce a second post.
	PostAddedToLibrary PostType = "added_to_library"

	// PostAddedToShelf is a legacy alias of PostAddedToLibrary that carried the
	// initial status. Accepted on read for old rows; new writes never produce it.
	PostAddedToShelf PostType = "added_to_shelf"

	// PostStatusChanged is recorded on every SetStatus call, including a call
	// that sets the status the entry already holds.
	PostStatusChanged PostType = "status_changed"

	// PostFollowed is recorded when a user follows another user. Unfollowing
	// records nothing; only the positive action enters the log.
	PostFollowed PostType = "followed"
)

// Post is a single immutable entry in the append-only activity log.
// Exactly the fields its type requires are set; Validate enforces the
// combination at record time so malformed rows never reach storage.
type Post struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      PostType  `json:"type"`
	CreatedAt time.Time `json:"created_at"`

	// Paper posts (added_to_library, added_to_shelf, status_changed)
	OpenAlexID string `json:"openalex_id,omitempty"`

	// Status payload (status_changed, added_to_shelf)
	Status ReadingStatus `json:"status,omitempty"`

	// Follow posts (followed)
	TargetUserID string `json:"target_user_id,omitempty"`
}

// NewUserJoinedPost builds a joined post. No paper, status, or target.
func NewUserJoinedPost(id, userID string, at time.Time) *Post {
	return &Post{ID: id, UserID: userID, Type: PostUserJoined, CreatedAt: at}
}

// NewAddedToLibraryPost builds an added-to-library post referencing a paper.
func NewAddedToLibraryPost(id, userID, openalexID string, at time.Time) *Post {
	return &Post{ID: id, UserID: userID, Type: PostAddedToLibrary, OpenAlexID: openalexID, CreatedAt: at}
}

// NewStatusChangedPost builds a status-changed post carrying the new status.
func NewStatusChangedPost(id, userID, openalexID string, status ReadingStatus, at time.Time) *Post {
	return &Post{ID: id, UserID: userID, Type: PostStatusChanged, OpenAlexID: openalexID, Status: status, CreatedAt: at}
}

// NewFollowedPost builds a followed post referencing the followed user.
func NewFollowedPost(id, userID, targetUserID string, at time.Time) *Post {
	return &Post{ID: id, UserID: userID, Type: PostFollowed, TargetUserID: targetUserID, CreatedAt: at}
}

// HasPaper reports whether the post type references a paper.
func (p *Post) HasPaper() bool {
	switch p.Type {
	case PostAddedToLibrary, PostAddedToShelf, PostStatusChanged:
		return true
	default:
		return false
	}
}

// Validate checks the required/forbidden field combination for the post type.
func (p *Post) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("post id is required")
	}
	if p.UserID == "" {
		return fmt.Errorf("post author is required")
	}

	switch p.Type {
	case PostUserJoined:
		if p.OpenAlexID != "" || p.Status != "" || p.TargetUserID != "" {
			return fmt.Errorf("user_joined post carries no payload")
		}
	case PostAddedToLibrary:
		if p.OpenAlexID == "" {
			return fmt.Errorf("added_to_library post requires a paper reference")
		}
		if p.Status != "" || p.TargetUserID != "" {
			return fmt.Errorf("added_to_library post carries only a paper reference")
		}
	case PostAddedToShelf:
		if p.OpenAlexID == "" {
			return fmt.Errorf("added_to_shelf post requires a paper reference")
		}
		if !p.Status.Valid() {
			return fmt.Errorf("added_to_shelf post requires a valid status, got %q", p.Status)
		}
		if p.TargetUserID != "" {
			return fmt.Errorf("added_to_shelf post carries no target user")
		}
	case PostStatusChanged:
		if p.OpenAlexID == "" {
			return fmt.Errorf("status_changed post requires a paper reference")
		}
		if !p.Status.Valid() {
			return fmt.Errorf("status_changed post requires a valid status, got %q", p.Status)
		}
		if p.TargetUserID != "" {
			return fmt.Errorf("status_changed post carries no target user")
		}
	case PostFollowed:
		if p.TargetUserID == "" {
			return fmt.Errorf("followed post requires a target user")
		}
		if p.OpenAlexID != "" || p.Status != "" {
			return fmt.Errorf("followed post carries only a target user")
		}
	default:
		return fmt.Errorf("unknown post type %q", p.Type)
	}

	return nil
}
