// Package sse implements Server-Sent Events for live feed and library updates.
package sse

import (
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
)

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventPostCreated fires when a new post enters the activity log.
	EventPostCreated EventType = "post.created"

	// EventLibraryUpdated fires when a user's library changes shape:
	// an add, a status change, or a removal.
	EventLibraryUpdated EventType = "library.updated"

	// EventProfileUpdated fires when a user edits their profile.
	EventProfileUpdated EventType = "profile.updated"

	// EventProfileDeleted fires when a user is deleted along with their
	// library, posts, follows, and likes.
	EventProfileDeleted EventType = "profile.deleted"

	// EventLikeToggled fires when a like lands on or leaves a post.
	EventLikeToggled EventType = "like.toggled"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`

	// When set, the event is only delivered to this user's connections.
	// Empty string means broadcast to all.
	UserID string `json:"-"`
}

// PostEventData is the data payload for post events. The post is sent as-is;
// clients resolve profiles and papers from their own caches.
type PostEventData struct {
	Post *domain.Post `json:"post"`
}

// LibraryEventData is the data payload for library change events.
type LibraryEventData struct {
	UserID     string               `json:"user_id"`
	OpenAlexID string               `json:"openalex_id"`
	Status     domain.ReadingStatus `json:"status,omitempty"`
	Removed    bool                 `json:"removed,omitempty"`
}

// ProfileEventData is the data payload for profile events.
type ProfileEventData struct {
	Profile *domain.Profile `json:"profile"`
}

// ProfileDeletedEventData is the data payload for profile deletion events.
// Only the ID is sent; the profile row is already gone.
type ProfileDeletedEventData struct {
	UserID string `json:"user_id"`
}

// LikeEventData is the data payload for like toggle events.
type LikeEventData struct {
	PostID string `json:"post_id"`
	UserID string `json:"user_id"`
	Liked  bool   `json:"liked"`
	Count  int    `json:"count"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewPostCreatedEvent creates an event for a freshly logged post.
func NewPostCreatedEvent(post *domain.Post) Event {
	return Event{
		Type:      EventPostCreated,
		Timestamp: time.Now(),
		Data:      PostEventData{Post: post},
	}
}

// NewLibraryUpdatedEvent creates an event for a library change, delivered
// only to the owning user's connections.
func NewLibraryUpdatedEvent(userID, openalexID string, status domain.ReadingStatus, removed bool) Event {
	return Event{
		Type:      EventLibraryUpdated,
		Timestamp: time.Now(),
		UserID:    userID,
		Data: LibraryEventData{
			UserID:     userID,
			OpenAlexID: openalexID,
			Status:     status,
			Removed:    removed,
		},
	}
}

// NewProfileUpdatedEvent creates an event for a profile edit.
func NewProfileUpdatedEvent(profile *domain.Profile) Event {
	return Event{
		Type:      EventProfileUpdated,
		Timestamp: time.Now(),
		Data:      ProfileEventData{Profile: profile},
	}
}

// NewProfileDeletedEvent creates an event for a user deletion. Clients drop
// the user's cached posts and profile on receipt.
func NewProfileDeletedEvent(userID string) Event {
	return Event{
		Type:      EventProfileDeleted,
		Timestamp: time.Now(),
		Data:      ProfileDeletedEventData{UserID: userID},
	}
}

// NewLikeToggledEvent creates an event for a like toggle.
func NewLikeToggledEvent(postID, userID string, liked bool, count int) Event {
	return Event{
		Type:      EventLikeToggled,
		Timestamp: time.Now(),
		Data: LikeEventData{
			PostID: postID,
			UserID: userID,
			Liked:  liked,
			Count:  count,
		},
	}
}

// NewHeartbeatEvent creates a keepalive event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      HeartbeatEventData{ServerTime: time.Now()},
	}
}
