package domain

import "time"

// ReadingStatus is a user's progress on a paper in their library.
// The state machine is fully connected: every status is reachable from every
// other in one transition, there is no terminal state and no automatic
// transition.
type ReadingStatus string

const (
	// StatusToRead marks a paper the user intends to read.
	StatusToRead ReadingStatus = "to_read"

	// StatusReading marks a paper the user is currently reading.
	StatusReading ReadingStatus = "reading"

	// StatusRead marks a paper the user has finished.
	StatusRead ReadingStatus = "read"
)

// Valid checks if the status is one of the three library states.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusRead:
		return true
	default:
		return false
	}
}

// Label returns the human-readable shelf label for the status.
func (s ReadingStatus) Label() string {
	switch s {
	case StatusToRead:
		return "Want to Read"
	case StatusReading:
		return "Currently Reading"
	case StatusRead:
		return "Read"
	default:
		return string(s)
	}
}

// LibraryEntry links a user to a paper in their library with a reading status.
// At most one entry exists per (user, paper) pair; duplicate adds are
// idempotent successes that leave the existing status untouched.
type LibraryEntry struct {
	UserID     string        `json:"user_id"`
	OpenAlexID string        `json:"openalex_id"`
	Status     ReadingStatus `json:"status"`
	InsertedAt time.Time     `json:"inserted_at"`
}

// LibraryItem is a library entry joined with its paper metadata for display.
type LibraryItem struct {
	Entry LibraryEntry `json:"entry"`
	Paper *Paper       `json:"paper"`
}

// LibrarySnapshot holds per-status entry counts for a user's dashboard.
type LibrarySnapshot struct {
	ToRead  int `json:"to_read"`
	Reading int `json:"reading"`
	Read    int `json:"read"`
}

// Total returns the number of entries across all statuses.
func (s LibrarySnapshot) Total() int {
	return s.ToRead + s.Reading + s.Read
}
