package domain

import "time"

// Paper is a catalog entry for a research paper, keyed by its OpenAlex work ID.
// Papers are shared between users and written through on first reference;
// re-upserting the same ID refreshes metadata last-write-wins. Papers are never
// deleted by core operations, so orphans (no library entry referencing them)
// are permitted and harmless.
type Paper struct {
	OpenAlexID string    `json:"openalex_id"`
	Title      string    `json:"title"`
	Authors    []string  `json:"authors"`
	Year       int       `json:"year,omitempty"`
	URL        string    `json:"url,omitempty"`
	Source     string    `json:"source"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// DefaultPaperSource is used when a normalized work carries no source label.
const DefaultPaperSource = "openalex"

// Valid reports whether the paper has the minimum shape required for storage.
func (p *Paper) Valid() bool {
	return p.OpenAlexID != "" && p.Title != ""
}
