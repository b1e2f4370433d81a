// Package search provides full-text search over the paper catalog using Bleve.
package search

import (
	"strings"

	"github.com/papertrailapp/papertrail-server/internal/domain"
)

// PaperDocument is the shape of a catalog entry in the Bleve index.
type PaperDocument struct {
	ID      string `json:"id"` // OpenAlex work ID, e.g. "W2100837269"
	Title   string `json:"title"`
	Authors string `json:"authors"` // Flattened for matching
	Year    int    `json:"year,omitempty"`
	Source  string `json:"source"`
}

// NewPaperDocument builds an index document from a catalog paper.
func NewPaperDocument(p *domain.Paper) *PaperDocument {
	return &PaperDocument{
		ID:      p.OpenAlexID,
		Title:   p.Title,
		Authors: strings.Join(p.Authors, ", "),
		Year:    p.Year,
		Source:  p.Source,
	}
}

// ToMap converts the document to a map with lowercase field names.
// Bleve defaults to Go struct field names (capitalized), but the index
// mapping uses lowercase names, so field names are set explicitly.
func (d *PaperDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":     d.ID,
		"title":  d.Title,
		"source": d.Source,
	}
	if d.Authors != "" {
		m["authors"] = d.Authors
	}
	if d.Year != 0 {
		m["year"] = d.Year
	}
	return m
}
