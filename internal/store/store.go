// Package store defines the persistence contract shared by storage backends
// and the cross-cutting interfaces they publish events through.
package store

import (
	"context"

	"github.com/papertrailapp/papertrail-server/internal/domain"
)

// EventEmitter is the interface for emitting SSE events.
// Storage code uses this to broadcast changes without depending on SSE
// implementation details.
type EventEmitter interface {
	Emit(event any)
}

// NoopEmitter is a no-op implementation of EventEmitter for testing.
type NoopEmitter struct{}

// Emit implements EventEmitter.Emit as a no-op.
func (NoopEmitter) Emit(_ any) {}

// NewNoopEmitter creates a new no-op emitter for testing.
func NewNoopEmitter() EventEmitter {
	return NoopEmitter{}
}

// SearchIndexer is the interface for updating the catalog search index.
// Storage code uses this to keep search in sync without depending on the
// search implementation. Index failures are advisory and never fail a write.
type SearchIndexer interface {
	IndexPaper(ctx context.Context, paper *domain.Paper) error
	DeletePaper(ctx context.Context, openalexID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexPaper is a no-op.
func (NoopSearchIndexer) IndexPaper(context.Context, *domain.Paper) error { return nil }

// DeletePaper is a no-op.
func (NoopSearchIndexer) DeletePaper(context.Context, string) error { return nil }

// NewNoopSearchIndexer creates a new no-op search indexer for testing.
func NewNoopSearchIndexer() SearchIndexer {
	return NoopSearchIndexer{}
}
