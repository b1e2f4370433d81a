package search

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/papertrailapp/papertrail-server/internal/domain"
)

// PaperLister provides the full catalog for reindex operations.
type PaperLister interface {
	ListPapers(ctx context.Context) ([]*domain.Paper, error)
}

// Indexer keeps the search index in sync with the paper catalog.
// It implements store.SearchIndexer.
type Indexer struct {
	index  *SearchIndex
	logger *slog.Logger
}

// NewIndexer creates a catalog indexer backed by the given index.
func NewIndexer(index *SearchIndex, logger *slog.Logger) *Indexer {
	return &Indexer{index: index, logger: logger}
}

// IndexPaper adds or updates a paper in the search index.
func (i *Indexer) IndexPaper(ctx context.Context, paper *domain.Paper) error {
	_ = ctx
	return i.index.IndexDocument(NewPaperDocument(paper))
}

// DeletePaper removes a paper from the search index.
func (i *Indexer) DeletePaper(ctx context.Context, openalexID string) error {
	_ = ctx
	return i.index.DeleteDocument(openalexID)
}

// Sync reindexes the entire catalog from the store. It is called on
// startup when the index was rebuilt due to a mapping change, and can
// be triggered manually after a restore.
func (i *Indexer) Sync(ctx context.Context, lister PaperLister) error {
	papers, err := lister.ListPapers(ctx)
	if err != nil {
		return fmt.Errorf("list papers: %w", err)
	}

	docs := make([]*PaperDocument, 0, len(papers))
	for _, p := range papers {
		docs = append(docs, NewPaperDocument(p))
	}

	if err := i.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index papers: %w", err)
	}

	i.logger.Info("synced search index from catalog", "papers", len(docs))
	return nil
}
