package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/papertrailapp/papertrail-server/internal/config"
	"github.com/papertrailapp/papertrail-server/internal/logger"
	"github.com/papertrailapp/papertrail-server/internal/search"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve catalog index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideSearchIndexer provides the indexer that keeps the catalog index in
// sync with paper writes.
func ProvideSearchIndexer(i do.Injector) (*search.Indexer, error) {
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	indexer := search.NewIndexer(indexHandle.SearchIndex, log.Logger)

	// Every committed catalog write reindexes through this hook.
	storeHandle.SetSearchIndexer(indexer)

	return indexer, nil
}

// TriggerSearchSyncIfNeeded rebuilds the catalog index when it is empty but
// the catalog is not. Should be called after all services are wired.
func TriggerSearchSyncIfNeeded(i do.Injector) {
	indexer := do.MustInvoke[*search.Indexer](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	papers, err := storeHandle.ListPapers(ctx)
	if err != nil || len(papers) == 0 {
		return
	}

	log.Info("Search index is empty but papers exist, triggering initial sync",
		"paper_count", len(papers),
	)

	go func() {
		syncCtx := context.Background()
		if err := indexer.Sync(syncCtx, storeHandle); err != nil {
			log.Error("Initial search sync failed", "error", err)
		} else {
			count, _ := indexHandle.DocumentCount()
			log.Info("Initial search sync completed", "documents", count)
		}
	}()
}
