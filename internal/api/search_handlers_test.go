package api

import (
	"crypto/rand"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/papertrailapp/papertrail-server/internal/auth"
	"github.com/papertrailapp/papertrail-server/internal/config"
	"github.com/papertrailapp/papertrail-server/internal/search"
	"github.com/papertrailapp/papertrail-server/internal/service"
	"github.com/papertrailapp/papertrail-server/internal/sse"
	"github.com/papertrailapp/papertrail-server/internal/store/sqlite"
)

// setupSearchServer builds a server with a real catalog index wired in, so
// library adds show up in /api/v1/library/search.
func setupSearchServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()

	st, err := sqlite.Open(filepath.Join(dir, "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: dir, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	key := make([]byte, 32)
	_, err = rand.Read(key)
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key)
	require.NoError(t, err)

	sseManager := sse.NewManager(logger)
	cfg := &config.Config{}

	st.SetSearchIndexer(search.NewIndexer(index, logger))

	services := &Services{
		Profile:  service.NewProfileService(st, sseManager, logger),
		Library:  service.NewLibraryService(st, sseManager, logger),
		Social:   service.NewSocialService(st, sseManager, logger),
		Feed:     service.NewFeedService(st, cfg, logger),
		Reaction: service.NewReactionService(st, sseManager, logger),
	}

	srv := NewServer(cfg, st, services, tokens, nil, index, sseManager, logger)

	return &testServer{
		Server: srv,
		api:    humatest.Wrap(t, srv.API()),
		store:  st,
		tokens: tokens,
	}
}

func TestSearchCatalog(t *testing.T) {
	ts := setupSearchServer(t)
	token := ts.join(t, "user-1", "ada")

	ts.addPaper(t, token, "W1", "Attention Is All You Need")
	ts.addPaper(t, token, "W2", "Deep Residual Learning for Image Recognition")

	resp := ts.api.Get("/api/v1/library/search?q=attention",
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[struct {
		Query  string             `json:"query"`
		Total  uint64             `json:"total"`
		Papers []CatalogSearchHit `json:"papers"`
	}](t, resp.Body.Bytes())
	require.Len(t, env.Data.Papers, 1)
	assert.Equal(t, "W1", env.Data.Papers[0].OpenAlexID)
	assert.Equal(t, "Attention Is All You Need", env.Data.Papers[0].Title)
	assert.Greater(t, env.Data.Papers[0].Score, 0.0)
}

func TestSearchCatalog_NoIndex(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.join(t, "user-1", "ada")

	resp := ts.api.Get("/api/v1/library/search?q=anything",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestSearchWorks_NoClient(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.join(t, "user-1", "ada")

	resp := ts.api.Get("/api/v1/search?q=transformers",
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
}
