package openalex

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeID(t *testing.T) {
	assert.Equal(t, "W2100837269", NormalizeID("https://openalex.org/W2100837269"))
	assert.Equal(t, "W2100837269", NormalizeID("W2100837269"))
	assert.Equal(t, "W2100837269", NormalizeID("  https://openalex.org/W2100837269 "))
}

func TestSearchWorks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		assert.Equal(t, "attention", r.URL.Query().Get("search"))
		assert.Equal(t, "test@papertrail.app", r.URL.Query().Get("mailto"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"meta": {"count": 2},
			"results": [
				{
					"id": "https://openalex.org/W2100837269",
					"display_name": "Attention Is All You Need",
					"publication_year": 2017,
					"doi": "https://doi.org/10.48550/arXiv.1706.03762",
					"authorships": [
						{"author": {"display_name": "Ashish Vaswani"}},
						{"author": {"display_name": "Noam Shazeer"}}
					]
				},
				{
					"id": "https://openalex.org/W999",
					"display_name": "",
					"publication_year": 2001,
					"authorships": []
				}
			]
		}`))
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(logger, WithBaseURL(server.URL), WithMailTo("test@papertrail.app"))

	works, err := client.SearchWorks(context.Background(), "attention")
	require.NoError(t, err)

	// Untitled result is dropped.
	require.Len(t, works, 1)
	assert.Equal(t, "W2100837269", works[0].OpenAlexID)
	assert.Equal(t, "Attention Is All You Need", works[0].Title)
	assert.Equal(t, []string{"Ashish Vaswani", "Noam Shazeer"}, works[0].Authors)
	assert.Equal(t, 2017, works[0].Year)
	assert.Equal(t, "https://doi.org/10.48550/arXiv.1706.03762", works[0].URL)
}

func TestSearchWorks_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(logger, WithBaseURL(server.URL))

	_, err := client.SearchWorks(context.Background(), "attention")
	assert.Error(t, err)
}

func TestGetWork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works/W2100837269", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "https://openalex.org/W2100837269",
			"display_name": "Attention Is All You Need",
			"publication_year": 2017,
			"primary_location": {"landing_page_url": "https://arxiv.org/abs/1706.03762"},
			"authorships": [{"author": {"display_name": "Ashish Vaswani"}}]
		}`))
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(logger, WithBaseURL(server.URL))

	work, err := client.GetWork(context.Background(), "https://openalex.org/W2100837269")
	require.NoError(t, err)
	assert.Equal(t, "W2100837269", work.OpenAlexID)
	assert.Equal(t, "https://arxiv.org/abs/1706.03762", work.URL)
}

func TestGetWork_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	client := NewClient(logger, WithBaseURL(server.URL))

	_, err := client.GetWork(context.Background(), "W404")
	assert.Error(t, err)
}
