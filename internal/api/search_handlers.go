package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/papertrailapp/papertrail-server/internal/errors"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchWorks",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search OpenAlex works",
		Description: "Searches the OpenAlex catalog and returns normalized paper candidates",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchWorks)
}

// === DTOs ===

// SearchWorksInput contains the OpenAlex search term.
type SearchWorksInput struct {
	Query string `query:"q" doc:"Search term" required:"true"`
}

// WorkResponse is a normalized OpenAlex work candidate.
type WorkResponse struct {
	OpenAlexID string   `json:"openalex_id" doc:"OpenAlex work ID without URL prefix"`
	Title      string   `json:"title" doc:"Work title"`
	Authors    []string `json:"authors" doc:"Ordered author display names"`
	Year       int      `json:"year,omitempty" doc:"Publication year"`
	URL        string   `json:"url,omitempty" doc:"DOI or landing page URL"`
}

// SearchWorksOutput wraps OpenAlex search results for Huma.
type SearchWorksOutput struct {
	Body struct {
		Query string         `json:"query" doc:"Echoed search term"`
		Works []WorkResponse `json:"works" doc:"Normalized candidates"`
	}
}

// === Handlers ===

func (s *Server) handleSearchWorks(ctx context.Context, input *SearchWorksInput) (*SearchWorksOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}
	if s.openalex == nil {
		return nil, domainerrors.Unavailable("work search is not configured")
	}

	works, err := s.openalex.SearchWorks(ctx, input.Query)
	if err != nil {
		return nil, domainerrors.Unavailablef("search works: %v", err)
	}

	out := &SearchWorksOutput{}
	out.Body.Query = input.Query
	out.Body.Works = make([]WorkResponse, len(works))
	for i, w := range works {
		out.Body.Works[i] = WorkResponse{
			OpenAlexID: w.OpenAlexID,
			Title:      w.Title,
			Authors:    w.Authors,
			Year:       w.Year,
			URL:        w.URL,
		}
	}
	return out, nil
}
