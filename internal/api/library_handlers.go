package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	domainerrors "github.com/papertrailapp/papertrail-server/internal/errors"
	"github.com/papertrailapp/papertrail-server/internal/metadata/openalex"
	"github.com/papertrailapp/papertrail-server/internal/search"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "addToLibrary",
		Method:      http.MethodPost,
		Path:        "/api/v1/library",
		Summary:     "Add paper to library",
		Description: "Adds a paper to the caller's to-read shelf. Re-adding is an idempotent success.",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/library",
		Summary:     "List library",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/search",
		Summary:     "Search the local paper catalog",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibraryEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{openalexID}",
		Summary:     "Get a library entry",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLibraryEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "setReadingStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/library/{openalexID}/status",
		Summary:     "Set reading status",
		Description: "Moves the entry to the given shelf and records the change in the activity log",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetReadingStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromLibrary",
		Method:      http.MethodDelete,
		Path:        "/api/v1/library/{openalexID}",
		Summary:     "Remove paper from library",
		Description: "Removes the entry. The paper stays in the catalog and past posts survive.",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromLibrary)
}

// === DTOs ===

// PaperInput is the full paper payload for clients that already hold metadata.
type PaperInput struct {
	OpenAlexID string   `json:"openalex_id" doc:"OpenAlex work ID" validate:"required"`
	Title      string   `json:"title" doc:"Paper title" validate:"required,max=500"`
	Authors    []string `json:"authors,omitempty" doc:"Ordered author names"`
	Year       int      `json:"year,omitempty" doc:"Publication year" validate:"omitempty,gte=1500,lte=2100"`
	URL        string   `json:"url,omitempty" doc:"Canonical URL" validate:"omitempty,url"`
	Source     string   `json:"source,omitempty" doc:"Metadata source label"`
}

// AddToLibraryInput adds a paper either by bare OpenAlex ID (metadata is
// fetched) or by full paper payload.
type AddToLibraryInput struct {
	Body struct {
		OpenAlexID string      `json:"openalex_id,omitempty" doc:"OpenAlex work ID; metadata is fetched from OpenAlex"`
		Paper      *PaperInput `json:"paper,omitempty" doc:"Full paper payload, used as-is"`
	}
}

// ListLibraryInput filters the library listing.
type ListLibraryInput struct {
	Status string `query:"status" enum:"to_read,reading,read" doc:"Optional shelf filter"`
}

// LibraryEntryPathInput selects an entry by paper ID.
type LibraryEntryPathInput struct {
	OpenAlexID string `path:"openalexID" doc:"OpenAlex work ID"`
}

// SetStatusInput moves an entry to a new shelf.
type SetStatusInput struct {
	OpenAlexID string `path:"openalexID" doc:"OpenAlex work ID"`
	Body       struct {
		Status string `json:"status" enum:"to_read,reading,read" doc:"Target shelf" validate:"required,oneof=to_read reading read"`
	}
}

// SearchCatalogInput contains local catalog search parameters.
type SearchCatalogInput struct {
	Query   string `query:"q" doc:"Search term matched against title and authors"`
	MinYear int    `query:"min_year" doc:"Earliest publication year"`
	MaxYear int    `query:"max_year" doc:"Latest publication year"`
	Limit   int    `query:"limit" doc:"Max results (default 20, max 50)"`
}

// PaperResponse is the catalog shape of a paper.
type PaperResponse struct {
	OpenAlexID string   `json:"openalex_id" doc:"OpenAlex work ID"`
	Title      string   `json:"title" doc:"Paper title"`
	Authors    []string `json:"authors" doc:"Ordered author names"`
	Year       int      `json:"year,omitempty" doc:"Publication year"`
	URL        string   `json:"url,omitempty" doc:"Canonical URL"`
	Source     string   `json:"source" doc:"Metadata source label"`
}

// LibraryEntryResponse is one row of the user's library.
type LibraryEntryResponse struct {
	OpenAlexID  string         `json:"openalex_id" doc:"OpenAlex work ID"`
	Status      string         `json:"status" doc:"Current shelf"`
	StatusLabel string         `json:"status_label" doc:"Human-readable shelf name"`
	InsertedAt  time.Time      `json:"inserted_at" doc:"When the paper entered the library"`
	Paper       *PaperResponse `json:"paper,omitempty" doc:"Paper metadata"`
}

// LibraryEntryOutput wraps a single entry for Huma.
type LibraryEntryOutput struct {
	Body LibraryEntryResponse
}

// LibraryListOutput wraps the library listing for Huma.
type LibraryListOutput struct {
	Body struct {
		Entries []LibraryEntryResponse `json:"entries" doc:"Library entries, newest first"`
		Total   int                    `json:"total" doc:"Number of entries returned"`
	}
}

// CatalogSearchOutput wraps local catalog search hits for Huma.
type CatalogSearchOutput struct {
	Body struct {
		Query  string             `json:"query" doc:"Echoed search term"`
		Total  uint64             `json:"total" doc:"Total matching papers"`
		Papers []CatalogSearchHit `json:"papers" doc:"Matching papers by relevance"`
	}
}

// CatalogSearchHit is one local catalog match.
type CatalogSearchHit struct {
	OpenAlexID string  `json:"openalex_id" doc:"OpenAlex work ID"`
	Title      string  `json:"title" doc:"Paper title"`
	Authors    string  `json:"authors,omitempty" doc:"Comma-joined author names"`
	Year       int     `json:"year,omitempty" doc:"Publication year"`
	Score      float64 `json:"score" doc:"Relevance score"`
}

func toPaperResponse(p *domain.Paper) *PaperResponse {
	if p == nil {
		return nil
	}
	return &PaperResponse{
		OpenAlexID: p.OpenAlexID,
		Title:      p.Title,
		Authors:    p.Authors,
		Year:       p.Year,
		URL:        p.URL,
		Source:     p.Source,
	}
}

// === Handlers ===

func (s *Server) handleAddToLibrary(ctx context.Context, input *AddToLibraryInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	var paper *domain.Paper
	switch {
	case input.Body.Paper != nil:
		if err := s.validator.Validate(input.Body.Paper); err != nil {
			return nil, err
		}
		paper = &domain.Paper{
			OpenAlexID: openalex.NormalizeID(input.Body.Paper.OpenAlexID),
			Title:      input.Body.Paper.Title,
			Authors:    input.Body.Paper.Authors,
			Year:       input.Body.Paper.Year,
			URL:        input.Body.Paper.URL,
			Source:     input.Body.Paper.Source,
		}
	case input.Body.OpenAlexID != "":
		if s.openalex == nil {
			return nil, domainerrors.Unavailable("paper lookup is not configured")
		}
		work, err := s.openalex.GetWork(ctx, input.Body.OpenAlexID)
		if err != nil {
			return nil, domainerrors.Unavailablef("look up work %q: %v", input.Body.OpenAlexID, err)
		}
		paper = &domain.Paper{
			OpenAlexID: work.OpenAlexID,
			Title:      work.Title,
			Authors:    work.Authors,
			Year:       work.Year,
			URL:        work.URL,
			Source:     domain.DefaultPaperSource,
		}
	default:
		return nil, domainerrors.Validation("provide either openalex_id or a paper payload")
	}

	entry, err := s.services.Library.AddToLibrary(ctx, userID, paper)
	if err != nil {
		return nil, err
	}

	return &LibraryEntryOutput{
		Body: LibraryEntryResponse{
			OpenAlexID:  entry.OpenAlexID,
			Status:      string(entry.Status),
			StatusLabel: entry.Status.Label(),
			InsertedAt:  entry.InsertedAt,
			Paper:       toPaperResponse(paper),
		},
	}, nil
}

func (s *Server) handleListLibrary(ctx context.Context, input *ListLibraryInput) (*LibraryListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := s.services.Library.ListLibrary(ctx, userID, domain.ReadingStatus(input.Status))
	if err != nil {
		return nil, err
	}

	out := &LibraryListOutput{}
	out.Body.Entries = make([]LibraryEntryResponse, len(items))
	for i, item := range items {
		out.Body.Entries[i] = LibraryEntryResponse{
			OpenAlexID:  item.Entry.OpenAlexID,
			Status:      string(item.Entry.Status),
			StatusLabel: item.Entry.Status.Label(),
			InsertedAt:  item.Entry.InsertedAt,
			Paper:       toPaperResponse(item.Paper),
		}
	}
	out.Body.Total = len(items)
	return out, nil
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*CatalogSearchOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}
	if s.searchIndex == nil {
		return nil, domainerrors.Unavailable("catalog search is not configured")
	}

	result, err := s.searchIndex.Search(ctx, searchParamsFromInput(input))
	if err != nil {
		return nil, err
	}

	out := &CatalogSearchOutput{}
	out.Body.Query = result.Query
	out.Body.Total = result.Total
	out.Body.Papers = make([]CatalogSearchHit, len(result.Hits))
	for i, hit := range result.Hits {
		out.Body.Papers[i] = CatalogSearchHit{
			OpenAlexID: hit.ID,
			Title:      hit.Title,
			Authors:    hit.Authors,
			Year:       hit.Year,
			Score:      hit.Score,
		}
	}
	return out, nil
}

func (s *Server) handleGetLibraryEntry(ctx context.Context, input *LibraryEntryPathInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Library.GetEntry(ctx, userID, input.OpenAlexID)
	if err != nil {
		return nil, err
	}

	paper, err := s.store.GetPaper(ctx, input.OpenAlexID)
	if err != nil {
		s.logger.Warn("library entry has no catalog row", "openalex_id", input.OpenAlexID)
		paper = nil
	}

	return &LibraryEntryOutput{
		Body: LibraryEntryResponse{
			OpenAlexID:  entry.OpenAlexID,
			Status:      string(entry.Status),
			StatusLabel: entry.Status.Label(),
			InsertedAt:  entry.InsertedAt,
			Paper:       toPaperResponse(paper),
		},
	}, nil
}

func (s *Server) handleSetReadingStatus(ctx context.Context, input *SetStatusInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	status := domain.ReadingStatus(input.Body.Status)
	if err := s.services.Library.SetStatus(ctx, userID, input.OpenAlexID, status); err != nil {
		return nil, err
	}

	return messageOutput("Marked as " + status.Label()), nil
}

func (s *Server) handleRemoveFromLibrary(ctx context.Context, input *LibraryEntryPathInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Library.RemoveFromLibrary(ctx, userID, input.OpenAlexID); err != nil {
		return nil, err
	}

	return messageOutput("Removed from library"), nil
}

func searchParamsFromInput(input *SearchCatalogInput) search.SearchParams {
	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.MinYear = input.MinYear
	params.MaxYear = input.MaxYear
	params.Limit = limitOrDefault(input.Limit, 20, 50)
	return params
}
