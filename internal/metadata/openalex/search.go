package openalex

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultLimit = 10

// idPrefix is the URL form OpenAlex uses in work IDs.
const idPrefix = "https://openalex.org/"

// NormalizeID strips the URL prefix from an OpenAlex work ID, so
// "https://openalex.org/W2100837269" and "W2100837269" both come out as
// the short form.
func NormalizeID(id string) string {
	return strings.TrimPrefix(strings.TrimSpace(id), idPrefix)
}

// SearchWorks searches OpenAlex for works matching the query.
// Results are normalized: short IDs, author names flattened, best URL picked.
func (c *Client) SearchWorks(ctx context.Context, query string) ([]Work, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("search", query)
	params.Set("per-page", fmt.Sprintf("%d", defaultLimit))
	if c.mailTo != "" {
		params.Set("mailto", c.mailTo)
	}

	searchURL := c.baseURL + "/works?" + params.Encode()

	c.logger.Debug("searching OpenAlex",
		"query", query,
		"url", searchURL,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var searchResp worksResponse
	if err := json.UnmarshalRead(resp.Body, &searchResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("OpenAlex search results",
		"query", query,
		"count", len(searchResp.Results),
	)

	works := make([]Work, 0, len(searchResp.Results))
	for i := range searchResp.Results {
		r := &searchResp.Results[i]
		work := Work{
			OpenAlexID: NormalizeID(r.ID),
			Title:      r.DisplayName,
			Year:       r.PublicationYear,
			URL:        bestURL(r),
		}
		for _, a := range r.Authorships {
			if a.Author.DisplayName != "" {
				work.Authors = append(work.Authors, a.Author.DisplayName)
			}
		}
		if work.OpenAlexID == "" || work.Title == "" {
			continue
		}
		works = append(works, work)
	}

	return works, nil
}

// GetWork fetches one work by its short or URL-form ID.
func (c *Client) GetWork(ctx context.Context, id string) (*Work, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	shortID := NormalizeID(id)

	params := url.Values{}
	if c.mailTo != "" {
		params.Set("mailto", c.mailTo)
	}
	workURL := c.baseURL + "/works/" + url.PathEscape(shortID)
	if encoded := params.Encode(); encoded != "" {
		workURL += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, workURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get work request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("work %s not found", shortID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get work failed: status %d", resp.StatusCode)
	}

	var r workResult
	if err := json.UnmarshalRead(resp.Body, &r); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	work := &Work{
		OpenAlexID: NormalizeID(r.ID),
		Title:      r.DisplayName,
		Year:       r.PublicationYear,
		URL:        bestURL(&r),
	}
	for _, a := range r.Authorships {
		if a.Author.DisplayName != "" {
			work.Authors = append(work.Authors, a.Author.DisplayName)
		}
	}
	return work, nil
}

// bestURL prefers the DOI link, then the landing page.
func bestURL(r *workResult) string {
	if r.DOI != "" {
		return r.DOI
	}
	if r.PrimaryLocation != nil {
		return r.PrimaryLocation.LandingPageURL
	}
	return ""
}
