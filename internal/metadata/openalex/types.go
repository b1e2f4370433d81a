package openalex

// Work is a normalized OpenAlex work ready to enter the catalog.
type Work struct {
	OpenAlexID string   `json:"openalex_id"` // Short form, e.g. "W2100837269"
	Title      string   `json:"title"`
	Authors    []string `json:"authors"`
	Year       int      `json:"year,omitempty"`
	URL        string   `json:"url,omitempty"`
}

// worksResponse is the raw OpenAlex works listing.
type worksResponse struct {
	Meta struct {
		Count int `json:"count"`
	} `json:"meta"`
	Results []workResult `json:"results"`
}

// workResult is a single work from the OpenAlex API.
type workResult struct {
	ID              string       `json:"id"` // Full URL form
	DisplayName     string       `json:"display_name"`
	PublicationYear int          `json:"publication_year"`
	DOI             string       `json:"doi,omitempty"`
	Authorships     []authorship `json:"authorships"`
	PrimaryLocation *struct {
		LandingPageURL string `json:"landing_page_url,omitempty"`
	} `json:"primary_location,omitempty"`
}

type authorship struct {
	Author struct {
		DisplayName string `json:"display_name"`
	} `json:"author"`
}
