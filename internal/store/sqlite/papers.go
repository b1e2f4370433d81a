package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"strings"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

// paperColumns is the ordered list of columns selected in paper queries.
// Must match the scan order in scanPaper.
const paperColumns = `openalex_id, title, authors, year, url, source, updated_at`

// scanPaper scans a sql.Row (or sql.Rows via its Scan method) into a domain.Paper.
func scanPaper(scanner interface{ Scan(dest ...any) error }) (*domain.Paper, error) {
	var p domain.Paper

	var (
		authors   string
		year      sql.NullInt64
		url       sql.NullString
		updatedAt string
	)

	err := scanner.Scan(
		&p.OpenAlexID,
		&p.Title,
		&authors,
		&year,
		&url,
		&p.Source,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalAuthors(authors, &p); err != nil {
		return nil, err
	}

	p.Year = int(year.Int64)
	p.URL = url.String

	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// unmarshalAuthors parses the stored authors JSON array into the paper.
func unmarshalAuthors(raw string, p *domain.Paper) error {
	if err := json.Unmarshal([]byte(raw), &p.Authors); err != nil {
		return fmt.Errorf("parse authors for %s: %w", p.OpenAlexID, err)
	}
	return nil
}

// UpsertPaper inserts a paper or refreshes its metadata if the ID already
// exists. Later writes win; the catalog row is shared between users.
// The search index is updated after the write lands.
func (s *Store) UpsertPaper(ctx context.Context, paper *domain.Paper) error {
	if err := s.upsertPaper(ctx, s.db, paper); err != nil {
		return err
	}
	s.indexPaper(ctx, paper)
	return nil
}

// execer covers both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) upsertPaper(ctx context.Context, db execer, paper *domain.Paper) error {
	if !paper.Valid() {
		return store.ErrInvalidInput.WithMessage("paper requires an OpenAlex ID and a title")
	}

	authors := paper.Authors
	if authors == nil {
		authors = []string{}
	}
	authorsJSON, err := json.Marshal(authors)
	if err != nil {
		return err
	}

	source := paper.Source
	if source == "" {
		source = domain.DefaultPaperSource
	}

	updatedAt := paper.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO papers (openalex_id, title, authors, year, url, source, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(openalex_id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			year = excluded.year,
			url = excluded.url,
			source = excluded.source,
			updated_at = excluded.updated_at`,
		paper.OpenAlexID,
		paper.Title,
		string(authorsJSON),
		nullInt(paper.Year),
		nullString(paper.URL),
		source,
		formatTime(updatedAt),
	)
	return err
}

// GetPaper retrieves a paper by OpenAlex ID.
// Returns store.ErrPaperNotFound if the paper does not exist.
func (s *Store) GetPaper(ctx context.Context, openalexID string) (*domain.Paper, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+paperColumns+` FROM papers WHERE openalex_id = ?`, openalexID)

	p, err := scanPaper(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrPaperNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetPapersByIDs retrieves papers for multiple OpenAlex IDs.
// Returns a map from ID to paper. Missing papers are omitted from the map.
func (s *Store) GetPapersByIDs(ctx context.Context, openalexIDs []string) (map[string]*domain.Paper, error) {
	if len(openalexIDs) == 0 {
		return make(map[string]*domain.Paper), nil
	}

	placeholders, args := inPlaceholders(openalexIDs)
	query := fmt.Sprintf(
		`SELECT %s FROM papers WHERE openalex_id IN (%s)`,
		paperColumns, placeholders,
	)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	papers := make(map[string]*domain.Paper)
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers[p.OpenAlexID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return papers, nil
}

// ListPapers returns every paper in the catalog ordered by title.
// Used for search index rebuilds.
func (s *Store) ListPapers(ctx context.Context) ([]*domain.Paper, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+paperColumns+` FROM papers ORDER BY LOWER(title) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []*domain.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return papers, nil
}

// SearchPapersByTitle does a case-insensitive substring match over the
// catalog. The bleve index is the primary search path; this is the fallback
// when the index is unavailable.
func (s *Store) SearchPapersByTitle(ctx context.Context, q string, limit int) ([]*domain.Paper, error) {
	if limit <= 0 {
		limit = 25
	}
	pattern := "%" + strings.ToLower(q) + "%"

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+paperColumns+` FROM papers
		WHERE LOWER(title) LIKE ?
		ORDER BY LOWER(title) ASC
		LIMIT ?`, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var papers []*domain.Paper
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		papers = append(papers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return papers, nil
}
