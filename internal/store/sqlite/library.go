package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/papertrailapp/papertrail-server/internal/domain"
	"github.com/papertrailapp/papertrail-server/internal/store"
)

// entryColumns is the ordered list of columns selected in library entry queries.
// Must match the scan order in scanEntry.
const entryColumns = `user_id, openalex_id, status, inserted_at`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a domain.LibraryEntry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.LibraryEntry, error) {
	var e domain.LibraryEntry

	var (
		status     string
		insertedAt string
	)

	err := scanner.Scan(
		&e.UserID,
		&e.OpenAlexID,
		&status,
		&insertedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Status = domain.ReadingStatus(status)

	e.InsertedAt, err = parseTime(insertedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// AddToLibrary upserts the paper metadata, inserts the library entry, and
// appends the activity post in one transaction. When the entry already exists
// the call is an idempotent success: the paper metadata still refreshes but
// the existing status is untouched and no post is written. Returns whether a
// new entry was created.
func (s *Store) AddToLibrary(ctx context.Context, paper *domain.Paper, entry *domain.LibraryEntry, post *domain.Post) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if err := s.upsertPaper(ctx, tx, paper); err != nil {
		return false, err
	}

	result, err := tx.ExecContext(ctx, `
		INSERT OR IGNORE INTO user_papers (user_id, openalex_id, status, inserted_at)
		VALUES (?, ?, ?, ?)`,
		entry.UserID,
		entry.OpenAlexID,
		string(entry.Status),
		formatTime(entry.InsertedAt),
	)
	if err != nil {
		return false, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	created := n > 0

	if created {
		if err := insertPost(ctx, tx, post); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}

	// Re-adds refresh the metadata too, so index on every committed write.
	s.indexPaper(ctx, paper)

	return created, nil
}

// SetStatus updates an entry's reading status and appends the status post in
// one transaction. The post is written even when the new status equals the
// old one. Returns store.ErrEntryNotFound if the paper is not in the library.
func (s *Store) SetStatus(ctx context.Context, userID, openalexID string, status domain.ReadingStatus, post *domain.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE user_papers SET status = ?
		WHERE user_id = ? AND openalex_id = ?`,
		string(status), userID, openalexID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrEntryNotFound
	}

	if err := insertPost(ctx, tx, post); err != nil {
		return err
	}

	return tx.Commit()
}

// RemoveFromLibrary deletes a user's entry for a paper. The catalog row and
// past posts referencing the paper stay behind.
// Returns store.ErrEntryNotFound if the entry does not exist.
func (s *Store) RemoveFromLibrary(ctx context.Context, userID, openalexID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM user_papers WHERE user_id = ? AND openalex_id = ?`,
		userID, openalexID,
	)
	if err != nil {
		return err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrEntryNotFound
	}
	return nil
}

// GetLibraryEntry retrieves a single entry.
// Returns store.ErrEntryNotFound if the paper is not in the user's library.
func (s *Store) GetLibraryEntry(ctx context.Context, userID, openalexID string) (*domain.LibraryEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM user_papers WHERE user_id = ? AND openalex_id = ?`,
		userID, openalexID)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListLibrary returns a user's entries joined with paper metadata, newest
// first. Passing an empty status returns every shelf.
func (s *Store) ListLibrary(ctx context.Context, userID string, status domain.ReadingStatus) ([]*domain.LibraryItem, error) {
	query := `
		SELECT e.user_id, e.openalex_id, e.status, e.inserted_at,
		       p.openalex_id, p.title, p.authors, p.year, p.url, p.source, p.updated_at
		FROM user_papers e
		JOIN papers p ON p.openalex_id = e.openalex_id
		WHERE e.user_id = ?`
	args := []any{userID}

	if status != "" {
		query += ` AND e.status = ?`
		args = append(args, string(status))
	}
	query += ` ORDER BY e.inserted_at DESC, e.openalex_id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.LibraryItem
	for rows.Next() {
		item, err := scanLibraryItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// scanLibraryItem scans an entry row joined with its paper columns.
func scanLibraryItem(scanner interface{ Scan(dest ...any) error }) (*domain.LibraryItem, error) {
	var (
		item       domain.LibraryItem
		paper      domain.Paper
		status     string
		insertedAt string
		authors    string
		year       sql.NullInt64
		url        sql.NullString
		updatedAt  string
	)

	err := scanner.Scan(
		&item.Entry.UserID,
		&item.Entry.OpenAlexID,
		&status,
		&insertedAt,
		&paper.OpenAlexID,
		&paper.Title,
		&authors,
		&year,
		&url,
		&paper.Source,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Entry.Status = domain.ReadingStatus(status)
	item.Entry.InsertedAt, err = parseTime(insertedAt)
	if err != nil {
		return nil, err
	}

	if err := unmarshalAuthors(authors, &paper); err != nil {
		return nil, err
	}
	paper.Year = int(year.Int64)
	paper.URL = url.String
	paper.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	item.Paper = &paper
	return &item, nil
}

// LibrarySnapshot counts a user's entries per status.
func (s *Store) LibrarySnapshot(ctx context.Context, userID string) (domain.LibrarySnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT status, COUNT(*) FROM user_papers
		WHERE user_id = ?
		GROUP BY status`, userID)
	if err != nil {
		return domain.LibrarySnapshot{}, err
	}
	defer rows.Close()

	var snap domain.LibrarySnapshot
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return domain.LibrarySnapshot{}, err
		}
		switch domain.ReadingStatus(status) {
		case domain.StatusToRead:
			snap.ToRead = count
		case domain.StatusReading:
			snap.Reading = count
		case domain.StatusRead:
			snap.Read = count
		default:
			return domain.LibrarySnapshot{}, fmt.Errorf("unknown status %q in library", status)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.LibrarySnapshot{}, err
	}
	return snap, nil
}

// ReadTimestamps returns the times at which the user marked papers as read,
// oldest first. The dashboard buckets these into quarters.
func (s *Store) ReadTimestamps(ctx context.Context, userID string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT created_at FROM posts
		WHERE user_id = ? AND type = ? AND status = ?
		ORDER BY created_at ASC`,
		userID, string(domain.PostStatusChanged), string(domain.StatusRead))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stamps []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		ts, err := parseTime(raw)
		if err != nil {
			return nil, err
		}
		stamps = append(stamps, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return stamps, nil
}
