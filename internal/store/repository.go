package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TranscriptNotFoundError is returned when a lookup matches no transcript.
type TranscriptNotFoundError struct {
	GUID string
}

func (e *TranscriptNotFoundError) Error() string {
	return fmt.Sprintf("transcript %s not found", e.GUID)
}

// TranscriptRepository persists and retrieves transcripts.
type TranscriptRepository interface {
	// Save inserts a new transcript (ID == 0, GUID assigned) or updates
	// an existing one.
	Save(t *Transcript) error
	// FindByGUID returns a transcript by GUID.
	// Returns TranscriptNotFoundError if no matching transcript exists.
	FindByGUID(guid string) (*Transcript, error)
	// List returns transcripts newest first, at most limit (0 = all).
	List(limit int) ([]*Transcript, error)
	// Delete soft-deletes a transcript by GUID.
	Delete(guid string) error
}

// transcriptColumns is the list of columns to select for transcript queries.
const transcriptColumns = `id, guid, layout, content, char_count, created_at, updated_at, deleted_at`

// transcriptRepository implements TranscriptRepository using SQLite.
type transcriptRepository struct {
	db *sql.DB
}

// NewTranscriptRepository creates a repository over an open database.
func NewTranscriptRepository(db *DB) TranscriptRepository {
	return &transcriptRepository{db: db.Conn()}
}

var _ TranscriptRepository = (*transcriptRepository)(nil)

// scanTranscript scans a row into a transcriptModel.
func scanTranscript(scanner interface{ Scan(...any) error }) (*transcriptModel, error) {
	var model transcriptModel
	err := scanner.Scan(
		&model.ID, &model.GUID, &model.Layout, &model.Content,
		&model.CharCount, &model.CreatedAt, &model.UpdatedAt, &model.DeletedAt,
	)
	return &model, err
}

func (r *transcriptRepository) Save(t *Transcript) error {
	now := time.Now()
	t.UpdatedAt = now

	if t.ID == 0 {
		if t.GUID == "" {
			t.GUID = uuid.NewString()
		}
		t.CreatedAt = now
		model := toModel(t)

		result, err := r.db.Exec(
			`INSERT INTO transcripts (guid, layout, content, char_count, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			model.GUID, model.Layout, model.Content, model.CharCount,
			model.CreatedAt, model.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert transcript: %w", err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
		t.ID = id
		return nil
	}

	model := toModel(t)
	_, err := r.db.Exec(
		`UPDATE transcripts SET layout = ?, content = ?, char_count = ?, updated_at = ?
		 WHERE id = ?`,
		model.Layout, model.Content, model.CharCount, model.UpdatedAt, model.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transcript: %w", err)
	}
	return nil
}

func (r *transcriptRepository) FindByGUID(guid string) (*Transcript, error) {
	row := r.db.QueryRow(
		`SELECT `+transcriptColumns+` FROM transcripts WHERE guid = ? AND deleted_at IS NULL`,
		guid,
	)
	model, err := scanTranscript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &TranscriptNotFoundError{GUID: guid}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transcript by guid: %w", err)
	}
	return model.toTranscript(), nil
}

func (r *transcriptRepository) List(limit int) ([]*Transcript, error) {
	query := `SELECT ` + transcriptColumns + ` FROM transcripts WHERE deleted_at IS NULL ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transcripts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*Transcript
	for rows.Next() {
		model, err := scanTranscript(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transcript: %w", err)
		}
		out = append(out, model.toTranscript())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transcripts: %w", err)
	}
	return out, nil
}

func (r *transcriptRepository) Delete(guid string) error {
	result, err := r.db.Exec(
		`UPDATE transcripts SET deleted_at = ? WHERE guid = ? AND deleted_at IS NULL`,
		time.Now().Unix(), guid,
	)
	if err != nil {
		return fmt.Errorf("failed to delete transcript: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return &TranscriptNotFoundError{GUID: guid}
	}
	return nil
}
