package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a journal id does not exist.
var ErrNotFound = errors.New("journal not found")

// timeLayout is a fixed-width UTC layout so that lexicographic comparison of
// stored timestamps matches chronological order.
const timeLayout = "2006-01-02 15:04:05"

type Repository struct {
	Db *Database
}

func NewRepository(db *Database) *Repository {
	return &Repository{Db: db}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.ParseInLocation(timeLayout, s, time.UTC)
}

func (r *Repository) CreateJournal(journal *Journal) error {
	now := time.Now().UTC()
	if journal.CreatedAt.IsZero() {
		journal.CreatedAt = now
	}
	journal.UpdatedAt = now

	analysisJSON, err := marshalAnalysis(journal.Analysis)
	if err != nil {
		return err
	}

	result, err := r.Db.db.Exec(`
		INSERT INTO journals (user_uid, title, description, mood, productivity, sentiment, sarcasm, analysis, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, journal.UserUID, journal.Title, journal.Description, journal.Mood, journal.Productivity,
		journal.Sentiment, journal.Sarcasm, analysisJSON, formatTime(journal.CreatedAt), formatTime(journal.UpdatedAt))
	if err != nil {
		return err
	}

	journal.ID, err = result.LastInsertId()
	return err
}

func (r *Repository) GetJournalsByUser(userUID string) ([]Journal, error) {
	rows, err := r.Db.db.Query(`
		SELECT id, user_uid, title, description, mood, productivity, sentiment, sarcasm, analysis, created_at, updated_at
		FROM journals
		WHERE user_uid = ?
		ORDER BY created_at DESC
	`, userUID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJournals(rows)
}

func (r *Repository) GetJournalByID(id int64) (*Journal, error) {
	row := r.Db.db.QueryRow(`
		SELECT id, user_uid, title, description, mood, productivity, sentiment, sarcasm, analysis, created_at, updated_at
		FROM journals
		WHERE id = ?
	`, id)

	journal, err := scanJournal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return journal, nil
}

func (r *Repository) UpdateJournal(journal *Journal) error {
	journal.UpdatedAt = time.Now().UTC()

	analysisJSON, err := marshalAnalysis(journal.Analysis)
	if err != nil {
		return err
	}

	result, err := r.Db.db.Exec(`
		UPDATE journals
		SET title = ?, description = ?, mood = ?, productivity = ?, sentiment = ?, sarcasm = ?, analysis = ?, updated_at = ?
		WHERE id = ?
	`, journal.Title, journal.Description, journal.Mood, journal.Productivity,
		journal.Sentiment, journal.Sarcasm, analysisJSON, formatTime(journal.UpdatedAt), journal.ID)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteJournal(id int64) error {
	result, err := r.Db.db.Exec("DELETE FROM journals WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// FetchJournals returns all entries for a user with created_at inside the
// inclusive [startUTC, endUTC] window. Ordering is not guaranteed; the
// analytics engine re-groups by date itself.
func (r *Repository) FetchJournals(ctx context.Context, userUID string, startUTC, endUTC time.Time) ([]Journal, error) {
	rows, err := r.Db.db.QueryContext(ctx, `
		SELECT id, user_uid, title, description, mood, productivity, sentiment, sarcasm, analysis, created_at, updated_at
		FROM journals
		WHERE user_uid = ? AND created_at >= ? AND created_at <= ?
	`, userUID, formatTime(startUTC), formatTime(endUTC))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanJournals(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJournal(row rowScanner) (*Journal, error) {
	var journal Journal
	var analysisJSON sql.NullString
	var createdAt, updatedAt string

	err := row.Scan(
		&journal.ID,
		&journal.UserUID,
		&journal.Title,
		&journal.Description,
		&journal.Mood,
		&journal.Productivity,
		&journal.Sentiment,
		&journal.Sarcasm,
		&analysisJSON,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if journal.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at for journal %d: %v", journal.ID, err)
	}
	if journal.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at for journal %d: %v", journal.ID, err)
	}

	if analysisJSON.Valid && analysisJSON.String != "" {
		var analysis Analysis
		if err := json.Unmarshal([]byte(analysisJSON.String), &analysis); err != nil {
			return nil, fmt.Errorf("bad analysis for journal %d: %v", journal.ID, err)
		}
		journal.Analysis = &analysis
	}

	return &journal, nil
}

func scanJournals(rows *sql.Rows) ([]Journal, error) {
	var journals []Journal
	for rows.Next() {
		journal, err := scanJournal(rows)
		if err != nil {
			return nil, err
		}
		journals = append(journals, *journal)
	}
	return journals, rows.Err()
}

func marshalAnalysis(analysis *Analysis) (any, error) {
	if analysis == nil {
		return nil, nil
	}
	b, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analysis: %v", err)
	}
	return string(b), nil
}
