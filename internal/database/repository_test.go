package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "reflecto.db"))
	if err != nil {
		t.Fatalf("new database: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return NewRepository(db)
}

func testJournal(userUID string, createdAt time.Time) *Journal {
	return &Journal{
		UserUID:      userUID,
		Title:        "Long day",
		Description:  "Shipped the release, finally.",
		Mood:         8,
		Productivity: 7,
		Sentiment:    SentimentPositive,
		Sarcasm:      SarcasmNotSarcastic,
		CreatedAt:    createdAt,
	}
}

func TestCreateAndGetJournal(t *testing.T) {
	repo := newTestRepository(t)

	journal := testJournal("u1", time.Date(2024, 3, 8, 10, 30, 0, 0, time.UTC))
	journal.Analysis = &Analysis{
		EmotionalSummary: "Relief and pride",
		Reflection:       "You pushed through a hard stretch.",
		Suggestions:      []string{"Celebrate the win", "Rest tonight", "Note what worked"},
	}

	if err := repo.CreateJournal(journal); err != nil {
		t.Fatalf("create journal: %v", err)
	}
	if journal.ID == 0 {
		t.Fatal("create did not assign an id")
	}

	got, err := repo.GetJournalByID(journal.ID)
	if err != nil {
		t.Fatalf("get journal: %v", err)
	}
	if got.Title != journal.Title || got.Mood != 8 || got.Sentiment != SentimentPositive {
		t.Errorf("round-trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(journal.CreatedAt) {
		t.Errorf("created_at = %v, want %v", got.CreatedAt, journal.CreatedAt)
	}
	if got.Analysis == nil || got.Analysis.EmotionalSummary != "Relief and pride" {
		t.Errorf("analysis did not round-trip: %+v", got.Analysis)
	}
	if len(got.Analysis.Suggestions) != 3 {
		t.Errorf("got %d suggestions, want 3", len(got.Analysis.Suggestions))
	}
}

func TestGetJournalNotFound(t *testing.T) {
	repo := newTestRepository(t)

	if _, err := repo.GetJournalByID(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get missing journal error = %v, want ErrNotFound", err)
	}
}

func TestGetJournalsByUserNewestFirst(t *testing.T) {
	repo := newTestRepository(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		if err := repo.CreateJournal(testJournal("u1", base.AddDate(0, 0, i))); err != nil {
			t.Fatalf("create journal %d: %v", i, err)
		}
	}
	if err := repo.CreateJournal(testJournal("u2", base)); err != nil {
		t.Fatalf("create journal for u2: %v", err)
	}

	journals, err := repo.GetJournalsByUser("u1")
	if err != nil {
		t.Fatalf("list journals: %v", err)
	}
	if len(journals) != 3 {
		t.Fatalf("got %d journals, want 3", len(journals))
	}
	for i := 1; i < len(journals); i++ {
		if journals[i].CreatedAt.After(journals[i-1].CreatedAt) {
			t.Fatalf("journals not newest first: %v after %v", journals[i].CreatedAt, journals[i-1].CreatedAt)
		}
	}
}

func TestUpdateJournal(t *testing.T) {
	repo := newTestRepository(t)

	journal := testJournal("u1", time.Now().UTC())
	if err := repo.CreateJournal(journal); err != nil {
		t.Fatalf("create journal: %v", err)
	}

	journal.Mood = 3
	journal.Sentiment = SentimentNegative
	if err := repo.UpdateJournal(journal); err != nil {
		t.Fatalf("update journal: %v", err)
	}

	got, err := repo.GetJournalByID(journal.ID)
	if err != nil {
		t.Fatalf("get journal: %v", err)
	}
	if got.Mood != 3 || got.Sentiment != SentimentNegative {
		t.Errorf("update not persisted: %+v", got)
	}

	missing := testJournal("u1", time.Now().UTC())
	missing.ID = 999
	if err := repo.UpdateJournal(missing); !errors.Is(err, ErrNotFound) {
		t.Fatalf("update missing journal error = %v, want ErrNotFound", err)
	}
}

func TestDeleteJournal(t *testing.T) {
	repo := newTestRepository(t)

	journal := testJournal("u1", time.Now().UTC())
	if err := repo.CreateJournal(journal); err != nil {
		t.Fatalf("create journal: %v", err)
	}

	if err := repo.DeleteJournal(journal.ID); err != nil {
		t.Fatalf("delete journal: %v", err)
	}
	if _, err := repo.GetJournalByID(journal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("journal still present after delete: %v", err)
	}
	if err := repo.DeleteJournal(journal.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete error = %v, want ErrNotFound", err)
	}
}

func TestFetchJournalsRangeInclusive(t *testing.T) {
	repo := newTestRepository(t)

	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	times := []struct {
		at   time.Time
		want bool
	}{
		{start.Add(-time.Second), false},
		{start, true},
		{start.AddDate(0, 0, 3), true},
		{end, true},
		{end.Add(time.Second), false},
	}
	for _, tt := range times {
		if err := repo.CreateJournal(testJournal("u1", tt.at)); err != nil {
			t.Fatalf("create journal at %v: %v", tt.at, err)
		}
	}
	// Same window, different user: must not leak in.
	if err := repo.CreateJournal(testJournal("u2", start.AddDate(0, 0, 1))); err != nil {
		t.Fatalf("create journal for u2: %v", err)
	}

	journals, err := repo.FetchJournals(context.Background(), "u1", start, end)
	if err != nil {
		t.Fatalf("fetch journals: %v", err)
	}
	if len(journals) != 3 {
		t.Fatalf("got %d journals in range, want 3", len(journals))
	}
	for _, journal := range journals {
		if journal.CreatedAt.Before(start) || journal.CreatedAt.After(end) {
			t.Errorf("journal at %v outside [%v, %v]", journal.CreatedAt, start, end)
		}
		if journal.UserUID != "u1" {
			t.Errorf("fetched journal for user %q", journal.UserUID)
		}
	}
}
