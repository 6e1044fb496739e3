package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"reflecto/internal/ai"
	"reflecto/internal/database"
)

// ErrValidation marks a rejected journal payload; the HTTP layer maps it to a
// client error.
var ErrValidation = errors.New("invalid journal entry")

type JournalService struct {
	repository *database.Repository
	advisor    *ai.Advisor
}

func NewJournalService(repo *database.Repository, advisor *ai.Advisor) *JournalService {
	return &JournalService{
		repository: repo,
		advisor:    advisor,
	}
}

type JournalInput struct {
	UserUID      string `json:"user_uid"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Mood         int    `json:"mood"`
	Productivity int    `json:"productivity"`
}

func (input JournalInput) validate() error {
	if input.UserUID == "" {
		return fmt.Errorf("%w: user_uid is required", ErrValidation)
	}
	if input.Title == "" || len(input.Title) > 200 {
		return fmt.Errorf("%w: title must be 1-200 characters", ErrValidation)
	}
	if input.Description == "" {
		return fmt.Errorf("%w: description is required", ErrValidation)
	}
	if input.Mood < 1 || input.Mood > 10 {
		return fmt.Errorf("%w: mood must be between 1 and 10", ErrValidation)
	}
	if input.Productivity < 1 || input.Productivity > 10 {
		return fmt.Errorf("%w: productivity must be between 1 and 10", ErrValidation)
	}
	return nil
}

// Create runs the stamping pipeline (classify → advise → persist). A failed
// or unconfigured AI call degrades to neutral defaults instead of failing
// the write.
func (js *JournalService) Create(ctx context.Context, input JournalInput) (*database.Journal, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	journal := &database.Journal{
		UserUID:      input.UserUID,
		Title:        input.Title,
		Description:  input.Description,
		Mood:         input.Mood,
		Productivity: input.Productivity,
	}
	js.stamp(ctx, journal)

	if err := js.repository.CreateJournal(journal); err != nil {
		return nil, fmt.Errorf("save journal: %w", err)
	}

	log.Printf("📓 Journal %d created for user %s (%s)", journal.ID, journal.UserUID, journal.Sentiment)
	return journal, nil
}

// Update rewrites an entry and re-runs the analysis when the description
// changed.
func (js *JournalService) Update(ctx context.Context, id int64, input JournalInput) (*database.Journal, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	journal, err := js.repository.GetJournalByID(id)
	if err != nil {
		return nil, err
	}

	reanalyze := journal.Description != input.Description
	journal.Title = input.Title
	journal.Description = input.Description
	journal.Mood = input.Mood
	journal.Productivity = input.Productivity
	if reanalyze {
		js.stamp(ctx, journal)
	}

	if err := js.repository.UpdateJournal(journal); err != nil {
		return nil, err
	}
	return journal, nil
}

func (js *JournalService) List(userUID string) ([]database.Journal, error) {
	return js.repository.GetJournalsByUser(userUID)
}

func (js *JournalService) Get(id int64) (*database.Journal, error) {
	return js.repository.GetJournalByID(id)
}

func (js *JournalService) Delete(id int64) error {
	return js.repository.DeleteJournal(id)
}

func (js *JournalService) stamp(ctx context.Context, journal *database.Journal) {
	journal.Sentiment = database.SentimentNeutral
	journal.Sarcasm = database.SarcasmNotSarcastic
	journal.Analysis = nil

	if js.advisor == nil {
		return
	}

	result, err := js.advisor.AnalyzeEntry(ctx, journal.Description)
	if err != nil {
		log.Printf("⚠️ Sentiment analysis failed, using defaults: %v", err)
		return
	}
	journal.Sentiment = result.Sentiment
	journal.Sarcasm = result.Sarcasm

	advice, err := js.advisor.GenerateAdvice(ctx, journal.Description, result.Sentiment)
	if err != nil {
		log.Printf("⚠️ Advice generation failed: %v", err)
		return
	}
	journal.Analysis = (*database.Analysis)(advice)
}
