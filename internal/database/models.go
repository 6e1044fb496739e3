package database

import "time"

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"

	SarcasmSarcastic    = "sarcastic"
	SarcasmNotSarcastic = "not_sarcastic"
)

// Journal is one stored journal entry. The sentiment/sarcasm labels and the
// analysis payload are stamped by the AI pipeline at create/update time; the
// analytics engine only reads the numeric fields and the labels.
type Journal struct {
	ID           int64     `json:"id"`
	UserUID      string    `json:"user_uid"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Mood         int       `json:"mood"`         // 1-10
	Productivity int       `json:"productivity"` // 1-10
	Sentiment    string    `json:"sentiment"`
	Sarcasm      string    `json:"sarcasm"`
	Analysis     *Analysis `json:"analysis,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Analysis is the AI-generated advice attached to an entry.
type Analysis struct {
	EmotionalSummary string   `json:"emotional_summary"`
	Reflection       string   `json:"reflection"`
	Suggestions      []string `json:"suggestions"`
}
