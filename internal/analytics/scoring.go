package analytics

import (
	"math"
	"strings"
)

// Scoring weights for the composite score. Mood dominates; sarcasm discounts
// the reported sentiment because sarcastic text inflates apparent polarity.
const (
	moodWeight      = 0.5
	prodWeight      = 0.3
	sentimentWeight = 0.2
	sarcasmDiscount = 0.9
)

// SentimentScore maps a sentiment label to a 0-10 score. Unrecognized labels
// fall back to the neutral baseline.
func SentimentScore(label string) float64 {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "positive":
		return 9.0
	case "negative":
		return 3.0
	default:
		return 6.0
	}
}

// CompositeScore blends mood, productivity and sarcasm-adjusted sentiment
// into a single 0-10 figure, rounded to 2 decimals.
func CompositeScore(mood, productivity, sentimentScore float64, sarcastic bool) float64 {
	effSentiment := sentimentScore
	if sarcastic {
		effSentiment *= sarcasmDiscount
	}
	score := moodWeight*mood + prodWeight*productivity + sentimentWeight*effSentiment
	return round2(math.Max(0.0, math.Min(10.0, score)))
}

// EnergyScore is the multiplicative mood×productivity measure: low on either
// axis suppresses energy more than an average would.
func EnergyScore(mood, productivity float64) float64 {
	return round2(mood * productivity / 10.0)
}

// IsSarcastic reports whether a sarcasm label triggers the sentiment
// discount. Anything other than "sarcastic" counts as not sarcastic, which
// covers both the "not_sarcastic" and legacy "not sarcastic" spellings.
func IsSarcastic(label string) bool {
	return strings.ToLower(strings.TrimSpace(label)) == "sarcastic"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
