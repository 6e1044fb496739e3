package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"reflecto/internal/database"
	"reflecto/internal/utils"
)

// ErrInvalidRange is returned for an unrecognized date_range key. It is a
// client-side input error and is never retried.
var ErrInvalidRange = errors.New("invalid date_range parameter")

const dateLayout = "2006-01-02"

// RecordSource supplies journal entries for a user within a UTC instant
// window. Implemented by *database.Repository and by in-memory fakes in
// tests.
type RecordSource interface {
	FetchJournals(ctx context.Context, userUID string, startUTC, endUTC time.Time) ([]database.Journal, error)
}

// SentimentCounts tallies sentiment labels for one day. Unrecognized labels
// count as neutral, so Total is always the number of entries that day and
// Total == 0 is the only reliable empty-day marker.
type SentimentCounts struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
	Total    int `json:"total"`
}

// DayStat is the per-day aggregate for one local calendar date. All numeric
// fields are 0 for an empty day; check SentimentCounts.Total to tell an empty
// day apart from a genuinely low-scoring one.
type DayStat struct {
	Date            string          `json:"date"`
	MoodAvg         float64         `json:"mood_avg"`
	ProductivityAvg float64         `json:"productivity_avg"`
	CombinedAvg     float64         `json:"combined_avg"`
	EnergyScore     float64         `json:"energy_score"`
	SentimentScore  float64         `json:"sentiment_score"` // 0-1 scaled
	SentimentCounts SentimentCounts `json:"sentiment_counts"`
}

// TrendReport is the gap-filled daily series for a resolved range.
type TrendReport struct {
	Range    string    `json:"range"`
	Series   []DayStat `json:"series"`
	Timezone string    `json:"tz"`
}

// Service is the journal analytics engine. It performs exactly one read from
// the record source per request and computes everything else in memory; it is
// safe for concurrent use.
type Service struct {
	source RecordSource
	loc    *time.Location
	now    func() time.Time
}

func NewService(source RecordSource) *Service {
	return &Service{
		source: source,
		loc:    utils.ISTLocation(),
		now:    time.Now,
	}
}

// resolveRange maps a range key to [local midnight of the first day, now] in
// the reference timezone.
func (s *Service) resolveRange(dateRange string) (time.Time, time.Time, error) {
	var daysBack int
	switch dateRange {
	case "7d":
		daysBack = 6
	case "30d":
		daysBack = 29
	case "6mo":
		daysBack = 182
	case "1y", "12mo":
		daysBack = 364
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidRange, dateRange)
	}

	now := s.now().In(s.loc)
	first := now.AddDate(0, 0, -daysBack)
	start := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, s.loc)
	return start, now, nil
}

// GetTrends returns the ordered daily series (oldest first) for the requested
// range, one DayStat per calendar date with empty days filled in.
func (s *Service) GetTrends(ctx context.Context, userUID, dateRange string) (*TrendReport, error) {
	startLocal, endLocal, err := s.resolveRange(dateRange)
	if err != nil {
		return nil, err
	}

	records, err := s.source.FetchJournals(ctx, userUID, startLocal.UTC(), endLocal.UTC())
	if err != nil {
		return nil, fmt.Errorf("fetch journals: %w", err)
	}

	// Group by local calendar date in the reference zone.
	buckets := make(map[string][]database.Journal)
	for _, record := range records {
		day := record.CreatedAt.In(s.loc).Format(dateLayout)
		buckets[day] = append(buckets[day], record)
	}

	// Walk every date from start through today inclusive so the series has
	// no gaps; a skipped day would corrupt streaks and averages downstream.
	var series []DayStat
	for day := startLocal; !day.After(endLocal); day = day.AddDate(0, 0, 1) {
		date := day.Format(dateLayout)
		series = append(series, aggregateDay(date, buckets[date]))
	}

	return &TrendReport{
		Range:    dateRange,
		Series:   series,
		Timezone: utils.ISTTimezoneName,
	}, nil
}

// aggregateDay reduces one day's entries to averages and label counts. An
// empty bucket yields the all-zero marker stat.
func aggregateDay(date string, records []database.Journal) DayStat {
	stat := DayStat{Date: date}
	if len(records) == 0 {
		return stat
	}

	var moodSum, prodSum, combinedSum, energySum, sentimentSum float64
	for _, record := range records {
		mood := float64(record.Mood)
		prod := float64(record.Productivity)
		label := strings.ToLower(strings.TrimSpace(record.Sentiment))
		sentiment := SentimentScore(label)

		moodSum += mood
		prodSum += prod
		combinedSum += CompositeScore(mood, prod, sentiment, IsSarcastic(record.Sarcasm))
		energySum += EnergyScore(mood, prod)
		sentimentSum += sentiment

		switch label {
		case "positive":
			stat.SentimentCounts.Positive++
		case "negative":
			stat.SentimentCounts.Negative++
		default:
			stat.SentimentCounts.Neutral++
		}
	}

	n := float64(len(records))
	stat.MoodAvg = round2(moodSum / n)
	stat.ProductivityAvg = round2(prodSum / n)
	stat.CombinedAvg = round2(combinedSum / n)
	stat.EnergyScore = round2(energySum / n)
	stat.SentimentScore = round2(sentimentSum / n / 10.0)
	stat.SentimentCounts.Total = len(records)

	return stat
}
