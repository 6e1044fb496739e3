package analytics

import (
	"context"
	"math"
)

type Averages struct {
	Mood         float64 `json:"mood"`
	Productivity float64 `json:"productivity"`
	Combined     float64 `json:"combined"`
	Energy       float64 `json:"energy"`
}

type SentimentPct struct {
	Positive int `json:"positive"`
}

type Correlations struct {
	MoodVsProductivity float64 `json:"mood_vs_productivity"`
}

type Streaks struct {
	Current int `json:"current"`
	Best    int `json:"best"`
}

type Highlights struct {
	BestDay  *DayStat `json:"best_day"`
	ToughDay *DayStat `json:"tough_day"`
}

// Summary holds the range-level statistics derived from a trend series.
// Highlights is omitted when the range has no entries at all, so callers
// never see an empty day passed off as a literal worst day.
type Summary struct {
	Range        string       `json:"range"`
	Averages     Averages     `json:"averages"`
	SentimentPct SentimentPct `json:"sentiment_pct"`
	Correlations Correlations `json:"correlations"`
	Streaks      Streaks      `json:"streaks"`
	Highlights   *Highlights  `json:"highlights,omitempty"`
	TotalEntries int          `json:"total_entries"`
}

// GetSummary derives range statistics strictly from GetTrends output; it
// never re-reads the record source.
func (s *Service) GetSummary(ctx context.Context, userUID, dateRange string) (*Summary, error) {
	trends, err := s.GetTrends(ctx, userUID, dateRange)
	if err != nil {
		return nil, err
	}
	series := trends.Series

	// Days with entries; 0 is the empty-day sentinel, not a real low score,
	// so it must not drag the range averages down.
	var validDays []DayStat
	totalEntries := 0
	positiveCount := 0
	for _, day := range series {
		if day.CombinedAvg > 0 {
			validDays = append(validDays, day)
		}
		totalEntries += day.SentimentCounts.Total
		positiveCount += day.SentimentCounts.Positive
	}

	summary := &Summary{Range: trends.Range}
	summary.TotalEntries = totalEntries

	if len(validDays) > 0 {
		n := float64(len(validDays))
		var moodSum, prodSum, combinedSum, energySum float64
		for _, day := range validDays {
			moodSum += day.MoodAvg
			prodSum += day.ProductivityAvg
			combinedSum += day.CombinedAvg
			energySum += day.EnergyScore
		}
		summary.Averages = Averages{
			Mood:         round2(moodSum / n),
			Productivity: round2(prodSum / n),
			Combined:     round2(combinedSum / n),
			Energy:       round2(energySum / n),
		}
	}

	if totalEntries > 0 {
		summary.SentimentPct.Positive = int(math.Round(100 * float64(positiveCount) / float64(totalEntries)))
	}

	moods := make([]float64, len(validDays))
	prods := make([]float64, len(validDays))
	for i, day := range validDays {
		moods[i] = day.MoodAvg
		prods[i] = day.ProductivityAvg
	}
	summary.Correlations.MoodVsProductivity = round2(pearson(moods, prods))

	summary.Streaks.Current, summary.Streaks.Best = computeStreaks(series)

	if totalEntries > 0 {
		summary.Highlights = computeHighlights(series)
	}

	return summary, nil
}

// pearson is the Pearson correlation coefficient: covariance over the
// product of standard deviations. It returns 0 for fewer than 2 points or
// when either side has zero variance; that 0 is a divide-by-zero guard, not
// a true "no correlation" measurement.
func pearson(xs, ys []float64) float64 {
	if len(xs) != len(ys) || len(xs) < 2 {
		return 0.0
	}

	n := float64(len(xs))
	var meanX, meanY float64
	for i := range xs {
		meanX += xs[i]
		meanY += ys[i]
	}
	meanX /= n
	meanY /= n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	stdX := math.Sqrt(varX)
	stdY := math.Sqrt(varY)
	if stdX == 0 || stdY == 0 {
		return 0.0
	}
	return cov / (stdX * stdY)
}

// computeStreaks scans the gap-filled, date-ordered series once for the best
// streak, then walks backward from the end for the current one. The current
// streak is the run containing the most recent active day, so an entry
// yesterday still counts as a live streak before today's entry is written.
func computeStreaks(series []DayStat) (current, best int) {
	run := 0
	for _, day := range series {
		if day.SentimentCounts.Total > 0 {
			run++
			if run > best {
				best = run
			}
		} else {
			run = 0
		}
	}

	i := len(series) - 1
	for i >= 0 && series[i].SentimentCounts.Total == 0 {
		i--
	}
	for i >= 0 && series[i].SentimentCounts.Total > 0 {
		current++
		i--
	}
	return current, best
}

// computeHighlights picks the best and toughest days by combined score over
// the full series; ties go to the earliest date.
func computeHighlights(series []DayStat) *Highlights {
	if len(series) == 0 {
		return nil
	}

	best := series[0]
	tough := series[0]
	for _, day := range series[1:] {
		if day.CombinedAvg > best.CombinedAvg {
			best = day
		}
		if day.CombinedAvg < tough.CombinedAvg {
			tough = day
		}
	}

	bestCopy := best
	toughCopy := tough
	return &Highlights{BestDay: &bestCopy, ToughDay: &toughCopy}
}
