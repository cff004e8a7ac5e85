package weightnotes

import (
	"math"
	"sort"
	"time"
)

// Sample is one timestamped reading for a single user. A zero weight or fat
// value means the scale did not report it.
type Sample struct {
	Timestamp time.Time
	WeightKG  float64
	FatPct    float64
}

// Summary contains aggregate statistics and generated notes for one user.
type Summary struct {
	UserID          string    `json:"user_id"`
	Count           int       `json:"count"`
	First           time.Time `json:"first"`
	Last            time.Time `json:"last"`
	SpanDays        float64   `json:"span_days"`
	FirstWeightKG   float64   `json:"first_weight_kg"`
	LatestWeightKG  float64   `json:"latest_weight_kg"`
	MinWeightKG     float64   `json:"min_weight_kg"`
	MaxWeightKG     float64   `json:"max_weight_kg"`
	AvgWeightKG     float64   `json:"avg_weight_kg"`
	WeightChangeKG  float64   `json:"weight_change_kg"`
	WeightChangePct float64   `json:"weight_change_pct"`
	AvgFatPct       float64   `json:"avg_fat_pct"`
	LatestFatPct    float64   `json:"latest_fat_pct"`
	FatChangePct    float64   `json:"fat_change_pct_points"`
	Trend           Trend     `json:"trend"`
	Notes           string    `json:"notes"`
}

// Summarize computes statistics for one user's samples. Samples need not be
// sorted. Zero placeholders are excluded from weight and fat statistics.
func Summarize(userID string, samples []Sample) Summary {
	s := Summary{UserID: userID, Count: len(samples)}
	if len(samples) == 0 {
		s.Notes = BuildNotes(s)
		return s
	}

	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	s.First = sorted[0].Timestamp
	s.Last = sorted[len(sorted)-1].Timestamp
	s.SpanDays = s.Last.Sub(s.First).Hours() / 24

	weights := make([]float64, 0, len(sorted))
	weighed := make([]Sample, 0, len(sorted))
	fats := make([]float64, 0, len(sorted))
	for _, sample := range sorted {
		if w := safePositive(sample.WeightKG); w > 0 {
			weights = append(weights, w)
			weighed = append(weighed, sample)
		}
		if f := safePositive(sample.FatPct); f > 0 {
			fats = append(fats, f)
		}
	}

	s.FirstWeightKG = firstValue(weights)
	s.LatestWeightKG = lastValue(weights)
	s.MinWeightKG = minValue(weights)
	s.MaxWeightKG = maxValue(weights)
	s.AvgWeightKG = average(weights)
	if len(weights) >= 2 {
		s.WeightChangeKG = s.LatestWeightKG - s.FirstWeightKG
		s.WeightChangePct = pctChange(s.FirstWeightKG, s.LatestWeightKG)
	}

	s.AvgFatPct = average(fats)
	s.LatestFatPct = lastValue(fats)
	if len(fats) >= 2 {
		s.FatChangePct = lastValue(fats) - firstValue(fats)
	}

	s.Trend = InferTrend(weighed)
	s.Notes = BuildNotes(s)
	return s
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	count := 0
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		total += v
		count++
	}
	if count == 0 {
		return 0
	}
	return total / float64(count)
}

func maxValue(values []float64) float64 {
	max := 0.0
	found := false
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if !found || v > max {
			max = v
			found = true
		}
	}
	return max
}

func minValue(values []float64) float64 {
	min := 0.0
	found := false
	for _, v := range values {
		if !isFinite(v) {
			continue
		}
		if !found || v < min {
			min = v
			found = true
		}
	}
	return min
}

func pctChange(start, end float64) float64 {
	if start == 0 {
		return 0
	}
	return ((end / start) - 1.0) * 100.0
}

func firstValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[0]
}

func lastValue(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return values[len(values)-1]
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func safePositive(v float64) float64 {
	if !isFinite(v) || v <= 0 {
		return 0
	}
	return v
}
