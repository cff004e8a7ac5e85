package weightnotes

import (
	"math"
	"time"
)

const trendSchemaVersion = "weight_trend_v1"

// Trend directions.
const (
	TrendInsufficient = "insufficient_data"
	TrendStable       = "stable"
	TrendLosing       = "losing"
	TrendGaining      = "gaining"
)

const (
	minTrendSamples = 3
	minTrendDays    = 7.0

	// stableKGPerWeek is the slope below which a trend is considered flat.
	stableKGPerWeek = 0.1
)

// Trend is a least-squares view of weight over time.
type Trend struct {
	SchemaVersion     string  `json:"schema_version"`
	Direction         string  `json:"direction"`
	SlopeKGPerWeek    float64 `json:"slope_kg_per_week"`
	Confidence        float64 `json:"confidence"`
	ResidualStdDevKG  float64 `json:"residual_stddev_kg"`
	ProjectedIn30Days float64 `json:"projected_kg_in_30_days,omitempty"`
}

// InferTrend fits a line through weight samples (sorted, zero weights already
// removed) and classifies the direction. Confidence is the fit's R².
func InferTrend(samples []Sample) Trend {
	t := Trend{SchemaVersion: trendSchemaVersion, Direction: TrendInsufficient}
	if len(samples) < minTrendSamples {
		return t
	}
	origin := samples[0].Timestamp
	span := samples[len(samples)-1].Timestamp.Sub(origin).Hours() / 24
	if span < minTrendDays {
		return t
	}

	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = s.Timestamp.Sub(origin).Hours() / 24
		ys[i] = s.WeightKG
	}

	slope, intercept := linearFit(xs, ys)
	meanY := average(ys)
	var ssRes, ssTot float64
	for i := range xs {
		predicted := intercept + slope*xs[i]
		ssRes += (ys[i] - predicted) * (ys[i] - predicted)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}

	t.SlopeKGPerWeek = slope * 7
	t.ResidualStdDevKG = math.Sqrt(ssRes / float64(len(xs)))
	if ssTot > 0 {
		t.Confidence = math.Max(0, 1-ssRes/ssTot)
	}
	t.ProjectedIn30Days = intercept + slope*(span+30)

	switch {
	case math.Abs(t.SlopeKGPerWeek) < stableKGPerWeek:
		t.Direction = TrendStable
	case t.SlopeKGPerWeek < 0:
		t.Direction = TrendLosing
	default:
		t.Direction = TrendGaining
	}
	return t
}

func linearFit(xs, ys []float64) (slope, intercept float64) {
	meanX, meanY := average(xs), average(ys)
	var num, den float64
	for i := range xs {
		dx := xs[i] - meanX
		num += dx * (ys[i] - meanY)
		den += dx * dx
	}
	if den == 0 {
		return 0, meanY
	}
	slope = num / den
	return slope, meanY - slope*meanX
}

// spanLabel renders a duration in days/weeks for notes.
func spanLabel(d time.Duration) string {
	days := d.Hours() / 24
	switch {
	case days < 1:
		return "under a day"
	case days < 14:
		return pluralize(int(math.Round(days)), "day")
	default:
		return pluralize(int(math.Round(days/7)), "week")
	}
}
