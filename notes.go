// Package weightnotes turns a user's exported weight history into summary
// statistics and a short plain-text report.
package weightnotes

import (
	"fmt"
	"math"
	"strings"
)

// BuildNotes turns a summary into a short text report.
func BuildNotes(s Summary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "User: %s\n", s.UserID)
	if s.Count == 0 {
		b.WriteString("No measurements.\n")
		return strings.TrimSpace(b.String())
	}
	fmt.Fprintf(
		&b,
		"Measurements: %d over %s (%s to %s)\n",
		s.Count,
		spanLabel(s.Last.Sub(s.First)),
		s.First.UTC().Format("2006-01-02"),
		s.Last.UTC().Format("2006-01-02"),
	)

	if s.LatestWeightKG > 0 {
		fmt.Fprintf(
			&b,
			"Weight %.1f kg latest | %.1f avg | %.1f-%.1f range\n",
			s.LatestWeightKG,
			s.AvgWeightKG,
			s.MinWeightKG,
			s.MaxWeightKG,
		)
		if s.WeightChangeKG != 0 {
			fmt.Fprintf(&b, "Change since first: %+.1f kg (%+.1f%%)\n", s.WeightChangeKG, s.WeightChangePct)
		}
	} else {
		b.WriteString("Weight not reported\n")
	}

	if s.LatestFatPct > 0 {
		fmt.Fprintf(&b, "Body fat %.1f%% latest | %.1f%% avg", s.LatestFatPct, s.AvgFatPct)
		if s.FatChangePct != 0 {
			fmt.Fprintf(&b, " | %+.1f pts since first", s.FatChangePct)
		}
		b.WriteByte('\n')
	} else {
		b.WriteString("Body fat not reported\n")
	}

	b.WriteString("\nTrend\n- ")
	b.WriteString(trendAssessment(s.Trend))
	b.WriteByte('\n')

	return strings.TrimSpace(b.String())
}

func trendAssessment(t Trend) string {
	switch t.Direction {
	case TrendInsufficient, "":
		return "Not enough measurements spread over at least a week to estimate a trend."
	case TrendStable:
		return fmt.Sprintf("Weight is stable (%+.2f kg/week).", t.SlopeKGPerWeek)
	}

	verb := "gaining"
	if t.Direction == TrendLosing {
		verb = "losing"
	}
	msg := fmt.Sprintf(
		"Currently %s %.2f kg/week (fit confidence %.0f%%).",
		verb,
		math.Abs(t.SlopeKGPerWeek),
		t.Confidence*100,
	)
	if t.Confidence >= 0.5 && t.ProjectedIn30Days > 0 {
		msg += fmt.Sprintf(" At this rate: about %.1f kg in 30 days.", t.ProjectedIn30Days)
	}
	return msg
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
