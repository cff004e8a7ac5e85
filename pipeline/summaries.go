package pipeline

import (
	"time"

	weightnotes "github.com/lucasjlepore/huawei-weight-export"
)

// Samples converts a user's rows into summary samples, ascending by time.
func (t Table) Samples(user string) []weightnotes.Sample {
	rows := t.Rows(user)
	out := make([]weightnotes.Sample, 0, len(rows))
	for _, r := range rows {
		out = append(out, weightnotes.Sample{
			Timestamp: time.UnixMilli(r.TimestampMS).UTC(),
			WeightKG:  r.WeightKG,
			FatPct:    r.FatPct,
		})
	}
	return out
}

// Summaries returns one summary per user, ordered by user id.
func Summaries(t Table) []weightnotes.Summary {
	users := t.Users()
	out := make([]weightnotes.Summary, 0, len(users))
	for _, user := range users {
		out = append(out, weightnotes.Summarize(user, t.Samples(user)))
	}
	return out
}
