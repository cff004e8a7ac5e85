package main

import (
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	weightnotes "github.com/lucasjlepore/huawei-weight-export"
)

var summaryHeaders = table.Row{"User", "Readings", "First", "Last", "Latest kg", "Change kg", "Latest fat %", "Trend"}

func renderSummaryTable(summaries []weightnotes.Summary, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if colorize {
		tw.Style().Color.Header = text.Colors{text.FgHiBlue, text.Bold}
	}
	tw.AppendHeader(summaryHeaders)

	for _, s := range summaries {
		tw.AppendRow(table.Row{
			s.UserID,
			s.Count,
			dateOrDash(s),
			lastDateOrDash(s),
			numberOrDash(s.LatestWeightKG, 2),
			signedOrDash(s.WeightChangeKG, 2),
			numberOrDash(s.LatestFatPct, 1),
			trendLabel(s.Trend),
		})
	}

	configs := make([]table.ColumnConfig, 0, len(summaryHeaders))
	for i := range summaryHeaders {
		align := text.AlignRight
		if i == 0 || i == len(summaryHeaders)-1 {
			align = text.AlignLeft
		}
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: align, AlignHeader: text.AlignLeft})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func dateOrDash(s weightnotes.Summary) string {
	if s.Count == 0 {
		return "-"
	}
	return s.First.UTC().Format("2006-01-02")
}

func lastDateOrDash(s weightnotes.Summary) string {
	if s.Count == 0 {
		return "-"
	}
	return s.Last.UTC().Format("2006-01-02")
}

func numberOrDash(v float64, prec int) string {
	if v == 0 {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func signedOrDash(v float64, prec int) string {
	if v == 0 {
		return "-"
	}
	s := strconv.FormatFloat(v, 'f', prec, 64)
	if v > 0 {
		s = "+" + s
	}
	return s
}

func trendLabel(t weightnotes.Trend) string {
	switch t.Direction {
	case "", weightnotes.TrendInsufficient:
		return "-"
	case weightnotes.TrendStable:
		return t.Direction
	default:
		return t.Direction + " " + strconv.FormatFloat(t.SlopeKGPerWeek, 'f', 2, 64) + " kg/wk"
	}
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
