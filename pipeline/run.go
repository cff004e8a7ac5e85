package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lucasjlepore/huawei-weight-export/healthjson"
)

// Run reads every export file in opts.InputDir, merges their readings and
// writes one table per user into opts.OutDir. Files are merged in
// lexicographic name order, so a later file wins a (user, timestamp) clash.
//
// Unparseable files and malformed points are skipped and logged. The returned
// Result is populated even when writing fails for some users.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := normalizeFormat(opts.Format)
	switch format {
	case FormatCSV, FormatParquet, FormatFIT, FormatSQLite:
	default:
		return nil, fmt.Errorf("unsupported format %q (expected csv|parquet|fit|sqlite)", opts.Format)
	}

	res, err := Collect(opts)
	if err != nil {
		return nil, err
	}
	res.OutputDir = opts.OutDir
	res.Format = format

	written, err := WriteTable(format, res.Table, opts.OutDir, opts.Report)
	res.WrittenPaths = written
	opts.Metrics.observeWrite(res.Users, len(written), time.Now())
	if err != nil {
		return res, err
	}

	opts.logger().Info().
		Int("files_parsed", res.FilesParsed).
		Int("files_skipped", res.FilesSkipped).
		Int("readings", res.Readings).
		Int("overwritten", res.Overwritten).
		Int("users", res.Users).
		Msg("export complete")
	return res, nil
}

// Collect parses and merges every export file in opts.InputDir without
// writing anything. OutDir and Format are ignored.
func Collect(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputDir) == "" {
		return nil, fmt.Errorf("input directory is required")
	}
	info, err := os.Stat(opts.InputDir)
	if err != nil {
		return nil, fmt.Errorf("stat input directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", opts.InputDir)
	}

	log := opts.logger()
	inputs, err := DiscoverInputs(opts.InputDir)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("files", len(inputs)).Str("dir", opts.InputDir).Msg("discovered input files")

	res := &Result{
		InputDir:   opts.InputDir,
		InputFiles: inputs,
		Outcomes:   make([]healthjson.FileOutcome, 0, len(inputs)),
	}

	agg := NewAggregator()
	for _, path := range inputs {
		out := healthjson.ParseFile(path)
		res.Outcomes = append(res.Outcomes, out)
		opts.Metrics.observeFile(out)

		if !out.Parsed() {
			res.FilesSkipped++
			log.Warn().Err(out.Err).
				Str("file", filepath.Base(path)).
				Str("reason", string(out.Skipped)).
				Msg("skipping input file")
			continue
		}
		res.FilesParsed++

		replaced := agg.AddAll(out.Readings)
		opts.Metrics.observeMerge(len(out.Readings), replaced)
		logFileOutcome(log, out, replaced)
	}

	table := agg.Table()
	res.Table = table
	res.Readings = agg.Readings()
	res.Overwritten = agg.Overwritten()
	res.Users = len(table)
	return res, nil
}

func logFileOutcome(log *zerolog.Logger, out healthjson.FileOutcome, replaced int) {
	evt := log.Debug().
		Str("file", filepath.Base(out.Path)).
		Int("records", out.RecordsSeen).
		Int("weight_records", out.RecordsKept).
		Int("points", out.PointsSeen).
		Int("readings", len(out.Readings)).
		Int("replaced", replaced)
	if skipped := out.SkippedPoints(); skipped > 0 {
		dict := zerolog.Dict()
		for reason, n := range out.PointSkips {
			dict = dict.Int(string(reason), n)
		}
		evt = evt.Dict("skipped_points", dict)
	}
	evt.Msg("parsed input file")
}

func (o Options) logger() *zerolog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	nop := zerolog.Nop()
	return &nop
}
