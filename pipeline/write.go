package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// unsafeNameChars matches every character not allowed in an output file name.
var unsafeNameChars = regexp.MustCompile(`[^0-9A-Za-z._-]`)

// SafeName maps a user id to a file-name stem by replacing every character
// outside [0-9A-Za-z._-] with '_'. Distinct ids may map to the same stem.
func SafeName(userID string) string {
	return unsafeNameChars.ReplaceAllString(userID, "_")
}

// FormatWeight renders a weight with two decimals and FormatFat a fat
// percentage with one. Both round the exact binary value to nearest with ties
// to even, so 70.005 (stored as 70.00499...) renders as "70.00".
func FormatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatFat renders a body-fat percentage with one decimal.
func FormatFat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// rounded returns the row with values equal to their rendered text, so binary
// sinks store exactly what the CSV shows.
func (r Row) rounded() Row {
	w, err := strconv.ParseFloat(FormatWeight(r.WeightKG), 64)
	if err == nil {
		r.WeightKG = w
	}
	f, err := strconv.ParseFloat(FormatFat(r.FatPct), 64)
	if err == nil {
		r.FatPct = f
	}
	return r
}

// WriteTable writes table to outDir in the given format and returns the
// written paths. A failure on one user's file does not stop the others; the
// joined error is returned after every user was attempted. Failing to create
// outDir aborts immediately.
func WriteTable(format string, table Table, outDir string, report io.Writer) ([]string, error) {
	switch normalizeFormat(format) {
	case FormatCSV:
		return writePerUser(table, outDir, ".csv", report, writeUserCSV)
	case FormatParquet:
		return writePerUser(table, outDir, ".parquet", report, writeUserParquet)
	case FormatFIT:
		return writePerUser(table, outDir, ".fit", report, writeUserFIT)
	case FormatSQLite:
		return writeSQLite(table, outDir, report)
	default:
		return nil, fmt.Errorf("unsupported format %q (expected csv|parquet|fit|sqlite)", format)
	}
}

// WriteCSV writes one CSV per user into outDir.
func WriteCSV(table Table, outDir string, report io.Writer) ([]string, error) {
	return WriteTable(FormatCSV, table, outDir, report)
}

type userWriter func(path string, rows []Row) error

func writePerUser(table Table, outDir, ext string, report io.Writer, write userWriter) ([]string, error) {
	if err := ensureOutputDir(outDir); err != nil {
		return nil, err
	}

	var (
		written []string
		errs    []error
	)
	for _, user := range table.Users() {
		path := filepath.Join(outDir, SafeName(user)+ext)
		if err := write(path, table.Rows(user)); err != nil {
			errs = append(errs, fmt.Errorf("write %s for user %q: %w", filepath.Base(path), user, err))
			continue
		}
		written = append(written, path)
		reportWritten(report, path)
	}
	return written, errors.Join(errs...)
}

func ensureOutputDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

func reportWritten(w io.Writer, path string) {
	if w == nil {
		w = os.Stdout
	}
	fmt.Fprintf(w, "wrote %s\n", path)
}

func normalizeFormat(format string) string {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		return FormatCSV
	}
	return format
}
