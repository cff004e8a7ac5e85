package pipeline

import (
	"io"
	"sort"

	"github.com/rs/zerolog"

	"github.com/lucasjlepore/huawei-weight-export/healthjson"
)

// Output formats understood by Run.
const (
	FormatCSV     = "csv"
	FormatParquet = "parquet"
	FormatFIT     = "fit"
	FormatSQLite  = "sqlite"
)

// Options configures one export run.
type Options struct {
	InputDir string
	OutDir   string
	Format   string // csv|parquet|fit|sqlite, csv when empty

	// Report receives one "wrote <path>" line per written file. Defaults to stdout.
	Report io.Writer

	// Logger receives skip diagnostics. Nil disables logging.
	Logger *zerolog.Logger

	// Metrics is optional; when set every stage records into it.
	Metrics *Metrics
}

// Result describes what a run read and wrote.
type Result struct {
	InputDir     string                   `json:"input_dir"`
	OutputDir    string                   `json:"output_dir"`
	Format       string                   `json:"format"`
	InputFiles   []string                 `json:"input_files"`
	Outcomes     []healthjson.FileOutcome `json:"-"`
	FilesParsed  int                      `json:"files_parsed"`
	FilesSkipped int                      `json:"files_skipped"`
	Readings     int                      `json:"readings"`
	Overwritten  int                      `json:"overwritten"`
	Users        int                      `json:"users"`
	WrittenPaths []string                 `json:"written_paths"`
	Table        Table                    `json:"-"`
}

// Measurement is the value stored for one user at one timestamp.
type Measurement struct {
	WeightKG float64
	FatPct   float64
}

// Series maps epoch-millisecond timestamps to measurements for one user.
type Series map[int64]Measurement

// Table maps user ids to their series.
type Table map[string]Series

// Row is one output line of a user's table.
type Row struct {
	TimestampMS int64
	WeightKG    float64
	FatPct      float64
}

// Users returns the user ids in ascending order.
func (t Table) Users() []string {
	users := make([]string, 0, len(t))
	for u := range t {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// Rows returns a user's measurements in ascending timestamp order.
func (t Table) Rows(user string) []Row {
	series := t[user]
	rows := make([]Row, 0, len(series))
	for ts, m := range series {
		rows = append(rows, Row{TimestampMS: ts, WeightKG: m.WeightKG, FatPct: m.FatPct})
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].TimestampMS < rows[j].TimestampMS
	})
	return rows
}

// Len returns the total number of rows across all users.
func (t Table) Len() int {
	n := 0
	for _, s := range t {
		n += len(s)
	}
	return n
}
