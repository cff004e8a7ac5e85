package pipeline

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tormoder/fit"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

func TestSafeName(t *testing.T) {
	cases := map[string]string{
		"alice":         "alice",
		"dev:01|gu":     "dev_01_gu",
		"a.b-c_d":       "a.b-c_d",
		"../etc/passwd": ".._etc_passwd",
		"x y":           "x_y",
		"müller":        "m_ller",
		"":              "",
	}
	for in, want := range cases {
		if got := SafeName(in); got != want {
			t.Fatalf("SafeName(%q): got %q want %q", in, got, want)
		}
	}
}

func TestFormatRounding(t *testing.T) {
	cases := []struct {
		v      float64
		weight string
		fat    string
	}{
		{v: 70.5, weight: "70.50", fat: "70.5"},
		{v: 18.3, weight: "18.30", fat: "18.3"},
		{v: 0, weight: "0.00", fat: "0.0"},
		{v: 70.005, weight: "70.00", fat: "70.0"},
		{v: 0.125, weight: "0.12", fat: "0.1"},
		{v: 0.375, weight: "0.38", fat: "0.4"},
		{v: 0.25, weight: "0.25", fat: "0.2"},
		{v: 18.35, weight: "18.35", fat: "18.4"},
		{v: 99.999, weight: "100.00", fat: "100.0"},
	}
	for _, tc := range cases {
		if got := FormatWeight(tc.v); got != tc.weight {
			t.Fatalf("FormatWeight(%v): got %q want %q", tc.v, got, tc.weight)
		}
		if got := FormatFat(tc.v); got != tc.fat {
			t.Fatalf("FormatFat(%v): got %q want %q", tc.v, got, tc.fat)
		}
	}
}

func sampleTable() Table {
	return Table{
		"alice": Series{
			1700000000000: {WeightKG: 70.5, FatPct: 18.3},
			1600000000000: {WeightKG: 72, FatPct: 0},
		},
		"dev:01|gu": Series{
			1650000000000: {WeightKG: 0, FatPct: 22.25},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	var report bytes.Buffer

	written, err := WriteCSV(sampleTable(), outDir, &report)
	if err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	wantPaths := []string{
		filepath.Join(outDir, "alice.csv"),
		filepath.Join(outDir, "dev_01_gu.csv"),
	}
	if strings.Join(written, ",") != strings.Join(wantPaths, ",") {
		t.Fatalf("unexpected written paths: %v", written)
	}
	wantReport := "wrote " + wantPaths[0] + "\nwrote " + wantPaths[1] + "\n"
	if report.String() != wantReport {
		t.Fatalf("unexpected report:\n%s", report.String())
	}

	data, err := os.ReadFile(wantPaths[0])
	if err != nil {
		t.Fatalf("read alice.csv: %v", err)
	}
	want := "timestamp,weight_kg,fat_pct\n1600000000000,72.00,0.0\n1700000000000,70.50,18.3\n"
	if string(data) != want {
		t.Fatalf("unexpected alice.csv:\n%s", data)
	}

	data, err = os.ReadFile(wantPaths[1])
	if err != nil {
		t.Fatalf("read dev_01_gu.csv: %v", err)
	}
	want = "timestamp,weight_kg,fat_pct\n1650000000000,0.00,22.2\n"
	if string(data) != want {
		t.Fatalf("unexpected dev_01_gu.csv:\n%s", data)
	}
}

func TestWriteCSVTruncatesExistingFile(t *testing.T) {
	outDir := t.TempDir()
	path := filepath.Join(outDir, "alice.csv")
	if err := os.WriteFile(path, []byte(strings.Repeat("stale\n", 100)), 0o644); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}
	table := Table{"alice": Series{1: {WeightKG: 1, FatPct: 1}}}
	if _, err := WriteCSV(table, outDir, &bytes.Buffer{}); err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read alice.csv: %v", err)
	}
	if string(data) != "timestamp,weight_kg,fat_pct\n1,1.00,1.0\n" {
		t.Fatalf("stale content survived:\n%s", data)
	}
}

func TestWriteCSVContinuesAfterUserFailure(t *testing.T) {
	outDir := t.TempDir()
	if err := os.Mkdir(filepath.Join(outDir, "blocked.csv"), 0o755); err != nil {
		t.Fatalf("create blocking dir: %v", err)
	}
	table := Table{
		"alice":   Series{1: {WeightKG: 60}},
		"blocked": Series{1: {WeightKG: 70}},
		"zed":     Series{1: {WeightKG: 80}},
	}
	var report bytes.Buffer

	written, err := WriteCSV(table, outDir, &report)
	if err == nil {
		t.Fatal("expected error for the blocked user")
	}
	if !strings.Contains(err.Error(), `"blocked"`) {
		t.Fatalf("error should name the failed user: %v", err)
	}
	if len(written) != 2 {
		t.Fatalf("expected the other two users to be written, got %v", written)
	}
	if strings.Contains(report.String(), "blocked") {
		t.Fatalf("failed file must not be reported as written:\n%s", report.String())
	}
	for _, name := range []string{"alice.csv", "zed.csv"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("%s missing: %v", name, err)
		}
	}
}

func TestWriteTableOutputDirFailure(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("seed blocker: %v", err)
	}
	_, err := WriteCSV(sampleTable(), filepath.Join(blocker, "out"), &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "create output directory") {
		t.Fatalf("expected output directory error, got %v", err)
	}
}

func TestWriteTableEmptyAndUnknownFormat(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")
	written, err := WriteCSV(Table{}, outDir, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("WriteCSV error: %v", err)
	}
	if len(written) != 0 {
		t.Fatalf("expected nothing written, got %v", written)
	}
	if info, err := os.Stat(outDir); err != nil || !info.IsDir() {
		t.Fatalf("output dir should still be created: %v", err)
	}

	if _, err := WriteTable("xlsx", Table{}, outDir, &bytes.Buffer{}); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestWriteParquet(t *testing.T) {
	outDir := t.TempDir()
	written, err := WriteTable(FormatParquet, sampleTable(), outDir, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("WriteTable parquet error: %v", err)
	}
	if len(written) != 2 || filepath.Base(written[0]) != "alice.parquet" {
		t.Fatalf("unexpected written paths: %v", written)
	}

	fr, err := local.NewLocalFileReader(written[0])
	if err != nil {
		t.Fatalf("open parquet: %v", err)
	}
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(measurementParquetRow), 1)
	if err != nil {
		t.Fatalf("new parquet reader: %v", err)
	}
	defer pr.ReadStop()

	n := int(pr.GetNumRows())
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	rows := make([]measurementParquetRow, n)
	if err := pr.Read(&rows); err != nil {
		t.Fatalf("read parquet rows: %v", err)
	}
	if rows[0].Timestamp != 1600000000000 || rows[1].Timestamp != 1700000000000 {
		t.Fatalf("rows not ascending: %+v", rows)
	}
	if rows[1].WeightKG != 70.5 || rows[1].FatPct != 18.3 {
		t.Fatalf("unexpected values: %+v", rows[1])
	}
}

func TestWriteFIT(t *testing.T) {
	outDir := t.TempDir()
	table := Table{
		"alice": Series{
			1700000000123: {WeightKG: 70.5, FatPct: 18.3},
			1600000000000: {WeightKG: 72, FatPct: 0},
			1000:          {WeightKG: 50, FatPct: 10},
		},
	}
	written, err := WriteTable(FormatFIT, table, outDir, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("WriteTable fit error: %v", err)
	}
	if len(written) != 1 || filepath.Base(written[0]) != "alice.fit" {
		t.Fatalf("unexpected written paths: %v", written)
	}

	data, err := os.ReadFile(written[0])
	if err != nil {
		t.Fatalf("read fit: %v", err)
	}
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode fit: %v", err)
	}
	weights, err := decoded.Weight()
	if err != nil {
		t.Fatalf("weight file expected: %v", err)
	}
	if len(weights.WeightScales) != 2 {
		t.Fatalf("expected pre-epoch reading to be dropped, got %d messages", len(weights.WeightScales))
	}

	first, second := weights.WeightScales[0], weights.WeightScales[1]
	if !first.Timestamp.Equal(time.UnixMilli(1600000000000)) {
		t.Fatalf("unexpected first timestamp: %v", first.Timestamp)
	}
	if first.Weight != fit.Weight(7200) {
		t.Fatalf("unexpected first weight: %v", first.Weight)
	}
	if first.PercentFat != fit.NewWeightScaleMsg().PercentFat {
		t.Fatalf("absent fat should stay invalid, got %d", first.PercentFat)
	}
	if !second.Timestamp.Equal(time.Unix(1700000000, 0)) {
		t.Fatalf("expected second-resolution timestamp, got %v", second.Timestamp)
	}
	if second.Weight != fit.Weight(7050) || second.PercentFat != 1830 {
		t.Fatalf("unexpected second message: weight=%v fat=%d", second.Weight, second.PercentFat)
	}
}

func TestWriteSQLite(t *testing.T) {
	outDir := t.TempDir()
	var report bytes.Buffer

	written, err := WriteTable(FormatSQLite, sampleTable(), outDir, &report)
	if err != nil {
		t.Fatalf("WriteTable sqlite error: %v", err)
	}
	dbPath := filepath.Join(outDir, SQLiteFileName)
	if len(written) != 1 || written[0] != dbPath {
		t.Fatalf("unexpected written paths: %v", written)
	}
	if report.String() != "wrote "+dbPath+"\n" {
		t.Fatalf("unexpected report: %q", report.String())
	}

	// A second run upserts rather than duplicating.
	update := Table{"alice": Series{1700000000000: {WeightKG: 69.91, FatPct: 18.26}}}
	if _, err := WriteTable(FormatSQLite, update, outDir, &bytes.Buffer{}); err != nil {
		t.Fatalf("second sqlite write: %v", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM measurements`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 rows, got %d", count)
	}

	var weight, fat float64
	err = db.QueryRow(
		`SELECT weight_kg, fat_pct FROM measurements WHERE user_id = ? AND timestamp_ms = ?`,
		"alice", int64(1700000000000),
	).Scan(&weight, &fat)
	if err != nil {
		t.Fatalf("query alice: %v", err)
	}
	if weight != 69.91 || fat != 18.3 {
		t.Fatalf("unexpected upserted values: weight=%v fat=%v", weight, fat)
	}
}
