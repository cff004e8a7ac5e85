package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"
)

var csvHeader = []string{"timestamp", "weight_kg", "fat_pct"}

func writeUserCSV(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			strconv.FormatInt(r.TimestampMS, 10),
			FormatWeight(r.WeightKG),
			FormatFat(r.FatPct),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
