package pipeline

import (
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"
)

type measurementParquetRow struct {
	Timestamp int64   `parquet:"name=timestamp, type=INT64"`
	WeightKG  float64 `parquet:"name=weight_kg, type=DOUBLE"`
	FatPct    float64 `parquet:"name=fat_pct, type=DOUBLE"`
}

func writeUserParquet(path string, rows []Row) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(measurementParquetRow), 1)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, r := range rows {
		r = r.rounded()
		row := measurementParquetRow{
			Timestamp: r.TimestampMS,
			WeightKG:  r.WeightKG,
			FatPct:    r.FatPct,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}
