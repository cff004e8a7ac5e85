package pipeline

import (
	"bufio"
	"encoding/binary"
	"math"
	"os"
	"time"

	"github.com/tormoder/fit"
)

// fitEpoch is the zero point of FIT timestamps; earlier readings cannot be encoded.
var fitEpoch = time.Date(1989, time.December, 31, 0, 0, 0, 0, time.UTC)

// maxScaled is the largest valid value of a FIT uint16 field (0xFFFF is invalid,
// 0xFFFE is "calculating" for weights).
const maxScaled = math.MaxUint16 - 2

// writeUserFIT encodes a user's rows as a FIT weight file with one
// weight_scale message per row. Weight is stored in 1/100 kg and body fat in
// 1/100 %; a 0 placeholder is left as the field's invalid value. FIT
// timestamps have one-second resolution, so milliseconds are truncated.
func writeUserFIT(path string, rows []Row) error {
	header := fit.NewHeader(fit.V20, true)
	file, err := fit.NewFile(fit.FileTypeWeight, header)
	if err != nil {
		return err
	}
	weights, err := file.Weight()
	if err != nil {
		return err
	}

	for _, r := range rows {
		ts := time.UnixMilli(r.TimestampMS).UTC()
		if ts.Before(fitEpoch) {
			continue
		}
		r = r.rounded()
		msg := fit.NewWeightScaleMsg()
		msg.Timestamp = ts.Truncate(time.Second)
		if v, ok := scaledUint16(r.WeightKG); ok {
			msg.Weight = fit.Weight(v)
		}
		if v, ok := scaledUint16(r.FatPct); ok {
			msg.PercentFat = v
		}
		weights.WeightScales = append(weights.WeightScales, msg)
		file.FileId.TimeCreated = msg.Timestamp
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	buf := bufio.NewWriter(f)
	if err := fit.Encode(buf, file, binary.LittleEndian); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func scaledUint16(v float64) (uint16, bool) {
	if !isFinite(v) || v <= 0 {
		return 0, false
	}
	scaled := math.Round(v * 100)
	if scaled > maxScaled {
		return 0, false
	}
	return uint16(scaled), true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
