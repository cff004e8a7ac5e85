package healthjson

const (
	// WeightRecordType is the sample-set type carrying weight/body-fat readings.
	WeightRecordType = 10006

	// WeightBodyFatKey is the sample point key for the broad weight/body-fat reading.
	WeightBodyFatKey = "WEIGHT_BODYFAT_BROAD"
)

// SkipReason explains why a file or a sample point contributed no readings.
type SkipReason string

const (
	SkipUnreadable       SkipReason = "unreadable"
	SkipMalformedJSON    SkipReason = "malformed_json"
	SkipNotRecordList    SkipReason = "not_a_record_list"
	SkipMissingStartTime SkipReason = "missing_start_time"
	SkipUndecodableValue SkipReason = "undecodable_value"
	SkipNoMeasurement    SkipReason = "no_measurement"
)

// Reading is one extracted weight/body-fat measurement.
// A measurement missing from the source is reported as 0.
type Reading struct {
	UserID      string  `json:"user_id"`
	TimestampMS int64   `json:"timestamp_ms"`
	WeightKG    float64 `json:"weight_kg"`
	FatPct      float64 `json:"fat_pct"`
}

// FileOutcome is the result of extracting one source file. Either the file
// parsed (Skipped is empty) and Readings holds what it contributed, or it was
// skipped as a whole and Err carries the underlying cause.
type FileOutcome struct {
	Path       string
	Readings   []Reading
	Skipped    SkipReason
	Err        error
	PointSkips map[SkipReason]int

	RecordsSeen int
	RecordsKept int
	PointsSeen  int
}

// Parsed reports whether the file was understood as an export document.
func (o FileOutcome) Parsed() bool {
	return o.Skipped == ""
}

// SkippedPoints returns the total number of dropped sample points.
func (o FileOutcome) SkippedPoints() int {
	total := 0
	for _, n := range o.PointSkips {
		total += n
	}
	return total
}

func (o *FileOutcome) skipPoint(reason SkipReason) {
	if o.PointSkips == nil {
		o.PointSkips = make(map[SkipReason]int)
	}
	o.PointSkips[reason]++
}
