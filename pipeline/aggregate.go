package pipeline

import "github.com/lucasjlepore/huawei-weight-export/healthjson"

// Aggregator merges readings from any number of files into a Table.
// A reading for a (user, timestamp) pair already present replaces it; the
// last merged value wins with no averaging.
type Aggregator struct {
	table       Table
	readings    int
	overwritten int
}

// NewAggregator returns an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{table: make(Table)}
}

// Add merges one reading and reports whether it replaced an earlier value.
func (a *Aggregator) Add(r healthjson.Reading) bool {
	series, ok := a.table[r.UserID]
	if !ok {
		series = make(Series)
		a.table[r.UserID] = series
	}
	_, replaced := series[r.TimestampMS]
	series[r.TimestampMS] = Measurement{WeightKG: r.WeightKG, FatPct: r.FatPct}

	a.readings++
	if replaced {
		a.overwritten++
	}
	return replaced
}

// AddAll merges readings in order and returns how many replaced earlier values.
func (a *Aggregator) AddAll(readings []healthjson.Reading) int {
	replaced := 0
	for _, r := range readings {
		if a.Add(r) {
			replaced++
		}
	}
	return replaced
}

// Table returns the merged table. It is shared, not copied.
func (a *Aggregator) Table() Table {
	return a.table
}

// Readings returns how many readings were merged, including replaced ones.
func (a *Aggregator) Readings() int {
	return a.readings
}

// Overwritten returns how many merges replaced an existing value.
func (a *Aggregator) Overwritten() int {
	return a.overwritten
}
