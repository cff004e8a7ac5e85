// Package healthjson extracts weight and body-fat readings from Huawei Health
// JSON exports. The interesting payload of a sample point is itself a JSON
// document encoded as a string, so every point is decoded twice.
package healthjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"unicode/utf8"
)

// Object is a JSON object whose member values are decoded lazily.
type Object map[string]json.RawMessage

// ParseFile reads and extracts one export file. It never fails: unreadable or
// malformed files come back as a skipped outcome.
func ParseFile(path string) FileOutcome {
	data, err := os.ReadFile(path)
	if err != nil {
		return FileOutcome{Path: path, Skipped: SkipUnreadable, Err: fmt.Errorf("read export file: %w", err)}
	}
	out := ParseBytes(data)
	out.Path = path
	return out
}

// ParseBytes extracts readings from the raw bytes of one export file.
func ParseBytes(data []byte) FileOutcome {
	var out FileOutcome

	records, reason, err := splitRecords(data)
	if err != nil {
		out.Skipped = reason
		out.Err = err
		return out
	}

	for _, raw := range records {
		out.RecordsSeen++
		var rec Object
		if err := json.Unmarshal(raw, &rec); err != nil || rec == nil {
			continue
		}
		if !isWeightRecord(rec["type"]) {
			continue
		}
		out.RecordsKept++

		var points []json.RawMessage
		if err := json.Unmarshal(rec["samplePoints"], &points); err != nil {
			points = nil
		}
		for _, rawPoint := range points {
			var point Object
			if err := json.Unmarshal(rawPoint, &point); err != nil || point == nil {
				continue
			}
			if stringValue(point["key"]) != WeightBodyFatKey {
				continue
			}
			out.PointsSeen++

			reading, reason, ok := extractPoint(rec, point)
			if !ok {
				out.skipPoint(reason)
				continue
			}
			out.Readings = append(out.Readings, reading)
		}
	}
	return out
}

func splitRecords(data []byte) ([]json.RawMessage, SkipReason, error) {
	if !utf8.Valid(data) {
		return nil, SkipMalformedJSON, errors.New("export file is not valid UTF-8")
	}
	var top json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, SkipMalformedJSON, fmt.Errorf("decode export json: %w", err)
	}

	switch firstByte(top) {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(top, &records); err != nil {
			return nil, SkipMalformedJSON, fmt.Errorf("decode record list: %w", err)
		}
		return records, "", nil
	case '{':
		return []json.RawMessage{top}, "", nil
	default:
		return nil, SkipNotRecordList, fmt.Errorf("export json is neither an object nor a list")
	}
}

func extractPoint(rec, point Object) (Reading, SkipReason, bool) {
	ts, ok := integerValue(point["startTime"])
	if !ok || ts < 0 {
		return Reading{}, SkipMissingStartTime, false
	}

	sub, ok := decodeNested(point["value"])
	if !ok {
		return Reading{}, SkipUndecodableValue, false
	}

	weight, hasWeight := numberValue(sub["bodyWeight"])
	fat, hasFat := numberValue(sub["bodyFatRate"])
	if !hasWeight && !hasFat {
		return Reading{}, SkipNoMeasurement, false
	}

	return Reading{
		UserID:      ResolveUserID(rec, sub),
		TimestampMS: ts,
		WeightKG:    weight,
		FatPct:      fat,
	}, "", true
}

// decodeNested decodes a point value: a JSON string holding a JSON object.
func decodeNested(raw json.RawMessage) (Object, bool) {
	if firstByte(raw) != '"' {
		return nil, false
	}
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err != nil {
		return nil, false
	}
	var sub Object
	if err := json.Unmarshal([]byte(encoded), &sub); err != nil || sub == nil {
		return nil, false
	}
	return sub, true
}

func isWeightRecord(raw json.RawMessage) bool {
	n, ok := numberValue(raw)
	return ok && n == WeightRecordType
}

// integerValue accepts only integer literals; 1.7e12 or "1700000000000" are rejected.
func integerValue(raw json.RawMessage) (int64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// numberValue reports a JSON number; null, strings and other kinds count as absent.
func numberValue(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0, false
	}
	c := raw[0]
	if c != '-' && (c < '0' || c > '9') {
		return 0, false
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	v, err := n.Float64()
	if err != nil {
		return 0, false
	}
	return v, true
}

func stringValue(raw json.RawMessage) string {
	if firstByte(raw) != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func firstByte(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
