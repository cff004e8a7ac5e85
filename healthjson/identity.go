package healthjson

import (
	"strings"
)

// emptyMarkers are extendAttribute values the vendor writes when no profile is set.
var emptyMarkers = map[string]struct{}{
	"0":    {},
	"null": {},
	"None": {},
}

// ResolveUserID derives the grouping key for a reading. Precedence:
//  1. the record's subUser, verbatim (non-strings spelled as the vendor tool prints them)
//  2. the sub-document's trimmed extendAttribute, unless empty or an empty marker
//  3. "{deviceCode}|g{gender}", defaulting to "dev" and "u"
//
// The last form collapses people who share a scale and a recorded gender.
func ResolveUserID(rec, sub Object) string {
	if raw, ok := rec["subUser"]; ok {
		return textForm(raw)
	}

	if ext := strings.TrimSpace(stringValue(sub["extendAttribute"])); ext != "" {
		if _, empty := emptyMarkers[ext]; !empty {
			return ext
		}
	}

	device := "dev"
	if raw, ok := rec["deviceCode"]; ok {
		device = textForm(raw)
	}
	gender := "u"
	if raw, ok := sub["gender"]; ok {
		gender = textForm(raw)
	}
	return device + "|g" + gender
}
