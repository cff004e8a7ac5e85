package healthjson

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// textForm spells an identity field as text: strings as-is, null as None,
// booleans as True/False, integers by their digits and floats in shortest
// round-trip form with a trailing ".0" ("1e3" is "1000.0"). Arrays and
// objects use the ['a', 1] / {'k': None} notation.
func textForm(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var b strings.Builder
	if err := writeText(&b, dec, false); err != nil {
		return string(bytes.TrimSpace(raw))
	}
	return b.String()
}

func writeText(b *strings.Builder, dec *json.Decoder, nested bool) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	switch v := tok.(type) {
	case nil:
		b.WriteString("None")
	case bool:
		if v {
			b.WriteString("True")
		} else {
			b.WriteString("False")
		}
	case json.Number:
		b.WriteString(numberText(string(v)))
	case string:
		if nested {
			b.WriteString(quoteText(v))
		} else {
			b.WriteString(v)
		}
	case json.Delim:
		switch v {
		case '[':
			b.WriteByte('[')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				if err := writeText(b, dec, true); err != nil {
					return err
				}
			}
			b.WriteByte(']')
		case '{':
			b.WriteByte('{')
			for i := 0; dec.More(); i++ {
				if i > 0 {
					b.WriteString(", ")
				}
				key, err := dec.Token()
				if err != nil {
					return err
				}
				k, _ := key.(string)
				b.WriteString(quoteText(k))
				b.WriteString(": ")
				if err := writeText(b, dec, true); err != nil {
					return err
				}
			}
			b.WriteByte('}')
		}
		// closing delimiter
		if _, err := dec.Token(); err != nil {
			return err
		}
	}
	return nil
}

func numberText(lit string) string {
	if !strings.ContainsAny(lit, ".eE") {
		if lit == "-0" {
			return "0"
		}
		return lit
	}
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil && !math.IsInf(v, 0) {
		return lit
	}
	return floatText(v)
}

// floatText switches to exponent notation when the decimal point would sit
// more than 16 digits right or 4 places left of the first digit.
func floatText(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if decpt := exp + 1; v != 0 && (decpt <= -4 || decpt > 16) {
		return sci
	}
	fixed := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(fixed, ".") {
		fixed += ".0"
	}
	return fixed
}

// quoteText quotes a string nested inside an array or object: single quotes
// unless the text holds a single quote and no double quote.
func quoteText(s string) string {
	quote := byte('\'')
	if strings.IndexByte(s, '\'') >= 0 && strings.IndexByte(s, '"') < 0 {
		quote = '"'
	}

	var b strings.Builder
	b.WriteByte(quote)
	for _, r := range s {
		switch {
		case r == '\\':
			b.WriteString(`\\`)
		case r == rune(quote):
			b.WriteByte('\\')
			b.WriteByte(quote)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			b.WriteString(`\x`)
			b.WriteString(strconv.FormatInt(int64(r)+0x100, 16)[1:])
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(quote)
	return b.String()
}
