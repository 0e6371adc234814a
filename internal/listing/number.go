package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number holds a numeric form value exactly as entered. Coercion is deferred
// to submission, where Float applies the marketplace's lenient rule: anything
// that does not parse as a finite number becomes 0.
type Number string

// NumberOf formats f as a Number.
func NumberOf(f float64) Number {
	return Number(strconv.FormatFloat(f, 'f', -1, 64))
}

// Float coerces the raw text. Surrounding whitespace is ignored, an empty value
// is 0, 0x/0o/0b integer prefixes are honoured, and hex floats, unparseable or
// non-finite input collapse to 0.
func (n Number) Float() float64 {
	s := strings.TrimSpace(string(n))
	if s == "" || strings.ContainsRune(s, '_') {
		return 0
	}
	if f, ok := parsePrefixedInt(s); ok {
		return f
	}
	f, ok := parseDecimal(s)
	if !ok {
		return 0
	}
	// -0 is falsy too.
	if f == 0 {
		return 0
	}
	return f
}

// IsZero reports whether the value coerces to 0.
func (n Number) IsZero() bool {
	return n.Float() == 0
}

// Valid reports whether the raw text is empty or parses as a finite number.
func (n Number) Valid() bool {
	s := strings.TrimSpace(string(n))
	if s == "" {
		return true
	}
	if _, ok := parsePrefixedInt(s); ok {
		return true
	}
	_, ok := parseDecimal(s)
	return ok && !strings.ContainsRune(s, '_')
}

func (n Number) String() string {
	return string(n)
}

// parseDecimal parses a finite decimal number. strconv also accepts hex floats
// such as 0x1p-2; those are not numbers in form input and are refused.
func parseDecimal(s string) (float64, bool) {
	if strings.ContainsAny(s, "xX") {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parsePrefixedInt(s string) (float64, bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, false
	}
	switch s[1] {
	case 'x', 'X', 'o', 'O', 'b', 'B':
	default:
		return 0, false
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, false
	}
	return float64(v), true
}

// MarshalJSON keeps the raw text so a resumed session shows what was typed.
func (n Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// UnmarshalJSON accepts JSON numbers, strings, booleans and null.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0, bytes.Equal(trimmed, []byte("null")):
		*n = ""
	case trimmed[0] == '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*n = Number(s)
	case bytes.Equal(trimmed, []byte("true")):
		*n = "1"
	case bytes.Equal(trimmed, []byte("false")):
		*n = "0"
	default:
		var num json.Number
		if err := json.Unmarshal(trimmed, &num); err != nil {
			return fmt.Errorf("listing number: %w", err)
		}
		*n = Number(num.String())
	}
	return nil
}
