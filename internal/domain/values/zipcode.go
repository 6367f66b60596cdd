package values

import (
	"encoding/json"
	"strings"
)

// ZipCode represents a standardized ZIP code. Short codes are zero-padded
// to 5 digits, 9-digit codes become ZIP+4 (ddddd-dddd), and anything else
// is preserved degraded and reported as malformed rather than rejected.
type ZipCode struct {
	value     string
	malformed bool
}

// NewZipCode standardizes a raw ZIP value:
//   - digits are extracted from the source
//   - 5 or fewer digits are zero-padded left to 5
//   - exactly 9 digits format as ddddd-dddd
//   - any other digit count passes through unchanged, flagged malformed
func NewZipCode(raw string) ZipCode {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	s := string(digits)
	switch {
	case s == "":
		return ZipCode{value: "", malformed: strings.TrimSpace(raw) != ""}
	case len(s) <= 5:
		return ZipCode{value: strings.Repeat("0", 5-len(s)) + s}
	case len(s) == 9:
		return ZipCode{value: s[:5] + "-" + s[5:]}
	default:
		return ZipCode{value: s, malformed: true}
	}
}

// String returns the standardized form
func (z ZipCode) String() string {
	return z.value
}

// IsEmpty checks if the source had no digits at all
func (z ZipCode) IsEmpty() bool {
	return z.value == ""
}

// Valid reports whether the value has the canonical ddddd or ddddd-dddd shape
func (z ZipCode) Valid() bool {
	return !z.malformed && z.value != ""
}

// Malformed reports whether standardization could not repair the source value
func (z ZipCode) Malformed() bool {
	return z.malformed
}

// Zip3 returns the first 3 digits, used as a blocking key component
func (z ZipCode) Zip3() string {
	if len(z.value) < 3 {
		return ""
	}
	return z.value[:3]
}

// Equal checks if two ZipCode values are equal
func (z ZipCode) Equal(other ZipCode) bool {
	return z.value == other.value && z.malformed == other.malformed
}

// MarshalJSON implements JSON marshaling
func (z ZipCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.value)
}

// UnmarshalJSON implements JSON unmarshaling
func (z *ZipCode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*z = NewZipCode(raw)
	return nil
}
