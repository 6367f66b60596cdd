package values

import (
	"encoding/json"
	"fmt"
)

// Phone represents a standardized practice phone number. Standardization
// never rejects input: malformed numbers are preserved in degraded form
// (whatever digits the source had) and reported via Valid.
type Phone struct {
	digits string
}

// NewPhone standardizes a raw phone value by stripping every non-digit
// character. The result is a 10-digit string for well-formed input, or
// shorter/longer if the source had a different digit count.
func NewPhone(raw string) Phone {
	digits := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			digits = append(digits, raw[i])
		}
	}
	return Phone{digits: string(digits)}
}

// String returns the digit-only form
func (p Phone) String() string {
	return p.digits
}

// IsEmpty checks if no digits were present in the source
func (p Phone) IsEmpty() bool {
	return p.digits == ""
}

// Valid reports whether the number has the expected 10 digits
func (p Phone) Valid() bool {
	return len(p.digits) == 10
}

// Equal checks if two Phone values are exactly equal
func (p Phone) Equal(other Phone) bool {
	return p.digits == other.digits
}

// Matches reports whether two phone numbers refer to the same line.
// Numbers with at least 7 digits match on their longest common suffix
// (between 7 and 10 digits), which tolerates inconsistent country and
// area-code prefixes across sources.
func (p Phone) Matches(other Phone) bool {
	if p.digits == "" || other.digits == "" {
		return false
	}
	if p.digits == other.digits {
		return true
	}
	if len(p.digits) < 7 || len(other.digits) < 7 {
		return false
	}
	l := min(len(p.digits), len(other.digits))
	if l > 10 {
		l = 10
	}
	return p.digits[len(p.digits)-l:] == other.digits[len(other.digits)-l:]
}

// AreaCode returns the first 3 digits of a 10-digit number
func (p Phone) AreaCode() string {
	if !p.Valid() {
		return ""
	}
	return p.digits[:3]
}

// FormatUS returns the (XXX) XXX-XXXX presentation for valid numbers,
// and the raw digits otherwise
func (p Phone) FormatUS() string {
	if !p.Valid() {
		return p.digits
	}
	return fmt.Sprintf("(%s) %s-%s", p.digits[:3], p.digits[3:6], p.digits[6:])
}

// MarshalJSON implements JSON marshaling
func (p Phone) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.digits)
}

// UnmarshalJSON implements JSON unmarshaling
func (p *Phone) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = NewPhone(raw)
	return nil
}
