package ledger

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the only accepted sale date shape (YYYY-MM-DD).
const DateLayout = "2006-01-02"

// ValidateSaleDate checks that s is a well-formed calendar date.
//
// The value must be exactly 10 characters with '-' at offsets 4 and 7 and
// digits everywhere else, and it must name a real day ("2024-02-30" fails).
func ValidateSaleDate(s string) error {
	if len(s) != len(DateLayout) {
		return NewInvalidInput("invalid date %q: expected YYYY-MM-DD", s)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if i == 4 || i == 7 {
			if c != '-' {
				return NewInvalidInput("invalid date %q: expected YYYY-MM-DD", s)
			}
			continue
		}
		if c < '0' || c > '9' {
			return NewInvalidInput("invalid date %q: expected YYYY-MM-DD", s)
		}
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return NewInvalidInput("invalid date %q: not a calendar date", s)
	}
	return nil
}

// ParseInt parses raw as a base-10 integer for the named field.
// Surrounding whitespace is ignored.
func ParseInt(field, raw string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, NewInvalidInput("%s must be an integer, got %q", field, raw)
	}
	return v, nil
}
