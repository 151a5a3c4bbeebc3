package fieldrule

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Messages produced by the checks. Clients match on these strings, keep them stable.
const (
	MsgRequired      = "This field is required."
	MsgEmail         = "Please enter a valid email address."
	MsgPhoneChars    = "Phone can contain only numbers and + - ( ) spaces"
	MsgPhoneTooShort = "Phone number is too short"
	MsgPhoneTooLong  = "Phone number is too long"
	MsgNumber        = "Please enter a valid number"
	MsgWholeNumber   = "Please enter a whole number"
)

const (
	phoneMinDigits = 7
	phoneMaxDigits = 16
)

// space is the whitespace set of strings.TrimSpace and of a browser's \s.
// RE2's \s alone is ASCII only and misses \v.
const space = `\s\v\p{Zs}\x{0085}\x{2028}\x{2029}\x{FEFF}`

var (
	reEmail      = regexp.MustCompile(`^[^` + space + `@]+@[^` + space + `@]+\.[^` + space + `]+$`)
	rePhoneChars = regexp.MustCompile(`^[0-9+\-()` + space + `]+$`)
	rePhoneStrip = regexp.MustCompile(`[` + space + `()\-]`)
)

// reNumber admits decimal notation only. ParseFloat on its own also takes Go
// literal forms such as "0x1p4".
var reNumber = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// IsEmpty reports whether v is absent: nil, or a string that is blank after trimming.
func IsEmpty(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case *string:
		return val == nil || strings.TrimSpace(*val) == ""
	default:
		return false
	}
}

// Required returns MsgRequired when v is empty.
func Required(v any) string {
	if IsEmpty(v) {
		return MsgRequired
	}
	return ""
}

// Email checks a local@domain.tld shape. Empty input passes.
func Email(s string) string {
	if IsEmpty(s) {
		return ""
	}
	if !reEmail.MatchString(strings.ToLower(strings.TrimSpace(s))) {
		return MsgEmail
	}
	return ""
}

// Phone checks the allowed character class first and the digit count second,
// returning only the first violation. Empty input passes.
func Phone(s string) string {
	if IsEmpty(s) {
		return ""
	}

	s = strings.TrimSpace(s)
	if !rePhoneChars.MatchString(s) {
		return MsgPhoneChars
	}

	digits := 0
	for _, r := range rePhoneStrip.ReplaceAllString(s, "") {
		if r >= '0' && r <= '9' {
			digits++
		}
	}

	switch {
	case digits < phoneMinDigits:
		return MsgPhoneTooShort
	case digits > phoneMaxDigits:
		return MsgPhoneTooLong
	default:
		return ""
	}
}

// Number parses s and checks it against r in the order parse, integer, min, max.
// Empty input passes.
func Number(s string, r Range) string {
	if IsEmpty(s) {
		return ""
	}

	s = strings.TrimSpace(s)
	if !reNumber.MatchString(s) {
		return MsgNumber
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return MsgNumber
	}

	if r.Integer && math.Trunc(f) != f {
		return MsgWholeNumber
	}

	if r.Min != nil && f < *r.Min {
		return "Value must be ≥ " + formatBound(*r.Min)
	}

	if r.Max != nil && f > *r.Max {
		return "Value must be ≤ " + formatBound(*r.Max)
	}

	return ""
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
