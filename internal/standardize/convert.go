package standardize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TwoDigitYearPivot defines how 2-digit years are interpreted.
// Years that would land more than this many years in the future are assumed
// to be in the previous century. Example with pivot=20 in year 2025:
// "46" parses to 1946 (not 2046), "24" parses to 2024.
var TwoDigitYearPivot = 20

// Date layouts split by year format for proper 2-digit year handling.
var (
	twoDigitYearLayouts = []string{
		"1/2/06", "01/02/06", "1-2-06", "1.2.06", "01.02.06",
	}
	fourDigitYearLayouts = []string{
		"2006-01-02", "2006/01/02", "2006.01.02",
		"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006", "1.2.2006", "01.02.2006",
		"Jan 2, 2006", "2 Jan 2006",
		"20060102",
	}
)

// CleanCell removes common CSV artifacts from a cell value: surrounding
// whitespace, Excel formula prefixes (="..."), and stray surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// Date parses a date permissively and returns the canonical YYYY-MM-DD form
// together with the integer date key (the canonical form with separators
// removed, e.g. 2024-01-15 -> 20240115). Unparseable input is an error.
func Date(raw string) (string, int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", 0, fmt.Errorf("invalid date: empty value")
	}

	for _, layout := range fourDigitYearLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return canonicalDate(t)
		}
	}

	// 2-digit year layouts need pivot adjustment: Go parses 00-68 as
	// 2000-2068 and 69-99 as 1969-1999, which misreads historical data.
	pivotYear := time.Now().Year() + TwoDigitYearPivot
	for _, layout := range twoDigitYearLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			if t.Year() > pivotYear {
				t = t.AddDate(-100, 0, 0)
			}
			return canonicalDate(t)
		}
	}

	return "", 0, fmt.Errorf("invalid date %q", raw)
}

func canonicalDate(t time.Time) (string, int, error) {
	y, m, d := t.Date()
	return t.Format("2006-01-02"), y*10000 + int(m)*100 + d, nil
}

// Amount normalizes a monetary value to a fixed-point string with two
// fraction digits. Currency symbols, thousands separators, and other noise
// are stripped before parsing; accounting-style negatives "(123.45)" are
// honored. Unparseable or absent input standardizes to "0.00" rather than
// failing, so a noisy price never rejects an otherwise clean row.
func Amount(raw string) string {
	raw = strings.TrimSpace(raw)

	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = strings.TrimSpace(raw[1 : len(raw)-1])
	}

	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return "0.00"
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return "0.00"
	}
	if negative {
		v = -v
	}

	return strconv.FormatFloat(math.Round(v*100)/100, 'f', 2, 64)
}

// PassengerKey normalizes a raw passenger identifier to its canonical form:
// the last three digits found in the input, zero-padded to width 3, behind a
// fixed "P" marker. Keys without any digits are rejected.
//
// Two raw keys that share their trailing digits collapse to the same
// canonical key on purpose; that collision is how upstream systems fold
// legacy identifiers together. The function is idempotent: an
// already-canonical key standardizes to itself.
func PassengerKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("invalid passenger key: empty value")
	}

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if d == "" {
		return "", fmt.Errorf("invalid passenger key %q: no digits", raw)
	}

	if len(d) > 3 {
		d = d[len(d)-3:]
	}
	for len(d) < 3 {
		d = "0" + d
	}

	return "P" + d, nil
}

// AirportKey normalizes an airport code: trimmed and uppercased, and rejected
// unless exactly three characters remain. Short codes are never padded or
// truncated into validity.
func AirportKey(raw string) (string, error) {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if len(key) != 3 {
		return "", fmt.Errorf("invalid airport key %q: must be exactly 3 characters", raw)
	}
	return key, nil
}

// TransactionID synthesizes the canonical transaction identifier: digits of
// the raw value, zero-padded to width 6, behind the channel's two-letter
// prefix. This synthesized ID is both the dedup key and the store's conflict
// key. Raw values carrying no digits are rejected.
func TransactionID(raw string, ch SalesChannel) (string, error) {
	raw = strings.TrimSpace(raw)

	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	d := digits.String()
	if d == "" {
		return "", fmt.Errorf("invalid transaction id %q: no digits", raw)
	}

	for len(d) < 6 {
		d = "0" + d
	}

	return ch.IDPrefix() + d, nil
}
