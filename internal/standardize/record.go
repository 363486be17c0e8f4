// Package standardize turns raw CSV rows into canonical warehouse records.
//
// Every standardizer is a pure function: given the same raw row it produces
// the same canonical record or the same rejection reason, so a batch can be
// replayed safely. Standardizers never panic; malformed input is converted
// into an error that the pipeline routes to quarantine.
package standardize

import "strings"

// RawRow is one CSV data row keyed by column header, exactly as read from the
// file. Values may be empty or missing. A RawRow is consumed once by a
// standardizer and then discarded.
type RawRow map[string]string

// Get returns the cleaned value for a column, matching the column name
// case-insensitively. Returns "" when the column is absent.
func (r RawRow) Get(col string) string {
	if v, ok := r[col]; ok {
		return CleanCell(v)
	}
	for k, v := range r {
		if strings.EqualFold(strings.TrimSpace(k), col) {
			return CleanCell(v)
		}
	}
	return ""
}

// Has reports whether the column exists in the row, matched
// case-insensitively against the trimmed header name.
func (r RawRow) Has(col string) bool {
	if _, ok := r[col]; ok {
		return true
	}
	for k := range r {
		if strings.EqualFold(strings.TrimSpace(k), col) {
			return true
		}
	}
	return false
}

// Record is a canonical record ready for the load engine: normalized field
// name to typed value (string, int, fixed-point decimal string, bool, or nil
// for an absent optional). A Record is created by a standardizer, consumed by
// the load engine, and not retained after the store acknowledges the write.
type Record map[string]any

// SalesChannel tags the source subtype of a sales transaction row.
type SalesChannel string

const (
	ChannelTravelAgency SalesChannel = "travel_agency"
	ChannelCorporate    SalesChannel = "corporate"
)

// IDPrefix returns the two-letter code prepended to synthesized transaction
// IDs for this channel.
func (c SalesChannel) IDPrefix() string {
	if c == ChannelCorporate {
		return "CO"
	}
	return "TA"
}
