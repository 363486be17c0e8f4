package standardize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// countryAliases maps common shorthand spellings (lowercased) to canonical
// country names. Checked before the hierarchy lookup.
var countryAliases = map[string]string{
	"usa":                      "United States",
	"us":                       "United States",
	"u.s.":                     "United States",
	"u.s.a.":                   "United States",
	"united states of america": "United States",
	"america":                  "United States",
	"uk":                       "United Kingdom",
	"u.k.":                     "United Kingdom",
	"great britain":            "United Kingdom",
	"england":                  "United Kingdom",
	"uae":                      "United Arab Emirates",
	"south korea":              "South Korea",
	"korea":                    "South Korea",
	"holland":                  "Netherlands",
	"deutschland":              "Germany",
}

// countryHierarchy is the canonical country list consulted by partial match
// when no alias hits. Kept to the markets the airline actually operates in;
// anything else falls through to title-casing.
var countryHierarchy = []string{
	"United States",
	"United Kingdom",
	"United Arab Emirates",
	"Canada",
	"Mexico",
	"Brazil",
	"Argentina",
	"France",
	"Germany",
	"Spain",
	"Italy",
	"Portugal",
	"Netherlands",
	"Switzerland",
	"Ireland",
	"Australia",
	"New Zealand",
	"Japan",
	"China",
	"South Korea",
	"Singapore",
	"India",
	"Thailand",
	"Turkey",
	"Egypt",
	"South Africa",
	"Kenya",
	"Qatar",
	"Saudi Arabia",
}

var titleCaser = cases.Title(language.English)

// Country standardizes a free-text country value to its canonical name.
//
// Resolution order: static alias table, then partial match against the
// canonical hierarchy, then title-casing the raw input as a last resort.
// Empty input standardizes to "Unknown"; no input ever rejects the row.
func Country(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "Unknown"
	}

	lower := strings.ToLower(raw)

	if canonical, ok := countryAliases[lower]; ok {
		return canonical
	}

	for _, canonical := range countryHierarchy {
		cl := strings.ToLower(canonical)
		if cl == lower || strings.Contains(lower, cl) {
			return canonical
		}
		// Partial containment the other way only for inputs long enough to
		// be meaningful prefixes ("nether" -> Netherlands), otherwise every
		// short token would match something.
		if len(lower) >= 4 && strings.Contains(cl, lower) {
			return canonical
		}
	}

	return titleCaser.String(lower)
}
