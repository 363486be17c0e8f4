package standardize

import (
	"fmt"
	"regexp"
	"strings"
)

// emailRegex accepts the basic local@domain.tld shape. Anything fancier is
// resynthesized from the passenger's name instead of guessed at.
var emailRegex = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

// loyaltyTiers in display form; matched case-insensitively by substring.
var loyaltyTiers = []string{"Platinum", "Gold", "Silver", "Bronze"}

// Passenger standardizes one raw passenger row into a canonical record.
//
// Fields produced: passenger_key, full_name, email, loyalty_status, country.
func Passenger(row RawRow) (Record, error) {
	key, err := PassengerKey(row.Get("PassengerKey"))
	if err != nil {
		return nil, err
	}

	name := row.Get("FullName")
	if name == "" {
		return nil, fmt.Errorf("missing required field FullName")
	}

	return Record{
		"passenger_key":  key,
		"full_name":      name,
		"email":          Email(row.Get("Email"), name),
		"loyalty_status": Loyalty(row.Get("LoyaltyStatus")),
		"country":        Country(row.Get("Country")),
	}, nil
}

// Email keeps a well-formed existing address (lowercased) or synthesizes one
// from the full name: firstname.lastname@example.com, or
// firstname@example.com when the name is a single word.
func Email(existing, fullName string) string {
	existing = strings.TrimSpace(existing)
	if emailRegex.MatchString(existing) {
		return strings.ToLower(existing)
	}

	parts := strings.Fields(strings.ToLower(fullName))
	switch len(parts) {
	case 0:
		return "unknown@example.com"
	case 1:
		return parts[0] + "@example.com"
	default:
		return parts[0] + "." + parts[len(parts)-1] + "@example.com"
	}
}

// Loyalty maps a free-text loyalty value onto one of the four tiers.
// Unrecognized or absent values default to Bronze; loyalty never rejects a
// row.
func Loyalty(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return "Bronze"
	}

	for _, tier := range loyaltyTiers {
		lt := strings.ToLower(tier)
		if raw == lt || strings.Contains(raw, lt) {
			return tier
		}
	}

	return "Bronze"
}
