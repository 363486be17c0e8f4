package signature

import "strings"

// Classify maps a file's header row to one of the registered signatures.
//
// Matching happens in two passes. The exact pass checks, per signature in
// declaration order, that every required column is present (case-insensitive,
// trimmed); sales-like signatures must additionally carry at least one of
// their amount columns. The fuzzy pass scans the headers for entity-name
// fragments when no signature matched exactly.
//
// Classify is a pure function of the header list: no I/O, deterministic, and
// it never fails. An Unknown result is terminal for the file; the caller must
// not attempt partial processing. The headers passed in are never altered,
// only compared.
func Classify(sigs []FileSignature, headers []string) (FileSignature, EntityType) {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[strings.ToLower(strings.TrimSpace(h))] = true
	}

	for _, sig := range sigs {
		if matchesExact(sig, present) {
			return sig, sig.Entity
		}
	}

	if entity := fuzzyMatch(headers); entity != Unknown {
		if sig, ok := ByEntity(sigs, entity); ok {
			return sig, entity
		}
	}

	return FileSignature{}, Unknown
}

func matchesExact(sig FileSignature, present map[string]bool) bool {
	for _, col := range sig.Required {
		if !present[strings.ToLower(col)] {
			return false
		}
	}

	if !sig.SalesLike() {
		return true
	}

	for _, col := range sig.Amount {
		if present[strings.ToLower(col)] {
			return true
		}
	}
	return false
}

// fuzzyMatch falls back to substring search over the headers for known
// entity-name fragments. The transaction fragment is checked first: sales
// rows carry a PassengerKey column, so a passenger hit on a sales header set
// is a false positive. A transaction hit is disambiguated into a sales
// subtype; travel-agency is the default when neither subtype fragment
// occurs.
func fuzzyMatch(headers []string) EntityType {
	joined := strings.ToLower(strings.Join(headers, " "))

	switch {
	case strings.Contains(joined, "transaction"):
		if strings.Contains(joined, "corporate") || strings.Contains(joined, "datekey") {
			return SalesCorporate
		}
		if strings.Contains(joined, "travel") || strings.Contains(joined, "agency") {
			return SalesTravel
		}
		return SalesTravel
	case strings.Contains(joined, "passenger"):
		return Passenger
	case strings.Contains(joined, "airport"):
		return Airport
	case strings.Contains(joined, "airline"):
		return Airline
	case strings.Contains(joined, "flight"):
		return Flight
	}

	return Unknown
}
