package standardize

import (
	"fmt"
	"strings"
)

// Airport standardizes one raw airport row.
//
// Fields produced: airport_key, airport_name, city, country.
func Airport(row RawRow) (Record, error) {
	key, err := AirportKey(row.Get("AirportKey"))
	if err != nil {
		return nil, err
	}

	name := row.Get("AirportName")
	if name == "" {
		return nil, fmt.Errorf("missing required field AirportName")
	}

	city := row.Get("City")
	if city == "" {
		city = "Unknown"
	}

	return Record{
		"airport_key":  key,
		"airport_name": name,
		"city":         city,
		"country":      Country(row.Get("Country")),
	}, nil
}

// PlaceholderAirport builds the minimal auto-generated record inserted when a
// flight references an airport that is not in the warehouse yet. The name
// marks the record as synthesized so analysts can spot and backfill it.
func PlaceholderAirport(key string) Record {
	return Record{
		"airport_key":  key,
		"airport_name": key + " Airport",
		"city":         "Unknown",
		"country":      "Unknown",
	}
}

// Airline standardizes one raw airline row.
//
// Fields produced: airline_key, airline_name, country, alliance.
func Airline(row RawRow) (Record, error) {
	key := strings.ToUpper(row.Get("AirlineKey"))
	if key == "" {
		return nil, fmt.Errorf("missing required field AirlineKey")
	}

	name := row.Get("AirlineName")
	if name == "" {
		return nil, fmt.Errorf("missing required field AirlineName")
	}

	alliance := row.Get("Alliance")
	if alliance == "" {
		alliance = "Unknown"
	}

	return Record{
		"airline_key":  key,
		"airline_name": name,
		"country":      Country(row.Get("Country")),
		"alliance":     alliance,
	}, nil
}

// Flight standardizes one raw flight row. Origin and destination must be
// valid airport keys; whether those airports exist in the warehouse is the
// referential resolver's concern, not this function's.
//
// Fields produced: flight_key, airline_key, origin_airport,
// destination_airport, flight_date, date_key, departure_time, status.
func Flight(row RawRow) (Record, error) {
	key := strings.ToUpper(row.Get("FlightKey"))
	if key == "" {
		return nil, fmt.Errorf("missing required field FlightKey")
	}

	airline := strings.ToUpper(row.Get("AirlineKey"))
	if airline == "" {
		return nil, fmt.Errorf("missing required field AirlineKey")
	}

	origin, err := AirportKey(row.Get("OriginAirport"))
	if err != nil {
		return nil, fmt.Errorf("origin: %w", err)
	}

	dest, err := AirportKey(row.Get("DestinationAirport"))
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	date, dateKey, err := Date(row.Get("FlightDate"))
	if err != nil {
		return nil, err
	}

	status := row.Get("Status")
	if status == "" {
		status = "Unknown"
	}

	var departure any
	if dep := row.Get("DepartureTime"); dep != "" {
		departure = dep
	}

	return Record{
		"flight_key":          key,
		"airline_key":         airline,
		"origin_airport":      origin,
		"destination_airport": dest,
		"flight_date":         date,
		"date_key":            dateKey,
		"departure_time":      departure,
		"status":              status,
	}, nil
}
