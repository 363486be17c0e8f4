package standardize

import "testing"

func TestPassenger(t *testing.T) {
	t.Run("standardizes the full row", func(t *testing.T) {
		rec, err := Passenger(RawRow{
			"PassengerKey":  "P1",
			"FullName":      "Jane Doe",
			"Email":         "",
			"LoyaltyStatus": "gold",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := map[string]any{
			"passenger_key":  "P001",
			"full_name":      "Jane Doe",
			"email":          "jane.doe@example.com",
			"loyalty_status": "Gold",
			"country":        "Unknown",
		}
		for k, v := range want {
			if rec[k] != v {
				t.Errorf("rec[%q] = %v, want %v", k, rec[k], v)
			}
		}
	})

	t.Run("keeps a valid existing email lowercased", func(t *testing.T) {
		rec, err := Passenger(RawRow{
			"PassengerKey": "42",
			"FullName":     "Bob Smith",
			"Email":        "Bob.Smith@Corp.COM",
		})
		if err != nil {
			t.Fatal(err)
		}
		if rec["email"] != "bob.smith@corp.com" {
			t.Errorf("email = %v, want bob.smith@corp.com", rec["email"])
		}
	})

	t.Run("single-word name synthesizes short email", func(t *testing.T) {
		rec, err := Passenger(RawRow{
			"PassengerKey": "9",
			"FullName":     "Cher",
		})
		if err != nil {
			t.Fatal(err)
		}
		if rec["email"] != "cher@example.com" {
			t.Errorf("email = %v, want cher@example.com", rec["email"])
		}
	})

	t.Run("rejects key without digits", func(t *testing.T) {
		if _, err := Passenger(RawRow{"PassengerKey": "XYZ", "FullName": "A B"}); err == nil {
			t.Error("expected rejection for digitless passenger key")
		}
	})

	t.Run("rejects blank name", func(t *testing.T) {
		if _, err := Passenger(RawRow{"PassengerKey": "12", "FullName": "  "}); err == nil {
			t.Error("expected rejection for blank FullName")
		}
	})
}

func TestLoyalty(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "gold", want: "Gold"},
		{in: "GOLD", want: "Gold"},
		{in: "platinum tier", want: "Platinum"},
		{in: "Silver", want: "Silver"},
		{in: "bronze", want: "Bronze"},
		{in: "frequent flyer", want: "Bronze"},
		{in: "", want: "Bronze"},
	}

	for _, tt := range tests {
		if got := Loyalty(tt.in); got != tt.want {
			t.Errorf("Loyalty(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAirport(t *testing.T) {
	t.Run("standardizes with defaults", func(t *testing.T) {
		rec, err := Airport(RawRow{
			"AirportKey":  "lax",
			"AirportName": "Los Angeles International",
			"Country":     "usa",
		})
		if err != nil {
			t.Fatal(err)
		}
		if rec["airport_key"] != "LAX" {
			t.Errorf("airport_key = %v", rec["airport_key"])
		}
		if rec["city"] != "Unknown" {
			t.Errorf("city = %v, want Unknown", rec["city"])
		}
		if rec["country"] != "United States" {
			t.Errorf("country = %v, want United States", rec["country"])
		}
	})

	t.Run("rejects short key instead of padding", func(t *testing.T) {
		_, err := Airport(RawRow{"AirportKey": "ny ", "AirportName": "New York"})
		if err == nil {
			t.Fatal("expected rejection for 2-character airport key")
		}
	})
}

func TestAirline(t *testing.T) {
	rec, err := Airline(RawRow{
		"AirlineKey":  "dl",
		"AirlineName": "Delta Air Lines",
		"Country":     "USA",
	})
	if err != nil {
		t.Fatal(err)
	}
	if rec["airline_key"] != "DL" {
		t.Errorf("airline_key = %v, want DL", rec["airline_key"])
	}
	if rec["alliance"] != "Unknown" {
		t.Errorf("alliance = %v, want Unknown", rec["alliance"])
	}

	if _, err := Airline(RawRow{"AirlineKey": "", "AirlineName": "Ghost Air"}); err == nil {
		t.Error("expected rejection for blank AirlineKey")
	}
}

func TestFlight(t *testing.T) {
	t.Run("standardizes the full row", func(t *testing.T) {
		rec, err := Flight(RawRow{
			"FlightKey":          "dl100-20240115",
			"AirlineKey":         "DL",
			"OriginAirport":      "jfk",
			"DestinationAirport": "LAX",
			"FlightDate":         "1/15/2024",
			"Status":             "",
		})
		if err != nil {
			t.Fatal(err)
		}
		if rec["origin_airport"] != "JFK" || rec["destination_airport"] != "LAX" {
			t.Errorf("airports = %v -> %v", rec["origin_airport"], rec["destination_airport"])
		}
		if rec["flight_date"] != "2024-01-15" || rec["date_key"] != 20240115 {
			t.Errorf("date = %v / %v", rec["flight_date"], rec["date_key"])
		}
		if rec["status"] != "Unknown" {
			t.Errorf("status = %v, want Unknown", rec["status"])
		}
		if rec["departure_time"] != nil {
			t.Errorf("departure_time = %v, want nil", rec["departure_time"])
		}
	})

	t.Run("rejects invalid origin", func(t *testing.T) {
		_, err := Flight(RawRow{
			"FlightKey":          "X1",
			"AirlineKey":         "DL",
			"OriginAirport":      "NEWARK",
			"DestinationAirport": "LAX",
			"FlightDate":         "2024-01-15",
		})
		if err == nil {
			t.Fatal("expected rejection for invalid origin airport key")
		}
	})

	t.Run("rejects unparseable date", func(t *testing.T) {
		_, err := Flight(RawRow{
			"FlightKey":          "X1",
			"AirlineKey":         "DL",
			"OriginAirport":      "JFK",
			"DestinationAirport": "LAX",
			"FlightDate":         "someday",
		})
		if err == nil {
			t.Fatal("expected rejection for unparseable flight date")
		}
	})
}

func TestSales(t *testing.T) {
	t.Run("travel agency row", func(t *testing.T) {
		rec, err := Sales(RawRow{
			"TransactionID": "7",
			"PassengerKey":  "P1",
			"SaleDate":      "2024-03-01",
			"TicketPrice":   "$450.999",
			"AgencyName":    "Globetrotters",
		}, ChannelTravelAgency)
		if err != nil {
			t.Fatal(err)
		}

		want := map[string]any{
			"transaction_id": "TA000007",
			"passenger_key":  "P001",
			"sale_date":      "2024-03-01",
			"date_key":       20240301,
			"amount":         "451.00",
			"channel":        "travel_agency",
			"partner":        "Globetrotters",
		}
		for k, v := range want {
			if rec[k] != v {
				t.Errorf("rec[%q] = %v, want %v", k, rec[k], v)
			}
		}
	})

	t.Run("corporate row with date key column", func(t *testing.T) {
		rec, err := Sales(RawRow{
			"TransactionID": "TX-88",
			"PassengerKey":  "551",
			"DateKey":       "20240115",
			"Amount":        "1,200",
		}, ChannelCorporate)
		if err != nil {
			t.Fatal(err)
		}
		if rec["transaction_id"] != "CO000088" {
			t.Errorf("transaction_id = %v, want CO000088", rec["transaction_id"])
		}
		if rec["date_key"] != 20240115 {
			t.Errorf("date_key = %v, want 20240115", rec["date_key"])
		}
		if rec["partner"] != "Unknown" {
			t.Errorf("partner = %v, want Unknown", rec["partner"])
		}
	})

	t.Run("empty amount standardizes to zero", func(t *testing.T) {
		rec, err := Sales(RawRow{
			"TransactionID": "5",
			"PassengerKey":  "9",
			"SaleDate":      "2024-03-01",
			"TicketPrice":   "",
		}, ChannelTravelAgency)
		if err != nil {
			t.Fatal(err)
		}
		if rec["amount"] != "0.00" {
			t.Errorf("amount = %v, want 0.00", rec["amount"])
		}
	})

	t.Run("secondary amount column is used when first is empty", func(t *testing.T) {
		rec, err := Sales(RawRow{
			"TransactionID": "5",
			"PassengerKey":  "9",
			"SaleDate":      "2024-03-01",
			"TicketPrice":   "",
			"TotalAmount":   "88.80",
		}, ChannelTravelAgency)
		if err != nil {
			t.Fatal(err)
		}
		if rec["amount"] != "88.80" {
			t.Errorf("amount = %v, want 88.80", rec["amount"])
		}
	})

	t.Run("missing every price column rejects", func(t *testing.T) {
		_, err := Sales(RawRow{
			"TransactionID": "5",
			"PassengerKey":  "9",
			"SaleDate":      "2024-03-01",
		}, ChannelTravelAgency)
		if err == nil {
			t.Fatal("expected rejection when no price column exists")
		}
	})

	t.Run("rejects digitless transaction id", func(t *testing.T) {
		_, err := Sales(RawRow{
			"TransactionID": "REF-ABC",
			"PassengerKey":  "9",
			"SaleDate":      "2024-03-01",
			"TicketPrice":   "10",
		}, ChannelTravelAgency)
		if err == nil {
			t.Fatal("expected rejection for digitless transaction id")
		}
	})
}
