package standardize

import "testing"

func TestPassengerKey(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "single digit pads to width 3", in: "P1", want: "P001"},
		{name: "two digits pad", in: "42", want: "P042"},
		{name: "exactly three digits", in: "123", want: "P123"},
		{name: "takes last three digits", in: "ABC12345", want: "P345"},
		{name: "digits split across runs", in: "A1B2C3D4", want: "P234"},
		{name: "idempotent on canonical form", in: "P001", want: "P001"},
		{name: "idempotent on high key", in: "P987", want: "P987"},
		{name: "no digits rejected", in: "ABCDEF", wantErr: true},
		{name: "empty rejected", in: "", wantErr: true},
		{name: "whitespace only rejected", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PassengerKey(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("PassengerKey(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("PassengerKey(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("PassengerKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPassengerKey_IntentionalCollision(t *testing.T) {
	// Keys sharing trailing digits collapse to the same canonical key.
	a, err := PassengerKey("X123")
	if err != nil {
		t.Fatal(err)
	}
	b, err := PassengerKey("Y99123")
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("expected X123 and Y99123 to collide, got %q and %q", a, b)
	}
}

func TestAirportKey(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "lax", want: "LAX"},
		{in: " jfk ", want: "JFK"},
		{in: "SFO", want: "SFO"},
		{in: "ny ", wantErr: true}, // 2 chars after trim, never padded
		{in: "JFKX", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := AirportKey(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("AirportKey(%q) = %q, want error", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("AirportKey(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("AirportKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTransactionID(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		ch      SalesChannel
		want    string
		wantErr bool
	}{
		{name: "bare digit travel agency", in: "7", ch: ChannelTravelAgency, want: "TA000007"},
		{name: "leading zero collapses to same id", in: "07", ch: ChannelTravelAgency, want: "TA000007"},
		{name: "corporate prefix", in: "99", ch: ChannelCorporate, want: "CO000099"},
		{name: "strips non-digits", in: "TX-4521", ch: ChannelCorporate, want: "CO004521"},
		{name: "more than six digits kept", in: "12345678", ch: ChannelTravelAgency, want: "TA12345678"},
		{name: "no digits rejected", in: "TX-ABC", ch: ChannelTravelAgency, wantErr: true},
		{name: "empty rejected", in: "", ch: ChannelCorporate, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TransactionID(tt.in, tt.ch)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("TransactionID(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("TransactionID(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("TransactionID(%q, %s) = %q, want %q", tt.in, tt.ch, got, tt.want)
			}
		})
	}
}

func TestAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "123.45", want: "123.45"},
		{in: "$1,234.5", want: "1234.50"},
		{in: "USD 99", want: "99.00"},
		{in: "€250.999", want: "251.00"},
		{in: "(100)", want: "-100.00"},
		{in: "($1,500.25)", want: "-1500.25"},
		{in: "-42.1", want: "-42.10"},
		{in: "12.345", want: "12.35"},
		{in: "abc", want: "0.00"},
		{in: "", want: "0.00"},
		{in: "  ", want: "0.00"},
		{in: "0", want: "0.00"},
	}

	for _, tt := range tests {
		if got := Amount(tt.in); got != tt.want {
			t.Errorf("Amount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDate(t *testing.T) {
	tests := []struct {
		in      string
		wantISO string
		wantKey int
		wantErr bool
	}{
		{in: "2024-01-15", wantISO: "2024-01-15", wantKey: 20240115},
		{in: "1/15/2024", wantISO: "2024-01-15", wantKey: 20240115},
		{in: "01.02.2024", wantISO: "2024-01-02", wantKey: 20240102},
		{in: "20240115", wantISO: "2024-01-15", wantKey: 20240115},
		{in: "Jan 2, 2024", wantISO: "2024-01-02", wantKey: 20240102},
		{in: "3/4/75", wantISO: "1975-03-04", wantKey: 19750304},
		{in: "not a date", wantErr: true},
		{in: "", wantErr: true},
		{in: "13/45/2024", wantErr: true},
	}

	for _, tt := range tests {
		iso, key, err := Date(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Date(%q) = %q, want error", tt.in, iso)
			}
			continue
		}
		if err != nil {
			t.Errorf("Date(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if iso != tt.wantISO || key != tt.wantKey {
			t.Errorf("Date(%q) = (%q, %d), want (%q, %d)", tt.in, iso, key, tt.wantISO, tt.wantKey)
		}
	}
}

func TestCountry(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "usa", want: "United States"},
		{in: "USA", want: "United States"},
		{in: "united states of america", want: "United States"},
		{in: "uk", want: "United Kingdom"},
		{in: "UNITED KINGDOM", want: "United Kingdom"},
		{in: "germany", want: "Germany"},
		{in: "nether", want: "Netherlands"},
		{in: "republic of ireland", want: "Ireland"},
		{in: "elbonia", want: "Elbonia"},
		{in: "new caledonia", want: "New Caledonia"},
		{in: "", want: "Unknown"},
		{in: "   ", want: "Unknown"},
	}

	for _, tt := range tests {
		if got := Country(tt.in); got != tt.want {
			t.Errorf("Country(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  plain  ", want: "plain"},
		{in: `="ABC123"`, want: "ABC123"},
		{in: "=SUM", want: "SUM"},
		{in: `"quoted"`, want: "quoted"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := CleanCell(tt.in); got != tt.want {
			t.Errorf("CleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
