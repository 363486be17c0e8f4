// Package signature defines the catalog of known file types and classifies
// incoming CSV files against it using only their column headers.
package signature

// EntityType identifies one of the warehouse entity kinds a file can carry.
// The pipeline driver switches exhaustively over these values; adding a new
// entity means adding a constant here, a signature to Registry, and a case to
// every switch, all checked at review time rather than through a runtime map.
type EntityType string

const (
	Passenger      EntityType = "passenger"
	Airport        EntityType = "airport"
	Airline        EntityType = "airline"
	Flight         EntityType = "flight"
	SalesTravel    EntityType = "sales_travel_agency"
	SalesCorporate EntityType = "sales_corporate"
	Unknown        EntityType = "unknown"
)

// FileSignature describes the column shape of one known file type together
// with its warehouse destination. Signatures are immutable after process
// start; they are built once by Registry and injected where needed.
type FileSignature struct {
	Entity EntityType

	// Required columns must all be present (case-insensitive, trimmed) for
	// the signature to match.
	Required []string

	// Optional columns are accepted but never influence classification.
	Optional []string

	// Amount columns apply to sales signatures only: at least one must be
	// present in addition to the required set.
	Amount []string

	// Collection is the target store collection for clean records.
	Collection string

	// ConflictKey is the record field the store upserts on.
	ConflictKey string
}

// SalesLike reports whether the signature carries monetary amounts and is
// therefore held to the stricter two-part match rule.
func (s FileSignature) SalesLike() bool {
	return len(s.Amount) > 0
}

// Registry returns the known file signatures in declaration order.
//
// Declaration order is the tie-break rule: when a header set satisfies more
// than one signature, the one declared first here wins. Keep the more
// specific signatures ahead of the more permissive ones.
func Registry() []FileSignature {
	return []FileSignature{
		{
			Entity:      Passenger,
			Required:    []string{"PassengerKey", "FullName"},
			Optional:    []string{"Email", "LoyaltyStatus", "Country"},
			Collection:  "passengers",
			ConflictKey: "passenger_key",
		},
		{
			Entity:      Airport,
			Required:    []string{"AirportKey", "AirportName"},
			Optional:    []string{"City", "Country"},
			Collection:  "airports",
			ConflictKey: "airport_key",
		},
		{
			Entity:      Airline,
			Required:    []string{"AirlineKey", "AirlineName"},
			Optional:    []string{"Country", "Alliance"},
			Collection:  "airlines",
			ConflictKey: "airline_key",
		},
		{
			Entity:      Flight,
			Required:    []string{"FlightKey", "AirlineKey", "OriginAirport", "DestinationAirport", "FlightDate"},
			Optional:    []string{"DepartureTime", "Status"},
			Collection:  "flights",
			ConflictKey: "flight_key",
		},
		{
			Entity:      SalesTravel,
			Required:    []string{"TransactionID", "PassengerKey", "SaleDate"},
			Optional:    []string{"AgencyName", "Destination"},
			Amount:      []string{"TicketPrice", "TotalAmount"},
			Collection:  "sales_transactions",
			ConflictKey: "transaction_id",
		},
		{
			Entity:      SalesCorporate,
			Required:    []string{"TransactionID", "PassengerKey", "DateKey"},
			Optional:    []string{"CompanyName", "CostCenter"},
			Amount:      []string{"Amount", "NetAmount"},
			Collection:  "sales_transactions",
			ConflictKey: "transaction_id",
		},
	}
}

// ByEntity returns the signature for the given entity type from sigs.
// Returns false for Unknown or an unregistered entity.
func ByEntity(sigs []FileSignature, entity EntityType) (FileSignature, bool) {
	for _, s := range sigs {
		if s.Entity == entity {
			return s, true
		}
	}
	return FileSignature{}, false
}
