package standardize

import "fmt"

// salesShape captures the per-channel column mapping for sales rows.
type salesShape struct {
	dateColumn    string
	amountColumns []string
	partnerColumn string
}

var salesShapes = map[SalesChannel]salesShape{
	ChannelTravelAgency: {
		dateColumn:    "SaleDate",
		amountColumns: []string{"TicketPrice", "TotalAmount"},
		partnerColumn: "AgencyName",
	},
	ChannelCorporate: {
		dateColumn:    "DateKey",
		amountColumns: []string{"Amount", "NetAmount"},
		partnerColumn: "CompanyName",
	},
}

// Sales standardizes one raw sales transaction row for the given channel.
//
// The synthesized transaction_id is the record's dedup key and the store's
// conflict key. A row missing every amount column is rejected; an amount
// column that is present but empty or noisy standardizes to 0.00 instead.
//
// Fields produced: transaction_id, passenger_key, sale_date, date_key,
// amount, channel, partner.
func Sales(row RawRow, ch SalesChannel) (Record, error) {
	shape, ok := salesShapes[ch]
	if !ok {
		return nil, fmt.Errorf("unknown sales channel %q", ch)
	}

	txnID, err := TransactionID(row.Get("TransactionID"), ch)
	if err != nil {
		return nil, err
	}

	passengerKey, err := PassengerKey(row.Get("PassengerKey"))
	if err != nil {
		return nil, err
	}

	date, dateKey, err := Date(row.Get(shape.dateColumn))
	if err != nil {
		return nil, err
	}

	amountRaw, found := "", false
	for _, col := range shape.amountColumns {
		if row.Has(col) {
			found = true
			if v := row.Get(col); v != "" {
				amountRaw = v
				break
			}
		}
	}
	if !found {
		return nil, fmt.Errorf("missing required price field (one of %v)", shape.amountColumns)
	}

	partner := row.Get(shape.partnerColumn)
	if partner == "" {
		partner = "Unknown"
	}

	return Record{
		"transaction_id": txnID,
		"passenger_key":  passengerKey,
		"sale_date":      date,
		"date_key":       dateKey,
		"amount":         Amount(amountRaw),
		"channel":        string(ch),
		"partner":        partner,
	}, nil
}
