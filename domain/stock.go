package domain

import "time"

// StockLot is the running quantity-on-hand for one medication. Additions are merged into
// the existing row, so LotNumber and ExpiryDate describe the first recorded lot.
type StockLot struct {
	ID           string    `db:"id" json:"id"`
	MedicationID string    `db:"medication_id" json:"medication_id"`
	CurrentQty   int64     `db:"current_qty" json:"current_qty"`
	MinimumQty   int64     `db:"minimum_qty" json:"minimum_qty"`
	LotNumber    string    `db:"lot_number" json:"lot_number"`
	ExpiryDate   time.Time `db:"expiry_date" json:"expiry_date"`
	EntryDate    time.Time `db:"entry_date" json:"entry_date"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Status classifies the row against its own minimum threshold.
func (s StockLot) Status() StockStatus {
	return ClassifyStock(s.CurrentQty, s.MinimumQty)
}

// StockEntry is an incoming delivery to be merged into stock.
type StockEntry struct {
	MedicationID string    `json:"medication_id"`
	Quantity     int64     `json:"quantity"`
	LotNumber    string    `json:"lot_number"`
	ExpiryDate   time.Time `json:"expiry_date"`
}

type StockStatus string

const (
	StockOut    StockStatus = "out_of_stock"
	StockLow    StockStatus = "low_stock"
	StockNormal StockStatus = "normal"
)

// ClassifyStock returns out-of-stock for zero (or less), low-stock while the quantity is at
// or below the minimum, normal otherwise.
func ClassifyStock(current, minimum int64) StockStatus {
	switch {
	case current <= 0:
		return StockOut
	case current <= minimum:
		return StockLow
	default:
		return StockNormal
	}
}

// StockView is a stock row joined with its medication for listings.
type StockView struct {
	StockLot
	MedicationCode   string      `db:"medication_code" json:"medication_code"`
	MedicationName   string      `db:"medication_name" json:"medication_name"`
	ActiveIngredient string      `db:"active_ingredient" json:"active_ingredient"`
	Concentration    string      `db:"concentration" json:"concentration"`
	Status           StockStatus `db:"-" json:"status"`
}
