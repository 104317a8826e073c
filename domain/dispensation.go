package domain

import "time"

// SystemUser is recorded as the dispensing user when no session name is known.
const SystemUser = "System"

type Dispensation struct {
	ID             string    `db:"id" json:"id"`
	PatientID      string    `db:"patient_id" json:"patient_id"`
	MedicationID   string    `db:"medication_id" json:"medication_id"`
	Quantity       int64     `db:"quantity" json:"quantity"`
	DispensedAt    time.Time `db:"dispensed_at" json:"dispensed_at"`
	Notes          string    `db:"notes" json:"notes"`
	DispensingUser string    `db:"dispensing_user" json:"dispensing_user"`
}

// DispensationDetail is a dispensation joined with its patient and medication.
type DispensationDetail struct {
	Dispensation
	PatientName       string `db:"patient_name" json:"patient_name"`
	PatientNationalID string `db:"patient_national_id" json:"patient_national_id"`
	MedicationName    string `db:"medication_name" json:"medication_name"`
	MedicationCode    string `db:"medication_code" json:"medication_code"`
	ActiveIngredient  string `db:"active_ingredient" json:"active_ingredient"`
	Concentration     string `db:"concentration" json:"concentration"`
}
