package domain

import "time"

type Medication struct {
	ID               string    `db:"id" json:"id"`
	Code             string    `db:"code" json:"code"`
	Name             string    `db:"name" json:"name"`
	ActiveIngredient string    `db:"active_ingredient" json:"active_ingredient"`
	Concentration    string    `db:"concentration" json:"concentration"`
	DosageForm       string    `db:"dosage_form" json:"dosage_form"`
	Presentation     string    `db:"presentation" json:"presentation"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
