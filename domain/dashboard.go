package domain

// Dashboard is the landing-page summary of catalog, stock and dispensing activity.
type Dashboard struct {
	TotalMedications    int64                `json:"total_medications"`
	TotalPatients       int64                `json:"total_patients"`
	DispensationsToday  int64                `json:"dispensations_today"`
	DispensationsMonth  int64                `json:"dispensations_month"`
	LowStock            int64                `json:"low_stock"`
	OutOfStock          int64                `json:"out_of_stock"`
	RecentDispensations []DispensationDetail `json:"recent_dispensations"`
}
