package domain

import (
	"fmt"
	"strings"
	"time"
)

type Patient struct {
	ID         string     `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	NationalID string     `db:"national_id" json:"national_id"`
	BirthDate  *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Phone      string     `db:"phone" json:"phone"`
	Address    string     `db:"address" json:"address"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// FormatNationalID strips every non-digit and, when exactly 11 digits remain, renders them
// as XXX.XXX.XXX-XX. Any other digit count is returned as the bare digits.
func FormatNationalID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) != 11 {
		return digits
	}
	return fmt.Sprintf("%s.%s.%s-%s", digits[0:3], digits[3:6], digits[6:9], digits[9:11])
}
