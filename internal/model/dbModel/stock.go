package dbModel

import "time"

type Stock struct {
	Symbol    string    `db:"symbol"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	Market    *string   `db:"market"`
	Industry  *string   `db:"industry"`
	IsActive  bool      `db:"is_active"`
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"dt_create"`
	UpdatedAt time.Time `db:"dt_update"`
}
