package models

// Program maps a program name to its institutional code. Program heads are
// assigned codes, not names, so visibility scoping goes through this table.
type Program struct {
	ID   int64  `json:"id" db:"id" example:"1"`
	Name string `json:"name" db:"name" example:"BS Information Technology"`
	Code string `json:"code" db:"code" example:"BSIT"`
}
