package models

import "github.com/shopspring/decimal"

// Partida is one budget line item read from the assignment spreadsheet.
// The number is kept as a string: most partidas look numeric ("24101") but
// the spreadsheet occasionally carries alphanumeric keys.
type Partida struct {
	Numero          string          // normalized line-item number
	Descripcion     string          // concept description
	MontoAsignado   decimal.Decimal // assigned budget amount
	NumeroAdicional string          // optional secondary number (oficio/mensaje)
}
