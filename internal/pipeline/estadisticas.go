package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estadisticas accumulates the counters of one run.
type Estadisticas struct {
	RunID             string
	TotalPartidas     int
	PartidasExitosas  int
	PartidasParciales int
	PartidasFallidas  int
	PartidasOmitidas  int
	TotalFacturas     int
	FacturasConError  int
	MontoGlobal       decimal.Decimal
	Inicio            time.Time
	Duracion          time.Duration
}

// Completa reports whether every partida finished without errors.
func (e *Estadisticas) Completa() bool {
	return e.PartidasParciales == 0 && e.PartidasFallidas == 0 && e.FacturasConError == 0
}
