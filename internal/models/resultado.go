package models

import "github.com/shopspring/decimal"

// FacturaProcesada is the per-invoice processing result handed to the
// aggregator and to the partida-level summary templates.
type FacturaProcesada struct {
	SerieNumero   string
	Fecha         string // Spanish long-form date for document bodies
	FechaFactura  string // dd/mm/yyyy for tabular outputs
	Emisor        string
	RFCEmisor     string
	Monto         string          // formatted display amount, "$ 1,234.56"
	MontoDecimal  decimal.Decimal // exact amount for later sums
	EmpleoRecurso string          // free-text concept summary (auto or edited)
	Documentos    map[string]string
}

// ResumenMontos holds the per-partida monetary aggregate. All partida-level
// templates consume the same instance so totals stay consistent across
// documents. Never mutated once computed.
type ResumenMontos struct {
	TotalFacturas      int
	MontoTotal         decimal.Decimal
	MontoFormateado    string
	MontosIndividuales []decimal.Decimal // same order as the input results
}

// ResultadoPartida summarizes one partida's run for statistics and history.
type ResultadoPartida struct {
	Numero             string
	Descripcion        string
	FacturasProcesadas int
	FacturasConError   int
	MontoTotal         decimal.Decimal
	MontoFormateado    string
}
