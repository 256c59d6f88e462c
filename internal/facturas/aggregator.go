package facturas

import (
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/format"
	"github.com/hdelgado/legalizador/internal/models"
)

// Aggregator computes per-partida monetary totals. Its output is the single
// source of truth every partida-level template consumes, which is what keeps
// totals identical across the generated documents.
type Aggregator struct {
	logger *zap.Logger
}

// NewAggregator creates a monetary aggregator.
func NewAggregator(logger *zap.Logger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate sums the amounts of the processed invoices with exact decimal
// arithmetic. Nil entries left behind by earlier pipeline failures are
// skipped, as are entries whose amount cannot be extracted, so the invoice
// count always equals the number of individual amounts. The
// individual-amount list preserves input order so table rows can be
// correlated later. Stateless: the same input always yields the same output.
func (a *Aggregator) Aggregate(resultados []*models.FacturaProcesada) models.ResumenMontos {
	total := decimal.Zero
	individuales := make([]decimal.Decimal, 0, len(resultados))
	validas := 0

	for _, r := range resultados {
		if r == nil {
			continue
		}
		monto, ok := a.montoDe(r)
		if !ok {
			continue
		}
		validas++
		individuales = append(individuales, monto)
		total = total.Add(monto)
	}

	resumen := models.ResumenMontos{
		TotalFacturas:      validas,
		MontoTotal:         total,
		MontoFormateado:    format.Monto(total),
		MontosIndividuales: individuales,
	}

	a.logger.Debug("Montos agregados",
		zap.Int("facturas", resumen.TotalFacturas),
		zap.String("monto_total", resumen.MontoFormateado))

	return resumen
}

// montoDe extracts the exact amount of one result: the already-parsed
// decimal when present, otherwise the display string stripped of currency
// symbol and separators. Amounts never travel through floating point.
func (a *Aggregator) montoDe(r *models.FacturaProcesada) (decimal.Decimal, bool) {
	if !r.MontoDecimal.IsZero() {
		return r.MontoDecimal, true
	}
	if r.Monto == "" {
		return r.MontoDecimal, true
	}
	monto, err := format.ParseMonto(r.Monto)
	if err != nil {
		a.logger.Warn("No se pudo convertir el monto a decimal",
			zap.String("serie_numero", r.SerieNumero),
			zap.String("monto", r.Monto))
		return decimal.Decimal{}, false
	}
	return monto, true
}
