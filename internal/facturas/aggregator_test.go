package facturas

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/models"
)

func facturaConMonto(serie, monto string) *models.FacturaProcesada {
	d, _ := decimal.NewFromString(monto)
	return &models.FacturaProcesada{
		SerieNumero:  serie,
		Monto:        "$ " + monto,
		MontoDecimal: d,
	}
}

func TestAggregate(t *testing.T) {
	agg := NewAggregator(zap.NewNop())

	resumen := agg.Aggregate([]*models.FacturaProcesada{
		facturaConMonto("A 1", "1000.10"),
		facturaConMonto("A 2", "2000.20"),
		facturaConMonto("A 3", "349.75"),
	})

	assert.Equal(t, 3, resumen.TotalFacturas)
	assert.Equal(t, "3350.05", resumen.MontoTotal.String())
	assert.Equal(t, "$ 3,350.05", resumen.MontoFormateado)
	require.Len(t, resumen.MontosIndividuales, 3)
	assert.Equal(t, "1000.1", resumen.MontosIndividuales[0].String())
	assert.Equal(t, "349.75", resumen.MontosIndividuales[2].String())
}

func TestAggregateOmiteNulos(t *testing.T) {
	agg := NewAggregator(zap.NewNop())

	resumen := agg.Aggregate([]*models.FacturaProcesada{
		facturaConMonto("A 1", "100"),
		nil,
		facturaConMonto("A 2", "200"),
	})

	assert.Equal(t, 2, resumen.TotalFacturas)
	assert.Equal(t, "300", resumen.MontoTotal.String())
	assert.Len(t, resumen.MontosIndividuales, 2)
}

func TestAggregateDesdeTextoFormateado(t *testing.T) {
	agg := NewAggregator(zap.NewNop())

	// Amount only available as display text.
	resumen := agg.Aggregate([]*models.FacturaProcesada{
		{SerieNumero: "B 9", Monto: "$ 1,234.56"},
	})

	assert.Equal(t, "1234.56", resumen.MontoTotal.String())
}

func TestAggregateOmiteMontoIlegible(t *testing.T) {
	agg := NewAggregator(zap.NewNop())

	// A result whose amount cannot be extracted counts neither in the
	// total nor in the invoice count.
	resumen := agg.Aggregate([]*models.FacturaProcesada{
		facturaConMonto("A 1", "100"),
		{SerieNumero: "B 9", Monto: "ilegible"},
	})

	assert.Equal(t, 1, resumen.TotalFacturas)
	assert.Equal(t, "100", resumen.MontoTotal.String())
	assert.Len(t, resumen.MontosIndividuales, 1)
}

func TestAggregateVacio(t *testing.T) {
	agg := NewAggregator(zap.NewNop())

	resumen := agg.Aggregate(nil)
	assert.Equal(t, 0, resumen.TotalFacturas)
	assert.True(t, resumen.MontoTotal.IsZero())
	assert.Equal(t, "$ 0.00", resumen.MontoFormateado)
}

func TestAggregateEsIdempotente(t *testing.T) {
	agg := NewAggregator(zap.NewNop())
	entrada := []*models.FacturaProcesada{
		facturaConMonto("A 1", "10.01"),
		facturaConMonto("A 2", "20.02"),
	}

	primero := agg.Aggregate(entrada)
	segundo := agg.Aggregate(entrada)

	assert.Equal(t, primero.TotalFacturas, segundo.TotalFacturas)
	assert.True(t, primero.MontoTotal.Equal(segundo.MontoTotal))
	assert.Equal(t, primero.MontoFormateado, segundo.MontoFormateado)
}
