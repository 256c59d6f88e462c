package facturas

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/hdelgado/legalizador/internal/models"
)

func concepto(desc string, cantidad string) models.Concepto {
	d, _ := decimal.NewFromString(cantidad)
	return models.Concepto{Descripcion: desc, Cantidad: d}
}

func TestResumirConceptos(t *testing.T) {
	tests := []struct {
		name      string
		conceptos []models.Concepto
		expected  string
	}{
		{
			name:     "sin conceptos",
			expected: "Conceptos no disponibles",
		},
		{
			name:      "un concepto",
			conceptos: []models.Concepto{concepto("CAJA DE PAPEL", "10")},
			expected:  "10.000 CAJA DE PAPEL",
		},
		{
			name: "dos conceptos en orden de factura",
			conceptos: []models.Concepto{
				concepto("MARCADORES", "2"),
				concepto("CAJA DE PAPEL", "10"),
			},
			expected: "2.000 MARCADORES, 10.000 CAJA DE PAPEL",
		},
		{
			name: "tres conceptos sin resumen",
			conceptos: []models.Concepto{
				concepto("A", "1"),
				concepto("B", "2"),
				concepto("C", "3"),
			},
			expected: "1.000 A, 2.000 B, 3.000 C",
		},
		{
			name: "mas de tres lista top tres por cantidad",
			conceptos: []models.Concepto{
				concepto("A", "1"),
				concepto("B", "8"),
				concepto("C", "3"),
				concepto("D", "5"),
			},
			expected: "8.000 B, 5.000 D, 3.000 C y otros artículos (total 17.000 unidades)",
		},
		{
			name: "numeracion inicial eliminada",
			conceptos: []models.Concepto{
				concepto("1 . CAJA DE PAPEL", "4"),
			},
			expected: "4.000 CAJA DE PAPEL",
		},
		{
			name: "cantidades fraccionarias",
			conceptos: []models.Concepto{concepto("GASOLINA MAGNA", "45.873")},
			expected: "45.873 GASOLINA MAGNA",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResumirConceptos(tt.conceptos))
		})
	}
}

func TestResumirConceptosTotalIncluyeTodos(t *testing.T) {
	// The trailing total counts every concept, not only the listed three.
	conceptos := []models.Concepto{
		concepto("A", "10"),
		concepto("B", "20"),
		concepto("C", "30"),
		concepto("D", "1"),
		concepto("E", "2"),
	}
	assert.Equal(t,
		"30.000 C, 20.000 B, 10.000 A y otros artículos (total 63.000 unidades)",
		ResumirConceptos(conceptos))
}

func TestEditorAutomatico(t *testing.T) {
	texto, err := EditorAutomatico{}.Editar(nil, "Partida", "sugerencia")
	assert.NoError(t, err)
	assert.Empty(t, texto)
}
