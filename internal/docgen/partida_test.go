package docgen

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/models"
)

func crearPlantillaXLSX(t *testing.T, dir, nombre string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SaveAs(filepath.Join(dir, nombre)))
}

func datosDePrueba() *DatosResumen {
	total, _ := decimal.NewFromString("300.50")
	m1, _ := decimal.NewFromString("100.25")
	m2, _ := decimal.NewFromString("200.25")

	return &DatosResumen{
		Partida: models.Partida{
			Numero:      "24101",
			Descripcion: "Materiales y útiles de oficina",
		},
		Mes:                 "enero",
		Ejercicio:           "2025",
		FechaDocumentoTexto: "1 de febrero del 2025",
		Resumen: models.ResumenMontos{
			TotalFacturas:      2,
			MontoTotal:         total,
			MontoFormateado:    "$ 300.50",
			MontosIndividuales: []decimal.Decimal{m1, m2},
		},
		Facturas: []*models.FacturaProcesada{
			{
				SerieNumero:   "A 1",
				FechaFactura:  "15/01/2025",
				Emisor:        "PAPELERA LOCAL",
				RFCEmisor:     "PAL7203059K2",
				EmpleoRecurso: "10.000 CAJA DE PAPEL",
				MontoDecimal:  m1,
			},
			{
				SerieNumero:   "B 7",
				FechaFactura:  "20/01/2025",
				Emisor:        "COMERCIAL DEL NORTE",
				RFCEmisor:     "CNO850101AB1",
				EmpleoRecurso: "2.000 TONER",
				MontoDecimal:  m2,
			},
		},
	}
}

func TestPartidaDocsGenerar(t *testing.T) {
	plantillas := t.TempDir()
	salida := t.TempDir()

	crearPlantillaXLSX(t, plantillas, plantillaIngresos)
	crearPlantillaXLSX(t, plantillas, plantillaFacturas)
	crearPlantillaDocx(t, plantillas, plantillaOficio,
		`<w:p><w:r><w:t>Partida {{PARTIDA}}: {{TOTAL_FACTURAS}} facturas por {{MONTO_TOTAL}}</w:t></w:r></w:p>`)

	gen := NewPartidaDocs(plantillas, NewDocxFiller(zap.NewNop()), zap.NewNop())
	generados := gen.Generar(datosDePrueba(), salida)

	require.Len(t, generados, 3)
	assert.Contains(t, generados, "ingresos")
	assert.Contains(t, generados, "facturas")
	assert.Contains(t, generados, "oficio")

	cuerpo := leerDocumento(t, generados["oficio"])
	assert.Contains(t, cuerpo, "Partida 24101: 2 facturas por $ 300.50")
}

func TestPartidaDocsRelacionFacturas(t *testing.T) {
	plantillas := t.TempDir()
	salida := t.TempDir()
	crearPlantillaXLSX(t, plantillas, plantillaFacturas)

	gen := NewPartidaDocs(plantillas, NewDocxFiller(zap.NewNop()), zap.NewNop())
	datos := datosDePrueba()

	ruta, err := gen.generarRelacionFacturas(datos, salida)
	require.NoError(t, err)

	f, err := excelize.OpenFile(ruta)
	require.NoError(t, err)
	defer f.Close()
	hoja := f.GetSheetList()[0]

	serie, err := f.GetCellValue(hoja, "E9")
	require.NoError(t, err)
	assert.Equal(t, "A 1", serie)

	emisor, err := f.GetCellValue(hoja, "C10")
	require.NoError(t, err)
	assert.Equal(t, "COMERCIAL DEL NORTE", emisor)

	formula, err := f.GetCellFormula(hoja, "G12")
	require.NoError(t, err)
	assert.Equal(t, "SUM(G9:G10)", formula)
}

func TestPartidaDocsFallaUnaPlantilla(t *testing.T) {
	plantillas := t.TempDir()
	salida := t.TempDir()

	// Only two of the three templates exist.
	crearPlantillaXLSX(t, plantillas, plantillaIngresos)
	crearPlantillaXLSX(t, plantillas, plantillaFacturas)

	gen := NewPartidaDocs(plantillas, NewDocxFiller(zap.NewNop()), zap.NewNop())
	generados := gen.Generar(datosDePrueba(), salida)

	// The missing memo template does not stop the other documents.
	assert.Len(t, generados, 2)
	assert.NotContains(t, generados, "oficio")
}

func TestFacturaDocsGenerar(t *testing.T) {
	plantillas := t.TempDir()
	salida := t.TempDir()

	for _, plantilla := range plantillasFactura {
		crearPlantillaDocx(t, plantillas, plantilla,
			`<w:p><w:r><w:t>{{SERIE_NUMERO}} {{MONTO}}</w:t></w:r></w:p>`)
	}

	gen := NewFacturaDocs(plantillas, NewDocxFiller(zap.NewNop()), zap.NewNop())
	datos := &models.DatosPlantilla{SerieNumero: "A 1234", Monto: "$ 99.99"}
	generados := gen.Generar(datos, salida)

	require.Len(t, generados, 4)
	cuerpo := leerDocumento(t, generados["legalizacion_factura"])
	assert.Contains(t, cuerpo, "A 1234 $ 99.99")
}

func TestFacturaDocsPlantillaFaltante(t *testing.T) {
	plantillas := t.TempDir()
	salida := t.TempDir()

	// Only the invoice cover exists.
	crearPlantillaDocx(t, plantillas, "legalizacion_factura.docx",
		`<w:p><w:r><w:t>{{SERIE_NUMERO}}</w:t></w:r></w:p>`)

	gen := NewFacturaDocs(plantillas, NewDocxFiller(zap.NewNop()), zap.NewNop())
	generados := gen.Generar(&models.DatosPlantilla{SerieNumero: "A 1"}, salida)

	assert.Len(t, generados, 1)
	assert.Contains(t, generados, "legalizacion_factura")
}
