package partidas

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// crearArchivo writes an xlsx with the given rows starting at A1 of one
// sheet and returns its path.
func crearArchivo(t *testing.T, hoja string, filas [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if hoja != "Sheet1" {
		_, err := f.NewSheet(hoja)
		require.NoError(t, err)
		require.NoError(t, f.DeleteSheet("Sheet1"))
	}

	for i, fila := range filas {
		for j, valor := range fila {
			celda, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(hoja, celda, valor))
		}
	}

	ruta := filepath.Join(t.TempDir(), "partidas.xlsx")
	require.NoError(t, f.SaveAs(ruta))
	return ruta
}

func TestReadPartidasConEncabezados(t *testing.T) {
	ruta := crearArchivo(t, "PARTIDAS", [][]interface{}{
		{"PARTIDA", "CONCEPTO", "MONTO", "NUMERO"},
		{"24101", "Materiales y útiles de oficina", 15000.50, "OF-101"},
		{"26102", "Combustibles", "  $ 22,000.00 ", "OF-102"},
	})

	lista, err := NewReader(zap.NewNop()).ReadPartidas(ruta)
	require.NoError(t, err)
	require.Len(t, lista, 2)

	assert.Equal(t, "24101", lista[0].Numero)
	assert.Equal(t, "Materiales y útiles de oficina", lista[0].Descripcion)
	assert.Equal(t, "15000.5", lista[0].MontoAsignado.String())
	assert.Equal(t, "OF-101", lista[0].NumeroAdicional)

	assert.Equal(t, "26102", lista[1].Numero)
	assert.Equal(t, "22000", lista[1].MontoAsignado.String())
}

func TestReadPartidasEncabezadosConAlias(t *testing.T) {
	ruta := crearArchivo(t, "Sheet1", [][]interface{}{
		{"", "", ""},
		{"Clave", "Descripción del gasto", "Importe asignado"},
		{"31904", "Servicios integrales", 5000},
	})

	lista, err := NewReader(zap.NewNop()).ReadPartidas(ruta)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "31904", lista[0].Numero)
	assert.Equal(t, "Servicios integrales", lista[0].Descripcion)
}

func TestReadPartidasFilasIncompletas(t *testing.T) {
	ruta := crearArchivo(t, "PARTIDAS", [][]interface{}{
		{"PARTIDA", "CONCEPTO", "MONTO"},
		{"24101", "Con monto", 100},
		{"", "Sin número", 200},
		{"26102", "Sin monto", ""},
		{"27101", "", 300},
	})

	lista, err := NewReader(zap.NewNop()).ReadPartidas(ruta)
	require.NoError(t, err)
	require.Len(t, lista, 2)

	assert.Equal(t, "24101", lista[0].Numero)
	// Missing description defaults to a synthesized one.
	assert.Equal(t, "27101", lista[1].Numero)
	assert.Equal(t, "Partida 27101", lista[1].Descripcion)
}

func TestReadPartidasNumeroDecimal(t *testing.T) {
	ruta := crearArchivo(t, "PARTIDAS", [][]interface{}{
		{"PARTIDA", "CONCEPTO", "MONTO"},
		{"24101.0", "Número con decimal", 100},
	})

	lista, err := NewReader(zap.NewNop()).ReadPartidas(ruta)
	require.NoError(t, err)
	require.Len(t, lista, 1)
	assert.Equal(t, "24101", lista[0].Numero)
}

func TestReadPartidasArchivoInexistente(t *testing.T) {
	_, err := NewReader(zap.NewNop()).ReadPartidas("/no/existe.xlsx")
	assert.ErrorIs(t, err, ErrArchivoNoEncontrado)
}

func TestReadPartidasSinFilasValidas(t *testing.T) {
	ruta := crearArchivo(t, "PARTIDAS", [][]interface{}{
		{"PARTIDA", "CONCEPTO", "MONTO"},
		{"", "nada", ""},
	})

	_, err := NewReader(zap.NewNop()).ReadPartidas(ruta)
	require.Error(t, err)

	var formato *DataFormatError
	assert.True(t, errors.As(err, &formato))
}

func TestNormalizarNumero(t *testing.T) {
	tests := []struct {
		name     string
		entrada  string
		expected string
	}{
		{name: "integer kept", entrada: "24101", expected: "24101"},
		{name: "trailing decimal removed", entrada: "24101.0", expected: "24101"},
		{name: "fraction truncated", entrada: "24101.9", expected: "24101"},
		{name: "whitespace trimmed", entrada: " 24101 ", expected: "24101"},
		{name: "non numeric verbatim", entrada: "24-101A", expected: "24-101A"},
		{name: "empty verbatim", entrada: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizarNumero(tt.entrada))
		})
	}
}

func TestParseMontoCelda(t *testing.T) {
	d, err := parseMontoCelda("$ 1,234.56")
	require.NoError(t, err)
	assert.Equal(t, "1234.56", d.String())

	d, err = parseMontoCelda("789.10")
	require.NoError(t, err)
	assert.Equal(t, "789.1", d.String())

	_, err = parseMontoCelda("sin datos")
	assert.Error(t, err)
}

func TestBuscarEncabezadosNumeroNoRobaPartida(t *testing.T) {
	// NUMERO also matches the partida aliases; with PARTIDA present it must
	// land on the secondary-number column.
	cols, ok := buscarEncabezados([]string{"PARTIDA", "CONCEPTO", "MONTO", "NUMERO"})
	require.True(t, ok)
	assert.Equal(t, 0, cols.partida)
	assert.Equal(t, 1, cols.descripcion)
	assert.Equal(t, 2, cols.monto)
	assert.Equal(t, 3, cols.adicional)
}

func TestInspect(t *testing.T) {
	ruta := crearArchivo(t, "PARTIDAS", [][]interface{}{
		{"PARTIDA", "CONCEPTO", "MONTO"},
		{"24101", "Materiales", 100},
	})

	hojas, err := NewReader(zap.NewNop()).Inspect(ruta, 5)
	require.NoError(t, err)
	require.Len(t, hojas, 1)
	assert.Equal(t, "PARTIDAS", hojas[0].Hoja)
	assert.Equal(t, 2, hojas[0].TotalFilas)
	assert.Equal(t, 3, hojas[0].TotalColumnas)
}
