package partidas

import (
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/models"
)

// Alternative column headers the assignment spreadsheets are known to use.
var aliasColumnas = map[string][]string{
	"partida":     {"partida", "clave", "número", "no.", "num"},
	"descripcion": {"descripcion", "descripción", "concepto", "detalle"},
	"monto":       {"monto", "importe", "total", "presupuesto", "cantidad"},
	"adicional":   {"numero", "oficio", "mensaje"},
}

// HojaPartidas is the fixed worksheet name of the uppercase-header variant.
const HojaPartidas = "PARTIDAS"

// Reader reads budget line items from xlsx spreadsheets. Two spreadsheet
// shapes are supported: a free-form sheet whose header row is located by
// alias matching (with a fixed B/C/D column fallback), and a worksheet
// literally named PARTIDAS with the fixed headers PARTIDA, CONCEPTO, MONTO,
// NUMERO. Upstream producers guarantee neither, so both are tried.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a spreadsheet reader.
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// columnas holds the resolved 0-based column index per logical field.
// -1 means the column is not present.
type columnas struct {
	partida     int
	descripcion int
	monto       int
	adicional   int
}

// ReadPartidas extracts the partida list from a spreadsheet. Rows missing
// the number or the amount are skipped; a missing description defaults to
// "Partida {numero}". Returns a DataFormatError when no valid row survives.
func (r *Reader) ReadPartidas(path string) ([]models.Partida, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrArchivoNoEncontrado, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &DataFormatError{Motivo: "no se pudo abrir el archivo Excel", Err: err}
	}
	defer f.Close()

	hoja, filas, err := r.seleccionarHoja(f)
	if err != nil {
		return nil, err
	}

	cols, filaDatos, err := r.resolverColumnas(hoja, filas)
	if err != nil {
		return nil, err
	}

	lista := make([]models.Partida, 0, len(filas))
	for i := filaDatos; i < len(filas); i++ {
		p, ok := r.leerFila(filas[i], cols, i+1)
		if ok {
			lista = append(lista, p)
		}
	}

	if len(lista) == 0 {
		r.volcarFilas(filas)
		return nil, &DataFormatError{Motivo: ErrSinPartidas.Error(), Err: ErrSinPartidas}
	}

	r.logger.Info("Partidas leídas del archivo",
		zap.String("archivo", path),
		zap.String("hoja", hoja),
		zap.Int("partidas", len(lista)))

	return lista, nil
}

// seleccionarHoja prefers the fixed PARTIDAS worksheet when present and
// falls back to the first sheet otherwise.
func (r *Reader) seleccionarHoja(f *excelize.File) (string, [][]string, error) {
	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		return "", nil, &DataFormatError{Motivo: "el archivo Excel no tiene hojas"}
	}

	hoja := hojas[0]
	for _, h := range hojas {
		if strings.EqualFold(h, HojaPartidas) {
			hoja = h
			break
		}
	}

	filas, err := f.GetRows(hoja)
	if err != nil {
		return "", nil, &DataFormatError{Motivo: "no se pudieron leer las filas", Err: err}
	}
	if len(filas) == 0 {
		return "", nil, &DataFormatError{Motivo: "la hoja está vacía"}
	}
	return hoja, filas, nil
}

// resolverColumnas locates the header row by alias matching over the first
// rows; when that fails it assumes the conventional layout with headers in
// row 6 and data from row 7, columns B, C and D.
func (r *Reader) resolverColumnas(hoja string, filas [][]string) (columnas, int, error) {
	for i := 0; i < len(filas) && i < 15; i++ {
		cols, encontradas := buscarEncabezados(filas[i])
		if encontradas {
			r.logger.Debug("Encabezados localizados",
				zap.String("hoja", hoja),
				zap.Int("fila", i+1))
			return cols, i + 1, nil
		}
	}

	// Fixed-position fallback: columns B/C/D with data starting in row 7.
	r.logger.Warn("No se reconocieron encabezados; usando asignación fija de columnas B, C y D",
		zap.String("hoja", hoja))

	if ancho(filas) < 4 {
		return columnas{}, 0, &DataFormatError{
			Motivo: ErrColumnasFaltantes.Error(),
			Err:    ErrColumnasFaltantes,
		}
	}

	filaDatos := 6
	if len(filas) <= filaDatos {
		filaDatos = 1
	}
	return columnas{partida: 1, descripcion: 2, monto: 3, adicional: -1}, filaDatos, nil
}

// buscarEncabezados tries to match every required column in one row. Each
// cell is claimed by at most one field, checked in a fixed order so that a
// NUMERO header (which also matches the partida aliases) lands on the
// secondary-number column when the partida column was already found.
func buscarEncabezados(fila []string) (columnas, bool) {
	cols := columnas{partida: -1, descripcion: -1, monto: -1, adicional: -1}
	destino := map[string]*int{
		"partida":     &cols.partida,
		"descripcion": &cols.descripcion,
		"monto":       &cols.monto,
		"adicional":   &cols.adicional,
	}

	for idx, c := range fila {
		texto := strings.ToLower(strings.TrimSpace(c))
		if texto == "" {
			continue
		}
		for _, campo := range []string{"partida", "descripcion", "monto", "adicional"} {
			col := destino[campo]
			if *col >= 0 {
				continue
			}
			if coincideAlias(texto, aliasColumnas[campo]) {
				*col = idx
				break
			}
		}
	}

	return cols, cols.partida >= 0 && cols.descripcion >= 0 && cols.monto >= 0
}

func coincideAlias(texto string, nombres []string) bool {
	for _, nombre := range nombres {
		if strings.Contains(texto, nombre) {
			return true
		}
	}
	return false
}

// leerFila builds one Partida from a data row, or reports it unusable.
func (r *Reader) leerFila(fila []string, cols columnas, numFila int) (models.Partida, bool) {
	numero := celda(fila, cols.partida)
	montoCrudo := celda(fila, cols.monto)
	if numero == "" || montoCrudo == "" {
		return models.Partida{}, false
	}

	numero = NormalizarNumero(numero)

	monto, err := parseMontoCelda(montoCrudo)
	if err != nil {
		r.logger.Warn("No se pudo convertir el monto de la fila",
			zap.Int("fila", numFila),
			zap.String("partida", numero),
			zap.String("monto", montoCrudo))
		return models.Partida{}, false
	}

	descripcion := celda(fila, cols.descripcion)
	if descripcion == "" {
		descripcion = "Partida " + numero
	}

	return models.Partida{
		Numero:          numero,
		Descripcion:     descripcion,
		MontoAsignado:   monto,
		NumeroAdicional: celda(fila, cols.adicional),
	}, true
}

// NormalizarNumero collapses decimal-integer line item numbers ("24101.0")
// to their integer string form; anything else is returned verbatim.
func NormalizarNumero(numero string) string {
	numero = strings.TrimSpace(numero)
	d, err := decimal.NewFromString(numero)
	if err != nil {
		return numero
	}
	return d.Truncate(0).String()
}

// parseMontoCelda coerces a cell value to a decimal amount, stripping
// currency symbols and thousands separators when a direct parse fails.
func parseMontoCelda(valor string) (decimal.Decimal, error) {
	if d, err := decimal.NewFromString(strings.TrimSpace(valor)); err == nil {
		return d, nil
	}
	limpio := strings.NewReplacer("$", "", ",", "", " ", "").Replace(valor)
	return decimal.NewFromString(strings.TrimSpace(limpio))
}

// celda returns the trimmed cell at idx, tolerating short rows.
func celda(fila []string, idx int) string {
	if idx < 0 || idx >= len(fila) {
		return ""
	}
	return strings.TrimSpace(fila[idx])
}

// ancho returns the widest row length seen.
func ancho(filas [][]string) int {
	max := 0
	for _, fila := range filas {
		if len(fila) > max {
			max = len(fila)
		}
	}
	return max
}

// volcarFilas logs the first rows of the sheet to help diagnose an
// unrecognized layout.
func (r *Reader) volcarFilas(filas [][]string) {
	r.logger.Warn("No se encontraron partidas; volcando primeras filas para depuración")
	for i := 0; i < len(filas) && i < 10; i++ {
		r.logger.Info("Fila de depuración",
			zap.Int("fila", i+1),
			zap.Strings("contenido", filas[i]))
	}
}
