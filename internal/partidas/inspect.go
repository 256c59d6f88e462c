package partidas

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// EstructuraHoja describes the shape of one worksheet, used by the inspect
// command to debug spreadsheets the reader refuses.
type EstructuraHoja struct {
	Hoja          string
	TotalFilas    int
	TotalColumnas int
	Muestra       [][]string
}

// Inspect reads the first maxFilas rows of every worksheet without
// interpreting them.
func (r *Reader) Inspect(path string, maxFilas int) ([]EstructuraHoja, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("no se pudo abrir el archivo Excel: %w", err)
	}
	defer f.Close()

	if maxFilas <= 0 {
		maxFilas = 15
	}

	var hojas []EstructuraHoja
	for _, hoja := range f.GetSheetList() {
		filas, err := f.GetRows(hoja)
		if err != nil {
			return nil, fmt.Errorf("no se pudieron leer las filas de %s: %w", hoja, err)
		}

		muestra := filas
		if len(muestra) > maxFilas {
			muestra = muestra[:maxFilas]
		}

		hojas = append(hojas, EstructuraHoja{
			Hoja:          hoja,
			TotalFilas:    len(filas),
			TotalColumnas: ancho(filas),
			Muestra:       muestra,
		})
	}
	return hojas, nil
}
