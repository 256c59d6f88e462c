package partidas

import (
	"errors"
	"fmt"
)

var (
	// ErrArchivoNoEncontrado indicates the spreadsheet path does not exist.
	ErrArchivoNoEncontrado = errors.New("no se encontró el archivo de partidas")

	// ErrSinPartidas indicates the spreadsheet produced zero valid rows.
	ErrSinPartidas = errors.New("no se encontraron partidas válidas en el archivo")

	// ErrColumnasFaltantes indicates the required columns could not be located.
	ErrColumnasFaltantes = errors.New("no se pudieron encontrar todas las columnas necesarias")
)

// DataFormatError reports a spreadsheet whose shape or contents could not be
// interpreted as a partida list.
type DataFormatError struct {
	Motivo string
	Err    error
}

func (e *DataFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("formato de datos no válido: %s: %v", e.Motivo, e.Err)
	}
	return fmt.Sprintf("formato de datos no válido: %s", e.Motivo)
}

func (e *DataFormatError) Unwrap() error { return e.Err }
