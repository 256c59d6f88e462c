package docgen

import (
	"errors"
	"fmt"
)

var (
	// ErrPlantillaNoEncontrada indicates a template file is missing. The
	// failure is scoped to the one document being generated, never to the
	// whole partida.
	ErrPlantillaNoEncontrada = errors.New("no se encontró la plantilla")

	// ErrPlantillaSinHojas indicates an xlsx template with no worksheets.
	ErrPlantillaSinHojas = errors.New("la plantilla no tiene hojas")
)

// TemplateNotFoundError wraps ErrPlantillaNoEncontrada with the offending
// path for the status log.
type TemplateNotFoundError struct {
	Path string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s", ErrPlantillaNoEncontrada, e.Path)
}

func (e *TemplateNotFoundError) Unwrap() error { return ErrPlantillaNoEncontrada }
