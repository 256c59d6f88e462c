package cfdi

import "fmt"

// MissingFieldError reports a required CFDI element or attribute that was
// absent from the source XML.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("el XML no contiene el campo requerido: %s", e.Field)
}
