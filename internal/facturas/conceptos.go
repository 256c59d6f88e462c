package facturas

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hdelgado/legalizador/internal/models"
)

// leading "1 . " style numbering some issuers prepend to descriptions
var numeracionInicial = regexp.MustCompile(`^\d+\s*\.\s*`)

// ResumirConceptos renders the concept list of an invoice as one free-text
// line for the EMPLEO_RECURSO placeholder.
//
// One concept is rendered as "{cantidad:.3f} {descripcion}". Two or three
// are listed in invoice order, comma separated. With more than three, the
// top three by quantity are listed followed by "y otros artículos (total X
// unidades)", where X sums the quantities of ALL concepts, not only the
// listed ones.
func ResumirConceptos(conceptos []models.Concepto) string {
	if len(conceptos) == 0 {
		return "Conceptos no disponibles"
	}

	if len(conceptos) <= 3 {
		return unirConceptos(conceptos)
	}

	totalUnidades := decimal.Zero
	for _, c := range conceptos {
		totalUnidades = totalUnidades.Add(c.Cantidad)
	}

	ordenados := make([]models.Concepto, len(conceptos))
	copy(ordenados, conceptos)
	sort.SliceStable(ordenados, func(i, j int) bool {
		return ordenados[i].Cantidad.GreaterThan(ordenados[j].Cantidad)
	})

	return fmt.Sprintf("%s y otros artículos (total %s unidades)",
		unirConceptos(ordenados[:3]), totalUnidades.StringFixed(3))
}

func unirConceptos(conceptos []models.Concepto) string {
	partes := make([]string, 0, len(conceptos))
	for _, c := range conceptos {
		desc := strings.TrimSpace(numeracionInicial.ReplaceAllString(c.Descripcion, ""))
		partes = append(partes, fmt.Sprintf("%s %s", c.Cantidad.StringFixed(3), desc))
	}
	return strings.Join(partes, ", ")
}

// EditorConceptos is the human-in-the-loop seam: shown the parsed concepts
// and an automatic suggestion, it returns the text to use. Editing blocks
// the pipeline for the current invoice; nothing else proceeds meanwhile.
// Implementations returning ("", nil) accept the suggestion.
type EditorConceptos interface {
	Editar(conceptos []models.Concepto, descripcionPartida, sugerencia string) (string, error)
}

// EditorAutomatico always accepts the automatic suggestion. Used when the
// concept editor is disabled in configuration.
type EditorAutomatico struct{}

func (EditorAutomatico) Editar(_ []models.Concepto, _, _ string) (string, error) {
	return "", nil
}
