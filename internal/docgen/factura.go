package docgen

import (
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/models"
)

// The per-invoice document set: a legalization cover for the invoice, one
// for the SAT verification, one for the XML files, and the printable XML
// reproduction.
var plantillasFactura = []string{
	"legalizacion_factura.docx",
	"legalizacion_verificacion.docx",
	"legalizacion_xmls.docx",
	"xml.docx",
}

// FacturaDocs generates the DOCX document set of one invoice.
type FacturaDocs struct {
	templatesDir string
	filler       *DocxFiller
	logger       *zap.Logger
}

// NewFacturaDocs creates a per-invoice document generator.
func NewFacturaDocs(templatesDir string, filler *DocxFiller, logger *zap.Logger) *FacturaDocs {
	return &FacturaDocs{
		templatesDir: templatesDir,
		filler:       filler,
		logger:       logger,
	}
}

// Generar fills every per-invoice template into outputDir. A failing
// template (missing file, unreadable archive) is logged and skipped; the
// remaining documents of the set are still produced. Returns the generated
// paths keyed by template name.
func (g *FacturaDocs) Generar(datos *models.DatosPlantilla, outputDir string) map[string]string {
	data := datos.Placeholders()
	generados := make(map[string]string, len(plantillasFactura))

	for _, plantilla := range plantillasFactura {
		nombre := strings.TrimSuffix(plantilla, ".docx")
		ruta, err := g.filler.Fill(filepath.Join(g.templatesDir, plantilla), outputDir, data, nombre)
		if err != nil {
			g.logger.Error("Error al generar documento de factura",
				zap.String("plantilla", plantilla),
				zap.String("serie_numero", datos.SerieNumero),
				zap.Error(err))
			continue
		}
		generados[nombre] = ruta
	}

	return generados
}
