package pdfs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"github.com/hdelgado/legalizador/internal/format"
)

// GeneradorPaginas produces the auxiliary PDF pages that go into a combined
// expediente: the partida cover and the placeholder used when the SAT
// verification could not be fetched.
type GeneradorPaginas struct{}

// NewGeneradorPaginas creates an auxiliary page generator.
func NewGeneradorPaginas() *GeneradorPaginas {
	return &GeneradorPaginas{}
}

func nuevoDocumento() *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(25, 30, 25)
	pdf.AddPage()
	return pdf
}

// Portada writes a cover page for a partida's combined file.
func (g *GeneradorPaginas) Portada(numero, descripcion, mes, ejercicio, outputDir string) (string, error) {
	pdf := nuevoDocumento()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Expediente de Legalización", "", 1, "C", false, 0, "")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, fmt.Sprintf("Partida Presupuestal %s", numero), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.MultiCell(0, 8, descripcion, "", "C", false)
	pdf.Ln(6)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s de %s", format.Capitalizar(mes), ejercicio), "", 1, "C", false, 0, "")

	salida := filepath.Join(outputDir, fmt.Sprintf("Portada_Partida_%s.pdf", numero))
	if err := pdf.OutputFileAndClose(salida); err != nil {
		return "", fmt.Errorf("no se pudo escribir la portada: %w", err)
	}
	return salida, nil
}

// PlaceholderVerificacion writes the page inserted in place of a SAT
// verification that could not be fetched, carrying enough identity for a
// human to verify the invoice manually later.
func (g *GeneradorPaginas) PlaceholderVerificacion(folioFiscal, rfcEmisor, serieNumero, outputDir string) (string, error) {
	pdf := nuevoDocumento()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Verificación SAT pendiente", "", 1, "C", false, 0, "")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 7,
		"La verificación de este comprobante en el portal del SAT no pudo "+
			"obtenerse de forma automática. Verifique manualmente con los "+
			"siguientes datos e inserte la página resultante.", "", "L", false)
	pdf.Ln(6)

	filas := [][2]string{
		{"Folio fiscal", folioFiscal},
		{"RFC del emisor", rfcEmisor},
		{"Serie y folio", serieNumero},
	}
	for _, fila := range filas {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, fila[0], "1", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, fila[1], "1", 1, "L", false, 0, "")
	}

	nombre := folioFiscal
	if nombre == "" {
		nombre = serieNumero
	}
	salida := filepath.Join(outputDir, fmt.Sprintf("Verificacion_Pendiente_%s.pdf", nombre))
	if err := pdf.OutputFileAndClose(salida); err != nil {
		return "", fmt.Errorf("no se pudo escribir el marcador de verificación: %w", err)
	}
	return salida, nil
}

// GuardarVerificacion persists a fetched verification capture next to the
// invoice documents. The portal answers HTML, kept verbatim for the record.
func GuardarVerificacion(contenido []byte, folioFiscal, outputDir string) (string, error) {
	salida := filepath.Join(outputDir, fmt.Sprintf("Verificacion_%s.html", folioFiscal))
	if err := os.WriteFile(salida, contenido, 0o644); err != nil {
		return "", fmt.Errorf("no se pudo guardar la verificación: %w", err)
	}
	return salida, nil
}
