package pdfs

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// SofficeConverter converts DOCX and XLSX files to PDF by shelling out to
// LibreOffice in headless mode.
type SofficeConverter struct {
	binario string
	logger  *zap.Logger
}

// NewSofficeConverter creates a LibreOffice-backed converter. An empty
// binary path defaults to "soffice" on PATH.
func NewSofficeConverter(binario string, logger *zap.Logger) *SofficeConverter {
	if binario == "" {
		binario = "soffice"
	}
	return &SofficeConverter{binario: binario, logger: logger}
}

// Convert renders one document to PDF in outputDir.
func (c *SofficeConverter) Convert(ctx context.Context, docPath, outputDir string) (string, error) {
	if _, err := exec.LookPath(c.binario); err != nil {
		return "", ErrConvertidorNoDisponible
	}

	cmd := exec.CommandContext(ctx, c.binario,
		"--headless", "--convert-to", "pdf", "--outdir", outputDir, docPath)
	if salida, err := cmd.CombinedOutput(); err != nil {
		c.logger.Error("LibreOffice falló al convertir",
			zap.String("documento", filepath.Base(docPath)),
			zap.String("salida", strings.TrimSpace(string(salida))),
			zap.Error(err))
		return "", fmt.Errorf("conversión a PDF fallida para %s: %w", docPath, err)
	}

	base := strings.TrimSuffix(filepath.Base(docPath), filepath.Ext(docPath))
	pdf := filepath.Join(outputDir, base+".pdf")
	if _, err := os.Stat(pdf); err != nil {
		return "", fmt.Errorf("la conversión no produjo %s: %w", pdf, err)
	}
	return pdf, nil
}

// PdfUniteMerger concatenates PDFs with the pdfunite tool from poppler.
type PdfUniteMerger struct {
	logger *zap.Logger
}

// NewPdfUniteMerger creates a pdfunite-backed merger.
func NewPdfUniteMerger(logger *zap.Logger) *PdfUniteMerger {
	return &PdfUniteMerger{logger: logger}
}

// Merge writes the concatenation of pdfPaths to outputPath.
func (m *PdfUniteMerger) Merge(ctx context.Context, pdfPaths []string, outputPath string) error {
	if _, err := exec.LookPath("pdfunite"); err != nil {
		return ErrCombinadorNoDisponible
	}
	if len(pdfPaths) == 0 {
		return fmt.Errorf("no hay páginas que combinar")
	}

	args := append(append([]string{}, pdfPaths...), outputPath)
	cmd := exec.CommandContext(ctx, "pdfunite", args...)
	if salida, err := cmd.CombinedOutput(); err != nil {
		m.logger.Error("pdfunite falló",
			zap.String("salida", strings.TrimSpace(string(salida))),
			zap.Error(err))
		return fmt.Errorf("combinación de PDF fallida: %w", err)
	}
	return nil
}
