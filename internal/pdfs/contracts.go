package pdfs

import (
	"context"
	"errors"
)

// ErrConvertidorNoDisponible indicates no DOCX to PDF converter is installed
// or configured. Combined assembly is skipped, never the whole run.
var ErrConvertidorNoDisponible = errors.New("no hay un convertidor de DOCX a PDF disponible")

// ErrCombinadorNoDisponible indicates no page merger is available.
var ErrCombinadorNoDisponible = errors.New("no hay un combinador de PDF disponible")

// Converter renders a DOCX file to PDF. Implementations shell out to an
// office suite or call an external service; the pipeline only needs the
// resulting path.
type Converter interface {
	Convert(ctx context.Context, docxPath, outputDir string) (string, error)
}

// Merger concatenates PDF files into one, in the order given.
type Merger interface {
	Merge(ctx context.Context, pdfPaths []string, outputPath string) error
}

// SinConvertidor is the Converter used when conversion is disabled.
type SinConvertidor struct{}

func (SinConvertidor) Convert(context.Context, string, string) (string, error) {
	return "", ErrConvertidorNoDisponible
}

// SinCombinador is the Merger used when merging is disabled.
type SinCombinador struct{}

func (SinCombinador) Merge(context.Context, []string, string) error {
	return ErrCombinadorNoDisponible
}
