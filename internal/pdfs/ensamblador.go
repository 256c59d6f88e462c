package pdfs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/models"
)

// Ensamblador builds the combined per-partida PDF: cover, summary documents,
// then each invoice's document set in processing order. Assembly is strictly
// best-effort; a missing converter or merger leaves the individual documents
// in place and skips the combined file.
type Ensamblador struct {
	converter Converter
	merger    Merger
	paginas   *GeneradorPaginas
	logger    *zap.Logger
}

// NewEnsamblador creates a combined-PDF assembler.
func NewEnsamblador(converter Converter, merger Merger, paginas *GeneradorPaginas, logger *zap.Logger) *Ensamblador {
	return &Ensamblador{
		converter: converter,
		merger:    merger,
		paginas:   paginas,
		logger:    logger,
	}
}

// PiezasPartida holds everything the assembler needs for one partida.
type PiezasPartida struct {
	Partida    models.Partida
	Mes        string
	Ejercicio  string
	Resumen    []string // paths of the partida-level summary documents
	Facturas   []*models.FacturaProcesada
	OutputDir  string
	WorkDir    string // scratch directory for converted pages
	Placeholds []string
}

// Ensamblar produces {outputDir}/Expediente_Partida_{numero}.pdf. Documents
// that fail to convert are logged and left out; the combined file is still
// written when at least one page survived.
func (e *Ensamblador) Ensamblar(ctx context.Context, piezas *PiezasPartida) (string, error) {
	portada, err := e.paginas.Portada(
		piezas.Partida.Numero, piezas.Partida.Descripcion, piezas.Mes, piezas.Ejercicio, piezas.WorkDir)
	if err != nil {
		return "", err
	}

	orden := []string{portada}
	orden = append(orden, e.convertirTodos(ctx, piezas.Resumen, piezas.WorkDir)...)

	for _, factura := range piezas.Facturas {
		if factura == nil {
			continue
		}
		orden = append(orden, e.convertirTodos(ctx, rutasOrdenadas(factura.Documentos), piezas.WorkDir)...)
	}
	orden = append(orden, piezas.Placeholds...)

	if len(orden) <= 1 {
		return "", ErrConvertidorNoDisponible
	}

	salida := filepath.Join(piezas.OutputDir, fmt.Sprintf("Expediente_Partida_%s.pdf", piezas.Partida.Numero))
	if err := e.merger.Merge(ctx, orden, salida); err != nil {
		if errors.Is(err, ErrCombinadorNoDisponible) {
			e.logger.Warn("Combinación de PDF deshabilitada, se conservan los documentos individuales",
				zap.String("partida", piezas.Partida.Numero))
			return "", err
		}
		return "", fmt.Errorf("no se pudo combinar el expediente: %w", err)
	}
	return salida, nil
}

func (e *Ensamblador) convertirTodos(ctx context.Context, docs []string, workDir string) []string {
	convertidos := make([]string, 0, len(docs))
	for _, doc := range docs {
		if filepath.Ext(doc) == ".pdf" {
			convertidos = append(convertidos, doc)
			continue
		}
		if filepath.Ext(doc) != ".docx" && filepath.Ext(doc) != ".xlsx" {
			continue
		}
		ruta, err := e.converter.Convert(ctx, doc, workDir)
		if err != nil {
			if errors.Is(err, ErrConvertidorNoDisponible) {
				e.logger.Warn("Conversión a PDF no disponible, documento omitido del expediente",
					zap.String("documento", filepath.Base(doc)))
			} else {
				e.logger.Error("Error al convertir documento a PDF",
					zap.String("documento", filepath.Base(doc)), zap.Error(err))
			}
			continue
		}
		convertidos = append(convertidos, ruta)
	}
	return convertidos
}

// rutasOrdenadas returns the per-invoice document paths in the fixed
// expediente order: invoice cover, verification cover, XML cover, XML
// reproduction. Unknown keys go last.
func rutasOrdenadas(documentos map[string]string) []string {
	orden := []string{
		"legalizacion_factura",
		"legalizacion_verificacion",
		"legalizacion_xmls",
		"xml",
	}
	rutas := make([]string, 0, len(documentos))
	vistos := make(map[string]bool, len(documentos))
	for _, clave := range orden {
		if ruta, ok := documentos[clave]; ok {
			rutas = append(rutas, ruta)
			vistos[clave] = true
		}
	}
	for clave, ruta := range documentos {
		if !vistos[clave] {
			rutas = append(rutas, ruta)
		}
	}
	return rutas
}
