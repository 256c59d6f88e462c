package facturas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// TrabajoFactura is one invoice to process: the XML file plus the directory
// that will receive that invoice's generated documents.
type TrabajoFactura struct {
	Directorio string
	XMLPath    string
}

// Resolver enumerates the invoice XML files of a partida directory.
//
// Two layouts exist. When XML files sit directly in the partida directory
// only the first one (in listing order) is processed, even if several are
// present; that is the documented historical behavior and downstream totals
// depend on it, so it is preserved rather than fixed. Otherwise each
// immediate subdirectory contributes its first XML file, and subdirectories
// without XML are skipped with a warning.
type Resolver struct {
	logger *zap.Logger
}

// NewResolver creates a directory resolver.
func NewResolver(logger *zap.Logger) *Resolver {
	return &Resolver{logger: logger}
}

// Resolve returns the ordered invoice work list for one partida directory.
func (r *Resolver) Resolve(partidaDir string) ([]TrabajoFactura, error) {
	entradas, err := os.ReadDir(partidaDir)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer el directorio de la partida: %w", err)
	}

	// Case A: XML directly in the partida directory.
	if xml := primerXML(partidaDir, entradas); xml != "" {
		r.logger.Debug("XML encontrado directamente en la carpeta de partida",
			zap.String("directorio", partidaDir),
			zap.String("xml", xml))
		return []TrabajoFactura{{Directorio: partidaDir, XMLPath: xml}}, nil
	}

	// Case B: one subdirectory per invoice.
	var trabajos []TrabajoFactura
	for _, entrada := range entradas {
		if !entrada.IsDir() {
			continue
		}
		subdir := filepath.Join(partidaDir, entrada.Name())
		sub, err := os.ReadDir(subdir)
		if err != nil {
			r.logger.Warn("No se pudo leer la subcarpeta de factura",
				zap.String("directorio", subdir),
				zap.Error(err))
			continue
		}
		xml := primerXML(subdir, sub)
		if xml == "" {
			r.logger.Warn("Subcarpeta sin archivos XML; se omite",
				zap.String("directorio", subdir))
			continue
		}
		trabajos = append(trabajos, TrabajoFactura{Directorio: subdir, XMLPath: xml})
	}

	return trabajos, nil
}

// primerXML returns the first XML file of a directory listing, or "".
func primerXML(dir string, entradas []os.DirEntry) string {
	for _, entrada := range entradas {
		if entrada.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entrada.Name()), ".xml") {
			return filepath.Join(dir, entrada.Name())
		}
	}
	return ""
}
