package docgen

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// DocxFiller substitutes {{TOKEN}} placeholders in DOCX templates.
//
// Word splits paragraph text into runs at arbitrary points (spell-check
// marks, style changes, even cursor positions at template-editing time), so
// a placeholder frequently spans several runs with mixed styling. Naive
// whole-paragraph string replace destroys formatting. The filler therefore
// works in two passes: a run-scoped pass that replaces tokens fully
// contained in a single text node, leaving every run untouched, and a
// paragraph fallback that rebuilds paragraphs still carrying a split token
// as a single run with the first run's properties. Signature blocks are the
// usual victims of run splitting, which is why the fallback is not optional.
//
// Tokens with no entry in the data mapping are left as literal text; some
// templates intentionally carry optional fields.
type DocxFiller struct {
	logger *zap.Logger
}

// NewDocxFiller creates a DOCX template filler.
func NewDocxFiller(logger *zap.Logger) *DocxFiller {
	return &DocxFiller{logger: logger}
}

var (
	reToken   = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)
	reTexto   = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	reParrafo = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*)?>.*?</w:p>`)
	rePPr     = regexp.MustCompile(`(?s)<w:pPr(?:\s[^>]*)?>.*?</w:pPr>`)
	reRPr     = regexp.MustCompile(`(?s)<w:rPr(?:\s[^>]*)?>.*?</w:rPr>`)
	rePInicio = regexp.MustCompile(`(?s)^<w:p(?:\s[^>]*)?>`)
)

// Fill writes {outputDir}/{outputName}.docx from the template, substituting
// every recognized placeholder in paragraphs and table cells. Re-running
// overwrites prior output. A missing template yields TemplateNotFoundError.
func (f *DocxFiller) Fill(templatePath, outputDir string, data map[string]string, outputName string) (string, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return "", &TemplateNotFoundError{Path: templatePath}
	}

	lector, err := zip.OpenReader(templatePath)
	if err != nil {
		return "", fmt.Errorf("no se pudo abrir la plantilla %s: %w", templatePath, err)
	}
	defer lector.Close()

	outputPath := filepath.Join(outputDir, outputName+".docx")
	salida, err := os.Create(outputPath)
	if err != nil {
		return "", fmt.Errorf("no se pudo crear el documento %s: %w", outputPath, err)
	}
	defer salida.Close()

	escritor := zip.NewWriter(salida)
	for _, archivo := range lector.File {
		if err := f.copiarEntrada(escritor, archivo, data); err != nil {
			escritor.Close()
			return "", err
		}
	}
	if err := escritor.Close(); err != nil {
		return "", fmt.Errorf("no se pudo guardar el documento %s: %w", outputPath, err)
	}

	f.logger.Debug("Documento generado",
		zap.String("plantilla", filepath.Base(templatePath)),
		zap.String("salida", outputPath))

	return outputPath, nil
}

func (f *DocxFiller) copiarEntrada(escritor *zip.Writer, archivo *zip.File, data map[string]string) error {
	origen, err := archivo.Open()
	if err != nil {
		return fmt.Errorf("no se pudo leer %s de la plantilla: %w", archivo.Name, err)
	}
	defer origen.Close()

	destino, err := escritor.Create(archivo.Name)
	if err != nil {
		return fmt.Errorf("no se pudo escribir %s: %w", archivo.Name, err)
	}

	// Only the main document part carries paragraph text; headers, styles
	// and media are copied through untouched.
	if archivo.Name != "word/document.xml" {
		_, err = io.Copy(destino, origen)
		return err
	}

	contenido, err := io.ReadAll(origen)
	if err != nil {
		return fmt.Errorf("no se pudo leer el cuerpo del documento: %w", err)
	}

	cuerpo := SustituirDocumento(string(contenido), data)
	_, err = io.WriteString(destino, cuerpo)
	return err
}

// SustituirDocumento applies both substitution passes to a document.xml
// body. Exported for tests.
func SustituirDocumento(doc string, data map[string]string) string {
	doc = sustituirEnTextos(doc, data)
	doc = sustituirEnParrafos(doc, data)
	return doc
}

// sustituirEnTextos is the run-scoped pass: tokens fully contained in one
// <w:t> node are replaced in place, preserving every run and its style.
func sustituirEnTextos(doc string, data map[string]string) string {
	return reTexto.ReplaceAllStringFunc(doc, func(nodo string) string {
		sub := reTexto.FindStringSubmatch(nodo)
		texto := sub[1]
		if !strings.Contains(texto, "{{") {
			return nodo
		}
		reemplazado := reemplazarTokens(texto, data)
		if reemplazado == texto {
			return nodo
		}
		return `<w:t xml:space="preserve">` + reemplazado + `</w:t>`
	})
}

// sustituirEnParrafos is the fallback pass: a paragraph whose concatenated
// text still contains a resolvable token had that token split across runs.
// The paragraph is rebuilt as one run carrying the first run's properties;
// paragraph-level properties (alignment, spacing) are kept as-is.
func sustituirEnParrafos(doc string, data map[string]string) string {
	return reParrafo.ReplaceAllStringFunc(doc, func(parrafo string) string {
		texto := textoDeParrafo(parrafo)
		if !contieneTokenResoluble(texto, data) {
			return parrafo
		}

		inicio := rePInicio.FindString(parrafo)
		pPr := rePPr.FindString(parrafo)
		rPr := reRPr.FindString(parrafo)

		var b strings.Builder
		b.WriteString(inicio)
		b.WriteString(pPr)
		b.WriteString("<w:r>")
		b.WriteString(rPr)
		b.WriteString(`<w:t xml:space="preserve">`)
		b.WriteString(reemplazarTokens(texto, data))
		b.WriteString("</w:t></w:r></w:p>")
		return b.String()
	})
}

// textoDeParrafo concatenates the visible text of a paragraph's runs.
func textoDeParrafo(parrafo string) string {
	var b strings.Builder
	for _, sub := range reTexto.FindAllStringSubmatch(parrafo, -1) {
		b.WriteString(sub[1])
	}
	return b.String()
}

// contieneTokenResoluble reports whether the text carries a token we have a
// value for. Unknown tokens never trigger the destructive fallback.
func contieneTokenResoluble(texto string, data map[string]string) bool {
	for _, sub := range reToken.FindAllStringSubmatch(texto, -1) {
		if _, ok := data[sub[1]]; ok {
			return true
		}
	}
	return false
}

// reemplazarTokens substitutes known tokens, escaping values for OOXML.
func reemplazarTokens(texto string, data map[string]string) string {
	return reToken.ReplaceAllStringFunc(texto, func(token string) string {
		nombre := reToken.FindStringSubmatch(token)[1]
		valor, ok := data[nombre]
		if !ok {
			return token
		}
		return escaparTexto(valor)
	})
}

// escaparTexto escapes a replacement value for use inside <w:t>. Newlines
// become explicit <w:br/> breaks so the XML reproduction document keeps its
// line structure; a run may legally hold multiple <w:t> and <w:br/>
// children, so the split stays inside the current run.
func escaparTexto(valor string) string {
	valor = strings.ReplaceAll(valor, "&", "&amp;")
	valor = strings.ReplaceAll(valor, "<", "&lt;")
	valor = strings.ReplaceAll(valor, ">", "&gt;")
	valor = strings.ReplaceAll(valor, "\r\n", "\n")
	valor = strings.ReplaceAll(valor, "\n", `</w:t><w:br/><w:t xml:space="preserve">`)
	return valor
}
