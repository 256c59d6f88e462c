package cfdi

import (
	"encoding/xml"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/models"
)

// CFDI 4.0 namespaces.
const (
	nsCFDI = "http://www.sat.gob.mx/cfd/4"
	nsTFD  = "http://www.sat.gob.mx/TimbreFiscalDigital"
)

// comprobante mirrors the subset of the CFDI 4.0 schema the pipeline needs.
// Child elements are pointers so absence can be told apart from emptiness.
type comprobante struct {
	XMLName     xml.Name     `xml:"http://www.sat.gob.mx/cfd/4 Comprobante"`
	Serie       string       `xml:"Serie,attr"`
	Folio       string       `xml:"Folio,attr"`
	Fecha       string       `xml:"Fecha,attr"`
	Total       string       `xml:"Total,attr"`
	Emisor      *parte       `xml:"http://www.sat.gob.mx/cfd/4 Emisor"`
	Receptor    *parte       `xml:"http://www.sat.gob.mx/cfd/4 Receptor"`
	Conceptos   *conceptos   `xml:"http://www.sat.gob.mx/cfd/4 Conceptos"`
	Complemento *complemento `xml:"http://www.sat.gob.mx/cfd/4 Complemento"`
}

type parte struct {
	Nombre string `xml:"Nombre,attr"`
	RFC    string `xml:"Rfc,attr"`
}

type conceptos struct {
	Conceptos []concepto `xml:"http://www.sat.gob.mx/cfd/4 Concepto"`
}

type concepto struct {
	Descripcion string `xml:"Descripcion,attr"`
	Cantidad    string `xml:"Cantidad,attr"`
}

type complemento struct {
	Timbre *timbre `xml:"http://www.sat.gob.mx/TimbreFiscalDigital TimbreFiscalDigital"`
}

type timbre struct {
	UUID string `xml:"UUID,attr"`
}

// Parser turns CFDI 4.0 XML invoices into normalized Factura records.
type Parser struct {
	logger *zap.Logger
}

// NewParser creates a new CFDI parser.
func NewParser(logger *zap.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseFile reads and parses one CFDI XML file. The emitter, receiver,
// concepts and digital-seal complement are all required; a missing one is
// reported as a MissingFieldError naming the field. Currency formatting and
// date localization are the caller's concern.
func (p *Parser) ParseFile(path string) (*models.Factura, error) {
	contenido, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer el XML %s: %w", path, err)
	}

	factura, err := p.Parse(contenido)
	if err != nil {
		p.logger.Error("Error al procesar el XML de factura",
			zap.String("archivo", path),
			zap.Error(err))
		return nil, err
	}

	p.logger.Debug("Factura procesada",
		zap.String("archivo", path),
		zap.String("serie_numero", factura.SerieNumero()),
		zap.String("folio_fiscal", factura.FolioFiscal))

	return factura, nil
}

// Parse parses the raw bytes of one CFDI 4.0 document.
func (p *Parser) Parse(contenido []byte) (*models.Factura, error) {
	var doc comprobante
	if err := xml.Unmarshal(contenido, &doc); err != nil {
		return nil, fmt.Errorf("XML no válido: %w", err)
	}

	switch {
	case doc.Emisor == nil:
		return nil, &MissingFieldError{Field: "Emisor"}
	case doc.Receptor == nil:
		return nil, &MissingFieldError{Field: "Receptor"}
	case doc.Conceptos == nil:
		return nil, &MissingFieldError{Field: "Conceptos"}
	case doc.Complemento == nil || doc.Complemento.Timbre == nil:
		return nil, &MissingFieldError{Field: "TimbreFiscalDigital"}
	case doc.Complemento.Timbre.UUID == "":
		return nil, &MissingFieldError{Field: "TimbreFiscalDigital.UUID"}
	case doc.Fecha == "":
		return nil, &MissingFieldError{Field: "Fecha"}
	}

	folioFiscal, err := uuid.Parse(doc.Complemento.Timbre.UUID)
	if err != nil {
		return nil, fmt.Errorf("folio fiscal no es un UUID válido (%q): %w",
			doc.Complemento.Timbre.UUID, err)
	}

	total := decimal.Zero
	if doc.Total != "" {
		total, err = decimal.NewFromString(doc.Total)
		if err != nil {
			return nil, fmt.Errorf("total de factura no válido (%q): %w", doc.Total, err)
		}
	}

	return &models.Factura{
		Serie:       doc.Serie,
		Folio:       doc.Folio,
		FechaISO:    doc.Fecha,
		FolioFiscal: strings.ToUpper(folioFiscal.String()),
		Emisor:      models.Contribuyente{Nombre: doc.Emisor.Nombre, RFC: doc.Emisor.RFC},
		Receptor:    models.Contribuyente{Nombre: doc.Receptor.Nombre, RFC: doc.Receptor.RFC},
		Total:       total,
		Conceptos:   agruparConceptos(doc.Conceptos.Conceptos),
		XML:         string(contenido),
	}, nil
}

// agruparConceptos sums quantities of repeated descriptions, keeping the
// order in which each description first appears, and rounds to 3 decimals.
func agruparConceptos(lista []concepto) []models.Concepto {
	indice := make(map[string]int, len(lista))
	agrupados := make([]models.Concepto, 0, len(lista))

	for _, c := range lista {
		cantidad, err := decimal.NewFromString(c.Cantidad)
		if err != nil {
			cantidad = decimal.Zero
		}
		if i, ok := indice[c.Descripcion]; ok {
			agrupados[i].Cantidad = agrupados[i].Cantidad.Add(cantidad)
			continue
		}
		indice[c.Descripcion] = len(agrupados)
		agrupados = append(agrupados, models.Concepto{Descripcion: c.Descripcion, Cantidad: cantidad})
	}

	for i := range agrupados {
		agrupados[i].Cantidad = agrupados[i].Cantidad.Round(3)
	}
	return agrupados
}
