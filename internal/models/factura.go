package models

import (
	"github.com/shopspring/decimal"
)

// Concepto is one line concept of an invoice. Quantities of repeated
// descriptions are summed during parsing and rounded to 3 decimals.
// Order follows the concept order of the source XML.
type Concepto struct {
	Descripcion string
	Cantidad    decimal.Decimal
}

// Factura is the normalized record extracted from one CFDI 4.0 XML file.
// Immutable after parsing.
type Factura struct {
	Serie       string
	Folio       string
	FechaISO    string // issue date exactly as stamped in the XML
	FolioFiscal string // UUID from the TimbreFiscalDigital complement
	Emisor      Contribuyente
	Receptor    Contribuyente
	Total       decimal.Decimal
	Conceptos   []Concepto
	XML         string // full source document, kept for the XML reproduction template
}

// Contribuyente identifies a fiscal party (issuer or receiver).
type Contribuyente struct {
	Nombre string
	RFC    string
}

// SerieNumero returns the series and folio joined, as printed on documents.
func (f *Factura) SerieNumero() string {
	return f.Serie + f.Folio
}
