package models

// Personal is one person from the configured personnel catalog, used for
// the signature blocks of the legalization documents.
type Personal struct {
	Grado     string `mapstructure:"grado"`
	Nombre    string `mapstructure:"nombre"`
	Matricula string `mapstructure:"matricula"`
}

// DatosPlantilla is the merged record a template filler consumes. It replaces
// the loosely-typed dictionaries that used to be threaded through the
// pipeline; every field maps to one placeholder vocabulary entry.
type DatosPlantilla struct {
	// From the invoice
	XML               string
	SerieNumero       string
	FechaFacturaTexto string // Spanish long form
	FechaFactura      string // dd/mm/yyyy
	NombreEmisor      string
	RFCEmisor         string
	RFCReceptor       string
	FolioFiscal       string
	Monto             string // formatted invoice total

	// From the partida
	NoPartida          string
	DescripcionPartida string

	// From the run-level operator input
	FechaDocumento string // Spanish long form of the document date
	Mes            string // assigned month name
	NoMensaje      string
	FechaMensaje   string
	EmpleoRecurso  string // concept summary

	// Signature blocks
	Recibio Personal
	VoBo    Personal
}

// Placeholders returns the substitution mapping keyed by template token
// (without the surrounding braces). Tokens absent from a template are
// simply never looked up; tokens present in a template but not in this
// mapping are left untouched by the filler.
func (d *DatosPlantilla) Placeholders() map[string]string {
	return map[string]string{
		"XML":                         d.XML,
		"SERIE_NUMERO":                d.SerieNumero,
		"FECHA_FACTURA":               d.FechaFacturaTexto,
		"FECHA_DOCUMENTO":             d.FechaDocumento,
		"NOMBRE_EMISOR":               d.NombreEmisor,
		"RFC_EMISOR":                  d.RFCEmisor,
		"RFC_RECEPTOR":                d.RFCReceptor,
		"FOLIO_FISCAL":                d.FolioFiscal,
		"MONTO":                       d.Monto,
		"PARTIDA":                     d.NoPartida,
		"DESCRIPCION":                 d.DescripcionPartida,
		"MES":                         d.Mes,
		"NO_MENSAJE":                  d.NoMensaje,
		"FECHA_MENSAJE":               d.FechaMensaje,
		"EMPLEO_RECURSO":              d.EmpleoRecurso,
		"GRADO_RECIBIO_LA_COMPRA":     d.Recibio.Grado,
		"NOMBRE_RECIBIO_LA_COMPRA":    d.Recibio.Nombre,
		"MATRICULA_RECIBIO_LA_COMPRA": d.Recibio.Matricula,
		"GRADO_VO_BO":                 d.VoBo.Grado,
		"NOMBRE_VO_BO":                d.VoBo.Nombre,
		"MATRICULA_VO_BO":             d.VoBo.Matricula,
	}
}
