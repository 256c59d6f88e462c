package cfdi

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const xmlFacturaCompleta = `<?xml version="1.0" encoding="UTF-8"?>
<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4"
    Version="4.0" Serie="A" Folio="1234" Fecha="2025-01-15T10:22:31" Total="1160.00">
  <cfdi:Emisor Rfc="PAL7203059K2" Nombre="PAPELERA LOCAL SA DE CV"/>
  <cfdi:Receptor Rfc="SDN8510017Y8" Nombre="DEPENDENCIA RECEPTORA"/>
  <cfdi:Conceptos>
    <cfdi:Concepto Descripcion="CAJA DE PAPEL BOND" Cantidad="10"/>
    <cfdi:Concepto Descripcion="MARCADORES" Cantidad="5.5"/>
    <cfdi:Concepto Descripcion="CAJA DE PAPEL BOND" Cantidad="2"/>
  </cfdi:Conceptos>
  <cfdi:Complemento>
    <tfd:TimbreFiscalDigital xmlns:tfd="http://www.sat.gob.mx/TimbreFiscalDigital"
        UUID="ad662d33-6934-459c-a128-bdf0393e0f44"/>
  </cfdi:Complemento>
</cfdi:Comprobante>`

func TestParse(t *testing.T) {
	parser := NewParser(zap.NewNop())

	factura, err := parser.Parse([]byte(xmlFacturaCompleta))
	require.NoError(t, err)

	assert.Equal(t, "A1234", factura.SerieNumero())
	assert.Equal(t, "2025-01-15T10:22:31", factura.FechaISO)
	assert.Equal(t, "AD662D33-6934-459C-A128-BDF0393E0F44", factura.FolioFiscal)
	assert.Equal(t, "PAPELERA LOCAL SA DE CV", factura.Emisor.Nombre)
	assert.Equal(t, "PAL7203059K2", factura.Emisor.RFC)
	assert.Equal(t, "SDN8510017Y8", factura.Receptor.RFC)
	assert.Equal(t, "1160", factura.Total.String())
	assert.Contains(t, factura.XML, "cfdi:Comprobante")
}

func TestParseAgrupaConceptosRepetidos(t *testing.T) {
	parser := NewParser(zap.NewNop())

	factura, err := parser.Parse([]byte(xmlFacturaCompleta))
	require.NoError(t, err)

	// Repeated descriptions are summed and invoice order is preserved.
	require.Len(t, factura.Conceptos, 2)
	assert.Equal(t, "CAJA DE PAPEL BOND", factura.Conceptos[0].Descripcion)
	assert.Equal(t, "12", factura.Conceptos[0].Cantidad.String())
	assert.Equal(t, "MARCADORES", factura.Conceptos[1].Descripcion)
	assert.Equal(t, "5.5", factura.Conceptos[1].Cantidad.String())
}

func TestParseCamposFaltantes(t *testing.T) {
	const plantilla = `<?xml version="1.0"?>
<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4" Version="4.0" %s Total="100">
  %s
</cfdi:Comprobante>`

	emisor := `<cfdi:Emisor Rfc="AAA010101AAA" Nombre="EMISOR"/>`
	receptor := `<cfdi:Receptor Rfc="BBB010101BBB" Nombre="RECEPTOR"/>`
	conceptos := `<cfdi:Conceptos><cfdi:Concepto Descripcion="X" Cantidad="1"/></cfdi:Conceptos>`
	timbre := `<cfdi:Complemento><tfd:TimbreFiscalDigital xmlns:tfd="http://www.sat.gob.mx/TimbreFiscalDigital" UUID="ad662d33-6934-459c-a128-bdf0393e0f44"/></cfdi:Complemento>`

	tests := []struct {
		name   string
		fecha  string
		cuerpo string
		campo  string
	}{
		{
			name:   "sin emisor",
			fecha:  `Fecha="2025-01-15"`,
			cuerpo: receptor + conceptos + timbre,
			campo:  "Emisor",
		},
		{
			name:   "sin receptor",
			fecha:  `Fecha="2025-01-15"`,
			cuerpo: emisor + conceptos + timbre,
			campo:  "Receptor",
		},
		{
			name:   "sin conceptos",
			fecha:  `Fecha="2025-01-15"`,
			cuerpo: emisor + receptor + timbre,
			campo:  "Conceptos",
		},
		{
			name:   "sin timbre fiscal",
			fecha:  `Fecha="2025-01-15"`,
			cuerpo: emisor + receptor + conceptos,
			campo:  "TimbreFiscalDigital",
		},
		{
			name:   "sin fecha",
			fecha:  "",
			cuerpo: emisor + receptor + conceptos + timbre,
			campo:  "Fecha",
		},
	}

	parser := NewParser(zap.NewNop())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := fmt.Sprintf(plantilla, tt.fecha, tt.cuerpo)
			_, err := parser.Parse([]byte(doc))
			require.Error(t, err)

			var faltante *MissingFieldError
			require.ErrorAs(t, err, &faltante)
			assert.Equal(t, tt.campo, faltante.Field)
		})
	}
}

func TestParseUUIDInvalido(t *testing.T) {
	doc := `<?xml version="1.0"?>
<cfdi:Comprobante xmlns:cfdi="http://www.sat.gob.mx/cfd/4" Fecha="2025-01-15" Total="100">
  <cfdi:Emisor Rfc="AAA010101AAA" Nombre="EMISOR"/>
  <cfdi:Receptor Rfc="BBB010101BBB" Nombre="RECEPTOR"/>
  <cfdi:Conceptos><cfdi:Concepto Descripcion="X" Cantidad="1"/></cfdi:Conceptos>
  <cfdi:Complemento>
    <tfd:TimbreFiscalDigital xmlns:tfd="http://www.sat.gob.mx/TimbreFiscalDigital" UUID="no-es-uuid"/>
  </cfdi:Complemento>
</cfdi:Comprobante>`

	_, err := NewParser(zap.NewNop()).Parse([]byte(doc))
	assert.ErrorContains(t, err, "folio fiscal")
}

func TestParseXMLInvalido(t *testing.T) {
	_, err := NewParser(zap.NewNop()).Parse([]byte("esto no es XML"))
	assert.Error(t, err)
}

func TestParseFileInexistente(t *testing.T) {
	_, err := NewParser(zap.NewNop()).ParseFile("/ruta/que/no/existe.xml")
	assert.Error(t, err)
}
