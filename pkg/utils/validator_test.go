package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateRFC(t *testing.T) {
	tests := []struct {
		name    string
		rfc     string
		wantErr bool
	}{
		{name: "persona moral", rfc: "PAL7203059K2", wantErr: false},
		{name: "persona física", rfc: "GODE561231GR8", wantErr: false},
		{name: "minúsculas aceptadas", rfc: "pal7203059k2", wantErr: false},
		{name: "con espacios", rfc: "  PAL7203059K2  ", wantErr: false},
		{name: "muy corto", rfc: "PAL72", wantErr: true},
		{name: "sin homoclave", rfc: "PAL720305", wantErr: true},
		{name: "vacío", rfc: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRFC(tt.rfc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateFolioFiscal(t *testing.T) {
	assert.NoError(t, ValidateFolioFiscal("ad662d33-6934-459c-a128-bdf0393e0f44"))
	assert.Error(t, ValidateFolioFiscal("no-es-uuid"))
	assert.Error(t, ValidateFolioFiscal(""))
}

func TestValidateMonto(t *testing.T) {
	positivo, _ := decimal.NewFromString("0.01")
	assert.NoError(t, ValidateMonto(positivo))

	assert.Error(t, ValidateMonto(decimal.Zero))

	negativo, _ := decimal.NewFromString("-5")
	assert.Error(t, ValidateMonto(negativo))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "texto limpio", SanitizeString("texto\x00 limpio\x1f"))
	assert.Equal(t, "normal", SanitizeString("normal"))
}
