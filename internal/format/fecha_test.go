package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFechaTexto(t *testing.T) {
	tests := []struct {
		name     string
		fecha    string
		expected string
		wantErr  bool
	}{
		{name: "january", fecha: "2025-01-02", expected: "2 de enero del 2025"},
		{name: "december", fecha: "2024-12-31", expected: "31 de diciembre del 2024"},
		{name: "single digit day not padded", fecha: "2025-03-05", expected: "5 de marzo del 2025"},
		{name: "rejects timestamps", fecha: "2025-01-02T10:30:00", wantErr: true},
		{name: "rejects other formats", fecha: "02/01/2025", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texto, err := FechaTexto(tt.fecha)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, texto)
		})
	}
}

func TestFechaMensaje(t *testing.T) {
	texto, err := FechaMensaje("2025-01-02")
	require.NoError(t, err)
	assert.Equal(t, "2 Ene. 2025", texto)

	texto, err = FechaMensaje("2024-08-15")
	require.NoError(t, err)
	assert.Equal(t, "15 Ago. 2024", texto)

	_, err = FechaMensaje("no es fecha")
	assert.Error(t, err)
}

func TestFechaCorta(t *testing.T) {
	tests := []struct {
		name     string
		entrada  string
		expected string
		wantErr  bool
	}{
		{name: "plain date", entrada: "2025-01-02", expected: "02/01/2025"},
		{name: "cfdi timestamp truncated", entrada: "2025-01-02T14:22:31", expected: "02/01/2025"},
		{name: "garbage", entrada: "ayer", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			texto, err := FechaCorta(tt.entrada)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, texto)
		})
	}
}

func TestMesLargo(t *testing.T) {
	assert.Equal(t, "enero", MesLargo(time.January))
	assert.Equal(t, "septiembre", MesLargo(time.September))
}

func TestCapitalizar(t *testing.T) {
	assert.Equal(t, "Enero", Capitalizar("enero"))
	assert.Equal(t, "Ya mayúscula", Capitalizar("Ya mayúscula"))
	assert.Equal(t, "", Capitalizar(""))
}
