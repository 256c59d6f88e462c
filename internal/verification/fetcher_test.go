package verification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestHTTPFetcher(t *testing.T) {
	var consulta map[string][]string
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		consulta = r.URL.Query()
		w.Write([]byte("<html>verificado</html>"))
	}))
	defer servidor.Close()

	fetcher := NewHTTPFetcher(servidor.URL, 5*time.Second, zap.NewNop())

	contenido, err := fetcher.Fetch(context.Background(),
		"AD662D33-6934-459C-A128-BDF0393E0F44", "PAL7203059K2", "SDN8510017Y8")
	require.NoError(t, err)
	assert.Contains(t, string(contenido), "verificado")

	assert.Equal(t, []string{"AD662D33-6934-459C-A128-BDF0393E0F44"}, consulta["id"])
	assert.Equal(t, []string{"PAL7203059K2"}, consulta["re"])
	assert.Equal(t, []string{"SDN8510017Y8"}, consulta["rr"])
}

func TestHTTPFetcherErrorDelServidor(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer servidor.Close()

	fetcher := NewHTTPFetcher(servidor.URL, 5*time.Second, zap.NewNop())

	_, err := fetcher.Fetch(context.Background(), "folio", "re", "rr")
	assert.ErrorIs(t, err, ErrServicioNoDisponible)
}

func TestHTTPFetcherServidorCaido(t *testing.T) {
	servidor := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	servidor.Close()

	fetcher := NewHTTPFetcher(servidor.URL, time.Second, zap.NewNop())

	_, err := fetcher.Fetch(context.Background(), "folio", "re", "rr")
	assert.ErrorIs(t, err, ErrServicioNoDisponible)
}

func TestDeshabilitado(t *testing.T) {
	_, err := Deshabilitado{}.Fetch(context.Background(), "folio", "re", "rr")
	assert.ErrorIs(t, err, ErrServicioNoDisponible)
}
