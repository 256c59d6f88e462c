package verification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

// ErrServicioNoDisponible indicates the SAT verification portal could not be
// reached or did not answer usefully. Always best-effort: callers substitute
// a placeholder page and keep going.
var ErrServicioNoDisponible = errors.New("el servicio de verificación del SAT no está disponible")

// portal used to look up a stamped invoice by fiscal folio
const defaultPortalURL = "https://verificacfdi.facturaelectronica.sat.gob.mx/default.aspx"

// Fetcher obtains a printable verification of one stamped invoice. The
// pipeline core depends only on this interface; how the page is actually
// rendered (browser automation, HTTP, a cached copy) stays out of it.
type Fetcher interface {
	Fetch(ctx context.Context, folioFiscal, rfcEmisor, rfcReceptor string) ([]byte, error)
}

// HTTPFetcher queries the verification portal over plain HTTP. The portal
// serves an HTML lookup form guarded by a captcha, so this fetcher can only
// confirm reachability and hand back the raw page; a full print-to-PDF
// needs an interactive session. It exists so runs without an operator still
// record whether the folio was reachable.
type HTTPFetcher struct {
	client    *http.Client
	portalURL string
	logger    *zap.Logger
}

// NewHTTPFetcher creates a portal fetcher with the given timeout.
func NewHTTPFetcher(portalURL string, timeout time.Duration, logger *zap.Logger) *HTTPFetcher {
	if portalURL == "" {
		portalURL = defaultPortalURL
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		portalURL: portalURL,
		logger:    logger,
	}
}

// Fetch requests the lookup page for the given folio. Any transport or
// status failure is reported as ErrServicioNoDisponible.
func (f *HTTPFetcher) Fetch(ctx context.Context, folioFiscal, rfcEmisor, rfcReceptor string) ([]byte, error) {
	consulta := url.Values{
		"id": {folioFiscal},
		"re": {rfcEmisor},
		"rr": {rfcReceptor},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.portalURL+"?"+consulta.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServicioNoDisponible, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("No se pudo consultar el portal de verificación",
			zap.String("folio_fiscal", folioFiscal),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrServicioNoDisponible, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", ErrServicioNoDisponible, resp.StatusCode)
	}

	cuerpo, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServicioNoDisponible, err)
	}

	f.logger.Debug("Verificación consultada",
		zap.String("folio_fiscal", folioFiscal),
		zap.Int("bytes", len(cuerpo)))

	return cuerpo, nil
}

// Deshabilitado is a Fetcher that always reports the service unavailable,
// used when verification is turned off in configuration.
type Deshabilitado struct{}

func (Deshabilitado) Fetch(context.Context, string, string, string) ([]byte, error) {
	return nil, ErrServicioNoDisponible
}
