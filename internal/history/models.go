package history

import "time"

// Estado values recorded for partidas and runs.
const (
	EstadoExitoso = "exitoso"
	EstadoParcial = "parcial"
	EstadoFallido = "fallido"
	EstadoOmitido = "omitido"
)

// Run is one execution of the pipeline.
type Run struct {
	ID                string     `json:"id"`
	Mes               string     `json:"mes"`
	Ejercicio         string     `json:"ejercicio"`
	ArchivoPartidas   string     `json:"archivo_partidas"`
	TotalPartidas     int        `json:"total_partidas"`
	PartidasExitosas  int        `json:"partidas_exitosas"`
	PartidasParciales int        `json:"partidas_parciales"`
	PartidasFallidas  int        `json:"partidas_fallidas"`
	TotalFacturas     int        `json:"total_facturas"`
	IniciadoEn        time.Time  `json:"iniciado_en"`
	FinalizadoEn      *time.Time `json:"finalizado_en,omitempty"`
}

// PartidaResultado is the recorded outcome of one partida within a run.
type PartidaResultado struct {
	ID             int64     `json:"id"`
	RunID          string    `json:"run_id"`
	Partida        string    `json:"partida"`
	Descripcion    string    `json:"descripcion"`
	Estado         string    `json:"estado"`
	FacturasTotal  int       `json:"facturas_total"`
	FacturasOK     int       `json:"facturas_ok"`
	MontoTotal     string    `json:"monto_total"`
	DirectorioBase string    `json:"directorio_base"`
	RegistradoEn   time.Time `json:"registrado_en"`
}

// FacturaResultado is the recorded outcome of one invoice within a partida.
type FacturaResultado struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	Partida      string    `json:"partida"`
	SerieNumero  string    `json:"serie_numero"`
	FolioFiscal  string    `json:"folio_fiscal"`
	Emisor       string    `json:"emisor"`
	Monto        string    `json:"monto"`
	Exitosa      bool      `json:"exitosa"`
	Error        string    `json:"error,omitempty"`
	RegistradoEn time.Time `json:"registrado_en"`
}

// RunError is a scoped error captured during a run.
type RunError struct {
	ID           int64     `json:"id"`
	RunID        string    `json:"run_id"`
	Ambito       string    `json:"ambito"` // run, partida, factura, fila
	Referencia   string    `json:"referencia"`
	Mensaje      string    `json:"mensaje"`
	RegistradoEn time.Time `json:"registrado_en"`
}
