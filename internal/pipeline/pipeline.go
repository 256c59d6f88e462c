package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/cfdi"
	"github.com/hdelgado/legalizador/internal/config"
	"github.com/hdelgado/legalizador/internal/docgen"
	"github.com/hdelgado/legalizador/internal/facturas"
	"github.com/hdelgado/legalizador/internal/format"
	"github.com/hdelgado/legalizador/internal/history"
	"github.com/hdelgado/legalizador/internal/models"
	"github.com/hdelgado/legalizador/internal/partidas"
	"github.com/hdelgado/legalizador/internal/pdfs"
	"github.com/hdelgado/legalizador/internal/verification"
)

// Deps bundles the collaborators of a Procesador. Historial and Ensamblador
// may be nil; the corresponding stage is then skipped.
type Deps struct {
	Reader      *partidas.Reader
	Resolver    *facturas.Resolver
	Parser      *cfdi.Parser
	Aggregator  *facturas.Aggregator
	Editor      facturas.EditorConceptos
	FacturaDocs *docgen.FacturaDocs
	PartidaDocs *docgen.PartidaDocs
	Fetcher     verification.Fetcher
	Paginas     *pdfs.GeneradorPaginas
	Ensamblador *pdfs.Ensamblador
	Historial   *history.Repository
	Reporter    StatusReporter
	Logger      *zap.Logger
}

// Procesador drives a complete run: reads the partida list, walks each
// partida's invoice directory, generates the per-invoice and per-partida
// documents and records outcomes. Failures stay scoped: a bad invoice does
// not sink its partida, a bad partida does not sink the run.
type Procesador struct {
	cfg  *config.Config
	deps Deps
}

// NewProcesador creates a pipeline orchestrator.
func NewProcesador(cfg *config.Config, deps Deps) *Procesador {
	if deps.Reporter == nil {
		deps.Reporter = NewReporterZap(deps.Logger)
	}
	return &Procesador{cfg: cfg, deps: deps}
}

// fechasRun holds the run-level date renderings, computed once.
type fechasRun struct {
	documentoTexto string
	mensaje        string
}

// Run executes the pipeline for every partida in the configured spreadsheet.
// The returned statistics are valid even when some partidas failed; only a
// run-level problem (unreadable spreadsheet, malformed document date) yields
// an error.
func (p *Procesador) Run(ctx context.Context) (*Estadisticas, error) {
	stats := &Estadisticas{
		RunID:  uuid.NewString(),
		Inicio: time.Now(),
	}

	fechas, err := p.prepararFechas()
	if err != nil {
		return nil, err
	}

	lista, err := p.deps.Reader.ReadPartidas(p.cfg.Rutas.ArchivoPartidas)
	if err != nil {
		return nil, fmt.Errorf("no se pudo leer el archivo de partidas: %w", err)
	}
	stats.TotalPartidas = len(lista)

	p.registrarInicio(stats)
	p.deps.Reporter.Info(fmt.Sprintf("Procesando %d partidas del mes de %s del %s",
		len(lista), p.cfg.Proceso.Mes, p.cfg.Proceso.Ejercicio))

	for _, partida := range lista {
		if ctx.Err() != nil {
			p.deps.Reporter.Advertencia("Ejecución cancelada")
			break
		}
		p.procesarPartida(ctx, stats, partida, fechas)
	}

	stats.Duracion = time.Since(stats.Inicio)
	p.registrarCierre(stats)
	p.reportarResumen(stats)

	return stats, nil
}

func (p *Procesador) prepararFechas() (*fechasRun, error) {
	texto, err := format.FechaTexto(p.cfg.Proceso.FechaDocumento)
	if err != nil {
		return nil, fmt.Errorf("fecha de documento no válida: %w", err)
	}
	mensaje, err := format.FechaMensaje(p.cfg.Proceso.FechaDocumento)
	if err != nil {
		return nil, fmt.Errorf("fecha de documento no válida: %w", err)
	}
	return &fechasRun{documentoTexto: texto, mensaje: mensaje}, nil
}

// procesarPartida runs one partida end to end and folds its outcome into the
// run statistics. Never returns an error: everything is absorbed into the
// partida's recorded state.
func (p *Procesador) procesarPartida(ctx context.Context, stats *Estadisticas, partida models.Partida, fechas *fechasRun) {
	maquina := nuevaMaquina(partida.Numero, p.deps.Logger)
	p.deps.Reporter.Info(fmt.Sprintf("Partida %s: %s", partida.Numero, partida.Descripcion))

	dir := filepath.Join(p.cfg.Rutas.DirectorioBase, partida.Numero)
	if _, err := os.Stat(dir); err != nil {
		p.deps.Reporter.Advertencia(fmt.Sprintf(
			"Partida %s: no existe la carpeta %s; se omite", partida.Numero, dir))
		stats.PartidasOmitidas++
		p.registrarPartida(stats.RunID, partida, history.EstadoOmitido, 0, 0, models.ResumenMontos{}, dir)
		return
	}

	trabajos, err := p.deps.Resolver.Resolve(dir)
	if err != nil || len(trabajos) == 0 {
		if err != nil {
			p.deps.Reporter.Error(fmt.Sprintf("Partida %s: %v", partida.Numero, err))
			p.registrarError(stats.RunID, "partida", partida.Numero, err)
		} else {
			p.deps.Reporter.Advertencia(fmt.Sprintf(
				"Partida %s: sin facturas XML en %s", partida.Numero, dir))
		}
		stats.PartidasFallidas++
		_ = maquina.Transicionar(EstadoFallido)
		p.registrarPartida(stats.RunID, partida, history.EstadoFallido, 0, 0, models.ResumenMontos{}, dir)
		return
	}
	_ = maquina.Transicionar(EstadoProcesandoFacturas)

	salidaPartida := filepath.Join(p.cfg.Rutas.Salida, "Partida_"+partida.Numero)
	if err := os.MkdirAll(salidaPartida, 0o755); err != nil {
		p.deps.Reporter.Error(fmt.Sprintf(
			"Partida %s: no se pudo crear el directorio de salida: %v", partida.Numero, err))
		stats.PartidasFallidas++
		_ = maquina.Transicionar(EstadoFallido)
		p.registrarPartida(stats.RunID, partida, history.EstadoFallido, len(trabajos), 0, models.ResumenMontos{}, dir)
		return
	}

	procesadas := make([]*models.FacturaProcesada, 0, len(trabajos))
	var placeholders []string
	conError := 0

	for _, trabajo := range trabajos {
		procesada, placeholder := p.procesarFactura(ctx, stats.RunID, maquina, partida, trabajo, fechas, salidaPartida)
		if procesada == nil {
			conError++
			stats.FacturasConError++
			continue
		}
		if placeholder != "" {
			placeholders = append(placeholders, placeholder)
		}
		procesadas = append(procesadas, procesada)
		stats.TotalFacturas++
	}

	if len(procesadas) == 0 {
		stats.PartidasFallidas++
		_ = maquina.Transicionar(EstadoFallido)
		p.deps.Reporter.Error(fmt.Sprintf(
			"Partida %s: ninguna factura pudo procesarse", partida.Numero))
		p.registrarPartida(stats.RunID, partida, history.EstadoFallido, len(trabajos), 0, models.ResumenMontos{}, dir)
		return
	}

	_ = maquina.Transicionar(EstadoAgregando)
	resumen := p.deps.Aggregator.Aggregate(procesadas)
	stats.MontoGlobal = stats.MontoGlobal.Add(resumen.MontoTotal)

	_ = maquina.Transicionar(EstadoGenerandoResumen)
	datosResumen := &docgen.DatosResumen{
		Partida:             partida,
		Mes:                 p.cfg.Proceso.Mes,
		Ejercicio:           p.cfg.Proceso.Ejercicio,
		FechaDocumentoTexto: fechas.documentoTexto,
		Resumen:             resumen,
		Facturas:            procesadas,
	}
	generados := p.deps.PartidaDocs.Generar(datosResumen, salidaPartida)

	p.ensamblarExpediente(ctx, partida, procesadas, placeholders, generados, salidaPartida)

	estado := history.EstadoExitoso
	if conError > 0 {
		estado = history.EstadoParcial
		stats.PartidasParciales++
		_ = maquina.Transicionar(EstadoFalloParcial)
		p.deps.Reporter.Advertencia(fmt.Sprintf(
			"Partida %s: %d de %d facturas procesadas, total %s",
			partida.Numero, len(procesadas), len(trabajos), resumen.MontoFormateado))
	} else {
		stats.PartidasExitosas++
		_ = maquina.Transicionar(EstadoCompletado)
		p.deps.Reporter.Exito(fmt.Sprintf(
			"Partida %s: %d facturas, total %s",
			partida.Numero, resumen.TotalFacturas, resumen.MontoFormateado))
	}
	p.registrarPartida(stats.RunID, partida, estado, len(trabajos), len(procesadas), resumen, dir)
}

// procesarFactura handles one invoice: parse, summarize concepts, generate
// the document set and attempt the SAT verification. Returns nil when the
// invoice could not be processed, plus the path of a verification
// placeholder page when one was generated.
func (p *Procesador) procesarFactura(
	ctx context.Context,
	runID string,
	maquina *maquinaEstado,
	partida models.Partida,
	trabajo facturas.TrabajoFactura,
	fechas *fechasRun,
	salidaPartida string,
) (*models.FacturaProcesada, string) {
	factura, err := p.deps.Parser.ParseFile(trabajo.XMLPath)
	if err != nil {
		p.deps.Reporter.Error(fmt.Sprintf(
			"Factura %s: %v", filepath.Base(trabajo.XMLPath), err))
		p.registrarError(runID, "factura", trabajo.XMLPath, err)
		p.registrarFactura(runID, partida.Numero, nil, trabajo.XMLPath, err)
		return nil, ""
	}

	sugerencia := facturas.ResumirConceptos(factura.Conceptos)
	empleo := sugerencia
	if p.cfg.Proceso.EditarConceptos {
		_ = maquina.Transicionar(EstadoEditandoConceptos)
		editado, err := p.deps.Editor.Editar(factura.Conceptos, partida.Descripcion, sugerencia)
		if err != nil {
			p.deps.Reporter.Advertencia(fmt.Sprintf(
				"Factura %s: edición de conceptos falló, se usa el resumen automático: %v",
				factura.SerieNumero(), err))
		} else if editado != "" {
			empleo = editado
		}
	}

	datos, err := p.construirDatos(factura, partida, fechas, empleo)
	if err != nil {
		p.deps.Reporter.Error(fmt.Sprintf(
			"Factura %s: %v", factura.SerieNumero(), err))
		p.registrarError(runID, "factura", trabajo.XMLPath, err)
		p.registrarFactura(runID, partida.Numero, factura, trabajo.XMLPath, err)
		return nil, ""
	}

	_ = maquina.Transicionar(EstadoGenerandoDocsFact)
	salidaFactura := filepath.Join(salidaPartida, nombreCarpetaFactura(factura))
	if err := os.MkdirAll(salidaFactura, 0o755); err != nil {
		p.deps.Reporter.Error(fmt.Sprintf(
			"Factura %s: no se pudo crear el directorio de salida: %v", factura.SerieNumero(), err))
		p.registrarFactura(runID, partida.Numero, factura, trabajo.XMLPath, err)
		return nil, ""
	}
	documentos := p.deps.FacturaDocs.Generar(datos, salidaFactura)

	placeholder := p.verificarFactura(ctx, factura, salidaFactura)

	_ = maquina.Transicionar(EstadoProcesandoFacturas)

	fechaCorta, err := format.FechaCorta(factura.FechaISO)
	if err != nil {
		fechaCorta = factura.FechaISO
	}
	procesada := &models.FacturaProcesada{
		SerieNumero:   factura.SerieNumero(),
		Fecha:         datos.FechaFacturaTexto,
		FechaFactura:  fechaCorta,
		Emisor:        factura.Emisor.Nombre,
		RFCEmisor:     factura.Emisor.RFC,
		Monto:         datos.Monto,
		MontoDecimal:  factura.Total,
		EmpleoRecurso: empleo,
		Documentos:    documentos,
	}
	p.registrarFactura(runID, partida.Numero, factura, trabajo.XMLPath, nil)
	return procesada, placeholder
}

// construirDatos merges invoice, partida and run-level values into the
// template record.
func (p *Procesador) construirDatos(factura *models.Factura, partida models.Partida, fechas *fechasRun, empleo string) (*models.DatosPlantilla, error) {
	dia := factura.FechaISO
	if len(dia) > 10 {
		dia = dia[:10]
	}
	fechaFacturaTexto, err := format.FechaTexto(dia)
	if err != nil {
		return nil, fmt.Errorf("fecha de factura no válida: %w", err)
	}
	fechaCorta, err := format.FechaCorta(factura.FechaISO)
	if err != nil {
		return nil, fmt.Errorf("fecha de factura no válida: %w", err)
	}

	return &models.DatosPlantilla{
		XML:               factura.XML,
		SerieNumero:       factura.SerieNumero(),
		FechaFacturaTexto: fechaFacturaTexto,
		FechaFactura:      fechaCorta,
		NombreEmisor:      factura.Emisor.Nombre,
		RFCEmisor:         factura.Emisor.RFC,
		RFCReceptor:       factura.Receptor.RFC,
		FolioFiscal:       factura.FolioFiscal,
		Monto:             format.Monto(factura.Total),

		NoPartida:          partida.Numero,
		DescripcionPartida: partida.Descripcion,

		FechaDocumento: fechas.documentoTexto,
		Mes:            format.Capitalizar(p.cfg.Proceso.Mes),
		NoMensaje:      partida.NumeroAdicional,
		FechaMensaje:   fechas.mensaje,
		EmpleoRecurso:  empleo,

		Recibio: p.cfg.Personal.RecibioLaCompra,
		VoBo:    p.cfg.Personal.VoBo,
	}, nil
}

// verificarFactura attempts the SAT portal lookup. A failure produces a
// placeholder page and never fails the invoice.
func (p *Procesador) verificarFactura(ctx context.Context, factura *models.Factura, salidaFactura string) string {
	if p.deps.Fetcher == nil {
		return ""
	}

	contenido, err := p.deps.Fetcher.Fetch(ctx, factura.FolioFiscal, factura.Emisor.RFC, factura.Receptor.RFC)
	if err == nil {
		if _, err := pdfs.GuardarVerificacion(contenido, factura.FolioFiscal, salidaFactura); err == nil {
			return ""
		}
	}

	placeholder, perr := p.deps.Paginas.PlaceholderVerificacion(
		factura.FolioFiscal, factura.Emisor.RFC, factura.SerieNumero(), salidaFactura)
	if perr != nil {
		p.deps.Logger.Warn("No se pudo generar el marcador de verificación",
			zap.String("folio_fiscal", factura.FolioFiscal),
			zap.Error(perr))
		return ""
	}
	return placeholder
}

// ensamblarExpediente builds the combined PDF when assembly is enabled.
func (p *Procesador) ensamblarExpediente(
	ctx context.Context,
	partida models.Partida,
	procesadas []*models.FacturaProcesada,
	placeholders []string,
	generados map[string]string,
	salidaPartida string,
) {
	if p.deps.Ensamblador == nil {
		return
	}

	resumen := make([]string, 0, len(generados))
	for _, clave := range []string{"oficio", "ingresos", "facturas"} {
		if ruta, ok := generados[clave]; ok {
			resumen = append(resumen, ruta)
		}
	}

	workDir := filepath.Join(salidaPartida, ".paginas")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		p.deps.Logger.Warn("No se pudo crear el directorio de trabajo del expediente", zap.Error(err))
		return
	}

	piezas := &pdfs.PiezasPartida{
		Partida:    partida,
		Mes:        p.cfg.Proceso.Mes,
		Ejercicio:  p.cfg.Proceso.Ejercicio,
		Resumen:    resumen,
		Facturas:   procesadas,
		OutputDir:  salidaPartida,
		WorkDir:    workDir,
		Placeholds: placeholders,
	}
	if ruta, err := p.deps.Ensamblador.Ensamblar(ctx, piezas); err == nil {
		p.deps.Reporter.Exito(fmt.Sprintf("Expediente combinado: %s", filepath.Base(ruta)))
	}
}

func (p *Procesador) reportarResumen(stats *Estadisticas) {
	mensaje := fmt.Sprintf(
		"Proceso terminado en %s: %d partidas (%d exitosas, %d parciales, %d fallidas, %d omitidas), %d facturas, monto global %s",
		stats.Duracion.Round(time.Millisecond),
		stats.TotalPartidas,
		stats.PartidasExitosas,
		stats.PartidasParciales,
		stats.PartidasFallidas,
		stats.PartidasOmitidas,
		stats.TotalFacturas,
		format.Monto(stats.MontoGlobal))
	if stats.Completa() {
		p.deps.Reporter.Exito(mensaje)
	} else {
		p.deps.Reporter.Advertencia(mensaje)
	}
}

func nombreCarpetaFactura(factura *models.Factura) string {
	nombre := factura.SerieNumero()
	if nombre == "" {
		nombre = factura.FolioFiscal
	}
	return "Factura_" + nombre
}

// registrarInicio records the run start in the history database.
func (p *Procesador) registrarInicio(stats *Estadisticas) {
	if p.deps.Historial == nil {
		return
	}
	run := &history.Run{
		ID:              stats.RunID,
		Mes:             p.cfg.Proceso.Mes,
		Ejercicio:       p.cfg.Proceso.Ejercicio,
		ArchivoPartidas: p.cfg.Rutas.ArchivoPartidas,
		IniciadoEn:      stats.Inicio,
	}
	if err := p.deps.Historial.CreateRun(run); err != nil {
		p.deps.Logger.Warn("No se pudo registrar el inicio de la ejecución", zap.Error(err))
	}
}

func (p *Procesador) registrarCierre(stats *Estadisticas) {
	if p.deps.Historial == nil {
		return
	}
	run := &history.Run{
		ID:                stats.RunID,
		TotalPartidas:     stats.TotalPartidas,
		PartidasExitosas:  stats.PartidasExitosas,
		PartidasParciales: stats.PartidasParciales,
		PartidasFallidas:  stats.PartidasFallidas,
		TotalFacturas:     stats.TotalFacturas,
	}
	if err := p.deps.Historial.FinishRun(run); err != nil {
		p.deps.Logger.Warn("No se pudo registrar el cierre de la ejecución", zap.Error(err))
	}
}

func (p *Procesador) registrarPartida(runID string, partida models.Partida, estado string, facturasTotal, facturasOK int, resumen models.ResumenMontos, dir string) {
	if p.deps.Historial == nil {
		return
	}
	res := &history.PartidaResultado{
		RunID:          runID,
		Partida:        partida.Numero,
		Descripcion:    partida.Descripcion,
		Estado:         estado,
		FacturasTotal:  facturasTotal,
		FacturasOK:     facturasOK,
		MontoTotal:     resumen.MontoFormateado,
		DirectorioBase: dir,
	}
	if err := p.deps.Historial.CreatePartidaResultado(nil, res); err != nil {
		p.deps.Logger.Warn("No se pudo registrar el resultado de la partida", zap.Error(err))
	}
}

func (p *Procesador) registrarFactura(runID, partida string, factura *models.Factura, xmlPath string, errProceso error) {
	if p.deps.Historial == nil {
		return
	}
	res := &history.FacturaResultado{
		RunID:   runID,
		Partida: partida,
		Exitosa: errProceso == nil,
	}
	if factura != nil {
		res.SerieNumero = factura.SerieNumero()
		res.FolioFiscal = factura.FolioFiscal
		res.Emisor = factura.Emisor.Nombre
		res.Monto = format.Monto(factura.Total)
	} else {
		res.SerieNumero = filepath.Base(xmlPath)
	}
	if errProceso != nil {
		res.Error = errProceso.Error()
	}
	if err := p.deps.Historial.CreateFacturaResultado(nil, res); err != nil {
		p.deps.Logger.Warn("No se pudo registrar el resultado de la factura", zap.Error(err))
	}
}

func (p *Procesador) registrarError(runID, ambito, referencia string, errProceso error) {
	if p.deps.Historial == nil {
		return
	}
	if err := p.deps.Historial.CreateError(runID, ambito, referencia, errProceso.Error()); err != nil {
		p.deps.Logger.Warn("No se pudo registrar el error de la ejecución", zap.Error(err))
	}
}
