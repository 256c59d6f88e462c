package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/cfdi"
	"github.com/hdelgado/legalizador/internal/config"
	"github.com/hdelgado/legalizador/internal/docgen"
	"github.com/hdelgado/legalizador/internal/facturas"
	"github.com/hdelgado/legalizador/internal/history"
	"github.com/hdelgado/legalizador/internal/models"
	"github.com/hdelgado/legalizador/internal/partidas"
	"github.com/hdelgado/legalizador/internal/pdfs"
	"github.com/hdelgado/legalizador/internal/pipeline"
	"github.com/hdelgado/legalizador/internal/verification"
	"github.com/hdelgado/legalizador/pkg/database"
)

var sinHistorial bool

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Procesa todas las partidas del archivo configurado",
	Long: `Lee el archivo de partidas, localiza las facturas XML de cada partida en el
directorio base y genera los documentos de legalización en el directorio de
salida. Una factura o partida con errores se reporta y el proceso continúa
con las demás.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().BoolVar(&sinHistorial, "sin-historial", false,
		"No registrar la ejecución en la base de datos de historial")
}

func runProcess() error {
	cfg, logger, err := cargarConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var historial *history.Repository
	if !sinHistorial {
		db, err := abrirHistorial(cfg, logger)
		if err != nil {
			logger.Warn("Historial deshabilitado", zap.Error(err))
		} else {
			defer db.Close()
			historial = history.NewRepository(db.DB, logger)
		}
	}

	procesador := pipeline.NewProcesador(cfg, construirDeps(cfg, historial, logger))

	stats, err := procesador.Run(ctx)
	if err != nil {
		return err
	}
	if !stats.Completa() {
		return fmt.Errorf("la ejecución terminó con errores: %d facturas y %d partidas fallidas",
			stats.FacturasConError, stats.PartidasFallidas)
	}
	return nil
}

// construirDeps wires the pipeline collaborators from configuration.
func construirDeps(cfg *config.Config, historial *history.Repository, logger *zap.Logger) pipeline.Deps {
	docx := docgen.NewDocxFiller(logger)

	var editor facturas.EditorConceptos = facturas.EditorAutomatico{}
	if cfg.Proceso.EditarConceptos {
		editor = &editorConsola{in: bufio.NewReader(os.Stdin), out: os.Stdout}
	}

	var fetcher verification.Fetcher = verification.Deshabilitado{}
	if cfg.Verificacion.Habilitada {
		fetcher = verification.NewHTTPFetcher(cfg.Verificacion.PortalURL, cfg.Verificacion.Timeout, logger)
	}

	paginas := pdfs.NewGeneradorPaginas()
	var ensamblador *pdfs.Ensamblador
	if cfg.PDF.Combinar {
		ensamblador = pdfs.NewEnsamblador(
			pdfs.NewSofficeConverter(cfg.PDF.Convertidor, logger),
			pdfs.NewPdfUniteMerger(logger),
			paginas,
			logger,
		)
	}

	return pipeline.Deps{
		Reader:      partidas.NewReader(logger),
		Resolver:    facturas.NewResolver(logger),
		Parser:      cfdi.NewParser(logger),
		Aggregator:  facturas.NewAggregator(logger),
		Editor:      editor,
		FacturaDocs: docgen.NewFacturaDocs(cfg.Rutas.Plantillas, docx, logger),
		PartidaDocs: docgen.NewPartidaDocs(cfg.Rutas.Plantillas, docx, logger),
		Fetcher:     fetcher,
		Paginas:     paginas,
		Ensamblador: ensamblador,
		Historial:   historial,
		Reporter:    pipeline.NewReporterConsola(os.Stdout, logger),
		Logger:      logger,
	}
}

// abrirHistorial opens the history database and applies pending migrations.
func abrirHistorial(cfg *config.Config, logger *zap.Logger) (*database.DB, error) {
	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(db, logger).RunEmbedded(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// editorConsola prompts the operator for the EMPLEO_RECURSO text of each
// invoice. An empty answer accepts the automatic suggestion.
type editorConsola struct {
	in  *bufio.Reader
	out *os.File
}

func (e *editorConsola) Editar(conceptos []models.Concepto, descripcionPartida, sugerencia string) (string, error) {
	fmt.Fprintf(e.out, "\nPartida: %s\nConceptos de la factura:\n", descripcionPartida)
	for _, c := range conceptos {
		fmt.Fprintf(e.out, "  %s x %s\n", c.Cantidad.StringFixed(3), c.Descripcion)
	}
	fmt.Fprintf(e.out, "Sugerencia: %s\n", sugerencia)
	fmt.Fprint(e.out, "Empleo del recurso [Enter para aceptar la sugerencia]: ")

	linea, err := e.in.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(linea), nil
}
