package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hdelgado/legalizador/internal/history"
	"github.com/hdelgado/legalizador/internal/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sirve el historial de ejecuciones por HTTP",
	Long: `Levanta un servidor HTTP de solo lectura sobre la base de datos de
historial: ejecuciones pasadas, resultados por partida y por factura y los
errores capturados.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	cfg, logger, err := cargarConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := abrirHistorial(cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	servidor := httpapi.NewServer(cfg.Server, history.NewRepository(db.DB, logger), logger)
	return servidor.Start(ctx)
}
