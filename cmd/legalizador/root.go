package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/config"
	"github.com/hdelgado/legalizador/pkg/utils"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "legalizador",
	Short: "Genera los documentos de legalización de partidas presupuestales",
	Long: `Legalizador procesa el archivo mensual de partidas presupuestales, lee las
facturas CFDI de cada partida y genera los documentos de legalización
(legalizaciones por factura, relación de facturas, relación de ingresos y
egresos y oficio de remisión) a partir de plantillas DOCX y XLSX.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml",
		"Ruta del archivo de configuración")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Registro detallado")
}

// cargarConfig loads the configuration and builds the logger every command
// shares.
func cargarConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	nivel := cfg.Logger.Level
	if verbose {
		nivel = "debug"
	}
	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      nivel,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("no se pudo crear el logger: %w", err)
	}

	return cfg, logger, nil
}
