package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hdelgado/legalizador/internal/partidas"
)

var inspectFilas int

var inspectCmd = &cobra.Command{
	Use:   "inspect [archivo.xlsx]",
	Short: "Muestra la estructura del archivo de partidas",
	Long: `Muestra las hojas, encabezados detectados y primeras filas del archivo de
partidas, útil cuando el formato mensual cambió y la lectura falla. Sin
argumento usa el archivo de la configuración.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(args)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().IntVar(&inspectFilas, "filas", 10,
		"Número de filas a mostrar por hoja")
}

func runInspect(args []string) error {
	cfg, logger, err := cargarConfig()
	if err != nil {
		return err
	}
	defer logger.Sync()

	ruta := cfg.Rutas.ArchivoPartidas
	if len(args) == 1 {
		ruta = args[0]
	}

	estructura, err := partidas.NewReader(logger).Inspect(ruta, inspectFilas)
	if err != nil {
		return err
	}

	for _, hoja := range estructura {
		fmt.Printf("Hoja %q (%d filas, %d columnas)\n", hoja.Hoja, hoja.TotalFilas, hoja.TotalColumnas)
		for i, fila := range hoja.Muestra {
			fmt.Printf("  %3d | %s\n", i+1, formatearFila(fila))
		}
		fmt.Println()
	}
	return nil
}

func formatearFila(fila []string) string {
	salida := ""
	for i, celda := range fila {
		if i > 0 {
			salida += " | "
		}
		salida += celda
	}
	return salida
}
