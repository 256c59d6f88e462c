package docgen

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/format"
	"github.com/hdelgado/legalizador/internal/models"
)

// Partida-level template file names.
const (
	plantillaIngresos = "plantilla_ingresos_egresos.xlsx"
	plantillaFacturas = "plantilla_facturas.xlsx"
	plantillaOficio   = "plantilla_oficio.docx"
)

// first data row of the invoice table in plantilla_facturas.xlsx
const filaInicialFacturas = 9

// DatosResumen feeds the three partida-level summary documents. All three
// consume the same ResumenMontos so their totals cannot diverge.
type DatosResumen struct {
	Partida             models.Partida
	Mes                 string // lowercase month name
	Ejercicio           string // fiscal year, e.g. "2025"
	FechaDocumentoTexto string
	Resumen             models.ResumenMontos
	Facturas            []*models.FacturaProcesada
}

// PartidaDocs generates the partida-level summary documents: the
// income/expense sheet, the invoice listing table and the transmittal memo.
type PartidaDocs struct {
	templatesDir string
	docx         *DocxFiller
	logger       *zap.Logger
}

// NewPartidaDocs creates a partida-level document generator.
func NewPartidaDocs(templatesDir string, docx *DocxFiller, logger *zap.Logger) *PartidaDocs {
	return &PartidaDocs{
		templatesDir: templatesDir,
		docx:         docx,
		logger:       logger,
	}
}

// Generar fills the three summary templates into the partida directory.
// Failures are scoped per document: one broken template is logged and the
// others are still produced.
func (g *PartidaDocs) Generar(datos *DatosResumen, outputDir string) map[string]string {
	generados := make(map[string]string, 3)

	if ruta, err := g.generarIngresos(datos, outputDir); err != nil {
		g.logger.Error("Error al generar la relación de ingresos y egresos",
			zap.String("partida", datos.Partida.Numero), zap.Error(err))
	} else {
		generados["ingresos"] = ruta
	}

	if ruta, err := g.generarRelacionFacturas(datos, outputDir); err != nil {
		g.logger.Error("Error al generar la relación de facturas",
			zap.String("partida", datos.Partida.Numero), zap.Error(err))
	} else {
		generados["facturas"] = ruta
	}

	if ruta, err := g.generarOficio(datos, outputDir); err != nil {
		g.logger.Error("Error al generar el oficio de remisión",
			zap.String("partida", datos.Partida.Numero), zap.Error(err))
	} else {
		generados["oficio"] = ruta
	}

	return generados
}

// generarIngresos fills the income/expense sheet: header text plus the
// partida identity cells and the aggregate total.
func (g *PartidaDocs) generarIngresos(datos *DatosResumen, outputDir string) (string, error) {
	ruta := filepath.Join(g.templatesDir, plantillaIngresos)
	f, hoja, err := abrirPlantillaXLSX(ruta)
	if err != nil {
		return "", err
	}
	defer f.Close()

	encabezado := fmt.Sprintf(
		"Relación de ingresos y egresos correspondientes al mes de %s del %s, de los recursos asignados a la Partida Presupuestal %s %q.",
		format.Capitalizar(datos.Mes), datos.Ejercicio, datos.Partida.Numero, datos.Partida.Descripcion)

	celdas := map[string]interface{}{
		"A1":  encabezado,
		"C3":  datos.FechaDocumentoTexto,
		"C4":  datos.Partida.Numero,
		"C5":  datos.Partida.Descripcion,
		"C6":  format.Capitalizar(datos.Mes),
		"C7":  datos.Ejercicio,
		"G15": datos.Resumen.MontoTotal.InexactFloat64(),
	}
	for celda, valor := range celdas {
		if err := f.SetCellValue(hoja, celda, valor); err != nil {
			g.logger.Warn("No se pudo escribir la celda",
				zap.String("celda", celda), zap.Error(err))
		}
	}

	salida := filepath.Join(outputDir, fmt.Sprintf("Ingresos_Egresos_Partida_%s.xlsx", datos.Partida.Numero))
	if err := f.SaveAs(salida); err != nil {
		return "", fmt.Errorf("no se pudo guardar %s: %w", salida, err)
	}
	return salida, nil
}

// generarRelacionFacturas fills the invoice listing: one row per processed
// invoice plus a SUM formula under the amount column.
func (g *PartidaDocs) generarRelacionFacturas(datos *DatosResumen, outputDir string) (string, error) {
	ruta := filepath.Join(g.templatesDir, plantillaFacturas)
	f, hoja, err := abrirPlantillaXLSX(ruta)
	if err != nil {
		return "", err
	}
	defer f.Close()

	encabezado := fmt.Sprintf(
		"Relación de facturas correspondientes al mes de %s del %s, de los recursos asignados a la Partida Presupuestal %s %q.",
		format.Capitalizar(datos.Mes), datos.Ejercicio, datos.Partida.Numero, datos.Partida.Descripcion)

	fijas := map[string]interface{}{
		"A1": encabezado,
		"B3": datos.Partida.Numero,
		"B4": datos.Partida.Descripcion,
		"B5": format.Capitalizar(datos.Mes),
		"B6": datos.Ejercicio,
	}
	for celda, valor := range fijas {
		if err := f.SetCellValue(hoja, celda, valor); err != nil {
			g.logger.Warn("No se pudo escribir la celda",
				zap.String("celda", celda), zap.Error(err))
		}
	}

	fila := filaInicialFacturas
	for i, factura := range datos.Facturas {
		if factura == nil {
			continue
		}
		valores := []interface{}{
			i + 1,
			factura.FechaFactura,
			factura.Emisor,
			factura.EmpleoRecurso,
			factura.SerieNumero,
			factura.RFCEmisor,
			factura.MontoDecimal.InexactFloat64(),
		}
		for j, valor := range valores {
			celda, _ := excelize.CoordinatesToCellName(j+1, fila)
			if err := f.SetCellValue(hoja, celda, valor); err != nil {
				g.logger.Warn("No se pudo escribir la celda",
					zap.String("celda", celda), zap.Error(err))
			}
		}
		fila++
	}

	if fila > filaInicialFacturas {
		total := fmt.Sprintf("SUM(G%d:G%d)", filaInicialFacturas, fila-1)
		if err := f.SetCellFormula(hoja, fmt.Sprintf("G%d", fila+1), total); err != nil {
			g.logger.Warn("No se pudo escribir la fórmula de total", zap.Error(err))
		}
	}

	salida := filepath.Join(outputDir, fmt.Sprintf("Relacion_Facturas_Partida_%s.xlsx", datos.Partida.Numero))
	if err := f.SaveAs(salida); err != nil {
		return "", fmt.Errorf("no se pudo guardar %s: %w", salida, err)
	}
	return salida, nil
}

// generarOficio fills the transmittal memo.
func (g *PartidaDocs) generarOficio(datos *DatosResumen, outputDir string) (string, error) {
	data := map[string]string{
		"FECHA_DOCUMENTO": datos.FechaDocumentoTexto,
		"MES":             format.Capitalizar(datos.Mes),
		"PARTIDA":         datos.Partida.Numero,
		"DESCRIPCION":     datos.Partida.Descripcion,
		"TOTAL_FACTURAS":  fmt.Sprintf("%d", datos.Resumen.TotalFacturas),
		"MONTO_TOTAL":     datos.Resumen.MontoFormateado,
	}

	nombre := fmt.Sprintf("Oficio_Resumen_Partida_%s", datos.Partida.Numero)
	return g.docx.Fill(filepath.Join(g.templatesDir, plantillaOficio), outputDir, data, nombre)
}

// abrirPlantillaXLSX opens an xlsx template and returns its first sheet.
func abrirPlantillaXLSX(ruta string) (*excelize.File, string, error) {
	if _, err := os.Stat(ruta); err != nil {
		return nil, "", &TemplateNotFoundError{Path: ruta}
	}
	f, err := excelize.OpenFile(ruta)
	if err != nil {
		return nil, "", fmt.Errorf("no se pudo abrir la plantilla %s: %w", ruta, err)
	}
	hojas := f.GetSheetList()
	if len(hojas) == 0 {
		f.Close()
		return nil, "", ErrPlantillaSinHojas
	}
	return f, hojas[0], nil
}
