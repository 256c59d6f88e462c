package history

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Repository persists runs and their outcomes in the history database.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepository creates a history repository.
func NewRepository(db *sql.DB, logger *zap.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateRun records the start of a run.
func (r *Repository) CreateRun(run *Run) error {
	query := `
		INSERT INTO runs (id, mes, ejercicio, archivo_partidas, iniciado_en)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query, run.ID, run.Mes, run.Ejercicio, run.ArchivoPartidas, run.IniciadoEn)
	if err != nil {
		r.logger.Error("Failed to create run", zap.Error(err))
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// FinishRun records the final counters of a run.
func (r *Repository) FinishRun(run *Run) error {
	query := `
		UPDATE runs
		SET total_partidas = ?, partidas_exitosas = ?, partidas_parciales = ?,
		    partidas_fallidas = ?, total_facturas = ?, finalizado_en = ?
		WHERE id = ?
	`
	ahora := time.Now()
	run.FinalizadoEn = &ahora

	_, err := r.db.Exec(query,
		run.TotalPartidas,
		run.PartidasExitosas,
		run.PartidasParciales,
		run.PartidasFallidas,
		run.TotalFacturas,
		ahora,
		run.ID,
	)
	if err != nil {
		r.logger.Error("Failed to finish run", zap.Error(err))
		return fmt.Errorf("failed to finish run: %w", err)
	}
	return nil
}

// CreatePartidaResultado records one partida outcome.
func (r *Repository) CreatePartidaResultado(tx *sql.Tx, res *PartidaResultado) error {
	query := `
		INSERT INTO partida_resultados (
			run_id, partida, descripcion, estado, facturas_total,
			facturas_ok, monto_total, directorio_base
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	args := []interface{}{
		res.RunID,
		res.Partida,
		res.Descripcion,
		res.Estado,
		res.FacturasTotal,
		res.FacturasOK,
		res.MontoTotal,
		res.DirectorioBase,
	}
	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}
	if err != nil {
		r.logger.Error("Failed to create partida result", zap.Error(err))
		return fmt.Errorf("failed to create partida result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	res.ID = id
	return nil
}

// CreateFacturaResultado records one invoice outcome.
func (r *Repository) CreateFacturaResultado(tx *sql.Tx, res *FacturaResultado) error {
	query := `
		INSERT INTO factura_resultados (
			run_id, partida, serie_numero, folio_fiscal, emisor, monto, exitosa, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	var result sql.Result
	var err error

	args := []interface{}{
		res.RunID,
		res.Partida,
		res.SerieNumero,
		res.FolioFiscal,
		res.Emisor,
		res.Monto,
		res.Exitosa,
		res.Error,
	}
	if tx != nil {
		result, err = tx.Exec(query, args...)
	} else {
		result, err = r.db.Exec(query, args...)
	}
	if err != nil {
		r.logger.Error("Failed to create invoice result", zap.Error(err))
		return fmt.Errorf("failed to create invoice result: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	res.ID = id
	return nil
}

// CreateError records a scoped error of a run.
func (r *Repository) CreateError(runID, ambito, referencia, mensaje string) error {
	query := `
		INSERT INTO run_errores (run_id, ambito, referencia, mensaje)
		VALUES (?, ?, ?, ?)
	`
	if _, err := r.db.Exec(query, runID, ambito, referencia, mensaje); err != nil {
		r.logger.Error("Failed to record run error", zap.Error(err))
		return fmt.Errorf("failed to record run error: %w", err)
	}
	return nil
}

// GetRun returns one run by ID.
func (r *Repository) GetRun(id string) (*Run, error) {
	query := `
		SELECT id, mes, ejercicio, archivo_partidas, total_partidas,
		       partidas_exitosas, partidas_parciales, partidas_fallidas,
		       total_facturas, iniciado_en, finalizado_en
		FROM runs
		WHERE id = ?
	`

	var run Run
	err := r.db.QueryRow(query, id).Scan(
		&run.ID,
		&run.Mes,
		&run.Ejercicio,
		&run.ArchivoPartidas,
		&run.TotalPartidas,
		&run.PartidasExitosas,
		&run.PartidasParciales,
		&run.PartidasFallidas,
		&run.TotalFacturas,
		&run.IniciadoEn,
		&run.FinalizadoEn,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get run", zap.Error(err))
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first.
func (r *Repository) ListRuns(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
		SELECT id, mes, ejercicio, archivo_partidas, total_partidas,
		       partidas_exitosas, partidas_parciales, partidas_fallidas,
		       total_facturas, iniciado_en, finalizado_en
		FROM runs
		ORDER BY iniciado_en DESC
		LIMIT ?
	`

	rows, err := r.db.Query(query, limit)
	if err != nil {
		r.logger.Error("Failed to list runs", zap.Error(err))
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(
			&run.ID,
			&run.Mes,
			&run.Ejercicio,
			&run.ArchivoPartidas,
			&run.TotalPartidas,
			&run.PartidasExitosas,
			&run.PartidasParciales,
			&run.PartidasFallidas,
			&run.TotalFacturas,
			&run.IniciadoEn,
			&run.FinalizadoEn,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, &run)
	}
	return runs, rows.Err()
}

// ListPartidaResultados returns the partida outcomes of one run.
func (r *Repository) ListPartidaResultados(runID string) ([]*PartidaResultado, error) {
	query := `
		SELECT id, run_id, partida, descripcion, estado, facturas_total,
		       facturas_ok, monto_total, directorio_base, registrado_en
		FROM partida_resultados
		WHERE run_id = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		r.logger.Error("Failed to list partida results", zap.Error(err))
		return nil, fmt.Errorf("failed to list partida results: %w", err)
	}
	defer rows.Close()

	var resultados []*PartidaResultado
	for rows.Next() {
		var res PartidaResultado
		if err := rows.Scan(
			&res.ID,
			&res.RunID,
			&res.Partida,
			&res.Descripcion,
			&res.Estado,
			&res.FacturasTotal,
			&res.FacturasOK,
			&res.MontoTotal,
			&res.DirectorioBase,
			&res.RegistradoEn,
		); err != nil {
			return nil, fmt.Errorf("failed to scan partida result: %w", err)
		}
		resultados = append(resultados, &res)
	}
	return resultados, rows.Err()
}

// ListFacturaResultados returns the invoice outcomes of one run.
func (r *Repository) ListFacturaResultados(runID string) ([]*FacturaResultado, error) {
	query := `
		SELECT id, run_id, partida, serie_numero, folio_fiscal, emisor,
		       monto, exitosa, error, registrado_en
		FROM factura_resultados
		WHERE run_id = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		r.logger.Error("Failed to list invoice results", zap.Error(err))
		return nil, fmt.Errorf("failed to list invoice results: %w", err)
	}
	defer rows.Close()

	var resultados []*FacturaResultado
	for rows.Next() {
		var res FacturaResultado
		if err := rows.Scan(
			&res.ID,
			&res.RunID,
			&res.Partida,
			&res.SerieNumero,
			&res.FolioFiscal,
			&res.Emisor,
			&res.Monto,
			&res.Exitosa,
			&res.Error,
			&res.RegistradoEn,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invoice result: %w", err)
		}
		resultados = append(resultados, &res)
	}
	return resultados, rows.Err()
}

// ListErrores returns the captured errors of one run.
func (r *Repository) ListErrores(runID string) ([]*RunError, error) {
	query := `
		SELECT id, run_id, ambito, referencia, mensaje, registrado_en
		FROM run_errores
		WHERE run_id = ?
		ORDER BY id
	`

	rows, err := r.db.Query(query, runID)
	if err != nil {
		r.logger.Error("Failed to list run errors", zap.Error(err))
		return nil, fmt.Errorf("failed to list run errors: %w", err)
	}
	defer rows.Close()

	var errores []*RunError
	for rows.Next() {
		var re RunError
		if err := rows.Scan(&re.ID, &re.RunID, &re.Ambito, &re.Referencia, &re.Mensaje, &re.RegistradoEn); err != nil {
			return nil, fmt.Errorf("failed to scan run error: %w", err)
		}
		errores = append(errores, &re)
	}
	return errores, rows.Err()
}
