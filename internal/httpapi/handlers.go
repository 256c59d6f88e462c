package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hdelgado/legalizador/internal/history"
)

// Handlers holds the history API endpoints.
type Handlers struct {
	historial *history.Repository
	logger    *zap.Logger
}

// NewHandlers creates the API handlers.
func NewHandlers(historial *history.Repository, logger *zap.Logger) *Handlers {
	return &Handlers{historial: historial, logger: logger}
}

// HealthCheck reports service liveness.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListRuns returns the most recent runs.
func (h *Handlers) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	runs, err := h.historial.ListRuns(limit)
	if err != nil {
		h.logger.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

// GetRun returns one run by ID.
func (h *Handlers) GetRun(c *gin.Context) {
	run, err := h.historial.GetRun(c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to get run", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get run"})
		return
	}
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListPartidas returns the partida outcomes of one run.
func (h *Handlers) ListPartidas(c *gin.Context) {
	resultados, err := h.historial.ListPartidaResultados(c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to list partida results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list partida results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"partidas": resultados})
}

// ListFacturas returns the invoice outcomes of one run.
func (h *Handlers) ListFacturas(c *gin.Context) {
	resultados, err := h.historial.ListFacturaResultados(c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to list invoice results", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list invoice results"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"facturas": resultados})
}

// ListErrores returns the captured errors of one run.
func (h *Handlers) ListErrores(c *gin.Context) {
	errores, err := h.historial.ListErrores(c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to list run errors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list run errors"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"errores": errores})
}
