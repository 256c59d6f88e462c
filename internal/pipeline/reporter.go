package pipeline

import (
	"fmt"
	"io"

	"go.uber.org/zap"
)

// StatusReporter receives human-oriented progress messages as the pipeline
// advances. It exists so the core never prints directly; a CLI run renders
// to the terminal while tests capture messages in memory.
type StatusReporter interface {
	Info(mensaje string)
	Exito(mensaje string)
	Advertencia(mensaje string)
	Error(mensaje string)
}

// ReporterZap forwards status messages to the structured log.
type ReporterZap struct {
	logger *zap.Logger
}

// NewReporterZap creates a log-backed status reporter.
func NewReporterZap(logger *zap.Logger) *ReporterZap {
	return &ReporterZap{logger: logger}
}

func (r *ReporterZap) Info(mensaje string)        { r.logger.Info(mensaje) }
func (r *ReporterZap) Exito(mensaje string)       { r.logger.Info(mensaje, zap.Bool("exito", true)) }
func (r *ReporterZap) Advertencia(mensaje string) { r.logger.Warn(mensaje) }
func (r *ReporterZap) Error(mensaje string)       { r.logger.Error(mensaje) }

// ReporterConsola writes plain progress lines for interactive runs, in
// addition to the structured log.
type ReporterConsola struct {
	out    io.Writer
	logger *zap.Logger
}

// NewReporterConsola creates a terminal status reporter.
func NewReporterConsola(out io.Writer, logger *zap.Logger) *ReporterConsola {
	return &ReporterConsola{out: out, logger: logger}
}

func (r *ReporterConsola) Info(mensaje string) {
	fmt.Fprintln(r.out, mensaje)
	r.logger.Info(mensaje)
}

func (r *ReporterConsola) Exito(mensaje string) {
	fmt.Fprintln(r.out, "✔ "+mensaje)
	r.logger.Info(mensaje, zap.Bool("exito", true))
}

func (r *ReporterConsola) Advertencia(mensaje string) {
	fmt.Fprintln(r.out, "⚠ "+mensaje)
	r.logger.Warn(mensaje)
}

func (r *ReporterConsola) Error(mensaje string) {
	fmt.Fprintln(r.out, "✖ "+mensaje)
	r.logger.Error(mensaje)
}
