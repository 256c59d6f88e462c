package pipeline

import (
	"fmt"

	"go.uber.org/zap"
)

// Processing states of one partida.
const (
	EstadoDescubriendo       = "descubriendo"
	EstadoProcesandoFacturas = "procesando_facturas"
	EstadoEditandoConceptos  = "editando_conceptos"
	EstadoGenerandoDocsFact  = "generando_documentos_factura"
	EstadoAgregando          = "agregando"
	EstadoGenerandoResumen   = "generando_documentos_resumen"
	EstadoCompletado         = "completado"
	EstadoFalloParcial       = "fallo_parcial"
	EstadoFallido            = "fallido"
)

// validTransitions defines the partida state machine. Failure states are
// reachable from every working state.
var validTransitions = map[string][]string{
	EstadoDescubriendo: {
		EstadoProcesandoFacturas,
		EstadoFallido,
	},
	EstadoProcesandoFacturas: {
		EstadoEditandoConceptos,
		EstadoGenerandoDocsFact,
		EstadoAgregando,
		EstadoFalloParcial,
		EstadoFallido,
	},
	EstadoEditandoConceptos: {
		EstadoGenerandoDocsFact,
		EstadoProcesandoFacturas,
		EstadoFalloParcial,
		EstadoFallido,
	},
	EstadoGenerandoDocsFact: {
		EstadoProcesandoFacturas,
		EstadoAgregando,
		EstadoFalloParcial,
		EstadoFallido,
	},
	EstadoAgregando: {
		EstadoGenerandoResumen,
		EstadoFalloParcial,
		EstadoFallido,
	},
	EstadoGenerandoResumen: {
		EstadoCompletado,
		EstadoFalloParcial,
		EstadoFallido,
	},
}

// maquinaEstado tracks one partida's progress through the pipeline stages.
type maquinaEstado struct {
	partida string
	estado  string
	logger  *zap.Logger
}

func nuevaMaquina(partida string, logger *zap.Logger) *maquinaEstado {
	return &maquinaEstado{
		partida: partida,
		estado:  EstadoDescubriendo,
		logger:  logger,
	}
}

// Transicionar moves the machine to a new state, rejecting jumps the state
// machine does not allow.
func (m *maquinaEstado) Transicionar(nuevo string) error {
	if !m.esValida(nuevo) {
		m.logger.Warn("Transición de estado no válida",
			zap.String("partida", m.partida),
			zap.String("de", m.estado),
			zap.String("a", nuevo))
		return fmt.Errorf("transición de estado no válida de %s a %s", m.estado, nuevo)
	}

	m.logger.Debug("Cambio de estado de la partida",
		zap.String("partida", m.partida),
		zap.String("de", m.estado),
		zap.String("a", nuevo))
	m.estado = nuevo
	return nil
}

func (m *maquinaEstado) esValida(nuevo string) bool {
	for _, permitido := range validTransitions[m.estado] {
		if permitido == nuevo {
			return true
		}
	}
	return false
}

// Estado returns the current state.
func (m *maquinaEstado) Estado() string {
	return m.estado
}
