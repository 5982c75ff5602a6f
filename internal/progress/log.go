package progress

import (
	"go.uber.org/zap"
)

// LogEmitter writes each event as a structured log line.
type LogEmitter struct {
	logger *zap.Logger
}

// NewLogEmitter wires a zap logger to the Emitter interface.
func NewLogEmitter(logger *zap.Logger) *LogEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogEmitter{logger: logger}
}

// Emit implements Emitter.
func (e *LogEmitter) Emit(evt Event) {
	e.logger.Info("record processed",
		zap.String("run_id", evt.RunID.String()),
		zap.Int("index", evt.Index),
		zap.Int("total", evt.Total),
		zap.String("identifier", evt.Identifier),
		zap.String("status", string(evt.Status)),
		zap.String("note", evt.Note),
		zap.Duration("dur", evt.Dur),
	)
}
