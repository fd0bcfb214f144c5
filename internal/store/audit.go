package store

import (
	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
)

// LogSink writes belief-graph audit events to structured logs.
type LogSink struct {
	logger *zap.Logger
}

func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger}
}

func (s *LogSink) Record(ev domain.AuditEvent) {
	fields := []zap.Field{
		zap.String("event_id", ev.ID.String()),
		zap.String("schema", ev.Schema),
		zap.Bool("verified", ev.Verified),
	}
	if ev.Property != "" {
		fields = append(fields, zap.String("property", ev.Property))
	}
	s.logger.Info(string(ev.Type), fields...)
}
