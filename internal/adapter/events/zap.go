package events

import (
	"context"

	domain "annuity-exchange/internal/domain/events"

	"go.uber.org/zap"
)

// ZapSink writes every ledger event as a structured log line.
type ZapSink struct{ log *zap.Logger }

func NewZapSink(log *zap.Logger) *ZapSink { return &ZapSink{log: log} }

func (s *ZapSink) Emit(_ context.Context, e domain.Event) {
	fields := []zap.Field{
		zap.String("type", string(e.Type)),
		zap.Uint64("agreement_id", e.AgreementID),
		zap.Time("at", e.At),
	}
	if e.Actor != "" {
		fields = append(fields, zap.String("actor", e.Actor))
	}
	if e.Amount != "" {
		fields = append(fields, zap.String("amount", e.Amount))
	}
	if e.Recovered != "" {
		fields = append(fields,
			zap.String("recovered", e.Recovered),
			zap.String("consumed", e.Consumed),
			zap.String("refunded", e.Refunded),
			zap.String("shortfall", e.Shortfall))
	}
	s.log.Info("ledger event", fields...)
}
