package flightlog

import (
	"go.uber.org/zap"

	"github.com/jigyokei-ai/modelroute"
)

// ZapLog writes flight entries as structured log records.
type ZapLog struct {
	Logger *zap.Logger
}

var _ modelroute.FlightLog = (*ZapLog)(nil)

// NewZapLog creates a ZapLog with the given logger. If logger is nil,
// zap.NewNop() is used.
func NewZapLog(logger *zap.Logger) *ZapLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapLog{Logger: logger}
}

func (l *ZapLog) Append(e modelroute.FlightEntry) error {
	fields := []zap.Field{
		zap.String("request_id", e.RequestID),
		zap.String("category", string(e.Category)),
		zap.String("model", e.Model),
		zap.Int("tier", e.Tier),
		zap.String("outcome", string(e.Outcome)),
	}
	if e.Err != "" {
		fields = append(fields, zap.String("error", e.Err))
	}

	if e.Outcome == modelroute.OutcomeSuccess {
		l.Logger.Info("flight", fields...)
	} else {
		l.Logger.Warn("flight", fields...)
	}
	return nil
}
