package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldRequestID = "request_id"
)

// nonEmpty turns key/value pairs into string fields, trimming both and dropping blank ones.
// A trailing key without a value is ignored.
func nonEmpty(pairs ...string) []zap.Field {
	fields := make([]zap.Field, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		key := strings.TrimSpace(pairs[i])
		value := strings.TrimSpace(pairs[i+1])
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// With attaches fields to logger. A nil logger falls back to a no-op logger.
func With(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(fields) == 0 {
		return logger
	}
	return logger.With(fields...)
}

// AdvisorFields describe the advisory provider and model. Empty values are left out.
func AdvisorFields(provider, model string) []zap.Field {
	return nonEmpty(FieldProvider, provider, FieldModel, model)
}

func WithAdvisor(logger *zap.Logger, provider, model string) *zap.Logger {
	return With(logger, AdvisorFields(provider, model)...)
}

func WithRequestID(logger *zap.Logger, id string) *zap.Logger {
	return With(logger, nonEmpty(FieldRequestID, id)...)
}
