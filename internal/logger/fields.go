package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldFingerprint is the structured log field key for a skill profile fingerprint.
	FieldFingerprint = "fingerprint"
	// FieldRole is the structured log field key for the assessed role.
	FieldRole = "role"
	// FieldProvider is the structured log field key for the skill extraction provider.
	FieldProvider = "extract_provider"
	// FieldModel is the structured log field key for the extraction model.
	FieldModel = "extract_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields attaches the provided fields to the logger, defaulting to a
// no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// AssessmentFields describes an assessment request. The role is omitted for
// multi-role assessments.
func AssessmentFields(fingerprint, role string) []zap.Field {
	return StringFields(
		StringField{Key: FieldFingerprint, Value: fingerprint},
		StringField{Key: FieldRole, Value: role},
	)
}

// ExtractionFields describes the skill extraction collaborator.
func ExtractionFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
