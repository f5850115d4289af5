package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/role-readiness/internal/logger"
)

// Provider names this extractor in logs and history.
const Provider = "gemini"

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Extractor turns free-form resume text into a list of raw skill names.
type Extractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

func NewExtractor(generator contentGenerator, log *zap.Logger, maxLogLength int) *Extractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Extractor{
		generator: generator,
		logger:    logger.WithFields(log, logger.ExtractionFields(Provider, generator.Model())...),
		maxLogLen: maxLogLength,
	}
}

// ExtractSkills asks the model for the skills mentioned in text. The result
// keeps the model's order and drops blank entries.
func (e *Extractor) ExtractSkills(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, errors.New("resume text is empty")
	}

	e.logger.Debug("gemini skill extraction request",
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", logger.TruncateForLog(text, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, systemPrompt, text)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini skill extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseSkills(raw)
}

// parseSkills accepts either a bare JSON array or an object with a "skills" array.
func parseSkills(raw string) ([]string, error) {
	cleaned := extractJSON(raw)

	var data any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var items []any
	switch val := data.(type) {
	case []any:
		items = val
	case map[string]any:
		list, ok := val["skills"].([]any)
		if !ok {
			return nil, errors.New("parse gemini response: missing skills array")
		}
		items = list
	default:
		return nil, fmt.Errorf("parse gemini response: unexpected %T", data)
	}

	skills := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			skills = append(skills, s)
		}
	}

	return skills, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case map[string]any:
		// {"name": "python", "level": ...}
		return coerceString(val["name"])
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
