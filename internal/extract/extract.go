// Package extract adapts skill extraction collaborators to the assessment flow.
package extract

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// SkillExtractor derives raw skill names from free-form text.
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, text string) ([]string, error)
}

// Skills runs the extractor and never fails: any collaborator error is logged
// and reported as an empty skill list.
func Skills(ctx context.Context, ex SkillExtractor, text string, logger *zap.Logger) []string {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ex == nil {
		logger.Warn("skill extraction is not configured")
		return []string{}
	}

	start := time.Now()
	skills, err := ex.ExtractSkills(ctx, text)
	if err != nil {
		logger.Warn("skill extraction failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return []string{}
	}

	logger.Debug("skills extracted", zap.Int("count", len(skills)), zap.Duration("took", time.Since(start)))
	if skills == nil {
		return []string{}
	}
	return skills
}
