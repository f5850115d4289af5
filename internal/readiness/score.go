package readiness

import (
	"math"
	"strings"

	"github.com/spigell/role-readiness/internal/catalog"
)

// DefaultLevel is assigned to every normalized skill. Resumes carry no
// proficiency data, so all listed skills count as intermediate.
const DefaultLevel = 2

// Normalize canonicalizes raw skill names and assigns DefaultLevel. Order and
// duplicates are kept; blank entries are dropped.
func Normalize(raw []string) []UserSkill {
	skills := make([]UserSkill, 0, len(raw))
	for _, name := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		skills = append(skills, UserSkill{Skill: catalog.Canonical(name), Level: DefaultLevel})
	}
	return skills
}

// Score computes the weighted readiness of skills against a role's
// requirements and lists the requirements held below target, in requirement
// order. Levels outside 0..catalog.MaxLevel are clamped. The score is not
// rounded.
func Score(skills []UserSkill, requirements []catalog.RequiredSkill) (float64, []MissingSkill) {
	levels := make(map[string]int, len(skills))
	for _, s := range skills {
		levels[s.Skill] = min(max(s.Level, 0), catalog.MaxLevel)
	}

	var contribution, totalWeight float64
	missing := make([]MissingSkill, 0)

	for _, req := range requirements {
		level := levels[req.Skill]

		credit := 0.0
		if req.TargetLevel > 0 {
			credit = math.Min(float64(level)/float64(req.TargetLevel), 1.0)
		}

		weight := req.Importance.Weight()
		contribution += credit * weight
		totalWeight += weight

		if level < req.TargetLevel {
			missing = append(missing, MissingSkill{
				Skill:        req.Skill,
				CurrentLevel: level,
				TargetLevel:  req.TargetLevel,
				GapDegree:    req.TargetLevel - level,
				Importance:   req.Importance,
			})
		}
	}

	if totalWeight == 0 {
		return 0, missing
	}

	return contribution / totalWeight, missing
}

// RoundScore rounds a score to three decimals for presentation.
func RoundScore(score float64) float64 {
	return math.Round(score*1000) / 1000
}
