package readiness

import (
	"fmt"
	"strings"
)

const (
	summaryMissingSkills = 2
	summaryActionLimit   = 30
	summaryActionKeep    = 27
)

// Summary renders a one-sentence description of an assessment for UI display,
// e.g. "You're 73% fit for ml-engineer (Workable with targeted upskilling).
// Missing: Python, Tensorflow. Quick win: Write a script to read/wr...".
func Summary(a RoleAssessment) string {
	var b strings.Builder

	// Truncated, not rounded: 0.857 reads as 85%.
	fmt.Fprintf(&b, "You're %d%% fit for %s (%s)", int(a.ReadinessScore*100), a.RoleName, a.ReadinessLabel)

	if len(a.MissingSkills) > 0 {
		names := make([]string, 0, summaryMissingSkills)
		for _, m := range a.MissingSkills {
			if len(names) == summaryMissingSkills {
				break
			}
			names = append(names, titleName(m.Skill))
		}
		fmt.Fprintf(&b, ". Missing: %s", strings.Join(names, ", "))
	}

	if len(a.QuickWinRecommendations) > 0 {
		fmt.Fprintf(&b, ". Quick win: %s", quickWinAction(a.QuickWinRecommendations[0]))
	}

	b.WriteString(".")
	return b.String()
}

// quickWinAction drops the "Quick upskill in x:" style prefix and shortens
// the remainder.
func quickWinAction(recommendation string) string {
	action := recommendation
	if _, rest, ok := strings.Cut(recommendation, ":"); ok {
		action = strings.TrimSpace(rest)
	}

	runes := []rune(action)
	if len(runes) > summaryActionLimit {
		return string(runes[:summaryActionKeep]) + "..."
	}
	return action
}
