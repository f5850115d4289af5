package readiness

import (
	"fmt"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spigell/role-readiness/internal/catalog"
)

// MaxQuickWins caps the number of recommendations per role.
const MaxQuickWins = 2

// foundationGap is the smallest gap that calls for a full course.
const foundationGap = 2

// RemediationSource resolves remediation data for a canonical skill.
type RemediationSource interface {
	Remediation(skill string) (catalog.Remediation, bool)
}

// QuickWins picks the must-have gaps with the largest gap degree (catalog
// order breaks ties) and turns each into a remediation hint.
func QuickWins(missing []MissingSkill, source RemediationSource) []string {
	must := make([]MissingSkill, 0, len(missing))
	for _, m := range missing {
		if m.Importance == catalog.Must {
			must = append(must, m)
		}
	}

	slices.SortStableFunc(must, func(a, b MissingSkill) int {
		return b.GapDegree - a.GapDegree
	})

	if len(must) > MaxQuickWins {
		must = must[:MaxQuickWins]
	}

	recommendations := make([]string, 0, len(must))
	for _, m := range must {
		recommendations = append(recommendations, recommend(m, source))
	}
	return recommendations
}

func recommend(m MissingSkill, source RemediationSource) string {
	levels := fmt.Sprintf("(Level %d→%d)", m.CurrentLevel, m.TargetLevel)

	var (
		entry catalog.Remediation
		found bool
	)
	if source != nil {
		entry, found = source.Remediation(m.Skill)
	}

	if !found || len(entry.Courses) == 0 {
		name := titleName(m.Skill)
		if m.GapDegree >= foundationGap {
			return fmt.Sprintf("Foundation needed in %s: Dedicate 8-12 hours to comprehensive training through online courses or bootcamps %s", name, levels)
		}
		return fmt.Sprintf("Quick upskill in %s: Spend 2-4 hours on focused practice through tutorials and hands-on projects %s", name, levels)
	}

	name := displayName(m.Skill)

	if m.GapDegree >= foundationGap {
		course := entry.Courses[0]
		return fmt.Sprintf("Foundation needed in %s: Start with course %s - '%s' (%s) %s", name, course.ID, course.Name, course.Duration, levels)
	}

	if len(entry.MicroTasks) > 0 {
		return fmt.Sprintf("Quick upskill in %s: %s %s", name, entry.MicroTasks[0], levels)
	}

	course := shortCourse(entry.Courses)
	return fmt.Sprintf("Quick upskill in %s: Complete course %s - '%s' (%s) %s", name, course.ID, course.Name, course.Duration, levels)
}

// shortCourse returns the first course lasting three or four hours, falling
// back to the last course listed.
func shortCourse(courses []catalog.Course) catalog.Course {
	for _, c := range courses {
		if strings.Contains(c.Duration, "3h") || strings.Contains(c.Duration, "4h") {
			return c
		}
	}
	return courses[len(courses)-1]
}

func displayName(skill string) string {
	return strings.ReplaceAll(skill, "-", " ")
}

// titleName capitalizes every run of letters, so "node.js" becomes "Node.Js"
// and "ci/cd" becomes "Ci/Cd".
func titleName(skill string) string {
	name := displayName(skill)
	caser := cases.Title(language.Und)

	var b strings.Builder
	start := -1
	for i, r := range name {
		if isCased(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			b.WriteString(caser.String(name[start:i]))
			start = -1
		}
		b.WriteRune(r)
	}
	if start >= 0 {
		b.WriteString(caser.String(name[start:]))
	}

	return b.String()
}

func isCased(r rune) bool {
	return unicode.IsUpper(r) || unicode.IsLower(r) || unicode.IsTitle(r)
}
