package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/role-readiness/internal/catalog"
)

type stubRemediation map[string]catalog.Remediation

func (s stubRemediation) Remediation(skill string) (catalog.Remediation, bool) {
	r, ok := s[skill]
	return r, ok
}

func TestQuickWinsDataScientist(t *testing.T) {
	c := defaultCatalog(t)
	reqs, _ := c.Requirements("data-scientist")
	_, missing := Score(Normalize([]string{"python", "sql", "git"}), reqs)

	got := QuickWins(missing, c)

	assert.Equal(t, []string{
		"Foundation needed in statistics: Start with course STAT001 - 'Statistics for Data Science' (25h) (Level 0→3)",
		"Foundation needed in machine learning: Start with course ML001 - 'Machine Learning Course' (60h) (Level 0→3)",
	}, got)
}

func TestQuickWinsMicroTasks(t *testing.T) {
	c := defaultCatalog(t)
	reqs, _ := c.Requirements("data-scientist")
	skills := Normalize([]string{
		"python", "sql", "statistics", "machine learning", "pandas", "numpy", "scikit_learn",
		"data visualization", "jupyter", "tensorflow", "pytorch", "deep learning", "r",
	})
	_, missing := Score(skills, reqs)
	require.Len(t, missing, 5)

	got := QuickWins(missing, c)

	assert.Equal(t, []string{
		"Quick upskill in python: Write a script to read/write CSV files using pandas (1-2h) (Level 2→3)",
		"Quick upskill in sql: Write and run 10 SQL queries covering JOINs and aggregations (2h) (Level 2→3)",
	}, got)
}

func TestQuickWinsOnlyMustSkills(t *testing.T) {
	missing := []MissingSkill{
		{Skill: "r", CurrentLevel: 0, TargetLevel: 3, GapDegree: 3, Importance: catalog.Nice},
		{Skill: "incident-response", CurrentLevel: 1, TargetLevel: 2, GapDegree: 1, Importance: catalog.Must},
	}

	got := QuickWins(missing, stubRemediation{})

	assert.Equal(t, []string{
		"Quick upskill in Incident Response: Spend 2-4 hours on focused practice through tutorials and hands-on projects (Level 1→2)",
	}, got)
}

func TestQuickWinsNeverExceedTwo(t *testing.T) {
	c := defaultCatalog(t)

	for _, role := range c.Roles() {
		reqs, _ := c.Requirements(role)
		_, missing := Score(nil, reqs)
		assert.Len(t, QuickWins(missing, c), MaxQuickWins, role)
	}

	assert.Empty(t, QuickWins(nil, c))
}

func TestQuickWinsStableOrder(t *testing.T) {
	missing := []MissingSkill{
		{Skill: "a", GapDegree: 1, CurrentLevel: 1, TargetLevel: 2, Importance: catalog.Must},
		{Skill: "b", GapDegree: 2, CurrentLevel: 0, TargetLevel: 2, Importance: catalog.Must},
		{Skill: "c", GapDegree: 1, CurrentLevel: 1, TargetLevel: 2, Importance: catalog.Must},
		{Skill: "d", GapDegree: 2, CurrentLevel: 1, TargetLevel: 3, Importance: catalog.Must},
	}

	got := QuickWins(missing, stubRemediation{})

	require.Len(t, got, 2)
	assert.Contains(t, got[0], "Foundation needed in B:")
	assert.Contains(t, got[1], "Foundation needed in D:")
}

func TestQuickWinsCourseFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		courses []catalog.Course
		want    string
	}{
		{
			name: "first three or four hour course",
			courses: []catalog.Course{
				{ID: "K1", Name: "Long", Duration: "40h"},
				{ID: "K2", Name: "Short", Duration: "4h"},
				{ID: "K3", Name: "Shorter", Duration: "3h"},
			},
			want: "Quick upskill in k8s ops: Complete course K2 - 'Short' (4h) (Level 1→2)",
		},
		{
			name: "last course when nothing is short",
			courses: []catalog.Course{
				{ID: "K1", Name: "Long", Duration: "40h"},
				{ID: "K2", Name: "Medium", Duration: "10h"},
			},
			want: "Quick upskill in k8s ops: Complete course K2 - 'Medium' (10h) (Level 1→2)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			source := stubRemediation{"k8s-ops": {Courses: tt.courses}}
			missing := []MissingSkill{{Skill: "k8s-ops", CurrentLevel: 1, TargetLevel: 2, GapDegree: 1, Importance: catalog.Must}}

			assert.Equal(t, []string{tt.want}, QuickWins(missing, source))
		})
	}
}

func TestQuickWinsUnknownSkillFoundation(t *testing.T) {
	missing := []MissingSkill{{Skill: "ci-cd", CurrentLevel: 0, TargetLevel: 3, GapDegree: 3, Importance: catalog.Must}}

	got := QuickWins(missing, nil)

	assert.Equal(t, []string{
		"Foundation needed in Ci Cd: Dedicate 8-12 hours to comprehensive training through online courses or bootcamps (Level 0→3)",
	}, got)
}

func TestTitleName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"machine-learning":  "Machine Learning",
		"ci-cd":             "Ci Cd",
		"node.js":           "Node.Js",
		"ci/cd":             "Ci/Cd",
		"c++":               "C++",
		"3d-modeling":       "3D Modeling",
		"o'reilly":          "O'Reilly",
		"incident-response": "Incident Response",
		"":                  "",
	}

	for in, want := range tests {
		assert.Equal(t, want, titleName(in), in)
	}
}

func TestQuickWinsPunctuatedSkillFallback(t *testing.T) {
	missing := []MissingSkill{{Skill: "node.js", CurrentLevel: 1, TargetLevel: 2, GapDegree: 1, Importance: catalog.Must}}

	assert.Equal(t, []string{
		"Quick upskill in Node.Js: Spend 2-4 hours on focused practice through tutorials and hands-on projects (Level 1→2)",
	}, QuickWins(missing, stubRemediation{}))
}
