package readiness

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spigell/role-readiness/internal/catalog"
)

func TestSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		assessment RoleAssessment
		want       string
	}{
		{
			name: "missing skills and truncated quick win",
			assessment: RoleAssessment{
				RoleName:       "data-scientist",
				ReadinessScore: 0.11,
				ReadinessLabel: LabelNeedsFoundation,
				MissingSkills: []MissingSkill{
					{Skill: "python", Importance: catalog.Must},
					{Skill: "sql", Importance: catalog.Must},
					{Skill: "statistics", Importance: catalog.Must},
				},
				QuickWinRecommendations: []string{
					"Foundation needed in statistics: Start with course STAT001 - 'Statistics for Data Science' (25h) (Level 0→3)",
				},
			},
			want: "You're 11% fit for data-scientist (Needs foundation). Missing: Python, Sql. Quick win: Start with course STAT001 -....",
		},
		{
			name: "percentage truncates",
			assessment: RoleAssessment{
				RoleName:       "data-scientist",
				ReadinessScore: 0.863,
				ReadinessLabel: LabelReady,
				MissingSkills:  []MissingSkill{{Skill: "machine-learning"}},
				QuickWinRecommendations: []string{
					"Quick upskill in python: Write a script to read/write CSV files using pandas (1-2h) (Level 2→3)",
				},
			},
			want: "You're 86% fit for data-scientist (Ready / Strong fit). Missing: Machine Learning. Quick win: Write a script to read/writ....",
		},
		{
			name: "nothing missing",
			assessment: RoleAssessment{
				RoleName:       "devops-engineer",
				ReadinessScore: 1,
				ReadinessLabel: LabelReady,
			},
			want: "You're 100% fit for devops-engineer (Ready / Strong fit).",
		},
		{
			name: "short action without prefix",
			assessment: RoleAssessment{
				RoleName:                "product-manager",
				ReadinessScore:          0.5,
				ReadinessLabel:          LabelWorkable,
				QuickWinRecommendations: []string{"Shadow a product review"},
			},
			want: "You're 50% fit for product-manager (Workable with targeted upskilling). Quick win: Shadow a product review.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Summary(tt.assessment))
		})
	}
}

func TestQuickWinActionLimits(t *testing.T) {
	exactly30 := "123456789012345678901234567890"
	assert.Equal(t, exactly30, quickWinAction("label: "+exactly30))
	assert.Equal(t, "123456789012345678901234567...", quickWinAction("label: "+exactly30+"1"))
	assert.Equal(t, "a: b", quickWinAction("x: a: b"))
}
