package readiness

import "github.com/spigell/role-readiness/internal/catalog"

// Label is the categorical readiness verdict for a role.
type Label string

const (
	LabelReady           Label = "Ready / Strong fit"
	LabelWorkable        Label = "Workable with targeted upskilling"
	LabelNeedsFoundation Label = "Needs foundation"
)

const (
	readyThreshold    = 0.8
	workableThreshold = 0.5
)

// LabelFor maps a readiness score to its label. Thresholds are inclusive.
func LabelFor(score float64) Label {
	switch {
	case score >= readyThreshold:
		return LabelReady
	case score >= workableThreshold:
		return LabelWorkable
	default:
		return LabelNeedsFoundation
	}
}

// UserSkill is a canonical skill with a proficiency level in [0,3].
type UserSkill struct {
	Skill string `json:"skill" mapstructure:"skill"`
	Level int    `json:"level" mapstructure:"level"`
}

// MissingSkill is a required skill the user holds below its target level.
type MissingSkill struct {
	Skill        string             `json:"skill" mapstructure:"skill"`
	CurrentLevel int                `json:"current_level" mapstructure:"current_level"`
	TargetLevel  int                `json:"target_level" mapstructure:"target_level"`
	GapDegree    int                `json:"gap_degree" mapstructure:"gap_degree"`
	Importance   catalog.Importance `json:"importance" mapstructure:"importance"`
}

// RoleAssessment is the readiness result for one role.
type RoleAssessment struct {
	RoleName                string         `json:"role_name" mapstructure:"role_name"`
	ReadinessScore          float64        `json:"readiness_score" mapstructure:"readiness_score"`
	ReadinessLabel          Label          `json:"readiness_label" mapstructure:"readiness_label"`
	MissingSkills           []MissingSkill `json:"missing_skills" mapstructure:"missing_skills"`
	QuickWinRecommendations []string       `json:"quick_win_recommendations" mapstructure:"quick_win_recommendations"`
}

// MatchedRoles is the multi-role result: the best scoring roles first.
type MatchedRoles struct {
	MatchedRoles []RoleAssessment `json:"matched_roles" mapstructure:"matched_roles"`
}

// TargetRoleAssessment is the single-role result.
type TargetRoleAssessment struct {
	TargetRole     string         `json:"target_role" mapstructure:"target_role"`
	RoleAssessment RoleAssessment `json:"role_assessment" mapstructure:"role_assessment"`
}
