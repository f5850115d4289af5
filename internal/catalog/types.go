package catalog

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaxLevel is the highest proficiency level a skill can have.
const MaxLevel = 3

// Importance classifies a required skill.
type Importance string

const (
	Must Importance = "must"
	Nice Importance = "nice"
)

// ParseImportance accepts "must" or "nice" in any case.
func ParseImportance(s string) (Importance, error) {
	imp := Importance(strings.ToLower(strings.TrimSpace(s)))
	switch imp {
	case Must, Nice:
		return imp, nil
	default:
		return "", fmt.Errorf("unknown importance %q", s)
	}
}

// Weight is the scoring weight of a requirement with this importance.
func (i Importance) Weight() float64 {
	if i == Must {
		return 1.2
	}
	return 1.0
}

func (i *Importance) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}

	parsed, err := ParseImportance(raw)
	if err != nil {
		return err
	}

	*i = parsed
	return nil
}

// RequiredSkill is a single role requirement.
type RequiredSkill struct {
	Skill       string     `yaml:"skill" json:"skill"`
	TargetLevel int        `yaml:"target" json:"target_level"`
	Importance  Importance `yaml:"importance" json:"importance"`
}

func (r RequiredSkill) validate() error {
	if r.Skill == "" || Canonical(r.Skill) != r.Skill {
		return fmt.Errorf("skill %q is not canonical", r.Skill)
	}
	if r.TargetLevel <= 0 || r.TargetLevel > MaxLevel {
		return fmt.Errorf("skill %q: target level %d out of range 1..%d", r.Skill, r.TargetLevel, MaxLevel)
	}
	if _, err := ParseImportance(string(r.Importance)); err != nil {
		return fmt.Errorf("skill %q: %w", r.Skill, err)
	}
	return nil
}

// Course is a remediation course.
type Course struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Provider string `yaml:"provider" json:"provider"`
	Duration string `yaml:"duration" json:"duration"`
}

// Remediation lists ranked courses and micro-tasks for a skill.
type Remediation struct {
	Courses    []Course `yaml:"courses" json:"courses"`
	MicroTasks []string `yaml:"micro_tasks" json:"micro_tasks"`
}

func (r Remediation) clone() Remediation {
	return Remediation{
		Courses:    slices.Clone(r.Courses),
		MicroTasks: slices.Clone(r.MicroTasks),
	}
}

// Canonical turns a free-text skill name into the catalog join key:
// lowercase, with spaces and underscores replaced by hyphens.
func Canonical(skill string) string {
	s := strings.ToLower(skill)
	return strings.NewReplacer(" ", "-", "_", "-").Replace(s)
}
