package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("loading default catalog: %v", err)
	}

	expected := []string{
		"data-scientist",
		"ml-engineer",
		"ai-engineer",
		"cloud-architect",
		"devops-engineer",
		"full-stack-developer",
		"cybersecurity-analyst",
		"product-manager",
	}

	roles := c.Roles()
	if len(roles) != len(expected) {
		t.Fatalf("expected %d roles, got %d", len(expected), len(roles))
	}
	for i, name := range expected {
		if roles[i] != name {
			t.Fatalf("role %d: expected %q, got %q", i, name, roles[i])
		}
	}

	reqs, ok := c.Requirements("data-scientist")
	if !ok {
		t.Fatalf("expected data-scientist requirements")
	}
	if len(reqs) != 13 {
		t.Fatalf("expected 13 requirements, got %d", len(reqs))
	}
	if reqs[2] != (RequiredSkill{Skill: "statistics", TargetLevel: 3, Importance: Must}) {
		t.Fatalf("unexpected statistics requirement: %+v", reqs[2])
	}
	if reqs[12].Importance != Nice {
		t.Fatalf("expected r to be nice to have, got %q", reqs[12].Importance)
	}

	python, ok := c.Remediation("python")
	if !ok {
		t.Fatalf("expected python remediation entry")
	}
	if python.Courses[0].ID != "PY001" || python.Courses[0].Duration != "40h" {
		t.Fatalf("unexpected first python course: %+v", python.Courses[0])
	}
	if len(python.MicroTasks) != 3 {
		t.Fatalf("expected 3 python micro tasks, got %d", len(python.MicroTasks))
	}

	if _, ok := c.Remediation("pandas"); ok {
		t.Fatalf("did not expect pandas remediation entry")
	}
}

func TestRequirementsAreCopies(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("loading default catalog: %v", err)
	}

	reqs, _ := c.Requirements("ml-engineer")
	reqs[0].TargetLevel = 1

	again, _ := c.Requirements("ml-engineer")
	if again[0].TargetLevel != 3 {
		t.Fatalf("catalog snapshot was mutated through a returned slice")
	}
}

func TestParseValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr string
		is      error
	}{
		{
			name:    "no roles",
			doc:     "roles: []",
			wantErr: "no roles",
		},
		{
			name:    "empty requirements",
			doc:     "roles:\n  - name: empty\n    requirements: []",
			is:      ErrNoRequirements,
			wantErr: "empty",
		},
		{
			name:    "unknown importance",
			doc:     "roles:\n  - name: r\n    requirements:\n      - {skill: go, target: 2, importance: maybe}",
			wantErr: "unknown importance",
		},
		{
			name:    "zero target",
			doc:     "roles:\n  - name: r\n    requirements:\n      - {skill: go, target: 0, importance: must}",
			wantErr: "out of range",
		},
		{
			name:    "non canonical skill",
			doc:     "roles:\n  - name: r\n    requirements:\n      - {skill: Machine Learning, target: 2, importance: must}",
			wantErr: "not canonical",
		},
		{
			name:    "duplicate role",
			doc:     "roles:\n  - name: r\n    requirements:\n      - {skill: go, target: 2, importance: must}\n  - name: r\n    requirements:\n      - {skill: go, target: 2, importance: must}",
			wantErr: "duplicate role",
		},
		{
			name:    "remediation without courses",
			doc:     "roles:\n  - name: r\n    requirements:\n      - {skill: go, target: 2, importance: must}\nremediation:\n  go:\n    micro_tasks: [\"write a cli\"]",
			is:      ErrNoCourses,
			wantErr: "go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Fatalf("expected errors.Is(%v), got %v", tt.is, err)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	doc := `version: test
roles:
  - name: go-developer
    requirements:
      - {skill: go, target: 3, importance: MUST}
      - {skill: docker, target: 2, importance: nice}
remediation:
  go:
    courses:
      - {id: GO001, name: Tour of Go, provider: go.dev, duration: 4h}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("writing catalog: %v", err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	if c.Version() != "test" {
		t.Fatalf("unexpected version %q", c.Version())
	}
	if !c.Has("go-developer") || c.Has("rust-developer") {
		t.Fatalf("unexpected role membership")
	}

	reqs, _ := c.Requirements("go-developer")
	if reqs[0].Importance != Must {
		t.Fatalf("expected importance to be parsed case-insensitively, got %q", reqs[0].Importance)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestCanonical(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Python":           "python",
		"Machine Learning": "machine-learning",
		"scikit_learn":     "scikit-learn",
		"CI CD":            "ci-cd",
		"":                 "",
	}

	for input, want := range tests {
		if got := Canonical(input); got != want {
			t.Fatalf("Canonical(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestImportanceWeight(t *testing.T) {
	if Must.Weight() != 1.2 {
		t.Fatalf("expected must weight 1.2, got %v", Must.Weight())
	}
	if Nice.Weight() != 1.0 {
		t.Fatalf("expected nice weight 1.0, got %v", Nice.Weight())
	}
}

func TestFingerprint(t *testing.T) {
	doc := func(target string) []byte {
		return []byte(`version: "2024.1"
roles:
  - name: go-developer
    requirements:
      - {skill: go, target: ` + target + `, importance: must}
`)
	}

	a, err := Parse(doc("3"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	b, err := Parse(doc("2"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	again, err := Parse(doc("3"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if a.Version() != b.Version() {
		t.Fatalf("expected equal versions, got %q and %q", a.Version(), b.Version())
	}
	if a.Fingerprint() == b.Fingerprint() {
		t.Fatal("catalogs with different targets must not share a fingerprint")
	}
	if a.Fingerprint() != again.Fingerprint() {
		t.Fatal("equal content must fingerprint equally")
	}
	if len(a.Fingerprint()) != 64 {
		t.Fatalf("unexpected fingerprint %q", a.Fingerprint())
	}

	withCourse, err := New("2024.1", []Role{{
		Name:         "go-developer",
		Requirements: []RequiredSkill{{Skill: "go", TargetLevel: 3, Importance: Must}},
	}}, map[string]Remediation{"go": {Courses: []Course{{ID: "GO1", Name: "Tour", Duration: "3h"}}}})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if withCourse.Fingerprint() == a.Fingerprint() {
		t.Fatal("remediation changes must change the fingerprint")
	}
}
