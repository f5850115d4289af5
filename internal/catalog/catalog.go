package catalog

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

var (
	// ErrNoRequirements is returned when a role declares no required skills.
	ErrNoRequirements = errors.New("role has no required skills")
	// ErrNoCourses is returned when a remediation entry lists no courses.
	ErrNoCourses = errors.New("remediation entry has no courses")
)

// Role is a named, ordered list of required skills.
type Role struct {
	Name         string          `yaml:"name" json:"name"`
	Requirements []RequiredSkill `yaml:"requirements" json:"requirements"`
}

type document struct {
	Version     string                 `yaml:"version"`
	Roles       []Role                 `yaml:"roles"`
	Remediation map[string]Remediation `yaml:"remediation"`
}

// Catalog is a read-only snapshot of role requirements and remediation data.
// It is safe for concurrent use.
type Catalog struct {
	version     string
	roles       []Role
	index       map[string]int
	remediation map[string]Remediation
	fingerprint string
}

// New validates the given roles and remediation entries and builds a snapshot.
// Inputs are copied, later changes to them do not affect the catalog.
func New(version string, roles []Role, remediation map[string]Remediation) (*Catalog, error) {
	c := &Catalog{
		version:     strings.TrimSpace(version),
		roles:       make([]Role, 0, len(roles)),
		index:       make(map[string]int, len(roles)),
		remediation: make(map[string]Remediation, len(remediation)),
	}

	if len(roles) == 0 {
		return nil, errors.New("catalog declares no roles")
	}

	for _, role := range roles {
		name := strings.TrimSpace(role.Name)
		if name == "" {
			return nil, errors.New("role name must not be empty")
		}
		if _, ok := c.index[name]; ok {
			return nil, fmt.Errorf("duplicate role %q", name)
		}
		if len(role.Requirements) == 0 {
			return nil, fmt.Errorf("role %q: %w", name, ErrNoRequirements)
		}
		for i, req := range role.Requirements {
			if err := req.validate(); err != nil {
				return nil, fmt.Errorf("role %q requirement %d: %w", name, i, err)
			}
		}

		c.index[name] = len(c.roles)
		c.roles = append(c.roles, Role{Name: name, Requirements: slices.Clone(role.Requirements)})
	}

	for skill, entry := range remediation {
		if skill == "" || Canonical(skill) != skill {
			return nil, fmt.Errorf("remediation skill %q is not canonical", skill)
		}
		if len(entry.Courses) == 0 {
			return nil, fmt.Errorf("remediation %q: %w", skill, ErrNoCourses)
		}
		c.remediation[skill] = entry.clone()
	}

	fp, err := contentFingerprint(c.roles, c.remediation)
	if err != nil {
		return nil, err
	}
	c.fingerprint = fp

	return c, nil
}

// contentFingerprint hashes the validated roles and remediation entries.
// Map keys are encoded in sorted order, so equal content hashes equally.
func contentFingerprint(roles []Role, remediation map[string]Remediation) (string, error) {
	data, err := json.Marshal(struct {
		Roles       []Role                 `json:"roles"`
		Remediation map[string]Remediation `json:"remediation"`
	}{roles, remediation})
	if err != nil {
		return "", fmt.Errorf("fingerprint catalog: %w", err)
	}

	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Parse decodes a YAML catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	return New(doc.Version, doc.Roles, doc.Remediation)
}

// Load reads and parses the catalog file at path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file %q: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", path, err)
	}

	return c, nil
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse(defaultCatalog)
})

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Version returns the catalog version label, if any.
func (c *Catalog) Version() string { return c.version }

// Fingerprint returns a hex digest of the catalog content. Catalogs with the
// same version label but different requirements or remediation differ here.
func (c *Catalog) Fingerprint() string { return c.fingerprint }

// Roles returns role names in declaration order.
func (c *Catalog) Roles() []string {
	names := make([]string, 0, len(c.roles))
	for _, role := range c.roles {
		names = append(names, role.Name)
	}
	return names
}

// Len returns the number of roles.
func (c *Catalog) Len() int { return len(c.roles) }

// Has reports whether role is a known catalog key.
func (c *Catalog) Has(role string) bool {
	_, ok := c.index[role]
	return ok
}

// Requirements returns a copy of the ordered requirements of role.
func (c *Catalog) Requirements(role string) ([]RequiredSkill, bool) {
	i, ok := c.index[role]
	if !ok {
		return nil, false
	}
	return slices.Clone(c.roles[i].Requirements), true
}

// Remediation returns the remediation entry for a canonical skill.
func (c *Catalog) Remediation(skill string) (Remediation, bool) {
	entry, ok := c.remediation[skill]
	if !ok {
		return Remediation{}, false
	}
	return entry.clone(), true
}
