package readiness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/role-readiness/internal/cache"
	"github.com/spigell/role-readiness/internal/catalog"
	"github.com/spigell/role-readiness/internal/logger"
)

// DefaultTopRoles is how many roles AssessAll returns.
const DefaultTopRoles = 5

// ErrUnknownRole is returned when a role is not in the catalog.
var ErrUnknownRole = errors.New("unknown role")

// Engine scores skill profiles against a catalog and memoizes the results.
// It is safe for concurrent use when its store is.
type Engine struct {
	catalog  *catalog.Catalog
	store    cache.Store
	logger   *zap.Logger
	topRoles int
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore replaces the default unbounded in-memory store.
func WithStore(store cache.Store) Option {
	return func(e *Engine) {
		if store != nil {
			e.store = store
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTopRoles sets how many roles AssessAll returns. Non-positive values
// keep the default.
func WithTopRoles(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.topRoles = n
		}
	}
}

// New creates an engine over an immutable catalog snapshot.
func New(cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		catalog:  cat,
		logger:   zap.NewNop(),
		topRoles: DefaultTopRoles,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = cache.NewMemory(e.logger)
	}
	return e
}

// Catalog returns the catalog the engine scores against.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// AssessAll scores every catalog role and returns the best ones, highest score
// first. Equal scores keep catalog order.
func (e *Engine) AssessAll(ctx context.Context, skills []UserSkill, forceRefresh bool) (*MatchedRoles, error) {
	key := Fingerprint(skills)
	log := logger.WithFields(e.logger, logger.AssessmentFields(key, "")...)

	var result MatchedRoles
	if !forceRefresh && e.load(ctx, log, key, &result) {
		return &result, nil
	}

	start := time.Now()
	assessments := make([]RoleAssessment, 0, e.catalog.Len())
	for _, role := range e.catalog.Roles() {
		requirements, _ := e.catalog.Requirements(role)
		assessments = append(assessments, e.assess(role, skills, requirements))
	}

	slices.SortStableFunc(assessments, func(a, b RoleAssessment) int {
		switch {
		case a.ReadinessScore > b.ReadinessScore:
			return -1
		case a.ReadinessScore < b.ReadinessScore:
			return 1
		default:
			return 0
		}
	})

	if len(assessments) > e.topRoles {
		assessments = assessments[:e.topRoles]
	}

	result = MatchedRoles{MatchedRoles: assessments}
	if err := e.save(ctx, log, key, result); err != nil {
		return nil, err
	}

	log.Debug("assessed all roles",
		zap.Int("roles", e.catalog.Len()),
		zap.Int("skills", len(skills)),
		zap.Bool("force_refresh", forceRefresh),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &result, nil
}

// AssessRole scores a single role. A role outside the catalog fails with
// ErrUnknownRole.
func (e *Engine) AssessRole(ctx context.Context, skills []UserSkill, role string, forceRefresh bool) (*TargetRoleAssessment, error) {
	requirements, ok := e.catalog.Requirements(role)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}

	fingerprint := Fingerprint(skills)
	key := roleKey(fingerprint, role)
	log := logger.WithFields(e.logger, logger.AssessmentFields(fingerprint, role)...)

	var result TargetRoleAssessment
	if !forceRefresh && e.load(ctx, log, key, &result) {
		return &result, nil
	}

	result = TargetRoleAssessment{
		TargetRole:     role,
		RoleAssessment: e.assess(role, skills, requirements),
	}
	if err := e.save(ctx, log, key, result); err != nil {
		return nil, err
	}

	log.Debug("assessed role",
		zap.Float64("readiness_score", result.RoleAssessment.ReadinessScore),
		zap.Int("missing_skills", len(result.RoleAssessment.MissingSkills)),
		zap.Bool("force_refresh", forceRefresh),
	)

	return &result, nil
}

// AssessRaw normalizes raw skill names and runs AssessAll.
func (e *Engine) AssessRaw(ctx context.Context, raw []string, forceRefresh bool) (*MatchedRoles, error) {
	return e.AssessAll(ctx, Normalize(raw), forceRefresh)
}

// AssessRoleRaw normalizes raw skill names and runs AssessRole.
func (e *Engine) AssessRoleRaw(ctx context.Context, raw []string, role string, forceRefresh bool) (*TargetRoleAssessment, error) {
	return e.AssessRole(ctx, Normalize(raw), role, forceRefresh)
}

func (e *Engine) assess(role string, skills []UserSkill, requirements []catalog.RequiredSkill) RoleAssessment {
	score, missing := Score(skills, requirements)
	return RoleAssessment{
		RoleName:                role,
		ReadinessScore:          RoundScore(score),
		ReadinessLabel:          LabelFor(score),
		MissingSkills:           missing,
		QuickWinRecommendations: QuickWins(missing, e.catalog),
	}
}

// load decodes a cached result into out. Undecodable entries count as misses.
func (e *Engine) load(ctx context.Context, log *zap.Logger, key string, out any) bool {
	data, ok := e.store.Get(ctx, key)
	if !ok {
		return false
	}

	if err := json.Unmarshal(data, out); err != nil {
		log.Warn("discarding undecodable cache entry", zap.Error(err))
		return false
	}

	log.Debug("served from cache")
	return true
}

func (e *Engine) save(ctx context.Context, log *zap.Logger, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode assessment: %w", err)
	}

	e.store.Set(ctx, key, data)
	log.Debug("cached assessment", zap.Int("bytes", len(data)))
	return nil
}
