package physics

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
)

// Ground-truth classification tables. The sandbox judges objects by
// what they are made of, never by the stored is_brittle belief — the
// gap between those two is exactly what the engine learns from.
var (
	brittleMaterials = []string{"glass", "porcelain", "ceramic"}
	hardMaterials    = []string{"plastic", "metal", "steel", "wood", "stone"}
)

// Drop outcome needs a minimum impact before even a brittle object
// shatters; below it the object just bounces.
const sandboxShatterForce = 5.0

// Sandbox is the ground-truth oracle implementation. It stands in for
// an external physics simulator with deterministic material rules.
type Sandbox struct {
	logger *zap.Logger
}

func NewSandbox(logger *zap.Logger) *Sandbox {
	return &Sandbox{logger: logger}
}

// DropOutcome reports what really happens when the object is dropped.
func (s *Sandbox) DropOutcome(ctx context.Context, schema *domain.Schema) (domain.Outcome, error) {
	brittle := actuallyBrittle(schema)
	mass := schema.Properties.Number("mass_kg", defaultMass)
	impact := mass * Gravity * DropHeight

	outcome := domain.OutcomeBounce
	if brittle && impact > sandboxShatterForce {
		outcome = domain.OutcomeShatter
	}

	s.logger.Debug("sandbox drop",
		zap.String("schema", schema.Name),
		zap.Bool("actually_brittle", brittle),
		zap.Float64("impact", impact),
		zap.String("outcome", string(outcome)),
	)
	return outcome, nil
}

// ToolUseOutcome reports what really happens when tool strikes target:
// a hard tool breaks a genuinely brittle target.
func (s *Sandbox) ToolUseOutcome(ctx context.Context, tool, target *domain.Schema) (domain.Outcome, error) {
	toolHard := materialIn(tool, hardMaterials)
	targetBrittle := actuallyBrittle(target)

	outcome := domain.OutcomeNotShattered
	if toolHard && targetBrittle {
		outcome = domain.OutcomeShatter
	}

	s.logger.Debug("sandbox tool use",
		zap.String("tool", tool.Name),
		zap.String("target", target.Name),
		zap.Bool("tool_hard", toolHard),
		zap.Bool("target_brittle", targetBrittle),
		zap.String("outcome", string(outcome)),
	)
	return outcome, nil
}

// actuallyBrittle checks the material property first, then falls back
// to material words embedded in the schema name (glass_bottle).
func actuallyBrittle(schema *domain.Schema) bool {
	if materialIn(schema, brittleMaterials) {
		return true
	}
	name := strings.ToLower(schema.Name)
	for _, mat := range brittleMaterials {
		if strings.Contains(name, mat) {
			return true
		}
	}
	return false
}

func materialIn(schema *domain.Schema, materials []string) bool {
	material := strings.ToLower(schema.Properties.Text("material", ""))
	if material == "" {
		return false
	}
	for _, mat := range materials {
		if strings.Contains(material, mat) {
			return true
		}
	}
	return false
}
