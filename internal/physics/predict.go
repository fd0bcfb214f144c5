// Package physics holds the engine's deterministic reasoning rules and
// the sandbox that supplies ground truth to test them against.
package physics

import "github.com/culturiqai/nalanda/internal/domain"

// Prediction rule constants. The drop test models a 2m drop under
// standard gravity with a fixed proxy scaling.
const (
	Gravity          = 9.8
	DropHeight       = 2.0
	ImpactScale      = 10.0
	ShatterThreshold = 15.0

	// ToolMassThreshold is the minimum tool mass able to shatter a
	// brittle target in the tool-use rule.
	ToolMassThreshold = 0.2

	defaultMass     = 1.0
	defaultToolMass = 0.1
)

// ImpactProxy estimates impact severity for a dropped object:
// potential energy (m*g*h) scaled by a fixed factor. Note the result
// exceeds ShatterThreshold for any mass above ~0.077kg, so within the
// usual mass range the drop rule is effectively mass-insensitive; that
// is the formula's actual behavior, not an accident of tuning.
func ImpactProxy(massKg float64) float64 {
	return massKg * Gravity * DropHeight * ImpactScale
}

// PredictDrop predicts the outcome of dropping the object described by
// schema, based purely on its believed properties. Missing properties
// default (is_brittle=false, mass_kg=1.0); no input fails.
func PredictDrop(schema *domain.Schema) domain.Outcome {
	brittle := schema.Properties.Bool("is_brittle", false)
	mass := schema.Properties.Number("mass_kg", defaultMass)

	if brittle && ImpactProxy(mass) > ShatterThreshold {
		return domain.OutcomeShatter
	}
	return domain.OutcomeBounce
}

// PredictToolUse predicts the outcome of striking target with tool:
// a brittle target shatters under any tool heavier than the threshold.
// Both schemas must already be resolved by name matching; this rule
// does no matching itself.
func PredictToolUse(tool, target *domain.Schema) domain.Outcome {
	brittle := target.Properties.Bool("is_brittle", false)
	toolMass := tool.Properties.Number("mass_kg", defaultToolMass)

	if brittle && toolMass > ToolMassThreshold {
		return domain.OutcomeShatter
	}
	return domain.OutcomeNotShattered
}
