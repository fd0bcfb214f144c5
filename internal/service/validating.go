package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
)

// ValidatingEngine wraps the base Engine with the hypothesis validator:
// a genesis self-check of all seed beliefs at construction, and
// on-demand validation that promotes consistent pending schemas.
// Composition rather than subclassing keeps the base reasoning cycles
// reusable without the validation hooks.
type ValidatingEngine struct {
	*Engine
	validator *Validator
	logger    *zap.Logger
}

// NewValidatingEngine builds the decorated engine and immediately runs
// genesis validation over every seed schema.
func NewValidatingEngine(ctx context.Context, engine *Engine, validator *Validator, logger *zap.Logger) *ValidatingEngine {
	ve := &ValidatingEngine{
		Engine:    engine,
		validator: validator,
		logger:    logger,
	}
	ve.GenesisValidate(ctx)
	return ve
}

// GenesisValidate tests every schema in the graph — verified or not —
// against the oracle and corrects core beliefs found to be flawed.
// Each schema is tested independently: one schema's failure is logged
// and the remaining iteration continues.
func (ve *ValidatingEngine) GenesisValidate(ctx context.Context) {
	ve.mu.Lock()
	defer ve.mu.Unlock()

	ve.logger.Info("starting genesis validation")

	// Snapshot before any mutation in this pass.
	snapshot := ve.graph.AllSchemas(true)

	corrected := 0
	for name, view := range snapshot {
		schema := &domain.Schema{
			Name:       name,
			Parent:     view.Parent,
			Properties: view.Properties,
			Verified:   view.Verified,
		}

		verdict, err := ve.validator.Test(ctx, schema)
		if err != nil {
			ve.logger.Warn("genesis test failed, continuing",
				zap.String("schema", name), zap.Error(err))
			continue
		}
		if verdict.Consistent || !verdict.Applicable() {
			continue
		}

		ve.logger.Info("contradiction in core belief",
			zap.String("schema", name),
			zap.String("prediction", string(verdict.Prediction)),
			zap.String("reality", string(verdict.Reality)))

		trial := domain.Trial{
			Object:     name,
			Prediction: verdict.Prediction,
			Reality:    verdict.Reality,
			Consistent: false,
		}
		if corr, ok := ve.correct(trial); ok {
			if err := ve.learn(corr); err != nil {
				ve.logger.Warn("genesis correction failed",
					zap.String("schema", name), zap.Error(err))
				continue
			}
			corrected++
		}
	}

	ve.logger.Info("genesis validation complete", zap.Int("corrected", corrected))
}

// ValidatePending tests every unverified schema and promotes the ones
// whose predictions match reality. Inconsistent schemas are left
// untouched and only reported. A no-op when nothing is pending.
// Returns the verdict per tested schema name.
func (ve *ValidatingEngine) ValidatePending(ctx context.Context) map[string]domain.Verdict {
	ve.mu.Lock()
	defer ve.mu.Unlock()

	snapshot := ve.graph.AllSchemas(true)

	pending := make(map[string]domain.SchemaView)
	for name, view := range snapshot {
		if !view.Verified {
			pending[name] = view
		}
	}
	if len(pending) == 0 {
		ve.logger.Info("no unverified schemas to test")
		return nil
	}

	ve.logger.Info("validating unverified hypotheses", zap.Int("pending", len(pending)))

	verdicts := make(map[string]domain.Verdict, len(pending))
	for name, view := range pending {
		schema := &domain.Schema{
			Name:       name,
			Parent:     view.Parent,
			Properties: view.Properties,
			Verified:   false,
		}

		verdict, err := ve.validator.Test(ctx, schema)
		if err != nil {
			ve.logger.Warn("hypothesis test failed, continuing",
				zap.String("schema", name), zap.Error(err))
			continue
		}
		verdicts[name] = verdict

		if verdict.Consistent {
			if err := ve.graph.Verify(name); err != nil {
				ve.logger.Warn("promotion failed",
					zap.String("schema", name), zap.Error(err))
			}
		} else {
			ve.logger.Info("hypothesis inconsistent, remains unverified",
				zap.String("schema", name))
		}
	}
	return verdicts
}
