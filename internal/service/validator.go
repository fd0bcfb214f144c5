package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/physics"
)

var (
	ErrSchemaNotFound      = errors.New("schema not found")
	ErrUnresolvedReference = errors.New("unresolved reference")
	ErrOracleUnavailable   = errors.New("oracle unavailable")
	ErrProposerUnavailable = errors.New("proposer unavailable")
	ErrUnparsableEvent     = errors.New("unparsable event")
)

// Validator tests a single schema's consistency: predict the drop
// outcome from the believed properties, ask the oracle what really
// happens, and compare. Pure evaluation, no side effects.
type Validator struct {
	oracle domain.Oracle
	logger *zap.Logger
}

func NewValidator(oracle domain.Oracle, logger *zap.Logger) *Validator {
	return &Validator{oracle: oracle, logger: logger}
}

// Test evaluates one schema. A schema without an is_brittle property
// cannot be exercised by the drop test and is vacuously consistent:
// the verdict carries OutcomeNotApplicable on both sides so untestable
// hypotheses never block validation.
func (v *Validator) Test(ctx context.Context, schema *domain.Schema) (domain.Verdict, error) {
	if !schema.Properties.Has("is_brittle") {
		v.logger.Debug("hypothesis not testable by drop rule",
			zap.String("schema", schema.Name))
		return domain.Verdict{
			Consistent: true,
			Prediction: domain.OutcomeNotApplicable,
			Reality:    domain.OutcomeNotApplicable,
		}, nil
	}

	prediction := physics.PredictDrop(schema)

	reality, err := v.oracle.DropOutcome(ctx, schema)
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("ground truth for %q: %w",
			schema.Name, errors.Join(ErrOracleUnavailable, err))
	}

	verdict := domain.Verdict{
		Consistent: prediction == reality,
		Prediction: prediction,
		Reality:    reality,
	}

	v.logger.Debug("hypothesis tested",
		zap.String("schema", schema.Name),
		zap.String("prediction", string(prediction)),
		zap.String("reality", string(reality)),
		zap.Bool("consistent", verdict.Consistent),
	)
	return verdict, nil
}
