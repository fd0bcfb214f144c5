package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/physics"
	"github.com/culturiqai/nalanda/internal/store"
)

func newValidatingEngine(t *testing.T, graph *store.BeliefGraph) *ValidatingEngine {
	t.Helper()
	logger := zap.NewNop()
	sandbox := physics.NewSandbox(logger)
	engine := NewEngine(graph, sandbox, &mockProposer{}, logger)
	return NewValidatingEngine(context.Background(), engine, NewValidator(sandbox, logger), logger)
}

func TestGenesisValidationCorrectsFlawedSeed(t *testing.T) {
	graph := seededGraph()
	newValidatingEngine(t, graph)

	// The seeded rubber_ball wrongly claims is_brittle=true; the
	// sandbox bounces it, so genesis must flip the belief.
	ball, err := graph.Get("rubber_ball")
	if err != nil {
		t.Fatalf("Get(rubber_ball) error: %v", err)
	}
	if ball.Properties.Bool("is_brittle", true) {
		t.Error("rubber_ball is_brittle still true after genesis validation")
	}
	if !ball.Verified {
		t.Error("genesis correction unverified rubber_ball")
	}

	// Correct beliefs are left alone.
	bottle, _ := graph.Get("glass_bottle")
	if !bottle.Properties.Bool("is_brittle", false) {
		t.Error("genesis validation flipped glass_bottle.is_brittle")
	}

	// tile_floor has no is_brittle and must stay untouched.
	floor, _ := graph.Get("tile_floor")
	if floor.Properties.Has("is_brittle") {
		t.Error("genesis validation invented is_brittle on tile_floor")
	}
}

func TestGenesisValidationSurvivesOracleFailure(t *testing.T) {
	graph := seededGraph()
	logger := zap.NewNop()
	oracle := &mockOracle{err: errors.New("simulator offline")}
	engine := NewEngine(graph, oracle, &mockProposer{}, logger)

	// Construction must not panic or abort; every schema's failure is
	// isolated and the flawed seed simply survives.
	NewValidatingEngine(context.Background(), engine, NewValidator(oracle, logger), logger)

	ball, _ := graph.Get("rubber_ball")
	if !ball.Properties.Bool("is_brittle", false) {
		t.Error("genesis corrected a belief without ground truth")
	}
}

func TestValidatePendingPromotesConsistent(t *testing.T) {
	graph := seededGraph()
	ve := newValidatingEngine(t, graph)

	// Consistent hypothesis: believed brittle, genuinely ceramic.
	graph.Add("ceramic_mug", domain.SchemaData{
		Parent: "physical_object",
		Properties: domain.Properties{
			"material":   domain.TextValue("ceramic"),
			"is_brittle": domain.BoolValue(true),
			"mass_kg":    domain.NumberValue(0.35),
		},
	}, false)
	// Inconsistent hypothesis: believed brittle, genuinely wood.
	graph.Add("wooden_spoon", domain.SchemaData{
		Parent: "physical_object",
		Properties: domain.Properties{
			"material":   domain.TextValue("wood"),
			"is_brittle": domain.BoolValue(true),
			"mass_kg":    domain.NumberValue(0.1),
		},
	}, false)

	verdicts := ve.ValidatePending(context.Background())
	if len(verdicts) != 2 {
		t.Fatalf("got %d verdicts, want 2: %v", len(verdicts), verdicts)
	}

	if v := verdicts["ceramic_mug"]; !v.Consistent {
		t.Errorf("ceramic_mug verdict = %+v, want consistent", v)
	}
	mug, _ := graph.Get("ceramic_mug")
	if !mug.Verified {
		t.Error("consistent hypothesis was not promoted")
	}

	if v := verdicts["wooden_spoon"]; v.Consistent {
		t.Errorf("wooden_spoon verdict = %+v, want inconsistent", v)
	}
	spoon, _ := graph.Get("wooden_spoon")
	if spoon.Verified {
		t.Error("inconsistent hypothesis was promoted")
	}
	// Inconsistent hypotheses are reported, never corrected here.
	if !spoon.Properties.Bool("is_brittle", false) {
		t.Error("ValidatePending mutated an inconsistent hypothesis")
	}
}

func TestValidatePendingUntestableIsVacuouslyConsistent(t *testing.T) {
	graph := seededGraph()
	ve := newValidatingEngine(t, graph)

	graph.Add("mystery_box", domain.SchemaData{
		Parent:     "physical_object",
		Properties: domain.Properties{"material": domain.TextValue("cardboard")},
	}, false)

	verdicts := ve.ValidatePending(context.Background())
	v, ok := verdicts["mystery_box"]
	if !ok {
		t.Fatalf("no verdict for mystery_box: %v", verdicts)
	}
	if !v.Consistent || v.Applicable() {
		t.Errorf("verdict = %+v, want vacuously consistent and not applicable", v)
	}

	box, _ := graph.Get("mystery_box")
	if !box.Verified {
		t.Error("untestable hypothesis was not promoted")
	}
}

func TestValidatePendingNothingPending(t *testing.T) {
	ve := newValidatingEngine(t, seededGraph())

	if verdicts := ve.ValidatePending(context.Background()); verdicts != nil {
		t.Errorf("ValidatePending() = %v, want nil when nothing is pending", verdicts)
	}
}
