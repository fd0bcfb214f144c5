package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/store"
)

// mockOracle returns canned outcomes per schema name, or a fixed
// error for every call.
type mockOracle struct {
	drops    map[string]domain.Outcome
	toolUses map[string]domain.Outcome
	err      error
}

func (m *mockOracle) DropOutcome(ctx context.Context, schema *domain.Schema) (domain.Outcome, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.drops[schema.Name], nil
}

func (m *mockOracle) ToolUseOutcome(ctx context.Context, tool, target *domain.Schema) (domain.Outcome, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.toolUses[tool.Name+"/"+target.Name], nil
}

type mockProposer struct {
	text  map[string]domain.SchemaData
	topic *domain.SchemaData
	err   error
}

func (m *mockProposer) FromText(ctx context.Context, text string) (map[string]domain.SchemaData, error) {
	return m.text, m.err
}

func (m *mockProposer) FromTopic(ctx context.Context, topic string) (*domain.SchemaData, error) {
	return m.topic, m.err
}

func seededGraph() *store.BeliefGraph {
	g := store.NewBeliefGraph(nil)
	for name, data := range store.DefaultWorldview() {
		g.Add(name, data, true)
	}
	return g
}

func newTestEngine(graph *store.BeliefGraph, oracle domain.Oracle, proposer domain.Proposer) *Engine {
	return NewEngine(graph, oracle, proposer, zap.NewNop())
}

func TestReasonAboutUnknownObject(t *testing.T) {
	engine := newTestEngine(seededGraph(), &mockOracle{}, &mockProposer{})

	_, err := engine.ReasonAbout(context.Background(), "unicorn")
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("ReasonAbout(unicorn) error = %v, want ErrSchemaNotFound", err)
	}
}

func TestReasonAboutConsistentTrial(t *testing.T) {
	graph := seededGraph()
	oracle := &mockOracle{drops: map[string]domain.Outcome{
		"glass_bottle": domain.OutcomeShatter,
	}}
	engine := newTestEngine(graph, oracle, &mockProposer{})

	trial, err := engine.ReasonAbout(context.Background(), "glass_bottle")
	if err != nil {
		t.Fatalf("ReasonAbout() error: %v", err)
	}
	if !trial.Consistent {
		t.Errorf("Consistent = false, want true (prediction %s, reality %s)",
			trial.Prediction, trial.Reality)
	}

	// A consistent trial leaves the belief untouched.
	bottle, _ := graph.Get("glass_bottle")
	if !bottle.Properties.Bool("is_brittle", false) {
		t.Error("consistent trial changed is_brittle")
	}
}

func TestReasonAboutLearnsFromMismatch(t *testing.T) {
	graph := seededGraph()
	oracle := &mockOracle{drops: map[string]domain.Outcome{
		"rubber_ball": domain.OutcomeBounce,
	}}
	engine := newTestEngine(graph, oracle, &mockProposer{})

	// Seeded belief says brittle, so the prediction is shatter.
	trial, err := engine.ReasonAbout(context.Background(), "rubber_ball")
	if err != nil {
		t.Fatalf("ReasonAbout() error: %v", err)
	}
	if trial.Consistent {
		t.Fatal("Consistent = true, want mismatch")
	}
	if trial.Prediction != domain.OutcomeShatter || trial.Reality != domain.OutcomeBounce {
		t.Errorf("trial = predicted %s / saw %s, want shatter / bounce",
			trial.Prediction, trial.Reality)
	}
	if trial.Learning == "" {
		t.Error("Learning is empty after correction")
	}

	ball, _ := graph.Get("rubber_ball")
	if ball.Properties.Bool("is_brittle", true) {
		t.Error("is_brittle still true after correction")
	}
	if !ball.Verified {
		t.Error("correction unverified the schema")
	}

	// The corrected belief now predicts bounce.
	second, err := engine.ReasonAbout(context.Background(), "rubber_ball")
	if err != nil {
		t.Fatalf("second ReasonAbout() error: %v", err)
	}
	if !second.Consistent {
		t.Error("second trial inconsistent after correction")
	}
}

func TestReasonAboutOracleFailureFailsFast(t *testing.T) {
	graph := seededGraph()
	oracle := &mockOracle{err: errors.New("simulator offline")}
	engine := newTestEngine(graph, oracle, &mockProposer{})

	_, err := engine.ReasonAbout(context.Background(), "glass_bottle")
	if !errors.Is(err, ErrOracleUnavailable) {
		t.Errorf("error = %v, want ErrOracleUnavailable", err)
	}

	// No default outcome was guessed and no correction ran.
	bottle, _ := graph.Get("glass_bottle")
	if !bottle.Properties.Bool("is_brittle", false) {
		t.Error("oracle failure mutated beliefs")
	}
}

func TestReasonAboutCustomCorrectionStrategy(t *testing.T) {
	graph := seededGraph()
	oracle := &mockOracle{drops: map[string]domain.Outcome{
		"rubber_ball": domain.OutcomeBounce,
	}}
	engine := newTestEngine(graph, oracle, &mockProposer{})
	engine.SetCorrectionStrategy(func(trial domain.Trial) (Correction, bool) {
		return Correction{}, false
	})

	trial, err := engine.ReasonAbout(context.Background(), "rubber_ball")
	if err != nil {
		t.Fatalf("ReasonAbout() error: %v", err)
	}
	if trial.Consistent {
		t.Fatal("Consistent = true, want mismatch")
	}

	// Strategy declined, so the flawed belief survives.
	ball, _ := graph.Get("rubber_ball")
	if !ball.Properties.Bool("is_brittle", false) {
		t.Error("declined correction still mutated the belief")
	}
}

func TestReasonAboutToolUse(t *testing.T) {
	graph := seededGraph()
	graph.Add("toy_hammer", domain.SchemaData{
		Parent: "physical_object",
		Properties: domain.Properties{
			"material": domain.TextValue("plastic"),
			"mass_kg":  domain.NumberValue(0.3),
		},
	}, true)
	graph.Add("piggy_bank", domain.SchemaData{
		Parent: "physical_object",
		Properties: domain.Properties{
			"material":   domain.TextValue("porcelain"),
			"is_brittle": domain.BoolValue(true),
			"mass_kg":    domain.NumberValue(0.5),
		},
	}, true)

	oracle := &mockOracle{toolUses: map[string]domain.Outcome{
		"toy_hammer/piggy_bank": domain.OutcomeShatter,
	}}
	engine := newTestEngine(graph, oracle, &mockProposer{})

	// Raw references with articles and extra tokens resolve to the
	// known schema names.
	trial, err := engine.ReasonAboutToolUse(context.Background(),
		"a_toy_hammer", "a_porcelain_piggy_bank")
	if err != nil {
		t.Fatalf("ReasonAboutToolUse() error: %v", err)
	}
	if trial.Tool != "toy_hammer" || trial.Target != "piggy_bank" {
		t.Errorf("resolved = %s/%s, want toy_hammer/piggy_bank", trial.Tool, trial.Target)
	}
	if trial.Prediction != domain.OutcomeShatter {
		t.Errorf("Prediction = %s, want shatter", trial.Prediction)
	}
	if !trial.Consistent {
		t.Error("Consistent = false, want true")
	}
}

func TestReasonAboutToolUseUnresolvedReference(t *testing.T) {
	engine := newTestEngine(seededGraph(), &mockOracle{}, &mockProposer{})

	_, err := engine.ReasonAboutToolUse(context.Background(), "a_flobnar", "tile_floor")
	if !errors.Is(err, ErrUnresolvedReference) {
		t.Errorf("error = %v, want ErrUnresolvedReference", err)
	}
}

func TestResolveReference(t *testing.T) {
	names := []string{"hammer", "toy_hammer", "piggy_bank", "ball"}

	tests := []struct {
		ref   string
		want  string
		found bool
	}{
		{"a_toy_hammer", "toy_hammer", true},
		{"an_old_hammer", "hammer", true},
		{"a_porcelain_piggy_bank", "piggy_bank", true},
		{"toy_hammer", "toy_hammer", true},
		{"a_flobnar", "", false},
	}

	for _, tt := range tests {
		got, ok := resolveReference(tt.ref, names)
		if ok != tt.found || got != tt.want {
			t.Errorf("resolveReference(%q) = %q, %v; want %q, %v",
				tt.ref, got, ok, tt.want, tt.found)
		}
	}
}

func TestResolveReferenceDeterministicTieBreak(t *testing.T) {
	// Both names match and have equal length; the lexicographically
	// smaller one must win every time.
	names := []string{"cup_b", "cup_a"}

	for i := 0; i < 10; i++ {
		got, ok := resolveReference("a_cup_a_cup_b", names)
		if !ok || got != "cup_a" {
			t.Fatalf("resolveReference tie = %q, want cup_a", got)
		}
	}
}

func TestStripArticle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"a_toy_hammer", "toy_hammer"},
		{"an_apple", "apple"},
		{"apple", "apple"},
		{"analysis_report", "analysis_report"}, // "an" inside a word is not an article
	}
	for _, tt := range tests {
		if got := stripArticle(tt.in); got != tt.want {
			t.Errorf("stripArticle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAssimilate(t *testing.T) {
	graph := seededGraph()
	engine := newTestEngine(graph, &mockOracle{}, &mockProposer{})

	added := engine.Assimilate(map[string]domain.SchemaData{
		"ceramic_mug": {
			Parent:     "physical_object",
			Properties: domain.Properties{"is_brittle": domain.BoolValue(true)},
		},
		// Existing schema: skipped, never overwritten.
		"rubber_ball": {
			Properties: domain.Properties{"is_brittle": domain.BoolValue(true)},
		},
	})

	if len(added) != 1 || added[0] != "ceramic_mug" {
		t.Fatalf("Assimilate() added = %v, want [ceramic_mug]", added)
	}

	mug, err := graph.Get("ceramic_mug")
	if err != nil {
		t.Fatalf("Get(ceramic_mug) error: %v", err)
	}
	if mug.Verified {
		t.Error("assimilated schema arrived verified, want unverified")
	}

	ball, _ := graph.Get("rubber_ball")
	if got := ball.Properties.Number("mass_kg", 0); got != 0.2 {
		t.Error("existing schema was overwritten by assimilation")
	}
}

func TestAssimilateEmptyIsNoOp(t *testing.T) {
	graph := seededGraph()
	engine := newTestEngine(graph, &mockOracle{}, &mockProposer{})
	before := graph.Len()

	if added := engine.Assimilate(nil); added != nil {
		t.Errorf("Assimilate(nil) = %v, want nil", added)
	}
	if graph.Len() != before {
		t.Errorf("Len() = %d, want %d", graph.Len(), before)
	}
}

func TestAssimilateText(t *testing.T) {
	graph := seededGraph()
	proposer := &mockProposer{text: map[string]domain.SchemaData{
		"ceramic_mug": {Properties: domain.Properties{"is_brittle": domain.BoolValue(true)}},
	}}
	engine := newTestEngine(graph, &mockOracle{}, proposer)

	added, err := engine.AssimilateText(context.Background(), "A ceramic mug is brittle.")
	if err != nil {
		t.Fatalf("AssimilateText() error: %v", err)
	}
	if len(added) != 1 || added[0] != "ceramic_mug" {
		t.Errorf("added = %v, want [ceramic_mug]", added)
	}
}

func TestAssimilateTextProposerFailure(t *testing.T) {
	proposer := &mockProposer{err: errors.New("model timeout")}
	engine := newTestEngine(seededGraph(), &mockOracle{}, proposer)

	_, err := engine.AssimilateText(context.Background(), "anything")
	if !errors.Is(err, ErrProposerUnavailable) {
		t.Errorf("error = %v, want ErrProposerUnavailable", err)
	}
}

func TestAssimilateTopic(t *testing.T) {
	graph := seededGraph()
	proposer := &mockProposer{topic: &domain.SchemaData{
		Parent:     "physical_object",
		Properties: domain.Properties{"is_brittle": domain.BoolValue(true)},
	}}
	engine := newTestEngine(graph, &mockOracle{}, proposer)

	name, err := engine.AssimilateTopic(context.Background(), "Porcelain Vase")
	if err != nil {
		t.Fatalf("AssimilateTopic() error: %v", err)
	}
	if name != "porcelain_vase" {
		t.Errorf("name = %q, want porcelain_vase (slugged topic)", name)
	}

	vase, err := graph.Get("porcelain_vase")
	if err != nil {
		t.Fatalf("Get(porcelain_vase) error: %v", err)
	}
	if vase.Verified {
		t.Error("topic schema arrived verified, want unverified")
	}

	// Existing names are skipped.
	again, err := engine.AssimilateTopic(context.Background(), "porcelain vase")
	if err != nil {
		t.Fatalf("second AssimilateTopic() error: %v", err)
	}
	if again != "" {
		t.Errorf("second assimilation = %q, want empty (skipped)", again)
	}
}

func TestAssimilateTopicNilProposal(t *testing.T) {
	graph := seededGraph()
	engine := newTestEngine(graph, &mockOracle{}, &mockProposer{topic: nil})
	before := graph.Len()

	name, err := engine.AssimilateTopic(context.Background(), "nothing useful")
	if err != nil {
		t.Fatalf("AssimilateTopic() error: %v", err)
	}
	if name != "" || graph.Len() != before {
		t.Error("nil proposal changed the graph")
	}
}

func TestLearnUnknownSchema(t *testing.T) {
	engine := newTestEngine(seededGraph(), &mockOracle{}, &mockProposer{})

	err := engine.Learn("ghost", "is_brittle", domain.BoolValue(false))
	if !errors.Is(err, ErrSchemaNotFound) {
		t.Errorf("Learn(ghost) error = %v, want ErrSchemaNotFound", err)
	}
}
