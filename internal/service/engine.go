package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/physics"
	"github.com/culturiqai/nalanda/internal/store"
)

// Correction names one property revision derived from a failed trial.
type Correction struct {
	Schema   string
	Property string
	Value    domain.Value
}

// CorrectionStrategy maps a mismatched trial to the belief correction
// it warrants. Returning false means no correction applies.
type CorrectionStrategy func(trial domain.Trial) (Correction, bool)

// DefaultCorrection is the shipped credit-assignment rule: a drop
// mismatch is always blamed on is_brittle, inferred from whether
// reality shattered. Other properties are never targeted; richer
// strategies can be injected without touching the cycle code.
func DefaultCorrection(trial domain.Trial) (Correction, bool) {
	if trial.Object == "" {
		return Correction{}, false
	}
	return Correction{
		Schema:   trial.Object,
		Property: "is_brittle",
		Value:    domain.BoolValue(trial.Reality == domain.OutcomeShatter),
	}, true
}

// Engine is the base belief-revision controller: single-object
// reasoning, tool-use reasoning, learning, and assimilation of
// proposed schemas. It is the only component that mutates the graph
// after construction. Cycles are serialized by an internal mutex;
// independent Engine instances share no state.
type Engine struct {
	mu       sync.Mutex
	graph    domain.BeliefStore
	oracle   domain.Oracle
	proposer domain.Proposer
	correct  CorrectionStrategy
	logger   *zap.Logger
}

func NewEngine(graph domain.BeliefStore, oracle domain.Oracle, proposer domain.Proposer, logger *zap.Logger) *Engine {
	return &Engine{
		graph:    graph,
		oracle:   oracle,
		proposer: proposer,
		correct:  DefaultCorrection,
		logger:   logger,
	}
}

// SetCorrectionStrategy replaces the credit-assignment rule.
func (e *Engine) SetCorrectionStrategy(s CorrectionStrategy) {
	if s != nil {
		e.correct = s
	}
}

// Graph exposes the underlying store for read-only callers.
func (e *Engine) Graph() domain.BeliefStore {
	return e.graph
}

// ReasonAbout runs one reasoning cycle for a single object: predict
// the drop outcome from current beliefs, obtain ground truth, compare,
// and on mismatch revise the belief in place. A trial is returned even
// when a correction ran; unknown objects fail with ErrSchemaNotFound.
func (e *Engine) ReasonAbout(ctx context.Context, objectName string) (domain.Trial, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reasonAboutLocked(ctx, objectName)
}

func (e *Engine) reasonAboutLocked(ctx context.Context, objectName string) (domain.Trial, error) {
	schema, err := e.graph.Get(objectName)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Trial{}, fmt.Errorf("%w: %q", ErrSchemaNotFound, objectName)
		}
		return domain.Trial{}, err
	}

	prediction := physics.PredictDrop(schema)

	reality, err := e.oracle.DropOutcome(ctx, schema)
	if err != nil {
		// Never guess a default outcome when ground truth is missing.
		return domain.Trial{}, fmt.Errorf("ground truth for %q: %w",
			objectName, errors.Join(ErrOracleUnavailable, err))
	}

	trial := domain.Trial{
		Object:     objectName,
		Prediction: prediction,
		Reality:    reality,
		Consistent: prediction == reality,
	}

	if trial.Consistent {
		trial.Learning = "beliefs consistent with reality; no update needed"
		e.logger.Info("prediction matched reality",
			zap.String("object", objectName),
			zap.String("outcome", string(reality)))
		return trial, nil
	}

	e.logger.Info("conflict between prediction and reality",
		zap.String("object", objectName),
		zap.String("prediction", string(prediction)),
		zap.String("reality", string(reality)))

	if corr, ok := e.correct(trial); ok {
		if err := e.learn(corr); err != nil {
			return trial, err
		}
		trial.Learning = fmt.Sprintf("updated belief about %q: %q is now %s",
			corr.Schema, corr.Property, corr.Value.String())
	}
	return trial, nil
}

// ReasonAboutToolUse resolves the raw tool and target references
// against known schema names, predicts the strike outcome, and checks
// it against ground truth. No belief correction runs on this path:
// which of the several involved properties caused a mismatch is an
// unresolved credit-assignment question, so the cycle only reports.
func (e *Engine) ReasonAboutToolUse(ctx context.Context, toolRef, targetRef string) (domain.Trial, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	names := make([]string, 0, e.graph.Len())
	for name := range e.graph.AllSchemas(false) {
		names = append(names, name)
	}

	toolName, ok := resolveReference(toolRef, names)
	if !ok {
		return domain.Trial{}, fmt.Errorf("%w: no schema matches tool %q", ErrUnresolvedReference, toolRef)
	}
	targetName, ok := resolveReference(targetRef, names)
	if !ok {
		return domain.Trial{}, fmt.Errorf("%w: no schema matches target %q", ErrUnresolvedReference, targetRef)
	}

	tool, err := e.graph.Get(toolName)
	if err != nil {
		return domain.Trial{}, err
	}
	target, err := e.graph.Get(targetName)
	if err != nil {
		return domain.Trial{}, err
	}

	prediction := physics.PredictToolUse(tool, target)

	reality, err := e.oracle.ToolUseOutcome(ctx, tool, target)
	if err != nil {
		return domain.Trial{}, fmt.Errorf("ground truth for %q on %q: %w",
			toolName, targetName, errors.Join(ErrOracleUnavailable, err))
	}

	trial := domain.Trial{
		Tool:       toolName,
		Target:     targetName,
		Prediction: prediction,
		Reality:    reality,
		Consistent: prediction == reality,
	}

	e.logger.Info("tool-use trial complete",
		zap.String("tool", toolName),
		zap.String("target", targetName),
		zap.String("prediction", string(prediction)),
		zap.String("reality", string(reality)),
		zap.Bool("consistent", trial.Consistent))
	return trial, nil
}

// Learn sets a property on an existing schema. This is the belief
// correction primitive; it does not unverify the schema.
func (e *Engine) Learn(objectName, propertyKey string, value domain.Value) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.learn(Correction{Schema: objectName, Property: propertyKey, Value: value})
}

func (e *Engine) learn(corr Correction) error {
	err := e.graph.UpdateProperty(corr.Schema, corr.Property, corr.Value)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("%w: %q", ErrSchemaNotFound, corr.Schema)
		}
		return err
	}
	e.logger.Info("belief corrected",
		zap.String("schema", corr.Schema),
		zap.String("property", corr.Property),
		zap.String("value", corr.Value.String()))
	return nil
}

// Assimilate adds each candidate not already in the graph as an
// unverified schema. Existing names are skipped, never overwritten;
// empty input is a no-op. Returns the names actually added.
func (e *Engine) Assimilate(candidates map[string]domain.SchemaData) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assimilateLocked(candidates)
}

func (e *Engine) assimilateLocked(candidates map[string]domain.SchemaData) []string {
	var added []string
	for name, data := range candidates {
		if _, err := e.graph.Get(name); err == nil {
			e.logger.Debug("schema already exists, skipping", zap.String("schema", name))
			continue
		}
		e.graph.Add(name, data, false)
		added = append(added, name)
	}
	sort.Strings(added)
	if len(added) > 0 {
		e.logger.Info("assimilation complete", zap.Int("added", len(added)))
	}
	return added
}

// AssimilateText asks the proposer for candidate schemas from raw text
// and assimilates them. An empty proposal is a no-op; a proposer
// failure surfaces as ErrProposerUnavailable.
func (e *Engine) AssimilateText(ctx context.Context, text string) ([]string, error) {
	candidates, err := e.proposer.FromText(ctx, text)
	if err != nil {
		return nil, errors.Join(ErrProposerUnavailable, err)
	}
	if len(candidates) == 0 {
		e.logger.Info("no new schemas proposed")
		return nil, nil
	}
	return e.Assimilate(candidates), nil
}

// AssimilateTopic proposes one schema for a topic via corpus-grounded
// extraction and assimilates it under the slugged topic name.
func (e *Engine) AssimilateTopic(ctx context.Context, topic string) (string, error) {
	data, err := e.proposer.FromTopic(ctx, topic)
	if err != nil {
		return "", errors.Join(ErrProposerUnavailable, err)
	}
	if data == nil {
		e.logger.Info("no schema proposed for topic", zap.String("topic", topic))
		return "", nil
	}

	name := NormalizeName(topic)
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.graph.Get(name); err == nil {
		e.logger.Debug("schema already exists, skipping", zap.String("schema", name))
		return "", nil
	}
	e.graph.Add(name, *data, false)
	return name, nil
}

// resolveReference maps a raw normalized reference (a_porcelain_piggy_bank)
// to a known schema name: strip one leading indefinite-article token,
// then pick the known name contained in the stripped string. When
// several names match, the longest wins; equal lengths break to the
// lexicographically smallest so resolution is fully deterministic.
func resolveReference(ref string, names []string) (string, bool) {
	stripped := stripArticle(ref)

	best := ""
	for _, name := range names {
		if name == "" || !strings.Contains(stripped, name) {
			continue
		}
		if len(name) > len(best) || (len(name) == len(best) && name < best) {
			best = name
		}
	}
	return best, best != ""
}

func stripArticle(ref string) string {
	for _, article := range []string{"a_", "an_"} {
		if strings.HasPrefix(ref, article) {
			return strings.TrimPrefix(ref, article)
		}
	}
	return ref
}
