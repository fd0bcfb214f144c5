package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
)

// Perception turns free text into structured events the reasoning
// cycles can act on. All object names are normalized to lowercase
// underscore tokens before any name resolution runs.
type Perception struct {
	llm    domain.LLMClient
	logger *zap.Logger
}

func NewPerception(llm domain.LLMClient, logger *zap.Logger) *Perception {
	return &Perception{llm: llm, logger: logger}
}

// ParseSingleObject extracts the object of interest from a sentence
// like "The rubber ball falls off the table".
func (p *Perception) ParseSingleObject(ctx context.Context, text string) (string, error) {
	event, err := p.llm.ParseObjectEvent(ctx, text)
	if err != nil {
		return "", errors.Join(ErrUnparsableEvent, err)
	}
	if event == nil || event.Object == "" {
		return "", errors.Join(ErrUnparsableEvent, errors.New("no object in event"))
	}

	object := NormalizeName(event.Object)
	p.logger.Debug("parsed single-object event",
		zap.String("text", text),
		zap.String("object", object))
	return object, nil
}

// ParseToolUse extracts normalized tool and target references from a
// sentence like "A child hits a porcelain piggy bank with a toy hammer".
func (p *Perception) ParseToolUse(ctx context.Context, text string) (toolRef, targetRef string, err error) {
	event, err := p.llm.ParseToolUseEvent(ctx, text)
	if err != nil {
		return "", "", errors.Join(ErrUnparsableEvent, err)
	}
	if event == nil || event.Tool == "" || event.Target == "" {
		return "", "", errors.Join(ErrUnparsableEvent, errors.New("missing tool or target in event"))
	}

	toolRef = NormalizeName(event.Tool)
	targetRef = NormalizeName(event.Target)
	p.logger.Debug("parsed tool-use event",
		zap.String("text", text),
		zap.String("tool", toolRef),
		zap.String("target", targetRef))
	return toolRef, targetRef, nil
}

// NormalizeName converts a natural-language name to a
// schema-compatible key: "a porcelain Piggy Bank" -> "a_porcelain_piggy_bank".
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
