package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/culturiqai/nalanda/internal/domain"
	"github.com/culturiqai/nalanda/internal/llm"
)

func TestParseSingleObject(t *testing.T) {
	client := llm.NewMockClient()
	client.ObjectEventResponse = &domain.ObjectEvent{
		Action: "falls",
		Object: "Rubber Ball",
	}
	p := NewPerception(client, zap.NewNop())

	object, err := p.ParseSingleObject(context.Background(), "The rubber ball falls off the table")
	if err != nil {
		t.Fatalf("ParseSingleObject() error: %v", err)
	}
	if object != "rubber_ball" {
		t.Errorf("object = %q, want rubber_ball (normalized)", object)
	}
	if len(client.ObjectEventCalls) != 1 {
		t.Errorf("LLM called %d times, want 1", len(client.ObjectEventCalls))
	}
}

func TestParseSingleObjectUnparsable(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*llm.MockClient)
	}{
		{"llm error", func(c *llm.MockClient) {
			c.ObjectEventError = errors.New("model timeout")
		}},
		{"nil event", func(c *llm.MockClient) {
			c.ObjectEventResponse = nil
		}},
		{"empty object", func(c *llm.MockClient) {
			c.ObjectEventResponse = &domain.ObjectEvent{Action: "falls"}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := llm.NewMockClient()
			tt.setup(client)
			p := NewPerception(client, zap.NewNop())

			_, err := p.ParseSingleObject(context.Background(), "gibberish")
			if !errors.Is(err, ErrUnparsableEvent) {
				t.Errorf("error = %v, want ErrUnparsableEvent", err)
			}
		})
	}
}

func TestParseToolUse(t *testing.T) {
	client := llm.NewMockClient()
	client.ToolUseEventResponse = &domain.ToolUseEvent{
		Actor:  "child",
		Action: "hits",
		Tool:   "a Toy Hammer",
		Target: "a porcelain Piggy Bank",
	}
	p := NewPerception(client, zap.NewNop())

	tool, target, err := p.ParseToolUse(context.Background(),
		"A child hits a porcelain piggy bank with a toy hammer")
	if err != nil {
		t.Fatalf("ParseToolUse() error: %v", err)
	}
	if tool != "a_toy_hammer" {
		t.Errorf("tool = %q, want a_toy_hammer", tool)
	}
	if target != "a_porcelain_piggy_bank" {
		t.Errorf("target = %q, want a_porcelain_piggy_bank", target)
	}
}

func TestParseToolUseMissingParts(t *testing.T) {
	client := llm.NewMockClient()
	client.ToolUseEventResponse = &domain.ToolUseEvent{Tool: "hammer"}
	p := NewPerception(client, zap.NewNop())

	_, _, err := p.ParseToolUse(context.Background(), "someone hits something")
	if !errors.Is(err, ErrUnparsableEvent) {
		t.Errorf("error = %v, want ErrUnparsableEvent", err)
	}
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Rubber Ball", "rubber_ball"},
		{"  glass bottle  ", "glass_bottle"},
		{"a porcelain Piggy Bank", "a_porcelain_piggy_bank"},
		{"already_normalized", "already_normalized"},
	}
	for _, tt := range tests {
		if got := NormalizeName(tt.in); got != tt.want {
			t.Errorf("NormalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
