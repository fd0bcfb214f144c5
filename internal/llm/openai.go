package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/culturiqai/nalanda/internal/domain"
)

const (
	openAIChatURL = "https://api.openai.com/v1/chat/completions"
	chatModel     = "gpt-4o-mini"
)

type OpenAIClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

// chat types for OpenAI API
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *OpenAIClient) complete(ctx context.Context, prompt string, temp float32) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       chatModel,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temp,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result chatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("unmarshal chat response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("chat API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("chat API returned no choices")
	}

	return strings.TrimSpace(result.Choices[0].Message.Content), nil
}

// schemaDataWire matches the JSON shape the prompts ask for.
type schemaDataWire struct {
	IsA        string            `json:"is_a"`
	Properties domain.Properties `json:"properties"`
}

func (w schemaDataWire) toData() domain.SchemaData {
	props := w.Properties
	if props == nil {
		props = domain.Properties{}
	}
	return domain.SchemaData{Parent: w.IsA, Properties: props}
}

func (c *OpenAIClient) ExtractSchemas(ctx context.Context, text string) (map[string]domain.SchemaData, error) {
	result, err := c.complete(ctx, fmt.Sprintf(extractSchemasPrompt, text), 0.2)
	if err != nil {
		return nil, fmt.Errorf("extract schemas: %w", err)
	}

	var wire map[string]schemaDataWire
	if err := json.Unmarshal([]byte(stripCodeFence(result)), &wire); err != nil {
		return nil, fmt.Errorf("parse extracted schemas: %w", err)
	}

	out := make(map[string]domain.SchemaData, len(wire))
	for name, w := range wire {
		out[name] = w.toData()
	}
	return out, nil
}

func (c *OpenAIClient) ExtractSchemaFromTopic(ctx context.Context, topic string, contextChunks []string) (*domain.SchemaData, error) {
	prompt := fmt.Sprintf(topicSchemaPrompt, topic, strings.Join(contextChunks, "\n\n"), topic)
	result, err := c.complete(ctx, prompt, 0.0)
	if err != nil {
		return nil, fmt.Errorf("extract topic schema: %w", err)
	}

	var wire schemaDataWire
	if err := json.Unmarshal([]byte(stripCodeFence(result)), &wire); err != nil {
		return nil, fmt.Errorf("parse topic schema: %w", err)
	}
	data := wire.toData()
	return &data, nil
}

func (c *OpenAIClient) ParseObjectEvent(ctx context.Context, text string) (*domain.ObjectEvent, error) {
	result, err := c.complete(ctx, fmt.Sprintf(objectEventPrompt, text), 0.0)
	if err != nil {
		return nil, fmt.Errorf("parse object event: %w", err)
	}

	var event domain.ObjectEvent
	if err := json.Unmarshal([]byte(stripCodeFence(result)), &event); err != nil {
		return nil, fmt.Errorf("decode object event: %w", err)
	}
	return &event, nil
}

func (c *OpenAIClient) ParseToolUseEvent(ctx context.Context, text string) (*domain.ToolUseEvent, error) {
	result, err := c.complete(ctx, fmt.Sprintf(toolUseEventPrompt, text), 0.0)
	if err != nil {
		return nil, fmt.Errorf("parse tool-use event: %w", err)
	}

	var event domain.ToolUseEvent
	if err := json.Unmarshal([]byte(stripCodeFence(result)), &event); err != nil {
		return nil, fmt.Errorf("decode tool-use event: %w", err)
	}
	return &event, nil
}

func (c *OpenAIClient) GenerateReport(ctx context.Context, trial domain.Trial) (string, error) {
	prompt := fmt.Sprintf(reportPrompt, trial.Prediction, trial.Reality, trial.Consistent, trial.Learning)
	result, err := c.complete(ctx, prompt, 0.7)
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}
	return result, nil
}

// stripCodeFence removes a markdown fence some models wrap around JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
