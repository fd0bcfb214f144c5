package llm

import (
	"context"

	"github.com/culturiqai/nalanda/internal/domain"
)

// MockClient is a configurable LLM client for testing and offline
// runs. Set the response fields to control what each method returns.
type MockClient struct {
	ExtractSchemasResponse map[string]domain.SchemaData
	ExtractSchemasError    error
	TopicSchemaResponse    *domain.SchemaData
	TopicSchemaError       error
	ObjectEventResponse    *domain.ObjectEvent
	ObjectEventError       error
	ToolUseEventResponse   *domain.ToolUseEvent
	ToolUseEventError      error
	ReportResponse         string
	ReportError            error

	// Call tracking for assertions
	ExtractSchemasCalls []string
	TopicSchemaCalls    []string
	ObjectEventCalls    []string
	ToolUseEventCalls   []string
	ReportCalls         []domain.Trial
}

func NewMockClient() *MockClient {
	return &MockClient{
		ExtractSchemasResponse: map[string]domain.SchemaData{},
		ReportResponse:         "Mock report.",
	}
}

func (m *MockClient) ExtractSchemas(ctx context.Context, text string) (map[string]domain.SchemaData, error) {
	m.ExtractSchemasCalls = append(m.ExtractSchemasCalls, text)
	return m.ExtractSchemasResponse, m.ExtractSchemasError
}

func (m *MockClient) ExtractSchemaFromTopic(ctx context.Context, topic string, contextChunks []string) (*domain.SchemaData, error) {
	m.TopicSchemaCalls = append(m.TopicSchemaCalls, topic)
	return m.TopicSchemaResponse, m.TopicSchemaError
}

func (m *MockClient) ParseObjectEvent(ctx context.Context, text string) (*domain.ObjectEvent, error) {
	m.ObjectEventCalls = append(m.ObjectEventCalls, text)
	return m.ObjectEventResponse, m.ObjectEventError
}

func (m *MockClient) ParseToolUseEvent(ctx context.Context, text string) (*domain.ToolUseEvent, error) {
	m.ToolUseEventCalls = append(m.ToolUseEventCalls, text)
	return m.ToolUseEventResponse, m.ToolUseEventError
}

func (m *MockClient) GenerateReport(ctx context.Context, trial domain.Trial) (string, error) {
	m.ReportCalls = append(m.ReportCalls, trial)
	return m.ReportResponse, m.ReportError
}
