package domain

import "context"

// BeliefStore is the belief graph contract. Add always succeeds and
// overwrites an existing node last-write-wins; the remaining mutators
// surface a not-found error for unknown names instead of silently
// doing nothing. Get hands out the live node for the single writer's
// own cycles; any reader that outlives the call, such as a response
// encoder, must take a detached copy via GetRecord instead.
type BeliefStore interface {
	Add(name string, data SchemaData, verified bool)
	Get(name string) (*Schema, error)
	GetRecord(name string) (SchemaRecord, error)
	UpdateProperty(name, key string, value Value) error
	Verify(name string) error
	AllSchemas(includeProperties bool) map[string]SchemaView
	Len() int
}

// Oracle supplies ground-truth outcomes. Implementations must be
// deterministic functions of the schema's actual characteristics
// (material, mass), never of the stored is_brittle belief — that
// divergence is what makes the oracle a meaningful test.
type Oracle interface {
	DropOutcome(ctx context.Context, schema *Schema) (Outcome, error)
	ToolUseOutcome(ctx context.Context, tool, target *Schema) (Outcome, error)
}

// Proposer produces candidate schemas from unstructured text. An empty
// map (or nil topic result) signals nothing to assimilate.
type Proposer interface {
	FromText(ctx context.Context, text string) (map[string]SchemaData, error)
	FromTopic(ctx context.Context, topic string) (*SchemaData, error)
}

// SnapshotStore persists the belief graph as flat schema records.
type SnapshotStore interface {
	Load(ctx context.Context) ([]SchemaRecord, error)
	Save(ctx context.Context, records []SchemaRecord) error
}

// CorpusSearcher retrieves the text chunks most relevant to a query
// embedding, used to ground topic assimilation.
type CorpusSearcher interface {
	Search(ctx context.Context, embedding []float32, k int) ([]string, error)
}

// LLMClient is the language-model boundary: schema proposal, event
// parsing, and narrative reporting. The core only consumes it.
type LLMClient interface {
	ExtractSchemas(ctx context.Context, text string) (map[string]SchemaData, error)
	ExtractSchemaFromTopic(ctx context.Context, topic string, contextChunks []string) (*SchemaData, error)
	ParseObjectEvent(ctx context.Context, text string) (*ObjectEvent, error)
	ParseToolUseEvent(ctx context.Context, text string) (*ToolUseEvent, error)
	GenerateReport(ctx context.Context, trial Trial) (string, error)
}

// EmbeddingClient converts text to a vector for corpus retrieval.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
