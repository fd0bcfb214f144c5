package store

import (
	"sync"

	"github.com/culturiqai/nalanda/internal/domain"
)

// BeliefGraph is the knowledge store: an arena of schema nodes keyed by
// name, with parent/child relationships held as weak name references.
// Edges are implicit — every node's Parent field is the full edge list.
//
// A single instance may be shared across HTTP handlers; all access goes
// through the mutex. Batch cycles that iterate and mutate must take
// their snapshot via AllSchemas before the first mutation.
type BeliefGraph struct {
	mu    sync.RWMutex
	nodes map[string]*domain.Schema
	audit domain.AuditSink
}

// NewBeliefGraph creates an empty graph. The audit sink may be nil.
func NewBeliefGraph(audit domain.AuditSink) *BeliefGraph {
	return &BeliefGraph{
		nodes: make(map[string]*domain.Schema),
		audit: audit,
	}
}

// Load replays a snapshot into the graph. Records are applied through
// Add, so parent stubs and audit events behave as for live inserts.
func (g *BeliefGraph) Load(records []domain.SchemaRecord) {
	for _, r := range records {
		g.Add(r.Name, domain.SchemaData{Parent: r.Parent, Properties: r.Properties}, r.Verified)
	}
}

// Add inserts or overwrites the named schema. Re-adding a name is
// last-write-wins: the node's data and verified flag are replaced with
// exactly the arguments given. A declared parent not yet in the graph
// is created first as an empty verified stub. Self-parenting is
// rejected by dropping the parent link. Add never fails.
func (g *BeliefGraph) Add(name string, data domain.SchemaData, verified bool) {
	g.mu.Lock()
	parent := data.Parent
	if parent == name {
		parent = ""
	}
	if parent != "" {
		if _, ok := g.nodes[parent]; !ok {
			g.nodes[parent] = &domain.Schema{
				Name:       parent,
				Properties: domain.Properties{},
				Verified:   true,
			}
		}
	}
	g.nodes[name] = &domain.Schema{
		Name:       name,
		Parent:     parent,
		Properties: data.Properties.Clone(),
		Verified:   verified,
	}
	if g.nodes[name].Properties == nil {
		g.nodes[name].Properties = domain.Properties{}
	}
	g.mu.Unlock()

	if g.audit != nil {
		ev := domain.NewAuditEvent(domain.AuditSchemaAdded, name)
		ev.Verified = verified
		g.audit.Record(ev)
	}
}

// Get returns the live node for name, or ErrNotFound. Mutations to the
// returned schema are visible in the store.
func (g *BeliefGraph) Get(name string) (*domain.Schema, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[name]
	if !ok {
		return nil, ErrNotFound
	}
	return node, nil
}

// GetRecord returns a detached snapshot of the named schema, safe to
// read or encode while other goroutines mutate the graph. Unknown
// names return ErrNotFound.
func (g *BeliefGraph) GetRecord(name string) (domain.SchemaRecord, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.nodes[name]
	if !ok {
		return domain.SchemaRecord{}, ErrNotFound
	}
	return node.Record(), nil
}

// UpdateProperty sets properties[key] = value on the named schema.
// Unknown names are a hard ErrNotFound, never a silent no-op.
// Amending a verified schema does not unverify it.
func (g *BeliefGraph) UpdateProperty(name, key string, value domain.Value) error {
	g.mu.Lock()
	node, ok := g.nodes[name]
	if !ok {
		g.mu.Unlock()
		return ErrNotFound
	}
	if node.Properties == nil {
		node.Properties = domain.Properties{}
	}
	node.Properties[key] = value
	verified := node.Verified
	g.mu.Unlock()

	if g.audit != nil {
		ev := domain.NewAuditEvent(domain.AuditPropertyCorrected, name)
		ev.Property = key
		ev.Verified = verified
		g.audit.Record(ev)
	}
	return nil
}

// Verify promotes the named schema to verified. Idempotent when
// already verified; ErrNotFound for unknown names.
func (g *BeliefGraph) Verify(name string) error {
	g.mu.Lock()
	node, ok := g.nodes[name]
	if !ok {
		g.mu.Unlock()
		return ErrNotFound
	}
	promoted := !node.Verified
	node.Verified = true
	g.mu.Unlock()

	if promoted && g.audit != nil {
		ev := domain.NewAuditEvent(domain.AuditSchemaVerified, name)
		ev.Verified = true
		g.audit.Record(ev)
	}
	return nil
}

// AllSchemas returns a point-in-time snapshot of every node. With
// includeProperties=false the views omit the property bags but keep
// parent and verified for compact listings.
func (g *BeliefGraph) AllSchemas(includeProperties bool) map[string]domain.SchemaView {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[string]domain.SchemaView, len(g.nodes))
	for name, node := range g.nodes {
		view := domain.SchemaView{
			Name:     name,
			Parent:   node.Parent,
			Verified: node.Verified,
		}
		if includeProperties {
			view.Properties = node.Properties.Clone()
		}
		out[name] = view
	}
	return out
}

// Len returns the number of nodes.
func (g *BeliefGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

// Records returns the full graph as persistable records.
func (g *BeliefGraph) Records() []domain.SchemaRecord {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]domain.SchemaRecord, 0, len(g.nodes))
	for _, node := range g.nodes {
		out = append(out, node.Record())
	}
	return out
}
