package domain

// Schema is a named node in the belief graph describing one object or
// concept. Name is the unique key and never changes after creation.
// Parent is an optional reference to another schema's name (an "is_a"
// relationship) resolved by lookup, never an embedded pointer.
type Schema struct {
	Name       string     `json:"name"`
	Parent     string     `json:"parent,omitempty"`
	Properties Properties `json:"properties"`
	Verified   bool       `json:"verified"`
}

// SchemaData is the payload for inserting or overwriting a schema.
type SchemaData struct {
	Parent     string     `json:"parent,omitempty"`
	Properties Properties `json:"properties"`
}

// SchemaView is a read-only snapshot of a schema as returned by
// AllSchemas. Properties is nil when the listing was requested without
// them; Parent and Verified are always populated.
type SchemaView struct {
	Name       string     `json:"name"`
	Parent     string     `json:"parent,omitempty"`
	Properties Properties `json:"properties,omitempty"`
	Verified   bool       `json:"verified"`
}

// SchemaRecord is the persisted form of a schema. Edges are fully
// derivable from Parent, so a snapshot is a flat list of records.
type SchemaRecord struct {
	Name       string     `json:"name"`
	Parent     string     `json:"parent,omitempty"`
	Properties Properties `json:"properties"`
	Verified   bool       `json:"verified"`
}

// Record converts a schema to its persisted form.
func (s *Schema) Record() SchemaRecord {
	return SchemaRecord{
		Name:       s.Name,
		Parent:     s.Parent,
		Properties: s.Properties.Clone(),
		Verified:   s.Verified,
	}
}
