package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEventType classifies belief-graph mutations.
type AuditEventType string

const (
	AuditSchemaAdded       AuditEventType = "schema_added"
	AuditSchemaVerified    AuditEventType = "schema_verified"
	AuditPropertyCorrected AuditEventType = "property_corrected"
)

// AuditEvent records one mutation of the belief graph.
type AuditEvent struct {
	ID       uuid.UUID      `json:"id"`
	Type     AuditEventType `json:"type"`
	Schema   string         `json:"schema"`
	Property string         `json:"property,omitempty"`
	Verified bool           `json:"verified"`
	At       time.Time      `json:"at"`
}

// NewAuditEvent stamps an event with a fresh ID and timestamp.
func NewAuditEvent(t AuditEventType, schema string) AuditEvent {
	return AuditEvent{
		ID:     uuid.New(),
		Type:   t,
		Schema: schema,
		At:     time.Now().UTC(),
	}
}

// AuditSink receives belief-graph audit events. Events are emitted
// outside the graph lock, so sinks see mutations slightly after the
// fact and must tolerate that ordering.
type AuditSink interface {
	Record(event AuditEvent)
}
