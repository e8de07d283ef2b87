package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	AuditEventSeriesCreated = "series_created"
	AuditEventBulkEdit      = "bulk_edit"
	AuditEventSwapResolved  = "swap_resolved"
)

// AuditEntry is one append-only log row describing a mutation performed
// through the scheduling core.
type AuditEntry struct {
	ID          uuid.UUID      `db:"id"          json:"id"`
	TenantID    uuid.UUID      `db:"tenant_id"   json:"tenant_id"`
	EventType   string         `db:"event_type"  json:"event_type"`
	EntityType  string         `db:"entity_type" json:"entity_type"`
	EntityID    uuid.UUID      `db:"entity_id"   json:"entity_id"`
	Description string         `db:"description" json:"description"`
	Metadata    map[string]any `db:"metadata"    json:"metadata,omitempty"`
	Actor       string         `db:"actor"       json:"actor"`
	CreatedAt   time.Time      `db:"created_at"  json:"created_at"`
}
