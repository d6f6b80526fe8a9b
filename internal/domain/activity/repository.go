package activity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows a history query. Zero-value fields are ignored.
type Filter struct {
	EntityKind string
	EntityID   *uuid.UUID
	ActorID    *uuid.UUID
	From       *time.Time
	To         *time.Time
}

// StatKey groups statistics by entity kind and action
type StatKey struct {
	EntityKind string `json:"entity_kind"`
	Action     Action `json:"action"`
}

// StatCount is one aggregate bucket from a statistics query
type StatCount struct {
	EntityKind string `json:"entity_kind"`
	Action     Action `json:"action"`
	Count      int64  `json:"count"`
}

// Repository defines persistence operations for activity records.
// The store is append-only: there is no update or delete.
type Repository interface {
	Append(ctx context.Context, record *Record) error

	// FindByOrganization returns records newest first (created_at desc,
	// id desc as tie-break), with the total count before pagination.
	FindByOrganization(ctx context.Context, orgID uuid.UUID, filter Filter, limit, offset int) ([]*Record, int64, error)

	// CountByKindAndAction aggregates record counts grouped by
	// (entity kind, action) over the given window.
	CountByKindAndAction(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]StatCount, error)
}
