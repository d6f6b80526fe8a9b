// Package activity implements the audit trail services: the best-effort
// recorder that appends one record per mutation, and the read side that
// serves history, statistics, and timeline queries.
package activity

import (
	"context"
	"encoding/json"

	"github.com/gestium/backend/internal/domain/activity"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Actor identifies the user a mutation is attributed to. A nil Actor on an
// entry marks a system-initiated mutation.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// Entry describes one mutation to be recorded. Before and After are the
// entity states around the mutation and are JSON-serialized before
// persisting; either may be nil depending on the action.
type Entry struct {
	OrganizationID uuid.UUID
	EntityKind     string
	EntityID       uuid.UUID
	Action         activity.Action
	Description    string
	Actor          *Actor
	Before         any
	After          any
	OriginIP       string
	OriginAgent    string
}

// Recorder appends activity records. Its contract is fail-silent: recording
// happens after the caller's primary write has committed, and no failure
// here may abort or roll back that write. Audit completeness is best-effort;
// business-operation success is not conditioned on it.
type Recorder struct {
	repo   activity.Repository
	logger *zap.Logger
}

// NewRecorder creates a new Recorder
func NewRecorder(repo activity.Repository, logger *zap.Logger) *Recorder {
	return &Recorder{repo: repo, logger: logger}
}

// Record persists one activity record. It returns the new record's ID and
// true on success, or uuid.Nil and false when the record could not be
// written. It never returns an error: failures are logged for operator
// visibility and swallowed.
func (r *Recorder) Record(ctx context.Context, entry Entry) (uuid.UUID, bool) {
	record, err := r.buildRecord(entry)
	if err != nil {
		r.logger.Error("Activity record not written: invalid entry",
			zap.String("organization_id", entry.OrganizationID.String()),
			zap.String("entity_kind", entry.EntityKind),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return uuid.Nil, false
	}

	if err := r.repo.Append(ctx, record); err != nil {
		r.logger.Error("Activity record not written: append failed",
			zap.String("organization_id", entry.OrganizationID.String()),
			zap.String("entity_kind", entry.EntityKind),
			zap.String("entity_id", entry.EntityID.String()),
			zap.String("action", string(entry.Action)),
			zap.Error(err))
		return uuid.Nil, false
	}

	return record.ID, true
}

func (r *Recorder) buildRecord(entry Entry) (*activity.Record, error) {
	record, err := activity.NewRecord(entry.OrganizationID, entry.EntityKind, entry.EntityID, entry.Action)
	if err != nil {
		return nil, err
	}

	record.Description = entry.Description
	record.OriginIP = entry.OriginIP
	record.OriginAgent = entry.OriginAgent

	if entry.Actor != nil {
		actorID := entry.Actor.ID
		actorName := entry.Actor.Name
		record.ActorID = &actorID
		record.ActorName = &actorName
	}

	if entry.Before != nil {
		snapshot, err := marshalSnapshot(entry.Before)
		if err != nil {
			return nil, err
		}
		record.BeforeState = snapshot
	}
	if entry.After != nil {
		snapshot, err := marshalSnapshot(entry.After)
		if err != nil {
			return nil, err
		}
		record.AfterState = snapshot
	}

	return record, nil
}

func marshalSnapshot(state any) (*string, error) {
	data, err := json.Marshal(state)
	if err != nil {
		return nil, err
	}
	s := string(data)
	return &s, nil
}
