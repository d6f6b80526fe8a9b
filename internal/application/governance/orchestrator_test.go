package governance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	activityapp "github.com/gestium/backend/internal/application/activity"
	"github.com/gestium/backend/internal/domain/activity"
	"github.com/gestium/backend/internal/domain/governance"
)

// MockCreateAuthorizer is a mock implementation of CreateAuthorizer
type MockCreateAuthorizer struct {
	mock.Mock
}

func (m *MockCreateAuthorizer) AuthorizeCreate(ctx context.Context, orgID uuid.UUID, kind governance.ResourceKind) (governance.Decision, error) {
	args := m.Called(ctx, orgID, kind)
	return args.Get(0).(governance.Decision), args.Error(1)
}

// MockMutationRecorder is a mock implementation of MutationRecorder
type MockMutationRecorder struct {
	mock.Mock
}

func (m *MockMutationRecorder) Record(ctx context.Context, entry activityapp.Entry) (uuid.UUID, bool) {
	args := m.Called(ctx, entry)
	return args.Get(0).(uuid.UUID), args.Bool(1)
}

func TestOrchestrator_CreateDeniedWritesNothing(t *testing.T) {
	gate := new(MockCreateAuthorizer)
	recorder := new(MockMutationRecorder)
	orgID := uuid.New()
	mctx := MutationContext{OrganizationID: orgID}

	gate.On("AuthorizeCreate", mock.Anything, orgID, governance.KindDepartments).
		Return(governance.DeniedLimitReached(governance.KindDepartments, 2, 2), nil)

	written := false
	o := NewOrchestrator(gate, recorder, zap.NewNop())
	decision, err := o.Create(context.Background(), mctx, governance.KindDepartments, "Created department", func(ctx context.Context) (uuid.UUID, any, error) {
		written = true
		return uuid.New(), nil, nil
	})

	var denied *governance.QuotaDeniedError
	assert.ErrorAs(t, err, &denied)
	assert.Equal(t, governance.DenyReasonLimitReached, decision.Reason)
	assert.False(t, written)
	recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestOrchestrator_CreateAllowedRecordsAfterWrite(t *testing.T) {
	gate := new(MockCreateAuthorizer)
	recorder := new(MockMutationRecorder)
	orgID := uuid.New()
	actorID := uuid.New()
	entityID := uuid.New()
	mctx := MutationContext{
		OrganizationID: orgID,
		Actor:          &activityapp.Actor{ID: actorID, Name: "Ana"},
		OriginIP:       "10.0.0.1",
		OriginAgent:    "curl/8.0",
	}

	gate.On("AuthorizeCreate", mock.Anything, orgID, governance.KindDocuments).
		Return(governance.Allowed(governance.KindDocuments), nil)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(entry activityapp.Entry) bool {
		return entry.OrganizationID == orgID &&
			entry.EntityKind == "documentos" &&
			entry.EntityID == entityID &&
			entry.Action == activity.ActionCreate &&
			entry.OriginIP == "10.0.0.1"
	})).Return(uuid.New(), true)

	o := NewOrchestrator(gate, recorder, zap.NewNop())
	decision, err := o.Create(context.Background(), mctx, governance.KindDocuments, "Created document", func(ctx context.Context) (uuid.UUID, any, error) {
		return entityID, map[string]string{"code": "DOC-01"}, nil
	})

	assert.NoError(t, err)
	assert.True(t, decision.IsAllowed())
	recorder.AssertExpectations(t)
}

func TestOrchestrator_CreateWriteFailureSkipsRecord(t *testing.T) {
	gate := new(MockCreateAuthorizer)
	recorder := new(MockMutationRecorder)
	orgID := uuid.New()
	mctx := MutationContext{OrganizationID: orgID}

	gate.On("AuthorizeCreate", mock.Anything, orgID, governance.KindAudits).
		Return(governance.Allowed(governance.KindAudits), nil)

	o := NewOrchestrator(gate, recorder, zap.NewNop())
	_, err := o.Create(context.Background(), mctx, governance.KindAudits, "Created audit", func(ctx context.Context) (uuid.UUID, any, error) {
		return uuid.Nil, nil, errors.New("insert failed")
	})

	assert.Error(t, err)
	recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestOrchestrator_CreateFatalGateErrorAborts(t *testing.T) {
	gate := new(MockCreateAuthorizer)
	recorder := new(MockMutationRecorder)
	orgID := uuid.New()
	mctx := MutationContext{OrganizationID: orgID}

	gate.On("AuthorizeCreate", mock.Anything, orgID, mock.Anything).
		Return(governance.Decision{}, governance.ErrUnknownResourceKind)

	o := NewOrchestrator(gate, recorder, zap.NewNop())
	_, err := o.Create(context.Background(), mctx, governance.KindUsers, "Created user", func(ctx context.Context) (uuid.UUID, any, error) {
		t.Fatal("write must not run")
		return uuid.Nil, nil, nil
	})

	assert.ErrorIs(t, err, governance.ErrUnknownResourceKind)
}

func TestOrchestrator_UpdateIsNotGated(t *testing.T) {
	gate := new(MockCreateAuthorizer)
	recorder := new(MockMutationRecorder)
	orgID := uuid.New()
	entityID := uuid.New()
	mctx := MutationContext{OrganizationID: orgID}

	recorder.On("Record", mock.Anything, mock.MatchedBy(func(entry activityapp.Entry) bool {
		return entry.Action == activity.ActionUpdate && entry.EntityID == entityID
	})).Return(uuid.New(), true)

	o := NewOrchestrator(gate, recorder, zap.NewNop())
	err := o.Update(context.Background(), mctx, governance.KindDepartments, entityID, "Renamed department", map[string]string{"name": "old"}, func(ctx context.Context) (any, error) {
		return map[string]string{"name": "new"}, nil
	})

	assert.NoError(t, err)
	gate.AssertNotCalled(t, "AuthorizeCreate", mock.Anything, mock.Anything, mock.Anything)
	recorder.AssertExpectations(t)
}

func TestOrchestrator_DeleteRecordsBeforeSnapshot(t *testing.T) {
	gate := new(MockCreateAuthorizer)
	recorder := new(MockMutationRecorder)
	orgID := uuid.New()
	entityID := uuid.New()
	mctx := MutationContext{OrganizationID: orgID}

	recorder.On("Record", mock.Anything, mock.MatchedBy(func(entry activityapp.Entry) bool {
		return entry.Action == activity.ActionDelete && entry.Before != nil && entry.After == nil
	})).Return(uuid.New(), true)

	o := NewOrchestrator(gate, recorder, zap.NewNop())
	err := o.Delete(context.Background(), mctx, governance.KindDepartments, entityID, "Deleted department", map[string]string{"name": "Calidad"}, func(ctx context.Context) error {
		return nil
	})

	assert.NoError(t, err)
	recorder.AssertExpectations(t)
}
