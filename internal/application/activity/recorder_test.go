package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/gestium/backend/internal/domain/activity"
)

// MockActivityRepository is a mock implementation of activity.Repository
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, record *activity.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockActivityRepository) FindByOrganization(ctx context.Context, orgID uuid.UUID, filter activity.Filter, limit, offset int) ([]*activity.Record, int64, error) {
	args := m.Called(ctx, orgID, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*activity.Record), args.Get(1).(int64), args.Error(2)
}

func (m *MockActivityRepository) CountByKindAndAction(ctx context.Context, orgID uuid.UUID, from, to time.Time) ([]activity.StatCount, error) {
	args := m.Called(ctx, orgID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]activity.StatCount), args.Error(1)
}

func TestRecorder_RecordPersistsFullAttribution(t *testing.T) {
	repo := new(MockActivityRepository)
	orgID := uuid.New()
	entityID := uuid.New()
	actorID := uuid.New()

	var captured *activity.Record
	repo.On("Append", mock.Anything, mock.AnythingOfType("*activity.Record")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*activity.Record)
		}).
		Return(nil)

	recorder := NewRecorder(repo, zap.NewNop())
	id, ok := recorder.Record(context.Background(), Entry{
		OrganizationID: orgID,
		EntityKind:     "departamentos",
		EntityID:       entityID,
		Action:         activity.ActionCreate,
		Description:    "Created department",
		Actor:          &Actor{ID: actorID, Name: "Ana"},
		After:          map[string]string{"name": "Calidad"},
		OriginIP:       "10.0.0.1",
		OriginAgent:    "curl/8.0",
	})

	assert.True(t, ok)
	assert.NotEqual(t, uuid.Nil, id)
	assert.Equal(t, orgID, captured.OrganizationID)
	assert.Equal(t, "departamentos", captured.EntityKind)
	assert.Equal(t, activity.ActionCreate, captured.Action)
	assert.Equal(t, actorID, *captured.ActorID)
	assert.Equal(t, "Ana", *captured.ActorName)
	assert.Nil(t, captured.BeforeState)
	assert.JSONEq(t, `{"name":"Calidad"}`, *captured.AfterState)
}

func TestRecorder_NilActorMarksSystemMutation(t *testing.T) {
	repo := new(MockActivityRepository)

	var captured *activity.Record
	repo.On("Append", mock.Anything, mock.AnythingOfType("*activity.Record")).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*activity.Record)
		}).
		Return(nil)

	recorder := NewRecorder(repo, zap.NewNop())
	_, ok := recorder.Record(context.Background(), Entry{
		OrganizationID: uuid.New(),
		EntityKind:     "usuarios",
		EntityID:       uuid.New(),
		Action:         activity.ActionDelete,
	})

	assert.True(t, ok)
	assert.Nil(t, captured.ActorID)
	assert.Nil(t, captured.ActorName)
}

func TestRecorder_AppendFailureIsSilent(t *testing.T) {
	repo := new(MockActivityRepository)
	repo.On("Append", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	recorder := NewRecorder(repo, zap.NewNop())
	id, ok := recorder.Record(context.Background(), Entry{
		OrganizationID: uuid.New(),
		EntityKind:     "documentos",
		EntityID:       uuid.New(),
		Action:         activity.ActionUpdate,
	})

	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
}

func TestRecorder_InvalidEntryIsSilent(t *testing.T) {
	repo := new(MockActivityRepository)

	recorder := NewRecorder(repo, zap.NewNop())
	id, ok := recorder.Record(context.Background(), Entry{
		OrganizationID: uuid.Nil,
		EntityKind:     "documentos",
		EntityID:       uuid.New(),
		Action:         activity.ActionCreate,
	})

	assert.False(t, ok)
	assert.Equal(t, uuid.Nil, id)
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}
