package qms

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	activityapp "github.com/gestium/backend/internal/application/activity"
	governanceapp "github.com/gestium/backend/internal/application/governance"
	"github.com/gestium/backend/internal/domain/activity"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/qms"
	"github.com/gestium/backend/internal/domain/shared"
)

// MockDepartmentRepository is a mock implementation of qms.DepartmentRepository
type MockDepartmentRepository struct {
	mock.Mock
}

func (m *MockDepartmentRepository) Create(ctx context.Context, dept *qms.Department) error {
	args := m.Called(ctx, dept)
	return args.Error(0)
}

func (m *MockDepartmentRepository) Update(ctx context.Context, dept *qms.Department) error {
	args := m.Called(ctx, dept)
	return args.Error(0)
}

func (m *MockDepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDepartmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*qms.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*qms.Department), args.Error(1)
}

func (m *MockDepartmentRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID, offset, limit int) ([]*qms.Department, int64, error) {
	args := m.Called(ctx, orgID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*qms.Department), args.Get(1).(int64), args.Error(2)
}

// MockGate is a mock implementation of governanceapp.CreateAuthorizer
type MockGate struct {
	mock.Mock
}

func (m *MockGate) AuthorizeCreate(ctx context.Context, orgID uuid.UUID, kind governance.ResourceKind) (governance.Decision, error) {
	args := m.Called(ctx, orgID, kind)
	return args.Get(0).(governance.Decision), args.Error(1)
}

// MockRecorder is a mock implementation of governanceapp.MutationRecorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) Record(ctx context.Context, entry activityapp.Entry) (uuid.UUID, bool) {
	args := m.Called(ctx, entry)
	return args.Get(0).(uuid.UUID), args.Bool(1)
}

func newDepartmentService(repo *MockDepartmentRepository, gate *MockGate, recorder *MockRecorder) *DepartmentService {
	orchestrator := governanceapp.NewOrchestrator(gate, recorder, zap.NewNop())
	return NewDepartmentService(repo, orchestrator, zap.NewNop())
}

func TestDepartmentService_CreateGatedAndRecorded(t *testing.T) {
	repo := new(MockDepartmentRepository)
	gate := new(MockGate)
	recorder := new(MockRecorder)
	orgID := uuid.New()
	mctx := governanceapp.MutationContext{OrganizationID: orgID}

	gate.On("AuthorizeCreate", mock.Anything, orgID, governance.KindDepartments).
		Return(governance.Allowed(governance.KindDepartments), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*qms.Department")).Return(nil)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(entry activityapp.Entry) bool {
		return entry.EntityKind == "departamentos" && entry.Action == activity.ActionCreate
	})).Return(uuid.New(), true)

	svc := newDepartmentService(repo, gate, recorder)
	dept, err := svc.Create(context.Background(), mctx, CreateDepartmentInput{
		Name:        "Calidad",
		Description: "Gestión del sistema de calidad",
		ManagerName: "Ana García",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Calidad", dept.Name)
	assert.Equal(t, orgID, dept.OrganizationID)
	repo.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestDepartmentService_CreateDeniedAtLimit(t *testing.T) {
	repo := new(MockDepartmentRepository)
	gate := new(MockGate)
	recorder := new(MockRecorder)
	orgID := uuid.New()
	mctx := governanceapp.MutationContext{OrganizationID: orgID}

	gate.On("AuthorizeCreate", mock.Anything, orgID, governance.KindDepartments).
		Return(governance.DeniedLimitReached(governance.KindDepartments, 2, 2), nil)

	svc := newDepartmentService(repo, gate, recorder)
	_, err := svc.Create(context.Background(), mctx, CreateDepartmentInput{Name: "Compras"})

	var denied *governance.QuotaDeniedError
	assert.ErrorAs(t, err, &denied)
	assert.Equal(t, int64(2), denied.Decision.Current)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	recorder.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
}

func TestDepartmentService_UpdateRecordsBeforeAndAfter(t *testing.T) {
	repo := new(MockDepartmentRepository)
	gate := new(MockGate)
	recorder := new(MockRecorder)
	orgID := uuid.New()
	mctx := governanceapp.MutationContext{OrganizationID: orgID}

	dept, err := qms.NewDepartment(orgID, "Calidad", "")
	assert.NoError(t, err)

	repo.On("FindByID", mock.Anything, dept.ID).Return(dept, nil)
	repo.On("Update", mock.Anything, dept).Return(nil)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(entry activityapp.Entry) bool {
		before, okBefore := entry.Before.(DepartmentSnapshot)
		after, okAfter := entry.After.(DepartmentSnapshot)
		return entry.Action == activity.ActionUpdate &&
			okBefore && before.Name == "Calidad" &&
			okAfter && after.Name == "Mejora Continua"
	})).Return(uuid.New(), true)

	newName := "Mejora Continua"
	svc := newDepartmentService(repo, gate, recorder)
	updated, err := svc.Update(context.Background(), mctx, dept.ID, UpdateDepartmentInput{Name: &newName})

	assert.NoError(t, err)
	assert.Equal(t, "Mejora Continua", updated.Name)
	gate.AssertNotCalled(t, "AuthorizeCreate", mock.Anything, mock.Anything, mock.Anything)
	recorder.AssertExpectations(t)
}

func TestDepartmentService_CrossTenantLooksMissing(t *testing.T) {
	repo := new(MockDepartmentRepository)
	gate := new(MockGate)
	recorder := new(MockRecorder)

	other, err := qms.NewDepartment(uuid.New(), "Ajena", "")
	assert.NoError(t, err)
	repo.On("FindByID", mock.Anything, other.ID).Return(other, nil)

	svc := newDepartmentService(repo, gate, recorder)
	_, err = svc.Get(context.Background(), uuid.New(), other.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestDepartmentService_DeleteRecordsTrail(t *testing.T) {
	repo := new(MockDepartmentRepository)
	gate := new(MockGate)
	recorder := new(MockRecorder)
	orgID := uuid.New()
	mctx := governanceapp.MutationContext{OrganizationID: orgID}

	dept, err := qms.NewDepartment(orgID, "Calidad", "")
	assert.NoError(t, err)

	repo.On("FindByID", mock.Anything, dept.ID).Return(dept, nil)
	repo.On("Delete", mock.Anything, dept.ID).Return(nil)
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(entry activityapp.Entry) bool {
		return entry.Action == activity.ActionDelete && entry.After == nil
	})).Return(uuid.New(), true)

	svc := newDepartmentService(repo, gate, recorder)
	err = svc.Delete(context.Background(), mctx, dept.ID)

	assert.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestDepartmentService_RecordingFailureDoesNotFailMutation(t *testing.T) {
	repo := new(MockDepartmentRepository)
	gate := new(MockGate)
	recorder := new(MockRecorder)
	orgID := uuid.New()
	mctx := governanceapp.MutationContext{OrganizationID: orgID}

	gate.On("AuthorizeCreate", mock.Anything, orgID, governance.KindDepartments).
		Return(governance.Allowed(governance.KindDepartments), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*qms.Department")).Return(nil)
	recorder.On("Record", mock.Anything, mock.Anything).Return(uuid.Nil, false)

	svc := newDepartmentService(repo, gate, recorder)
	dept, err := svc.Create(context.Background(), mctx, CreateDepartmentInput{Name: "Calidad"})

	assert.NoError(t, err)
	assert.NotNil(t, dept)
}
