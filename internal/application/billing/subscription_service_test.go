package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gestium/backend/internal/domain/billing"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/gestium/backend/internal/domain/shared"
)

type MockSubscriptionRepository struct {
	mock.Mock
}

func (m *MockSubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) Update(ctx context.Context, sub *billing.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *MockSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) FindActiveByOrganization(ctx context.Context, orgID uuid.UUID) (*billing.Subscription, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *MockSubscriptionRepository) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*billing.Subscription, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Subscription), args.Error(1)
}

type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) Create(ctx context.Context, plan *billing.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepository) Update(ctx context.Context, plan *billing.Plan) error {
	return m.Called(ctx, plan).Error(0)
}

func (m *MockPlanRepository) FindByID(ctx context.Context, id string) (*billing.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Plan), args.Error(1)
}

func (m *MockPlanRepository) List(ctx context.Context, activeOnly bool) ([]*billing.Plan, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*billing.Plan), args.Error(1)
}

type MockUsageCounter struct {
	mock.Mock
}

func (m *MockUsageCounter) Count(ctx context.Context, orgID uuid.UUID, kind governance.ResourceKind) (int64, error) {
	args := m.Called(ctx, orgID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func newTestPlan(t *testing.T, id string) *billing.Plan {
	t.Helper()

	plan, err := billing.NewPlan(id, "Test plan", decimal.NewFromInt(49))
	require.NoError(t, err)

	limit := int64(10)
	require.NoError(t, plan.SetLimit(governance.KindDocuments, &limit))
	return plan
}

func TestSubscriptionService_Purchase(t *testing.T) {
	t.Run("first subscription", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		planRepo := new(MockPlanRepository)
		service := NewSubscriptionService(subRepo, planRepo, new(MockUsageCounter), zap.NewNop())
		orgID := uuid.New()

		planRepo.On("FindByID", mock.Anything, "starter").Return(newTestPlan(t, "starter"), nil)
		subRepo.On("FindActiveByOrganization", mock.Anything, orgID).Return(nil, shared.ErrNotFound)
		subRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Subscription")).Return(nil)

		sub, err := service.Purchase(context.Background(), orgID, "starter", nil)

		require.NoError(t, err)
		assert.Equal(t, "starter", sub.PlanID)
		assert.True(t, sub.IsActive())
		subRepo.AssertExpectations(t)
	})

	t.Run("supersedes the previous subscription", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		planRepo := new(MockPlanRepository)
		service := NewSubscriptionService(subRepo, planRepo, new(MockUsageCounter), zap.NewNop())
		orgID := uuid.New()

		previous, err := billing.NewSubscription(orgID, "starter", nil)
		require.NoError(t, err)

		planRepo.On("FindByID", mock.Anything, "pro").Return(newTestPlan(t, "pro"), nil)
		subRepo.On("FindActiveByOrganization", mock.Anything, orgID).Return(previous, nil)
		subRepo.On("Update", mock.Anything, previous).Return(nil)
		subRepo.On("Create", mock.Anything, mock.AnythingOfType("*billing.Subscription")).Return(nil)

		sub, err := service.Purchase(context.Background(), orgID, "pro", nil)

		require.NoError(t, err)
		assert.Equal(t, "pro", sub.PlanID)
		assert.Equal(t, billing.SubscriptionStatusCancelled, previous.Status)
		subRepo.AssertExpectations(t)
	})

	t.Run("rejects a retired plan", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		planRepo := new(MockPlanRepository)
		service := NewSubscriptionService(subRepo, planRepo, new(MockUsageCounter), zap.NewNop())

		retired := newTestPlan(t, "legacy")
		require.NoError(t, retired.Retire())
		planRepo.On("FindByID", mock.Anything, "legacy").Return(retired, nil)

		_, err := service.Purchase(context.Background(), uuid.New(), "legacy", nil)

		assert.Error(t, err)
		subRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("unknown plan", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		planRepo := new(MockPlanRepository)
		service := NewSubscriptionService(subRepo, planRepo, new(MockUsageCounter), zap.NewNop())

		planRepo.On("FindByID", mock.Anything, "missing").Return(nil, shared.ErrNotFound)

		_, err := service.Purchase(context.Background(), uuid.New(), "missing", nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	t.Run("cancels the active subscription", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		service := NewSubscriptionService(subRepo, new(MockPlanRepository), new(MockUsageCounter), zap.NewNop())
		orgID := uuid.New()

		active, err := billing.NewSubscription(orgID, "starter", nil)
		require.NoError(t, err)

		subRepo.On("FindActiveByOrganization", mock.Anything, orgID).Return(active, nil)
		subRepo.On("Update", mock.Anything, active).Return(nil)

		sub, err := service.Cancel(context.Background(), orgID, "too expensive")

		require.NoError(t, err)
		assert.Equal(t, billing.SubscriptionStatusCancelled, sub.Status)
		assert.Equal(t, "too expensive", sub.CancelReason)
	})

	t.Run("nothing to cancel", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		service := NewSubscriptionService(subRepo, new(MockPlanRepository), new(MockUsageCounter), zap.NewNop())
		orgID := uuid.New()

		subRepo.On("FindActiveByOrganization", mock.Anything, orgID).Return(nil, shared.ErrNotFound)

		_, err := service.Cancel(context.Background(), orgID, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestSubscriptionService_Current(t *testing.T) {
	t.Run("builds the per-kind usage view", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		planRepo := new(MockPlanRepository)
		counter := new(MockUsageCounter)
		service := NewSubscriptionService(subRepo, planRepo, counter, zap.NewNop())
		orgID := uuid.New()

		sub, err := billing.NewSubscription(orgID, "starter", nil)
		require.NoError(t, err)

		subRepo.On("FindActiveByOrganization", mock.Anything, orgID).Return(sub, nil)
		planRepo.On("FindByID", mock.Anything, "starter").Return(newTestPlan(t, "starter"), nil)
		counter.On("Count", mock.Anything, orgID, governance.KindDocuments).Return(int64(4), nil)
		counter.On("Count", mock.Anything, orgID, mock.AnythingOfType("governance.ResourceKind")).Return(int64(0), nil)

		view, err := service.Current(context.Background(), orgID)

		require.NoError(t, err)
		assert.Equal(t, "starter", view.PlanID)
		assert.False(t, view.Expired)
		require.Len(t, view.Quotas, len(governance.AllResourceKinds))

		var documents *QuotaUsage
		for i := range view.Quotas {
			if view.Quotas[i].Kind == governance.KindDocuments.String() {
				documents = &view.Quotas[i]
			}
		}
		require.NotNil(t, documents)
		assert.Equal(t, int64(10), documents.Limit)
		assert.Equal(t, int64(4), documents.Used)
		assert.Equal(t, int64(6), documents.Remaining)
	})

	t.Run("unlimited kinds report -1", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		planRepo := new(MockPlanRepository)
		counter := new(MockUsageCounter)
		service := NewSubscriptionService(subRepo, planRepo, counter, zap.NewNop())
		orgID := uuid.New()

		sub, err := billing.NewSubscription(orgID, "starter", nil)
		require.NoError(t, err)

		subRepo.On("FindActiveByOrganization", mock.Anything, orgID).Return(sub, nil)
		planRepo.On("FindByID", mock.Anything, "starter").Return(newTestPlan(t, "starter"), nil)
		counter.On("Count", mock.Anything, orgID, mock.AnythingOfType("governance.ResourceKind")).Return(int64(2), nil)

		view, err := service.Current(context.Background(), orgID)

		require.NoError(t, err)
		for _, quota := range view.Quotas {
			if quota.Kind == governance.KindDocuments.String() {
				continue
			}
			assert.Equal(t, int64(-1), quota.Limit, quota.Kind)
			assert.Equal(t, int64(-1), quota.Remaining, quota.Kind)
		}
	})

	t.Run("count failure keeps the view available", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		planRepo := new(MockPlanRepository)
		counter := new(MockUsageCounter)
		service := NewSubscriptionService(subRepo, planRepo, counter, zap.NewNop())
		orgID := uuid.New()

		sub, err := billing.NewSubscription(orgID, "starter", nil)
		require.NoError(t, err)

		subRepo.On("FindActiveByOrganization", mock.Anything, orgID).Return(sub, nil)
		planRepo.On("FindByID", mock.Anything, "starter").Return(newTestPlan(t, "starter"), nil)
		counter.On("Count", mock.Anything, orgID, mock.AnythingOfType("governance.ResourceKind")).
			Return(int64(0), errors.New("connection refused"))

		view, err := service.Current(context.Background(), orgID)

		require.NoError(t, err)
		require.Len(t, view.Quotas, len(governance.AllResourceKinds))
	})

	t.Run("marks an expired subscription", func(t *testing.T) {
		subRepo := new(MockSubscriptionRepository)
		planRepo := new(MockPlanRepository)
		counter := new(MockUsageCounter)
		service := NewSubscriptionService(subRepo, planRepo, counter, zap.NewNop())
		orgID := uuid.New()

		endsAt := time.Now().Add(time.Minute)
		sub, err := billing.NewSubscription(orgID, "starter", &endsAt)
		require.NoError(t, err)
		past := time.Now().Add(-time.Hour)
		sub.EndsAt = &past

		subRepo.On("FindActiveByOrganization", mock.Anything, orgID).Return(sub, nil)
		planRepo.On("FindByID", mock.Anything, "starter").Return(newTestPlan(t, "starter"), nil)
		counter.On("Count", mock.Anything, orgID, mock.AnythingOfType("governance.ResourceKind")).Return(int64(0), nil)

		view, err := service.Current(context.Background(), orgID)

		require.NoError(t, err)
		assert.True(t, view.Expired)
	})
}

func TestSubscriptionService_History(t *testing.T) {
	subRepo := new(MockSubscriptionRepository)
	service := NewSubscriptionService(subRepo, new(MockPlanRepository), new(MockUsageCounter), zap.NewNop())
	orgID := uuid.New()

	first, err := billing.NewSubscription(orgID, "starter", nil)
	require.NoError(t, err)
	second, err := billing.NewSubscription(orgID, "pro", nil)
	require.NoError(t, err)

	subRepo.On("ListByOrganization", mock.Anything, orgID).
		Return([]*billing.Subscription{second, first}, nil)

	history, err := service.History(context.Background(), orgID)

	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "pro", history[0].PlanID)
}
