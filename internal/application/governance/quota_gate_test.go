package governance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/gestium/backend/internal/domain/governance"
)

// MockLimitResolver is a mock implementation of LimitResolver
type MockLimitResolver struct {
	mock.Mock
}

func (m *MockLimitResolver) Resolve(ctx context.Context, orgID uuid.UUID) (*Resolution, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Resolution), args.Error(1)
}

// MockUsageCounter is a mock implementation of UsageCounter
type MockUsageCounter struct {
	mock.Mock
}

func (m *MockUsageCounter) Count(ctx context.Context, orgID uuid.UUID, kind governance.ResourceKind) (int64, error) {
	args := m.Called(ctx, orgID, kind)
	return args.Get(0).(int64), args.Error(1)
}

func limitOf(n int64) *int64 {
	return &n
}

func newGate(resolver *MockLimitResolver, counter *MockUsageCounter) *QuotaGate {
	return NewQuotaGate(resolver, counter, zap.NewNop())
}

func TestQuotaGate_DeniesWhenLimitReached(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	resolver.On("Resolve", mock.Anything, orgID).Return(&Resolution{
		Status: ResolutionHasSubscription,
		PlanID: "basico",
		Limits: map[governance.ResourceKind]*int64{
			governance.KindDepartments: limitOf(2),
		},
	}, nil)
	counter.On("Count", mock.Anything, orgID, governance.KindDepartments).Return(int64(2), nil)

	decision, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.KindDepartments)

	assert.NoError(t, err)
	assert.False(t, decision.IsAllowed())
	assert.Equal(t, governance.DenyReasonLimitReached, decision.Reason)
	assert.Equal(t, int64(2), decision.Current)
	assert.Equal(t, int64(2), decision.Limit)
}

func TestQuotaGate_AllowsUnderLimit(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	resolver.On("Resolve", mock.Anything, orgID).Return(&Resolution{
		Status: ResolutionHasSubscription,
		PlanID: "basico",
		Limits: map[governance.ResourceKind]*int64{
			governance.KindDepartments: limitOf(2),
		},
	}, nil)
	counter.On("Count", mock.Anything, orgID, governance.KindDepartments).Return(int64(1), nil)

	decision, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.KindDepartments)

	assert.NoError(t, err)
	assert.True(t, decision.IsAllowed())
	assert.Equal(t, governance.OutcomeAllowed, decision.Outcome)
}

func TestQuotaGate_NoSubscriptionAllowsEverything(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	resolver.On("Resolve", mock.Anything, orgID).Return(&Resolution{
		Status: ResolutionNoSubscription,
	}, nil)

	decision, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.KindDocuments)

	assert.NoError(t, err)
	assert.Equal(t, governance.OutcomeAllowed, decision.Outcome)
	counter.AssertNotCalled(t, "Count", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotaGate_ExpiredSubscriptionDeniesEverything(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	resolver.On("Resolve", mock.Anything, orgID).Return(&Resolution{
		Status:  ResolutionHasSubscription,
		Expired: true,
		PlanID:  "profesional",
		Limits: map[governance.ResourceKind]*int64{
			governance.KindUsers: limitOf(100),
		},
	}, nil)

	decision, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.KindUsers)

	assert.NoError(t, err)
	assert.False(t, decision.IsAllowed())
	assert.Equal(t, governance.DenyReasonSubscriptionExpired, decision.Reason)
	// Expiry denies regardless of headroom, so usage is never counted
	counter.AssertNotCalled(t, "Count", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotaGate_NilLimitMeansUnlimited(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	resolver.On("Resolve", mock.Anything, orgID).Return(&Resolution{
		Status: ResolutionHasSubscription,
		PlanID: "ilimitado",
		Limits: map[governance.ResourceKind]*int64{
			governance.KindUsers: limitOf(5),
		},
	}, nil)

	decision, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.KindAudits)

	assert.NoError(t, err)
	assert.Equal(t, governance.OutcomeAllowed, decision.Outcome)
	counter.AssertNotCalled(t, "Count", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotaGate_ResolverFailureDegradesOpen(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	resolver.On("Resolve", mock.Anything, orgID).Return(nil, errors.New("connection refused"))

	decision, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.KindFindings)

	assert.NoError(t, err)
	assert.True(t, decision.IsAllowed())
	assert.Equal(t, governance.OutcomeAllowedDegraded, decision.Outcome)
}

func TestQuotaGate_CounterFailureDegradesOpen(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	resolver.On("Resolve", mock.Anything, orgID).Return(&Resolution{
		Status: ResolutionHasSubscription,
		PlanID: "basico",
		Limits: map[governance.ResourceKind]*int64{
			governance.KindActions: limitOf(10),
		},
	}, nil)
	counter.On("Count", mock.Anything, orgID, governance.KindActions).Return(int64(0), errors.New("query timeout"))

	decision, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.KindActions)

	assert.NoError(t, err)
	assert.Equal(t, governance.OutcomeAllowedDegraded, decision.Outcome)
}

func TestQuotaGate_UnknownKindIsFatal(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	_, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.ResourceKind("proyectos"))

	assert.ErrorIs(t, err, governance.ErrUnknownResourceKind)
	resolver.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestQuotaGate_UnknownKindFromCounterIsNotAbsorbed(t *testing.T) {
	resolver := new(MockLimitResolver)
	counter := new(MockUsageCounter)
	orgID := uuid.New()

	resolver.On("Resolve", mock.Anything, orgID).Return(&Resolution{
		Status: ResolutionHasSubscription,
		PlanID: "basico",
		Limits: map[governance.ResourceKind]*int64{
			governance.KindUsers: limitOf(5),
		},
	}, nil)
	counter.On("Count", mock.Anything, orgID, governance.KindUsers).
		Return(int64(0), governance.ErrUnknownResourceKind)

	_, err := newGate(resolver, counter).AuthorizeCreate(context.Background(), orgID, governance.KindUsers)

	assert.ErrorIs(t, err, governance.ErrUnknownResourceKind)
}
