package activity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/gestium/backend/internal/domain/activity"
	"github.com/gestium/backend/internal/domain/shared"
)

func recordAt(t time.Time) *activity.Record {
	return &activity.Record{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		EntityKind:     "documentos",
		EntityID:       uuid.New(),
		Action:         activity.ActionCreate,
		CreatedAt:      t,
	}
}

func TestQueryService_HistoryClampsPagination(t *testing.T) {
	repo := new(MockActivityRepository)
	orgID := uuid.New()

	repo.On("FindByOrganization", mock.Anything, orgID, activity.Filter{}, defaultPageSize, 0).
		Return([]*activity.Record{}, int64(0), nil)

	svc := NewQueryService(repo, zap.NewNop())
	records, total, err := svc.History(context.Background(), orgID, activity.Filter{}, 0, -5)

	assert.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, int64(0), total)
	repo.AssertExpectations(t)
}

func TestQueryService_HistoryCapsOversizedLimit(t *testing.T) {
	repo := new(MockActivityRepository)
	orgID := uuid.New()

	repo.On("FindByOrganization", mock.Anything, orgID, activity.Filter{}, maxPageSize, 0).
		Return([]*activity.Record{}, int64(0), nil)

	svc := NewQueryService(repo, zap.NewNop())
	_, _, err := svc.History(context.Background(), orgID, activity.Filter{}, 5000, 0)

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestQueryService_HistoryRejectsNilOrganization(t *testing.T) {
	svc := NewQueryService(new(MockActivityRepository), zap.NewNop())

	_, _, err := svc.History(context.Background(), uuid.Nil, activity.Filter{}, 20, 0)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
}

func TestQueryService_StatisticsSumsBuckets(t *testing.T) {
	repo := new(MockActivityRepository)
	orgID := uuid.New()

	repo.On("CountByKindAndAction", mock.Anything, orgID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return([]activity.StatCount{
			{EntityKind: "documentos", Action: activity.ActionCreate, Count: 4},
			{EntityKind: "documentos", Action: activity.ActionUpdate, Count: 7},
			{EntityKind: "usuarios", Action: activity.ActionCreate, Count: 2},
		}, nil)

	svc := NewQueryService(repo, zap.NewNop())
	stats, err := svc.Statistics(context.Background(), orgID, PeriodWeek)

	assert.NoError(t, err)
	assert.Equal(t, "week", stats.Period)
	assert.Equal(t, int64(13), stats.Total)
	assert.Len(t, stats.Counts, 3)
	assert.WithinDuration(t, stats.To.AddDate(0, 0, -7), stats.From, time.Second)
}

func TestQueryService_StatisticsRejectsInvalidPeriod(t *testing.T) {
	svc := NewQueryService(new(MockActivityRepository), zap.NewNop())

	_, err := svc.Statistics(context.Background(), uuid.New(), StatisticsPeriod("year"))

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
}

func TestQueryService_StatisticsEmptyTrail(t *testing.T) {
	repo := new(MockActivityRepository)
	orgID := uuid.New()

	repo.On("CountByKindAndAction", mock.Anything, orgID, mock.AnythingOfType("time.Time"), mock.AnythingOfType("time.Time")).
		Return(nil, nil)

	svc := NewQueryService(repo, zap.NewNop())
	stats, err := svc.Statistics(context.Background(), orgID, PeriodDay)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), stats.Total)
	assert.NotNil(t, stats.Counts)
	assert.Empty(t, stats.Counts)
}

func TestQueryService_TimelineGroupsByCalendarDate(t *testing.T) {
	repo := new(MockActivityRepository)
	orgID := uuid.New()

	day1 := time.Date(2026, 3, 12, 16, 30, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	records := []*activity.Record{
		recordAt(day1),
		recordAt(day1.Add(-2 * time.Hour)),
		recordAt(day2),
	}

	repo.On("FindByOrganization", mock.Anything, orgID, activity.Filter{}, defaultPageSize, 0).
		Return(records, int64(3), nil)

	svc := NewQueryService(repo, zap.NewNop())
	groups, total, err := svc.Timeline(context.Background(), orgID, 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, groups, 2)
	assert.Equal(t, "2026-03-12", groups[0].Date)
	assert.Len(t, groups[0].Records, 2)
	assert.Equal(t, "2026-03-11", groups[1].Date)
	assert.Len(t, groups[1].Records, 1)
}
