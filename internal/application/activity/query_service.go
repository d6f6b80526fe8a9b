package activity

import (
	"context"
	"time"

	"github.com/gestium/backend/internal/domain/activity"
	"github.com/gestium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StatisticsPeriod is the trailing window for aggregate statistics
type StatisticsPeriod string

const (
	PeriodDay   StatisticsPeriod = "day"
	PeriodWeek  StatisticsPeriod = "week"
	PeriodMonth StatisticsPeriod = "month"
)

// IsValid returns true if the period belongs to the closed set
func (p StatisticsPeriod) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// Statistics is the aggregate view over a trailing window
type Statistics struct {
	Period string               `json:"period"`
	From   time.Time            `json:"from"`
	To     time.Time            `json:"to"`
	Total  int64                `json:"total"`
	Counts []activity.StatCount `json:"counts"`
}

// TimelineGroup is one calendar day of records, newest day first
type TimelineGroup struct {
	Date    string             `json:"date"`
	Records []*activity.Record `json:"records"`
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryService serves the read side of the activity trail. All queries are
// tenant-scoped and tolerate organizations with zero records.
type QueryService struct {
	repo   activity.Repository
	logger *zap.Logger
}

// NewQueryService creates a new QueryService
func NewQueryService(repo activity.Repository, logger *zap.Logger) *QueryService {
	return &QueryService{repo: repo, logger: logger}
}

// History returns records for an organization, newest first, with the total
// count before pagination
func (s *QueryService) History(ctx context.Context, orgID uuid.UUID, filter activity.Filter, limit, offset int) ([]*activity.Record, int64, error) {
	if orgID == uuid.Nil {
		return nil, 0, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	records, total, err := s.repo.FindByOrganization(ctx, orgID, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if records == nil {
		records = make([]*activity.Record, 0)
	}
	return records, total, nil
}

// Statistics aggregates record counts grouped by entity kind and action over
// a trailing window anchored at call time
func (s *QueryService) Statistics(ctx context.Context, orgID uuid.UUID, period StatisticsPeriod) (*Statistics, error) {
	if orgID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ORGANIZATION", "Organization ID cannot be empty")
	}
	if !period.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period must be one of: day, week, month")
	}

	to := time.Now()
	var from time.Time
	switch period {
	case PeriodDay:
		from = to.AddDate(0, 0, -1)
	case PeriodWeek:
		from = to.AddDate(0, 0, -7)
	case PeriodMonth:
		from = to.AddDate(0, -1, 0)
	}

	counts, err := s.repo.CountByKindAndAction(ctx, orgID, from, to)
	if err != nil {
		return nil, err
	}
	if counts == nil {
		counts = make([]activity.StatCount, 0)
	}

	var total int64
	for _, c := range counts {
		total += c.Count
	}

	return &Statistics{
		Period: string(period),
		From:   from,
		To:     to,
		Total:  total,
		Counts: counts,
	}, nil
}

// Timeline returns a page of records grouped by calendar date for
// chronological display, newest day first
func (s *QueryService) Timeline(ctx context.Context, orgID uuid.UUID, limit, offset int) ([]TimelineGroup, int64, error) {
	records, total, err := s.History(ctx, orgID, activity.Filter{}, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	groups := make([]TimelineGroup, 0)
	for _, record := range records {
		date := record.CreatedAt.Format("2006-01-02")
		if len(groups) == 0 || groups[len(groups)-1].Date != date {
			groups = append(groups, TimelineGroup{Date: date, Records: make([]*activity.Record, 0, 1)})
		}
		groups[len(groups)-1].Records = append(groups[len(groups)-1].Records, record)
	}

	return groups, total, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
