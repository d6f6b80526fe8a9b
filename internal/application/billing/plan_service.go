package billing

import (
	"context"

	"github.com/gestium/backend/internal/domain/billing"
	"github.com/gestium/backend/internal/domain/governance"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PlanInput carries the fields for creating or correcting a plan
type PlanInput struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Currency    string
	Limits      map[governance.ResourceKind]*int64
}

// PlanService manages the plan catalog (platform operator surface)
type PlanService struct {
	planRepo billing.PlanRepository
	logger   *zap.Logger
}

// NewPlanService creates a new PlanService
func NewPlanService(planRepo billing.PlanRepository, logger *zap.Logger) *PlanService {
	return &PlanService{planRepo: planRepo, logger: logger}
}

// Create adds a new purchasable plan
func (s *PlanService) Create(ctx context.Context, input PlanInput) (*billing.Plan, error) {
	plan, err := billing.NewPlan(input.ID, input.Name, input.Price)
	if err != nil {
		return nil, err
	}
	plan.Description = input.Description
	if input.Currency != "" {
		plan.Currency = input.Currency
	}
	for kind, limit := range input.Limits {
		if err := plan.SetLimit(kind, limit); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Plan created", zap.String("plan_id", plan.ID))
	return plan, nil
}

// Correct applies an administrative correction to an existing plan.
// Plans referenced by live subscriptions are otherwise immutable.
func (s *PlanService) Correct(ctx context.Context, input PlanInput) (*billing.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		plan.Name = input.Name
	}
	if input.Description != "" {
		plan.Description = input.Description
	}
	if !input.Price.IsZero() {
		plan.Price = input.Price
	}
	for kind, limit := range input.Limits {
		if err := plan.SetLimit(kind, limit); err != nil {
			return nil, err
		}
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Plan corrected", zap.String("plan_id", plan.ID))
	return plan, nil
}

// Retire removes a plan from sale. Existing subscriptions are unaffected.
func (s *PlanService) Retire(ctx context.Context, id string) (*billing.Plan, error) {
	plan, err := s.planRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := plan.Retire(); err != nil {
		return nil, err
	}
	if err := s.planRepo.Update(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Plan retired", zap.String("plan_id", plan.ID))
	return plan, nil
}

// Get returns one plan
func (s *PlanService) Get(ctx context.Context, id string) (*billing.Plan, error) {
	return s.planRepo.FindByID(ctx, id)
}

// List returns plans, optionally restricted to purchasable ones
func (s *PlanService) List(ctx context.Context, activeOnly bool) ([]*billing.Plan, error) {
	return s.planRepo.List(ctx, activeOnly)
}
