package repository

import (
	"context"

	"coaching-subscription/internal/domain/model"
)

// PlanRepository is the port for the plan catalog. The core only reads it;
// Save exists for seeding.
type PlanRepository interface {
	Save(ctx context.Context, tx Tx, plan *model.Plan) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Plan, error)
	ListAll(ctx context.Context, tx Tx) ([]*model.Plan, error)
}
