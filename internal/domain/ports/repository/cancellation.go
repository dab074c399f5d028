package repository

import (
	"context"

	"coaching-subscription/internal/domain/model"
)

// CancellationRepository persists the refund workflow. Requests are never deleted.
type CancellationRepository interface {
	Insert(ctx context.Context, tx Tx, c *model.CancellationRequest) error
	// Update writes c only while the stored status still equals from.
	Update(ctx context.Context, tx Tx, c *model.CancellationRequest, from model.CancellationStatus) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.CancellationRequest, error)
	FindPendingByMembership(ctx context.Context, tx Tx, membershipID string) (*model.CancellationRequest, error)
}
