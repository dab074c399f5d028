package repository

import (
	"context"
	"time"

	"coaching-subscription/internal/domain/model"
)

// -----------------------------
// Payments
// -----------------------------

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Payment, error)
	// MarkConfirmed moves a pending payment to confirmed with its final coverage window.
	MarkConfirmed(ctx context.Context, tx Tx, id string, start, end time.Time) error
	// UpdateStatus is conditional on the current status; a mismatch yields a stale-state conflict.
	UpdateStatus(ctx context.Context, tx Tx, id string, from, to model.PaymentStatus) error
	SaveConfirmation(ctx context.Context, tx Tx, c *model.PaymentConfirmation) error
}
