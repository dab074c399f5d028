package repository

import (
	"context"
	"time"

	"coaching-subscription/internal/domain/model"
)

// MembershipRepository is the port for membership records.
type MembershipRepository interface {
	Save(ctx context.Context, tx Tx, m *model.Membership) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.Membership, error)
	FindByPaymentID(ctx context.Context, tx Tx, paymentID string) (*model.Membership, error)
	// ListOpenByUser returns the user's memberships in active, pending or pending_cancellation.
	ListOpenByUser(ctx context.Context, tx Tx, userID string) ([]*model.Membership, error)
	CountOpenByUser(ctx context.Context, tx Tx, userID string) (int, error)
	// UpdateStatus is conditional on the current status; a mismatch yields a stale-state conflict.
	UpdateStatus(ctx context.Context, tx Tx, id string, from, to model.MembershipStatus) error
	Activate(ctx context.Context, tx Tx, id string, start, end time.Time) error
	// CompleteOtherActive marks every other active membership of the user completed.
	CompleteOtherActive(ctx context.Context, tx Tx, userID, keepID string) (int64, error)

	// --- Sweeper queries ---
	ListExpired(ctx context.Context, tx Tx, now time.Time, limit int) ([]*model.Membership, error)
	ListStalePending(ctx context.Context, tx Tx, createdBefore time.Time, limit int) ([]*model.Membership, error)

	// --- Statistics read-only methods ---
	CountByStatus(ctx context.Context, tx Tx) (map[model.MembershipStatus]int, error)
}
