package usecase

import (
	"context"
	"errors"

	"coaching-subscription/internal/domain"
	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

// Ledger groups the repositories the lifecycle use cases share.
type Ledger struct {
	Users         repository.UserRepository
	Plans         repository.PlanRepository
	Payments      repository.PaymentRepository
	Memberships   repository.MembershipRepository
	Cancellations repository.CancellationRepository
	Notifications repository.NotificationRepository
	QuitPlans     repository.QuitPlanRepository
}

func (l Ledger) notifyUser(ctx context.Context, tx repository.Tx, userID string, kind model.NotificationKind, relatedID, msg string) error {
	return l.Notifications.Save(ctx, tx, model.NewNotification(userID, kind, relatedID, msg))
}

// notifyAdmins writes one notification per admin user.
func (l Ledger) notifyAdmins(ctx context.Context, tx repository.Tx, kind model.NotificationKind, relatedID, msg string) error {
	ids, err := l.Users.ListAdminIDs(ctx, tx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if err := l.notifyUser(ctx, tx, id, kind, relatedID, msg); err != nil {
			return err
		}
	}
	return nil
}

// requireAdmin fails with ErrForbidden unless id names an admin.
func (l Ledger) requireAdmin(ctx context.Context, id string) error {
	if id == "" {
		return domain.Forbidden("admin id is required")
	}
	u, err := l.Users.FindByID(ctx, repository.NoTX, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Forbidden("user %s is not an admin", id)
		}
		return err
	}
	if !u.IsAdmin() {
		return domain.Forbidden("user %s is not an admin", id)
	}
	return nil
}

// moveMembership applies a status change the membership lifecycle allows.
// The conditional update still fails with stale_state when another writer
// got there first.
func (l Ledger) moveMembership(ctx context.Context, tx repository.Tx, id string, from, to model.MembershipStatus) error {
	if !model.CanTransitionMembership(from, to) {
		return domain.Conflict(domain.ReasonInvalidState, "membership %s cannot move from %s to %s", id, from, to)
	}
	return l.Memberships.UpdateStatus(ctx, tx, id, from, to)
}
