// File: internal/usecase/subscription_uc.go
package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"coaching-subscription/internal/domain"
	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
	"coaching-subscription/internal/infra/logging"
	"coaching-subscription/internal/infra/metrics"
)

// Compile-time check
var _ SubscriptionUseCase = (*subscriptionUC)(nil)

// SubscriptionUseCase covers purchase and payment confirmation.
type SubscriptionUseCase interface {
	// Purchase opens a pending payment/membership pair for a plan.
	Purchase(ctx context.Context, userID, planID, method string) (*PurchaseResult, error)
	// Confirm activates the membership paid by paymentID. Confirming twice is a no-op.
	Confirm(ctx context.Context, paymentID, confirmedBy string) error
	RejectPayment(ctx context.Context, paymentID, adminID, reason string) error
	CurrentMembership(ctx context.Context, userID string) (*model.Membership, error)
	ListPlans(ctx context.Context) ([]*model.Plan, error)
}

type PurchaseResult struct {
	Payment    *model.Payment
	Membership *model.Membership
}

type subscriptionUC struct {
	ledger    Ledger
	projector *RoleProjector
	tm        repository.TransactionManager
	log       *zerolog.Logger
}

func NewSubscriptionUseCase(ledger Ledger, tm repository.TransactionManager, logger *zerolog.Logger) *subscriptionUC {
	l := logger.With().Str("component", "SubscriptionUC").Logger()
	return &subscriptionUC{
		ledger:    ledger,
		projector: NewRoleProjector(ledger.Users, ledger.Memberships, &l),
		tm:        tm,
		log:       &l,
	}
}

func (u *subscriptionUC) Purchase(ctx context.Context, userID, planID, method string) (*PurchaseResult, error) {
	defer logging.TraceDuration(u.log, "SubscriptionUC.Purchase")()

	pm, err := model.ParsePaymentMethod(method)
	if err != nil {
		return nil, err
	}
	if planID == "" {
		return nil, domain.Validation("plan id is required")
	}
	plan, err := u.ledger.Plans.FindByID(ctx, repository.NoTX, planID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Validation("unknown plan %q", planID)
		}
		return nil, err
	}

	var res *PurchaseResult
	err = u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.ledger.Users.Lock(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := u.ledger.Users.FindByID(ctx, tx, userID); err != nil {
			return err
		}

		now := time.Now()
		open, err := u.ledger.Memberships.ListOpenByUser(ctx, tx, userID)
		if err != nil {
			return err
		}
		for _, m := range open {
			switch m.Status {
			case model.MembershipStatusActive:
				if m.IsLapsed(now) {
					// The sweeper has not reached it yet.
					if err := u.ledger.expireMembership(ctx, tx, m); err != nil {
						return err
					}
					continue
				}
				return domain.Conflict(domain.ReasonAlreadyActive, "membership already active until %s", m.EndDate.Format(time.DateOnly))
			case model.MembershipStatusPending:
				return domain.Conflict(domain.ReasonPendingConfirmation, "a previous purchase is awaiting payment confirmation")
			case model.MembershipStatusPendingCancellation:
				return domain.Conflict(domain.ReasonCancellationInProgress, "a cancellation request is being processed")
			}
		}

		start, end := plan.Window(now)
		p := &model.Payment{
			ID:             uuid.NewString(),
			UserID:         userID,
			PlanID:         plan.ID,
			Amount:         plan.Price,
			Method:         pm,
			Status:         model.PaymentStatusPending,
			TransactionRef: model.NewTransactionRef(),
			StartDate:      start,
			EndDate:        end,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := u.ledger.Payments.Save(ctx, tx, p); err != nil {
			return err
		}
		m := &model.Membership{
			ID:        uuid.NewString(),
			UserID:    userID,
			PlanID:    plan.ID,
			PaymentID: p.ID,
			Status:    model.MembershipStatusPending,
			StartDate: start,
			EndDate:   end,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := u.ledger.Memberships.Save(ctx, tx, m); err != nil {
			return err
		}

		msg := fmt.Sprintf("Payment %s of %d for %s was submitted and awaits confirmation.", p.TransactionRef, p.Amount, plan.Name)
		if err := u.ledger.notifyUser(ctx, tx, userID, model.NotificationPaymentSubmitted, p.ID, msg); err != nil {
			return err
		}
		review := fmt.Sprintf("Payment %s (%s, %d) needs confirmation.", p.TransactionRef, p.Method, p.Amount)
		if err := u.ledger.notifyAdmins(ctx, tx, model.NotificationPaymentReview, p.ID, review); err != nil {
			return err
		}
		if _, err := u.projector.Project(ctx, tx, userID); err != nil {
			return err
		}
		res = &PurchaseResult{Payment: p, Membership: m}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			metrics.IncPurchaseConflict(string(domain.ReasonOf(err)))
			u.log.Info().Str("user_id", userID).Str("reason", string(domain.ReasonOf(err))).Msg("purchase refused")
		} else if !errors.Is(err, domain.ErrNotFound) {
			u.log.Error().Err(err).Str("user_id", userID).Str("plan_id", planID).Msg("purchase failed")
		}
		return nil, err
	}

	metrics.IncPayment(string(model.PaymentStatusPending), string(pm))
	u.log.Info().
		Str("user_id", userID).
		Str("payment_id", res.Payment.ID).
		Str("membership_id", res.Membership.ID).
		Str("ref", res.Payment.TransactionRef).
		Msg("purchase submitted")
	return res, nil
}

func (u *subscriptionUC) Confirm(ctx context.Context, paymentID, confirmedBy string) error {
	defer logging.TraceDuration(u.log, "SubscriptionUC.Confirm")()

	if err := u.ledger.requireAdmin(ctx, confirmedBy); err != nil {
		metrics.IncAdminAction("confirm_payment", "forbidden")
		return err
	}

	var (
		already   bool
		confirmed *model.Payment
	)
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.lockPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		switch p.Status {
		case model.PaymentStatusConfirmed:
			already = true
			return nil
		case model.PaymentStatusPending:
		default:
			return domain.Conflict(domain.ReasonInvalidState, "payment %s is %s", p.ID, p.Status)
		}

		m, err := u.ledger.Memberships.FindByPaymentID(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		if !model.CanTransitionMembership(m.Status, model.MembershipStatusActive) {
			return domain.Conflict(domain.ReasonInvalidState, "membership %s is %s", m.ID, m.Status)
		}
		plan, err := u.ledger.Plans.FindByID(ctx, tx, p.PlanID)
		if err != nil {
			return err
		}

		now := time.Now()
		start, end := plan.Window(now)
		if err := u.ledger.Payments.MarkConfirmed(ctx, tx, p.ID, start, end); err != nil {
			return err
		}
		if err := u.ledger.Memberships.Activate(ctx, tx, m.ID, start, end); err != nil {
			return err
		}
		if err := u.ledger.Payments.SaveConfirmation(ctx, tx, &model.PaymentConfirmation{
			ID:          uuid.NewString(),
			PaymentID:   p.ID,
			ConfirmedBy: confirmedBy,
			ConfirmedAt: now,
		}); err != nil {
			return err
		}

		u.archivePriorCycle(ctx, tx, p.UserID, m.ID, now)

		msg := fmt.Sprintf("Payment %s confirmed. Your membership runs until %s.", p.TransactionRef, end.Format(time.DateOnly))
		if err := u.ledger.notifyUser(ctx, tx, p.UserID, model.NotificationPaymentConfirmed, p.ID, msg); err != nil {
			return err
		}
		if _, err := u.projector.Project(ctx, tx, p.UserID); err != nil {
			return err
		}
		confirmed = p
		return nil
	})
	if err != nil {
		metrics.IncAdminAction("confirm_payment", "error")
		u.log.Error().Err(err).Str("payment_id", paymentID).Msg("confirm payment failed")
		return err
	}
	if already {
		metrics.IncAdminAction("confirm_payment", "noop")
		u.log.Debug().Str("payment_id", paymentID).Msg("payment already confirmed")
		return nil
	}

	metrics.IncAdminAction("confirm_payment", "ok")
	metrics.IncPayment(string(model.PaymentStatusConfirmed), string(confirmed.Method))
	metrics.AddPaymentRevenue(confirmed.Amount)
	u.log.Info().Str("payment_id", paymentID).Str("user_id", confirmed.UserID).Str("admin_id", confirmedBy).Msg("payment confirmed")
	return nil
}

// archivePriorCycle completes other active memberships and archives quit plans.
// Failures roll back only the savepoint and never block the confirmation.
func (u *subscriptionUC) archivePriorCycle(ctx context.Context, tx repository.Tx, userID, keepID string, now time.Time) {
	var completed, archived int64
	err := u.tm.WithSavepoint(ctx, tx, func(ctx context.Context, sp repository.Tx) error {
		var err error
		if completed, err = u.ledger.Memberships.CompleteOtherActive(ctx, sp, userID, keepID); err != nil {
			return err
		}
		archived, err = u.ledger.QuitPlans.ArchiveActiveByUser(ctx, sp, userID, now)
		return err
	})
	if err != nil {
		metrics.IncCycleArchiveFailure()
		u.log.Warn().Err(err).Str("user_id", userID).Msg("archiving prior cycle failed; confirmation continues")
		return
	}
	if completed > 0 || archived > 0 {
		u.log.Info().Str("user_id", userID).Int64("memberships_completed", completed).Int64("quit_plans_archived", archived).Msg("prior cycle archived")
	}
}

func (u *subscriptionUC) RejectPayment(ctx context.Context, paymentID, adminID, reason string) error {
	defer logging.TraceDuration(u.log, "SubscriptionUC.RejectPayment")()

	if err := u.ledger.requireAdmin(ctx, adminID); err != nil {
		metrics.IncAdminAction("reject_payment", "forbidden")
		return err
	}

	var rejected *model.Payment
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		p, err := u.lockPayment(ctx, tx, paymentID)
		if err != nil {
			return err
		}
		switch p.Status {
		case model.PaymentStatusRejected:
			return nil
		case model.PaymentStatusPending:
		default:
			return domain.Conflict(domain.ReasonInvalidState, "payment %s is %s", p.ID, p.Status)
		}

		m, err := u.ledger.Memberships.FindByPaymentID(ctx, tx, p.ID)
		if err != nil {
			return err
		}
		switch m.Status {
		case model.MembershipStatusPending:
		case model.MembershipStatusPendingCancellation:
			return domain.Conflict(domain.ReasonCancellationInProgress, "membership %s has a cancellation in progress", m.ID)
		default:
			return domain.Conflict(domain.ReasonInvalidState, "membership %s is %s", m.ID, m.Status)
		}

		if err := u.ledger.Payments.UpdateStatus(ctx, tx, p.ID, model.PaymentStatusPending, model.PaymentStatusRejected); err != nil {
			return err
		}
		if err := u.ledger.moveMembership(ctx, tx, m.ID, model.MembershipStatusPending, model.MembershipStatusCancelled); err != nil {
			return err
		}
		msg := fmt.Sprintf("Payment %s was rejected.", p.TransactionRef)
		if reason != "" {
			msg += " Reason: " + reason
		}
		if err := u.ledger.notifyUser(ctx, tx, p.UserID, model.NotificationPaymentRejected, p.ID, msg); err != nil {
			return err
		}
		if _, err := u.projector.Project(ctx, tx, p.UserID); err != nil {
			return err
		}
		rejected = p
		return nil
	})
	if err != nil {
		metrics.IncAdminAction("reject_payment", "error")
		return err
	}
	if rejected == nil {
		metrics.IncAdminAction("reject_payment", "noop")
		return nil
	}

	metrics.IncAdminAction("reject_payment", "ok")
	metrics.IncPayment(string(model.PaymentStatusRejected), string(rejected.Method))
	u.log.Info().Str("payment_id", paymentID).Str("admin_id", adminID).Msg("payment rejected")
	return nil
}

// lockPayment resolves the owner, takes the user lock and re-reads the payment under it.
func (u *subscriptionUC) lockPayment(ctx context.Context, tx repository.Tx, paymentID string) (*model.Payment, error) {
	if paymentID == "" {
		return nil, domain.Validation("payment id is required")
	}
	p, err := u.ledger.Payments.FindByID(ctx, repository.NoTX, paymentID)
	if err != nil {
		return nil, err
	}
	if err := u.ledger.Users.Lock(ctx, tx, p.UserID); err != nil {
		return nil, err
	}
	return u.ledger.Payments.FindByID(ctx, tx, paymentID)
}

func (u *subscriptionUC) CurrentMembership(ctx context.Context, userID string) (*model.Membership, error) {
	defer logging.TraceDuration(u.log, "SubscriptionUC.CurrentMembership")()
	open, err := u.ledger.Memberships.ListOpenByUser(ctx, repository.NoTX, userID)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, domain.NotFound("membership")
	}
	return open[0], nil
}

func (u *subscriptionUC) ListPlans(ctx context.Context) ([]*model.Plan, error) {
	defer logging.TraceDuration(u.log, "SubscriptionUC.ListPlans")()
	return u.ledger.Plans.ListAll(ctx, repository.NoTX)
}
