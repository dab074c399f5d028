package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
var _ CancellationUseCase = (*cancellationUC)(nil)

// CancellationUseCase is the refund workflow:
// pending -> approved -> transfer_confirmed -> completed, or pending -> rejected.
type CancellationUseCase interface {
	RequestCancellation(ctx context.Context, in CancellationInput) (*model.CancellationRequest, error)
	Approve(ctx context.Context, requestID, adminID string, approvedAmount *int64, notes string) (*model.CancellationRequest, error)
	Reject(ctx context.Context, requestID, adminID, notes string) (*model.CancellationRequest, error)
	ConfirmTransfer(ctx context.Context, requestID, adminID string) (*model.CancellationRequest, error)
	ConfirmReceived(ctx context.Context, requestID, userID string) (*model.CancellationRequest, error)
}

type CancellationInput struct {
	UserID       string
	MembershipID string
	Reason       string
	// Bank is where the refund goes. Without it no refund is requested.
	Bank *model.BankInfo
	// Amount overrides the default refund of half the paid amount.
	Amount *int64
}

type cancellationUC struct {
	ledger    Ledger
	projector *RoleProjector
	tm        repository.TransactionManager
	log       *zerolog.Logger
}

func NewCancellationUseCase(ledger Ledger, tm repository.TransactionManager, logger *zerolog.Logger) *cancellationUC {
	l := logger.With().Str("component", "CancellationUC").Logger()
	return &cancellationUC{
		ledger:    ledger,
		projector: NewRoleProjector(ledger.Users, ledger.Memberships, &l),
		tm:        tm,
		log:       &l,
	}
}

func (u *cancellationUC) RequestCancellation(ctx context.Context, in CancellationInput) (*model.CancellationRequest, error) {
	defer logging.TraceDuration(u.log, "CancellationUC.RequestCancellation")()

	if in.MembershipID == "" {
		return nil, domain.Validation("membership id is required")
	}
	if err := in.Bank.Validate(); err != nil {
		return nil, err
	}

	var req *model.CancellationRequest
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.ledger.Users.Lock(ctx, tx, in.UserID); err != nil {
			return err
		}
		m, err := u.ledger.Memberships.FindByID(ctx, tx, in.MembershipID)
		if err != nil {
			return err
		}
		if m.UserID != in.UserID {
			return domain.NotFound("membership")
		}

		now := time.Now()
		switch m.Status {
		case model.MembershipStatusActive:
			if m.IsLapsed(now) {
				return domain.Conflict(domain.ReasonMembershipExpired, "membership ended on %s", m.EndDate.Format(time.DateOnly))
			}
		case model.MembershipStatusPending:
		case model.MembershipStatusPendingCancellation:
			return domain.Conflict(domain.ReasonCancellationInProgress, "a cancellation request is already being processed")
		default:
			return domain.Conflict(domain.ReasonInvalidState, "membership is %s", m.Status)
		}

		_, err = u.ledger.Cancellations.FindPendingByMembership(ctx, tx, m.ID)
		switch {
		case err == nil:
			return domain.Conflict(domain.ReasonCancellationInProgress, "a cancellation request is already being processed")
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}

		p, err := u.ledger.Payments.FindByID(ctx, tx, m.PaymentID)
		if err != nil {
			return err
		}
		amount, err := model.RefundAmount(p.Amount, in.Amount)
		if err != nil {
			return err
		}
		refund := in.Bank != nil && p.Status == model.PaymentStatusConfirmed
		if !refund {
			amount = 0
		}

		c := &model.CancellationRequest{
			ID:                    uuid.NewString(),
			UserID:                in.UserID,
			MembershipID:          m.ID,
			PaymentID:             p.ID,
			RequestedAmount:       amount,
			Reason:                strings.TrimSpace(in.Reason),
			RefundRequested:       refund,
			PriorMembershipStatus: m.Status,
			Status:                model.CancellationStatusPending,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if in.Bank != nil {
			c.Bank = *in.Bank
		}
		if err := u.ledger.Cancellations.Insert(ctx, tx, c); err != nil {
			return err
		}
		if err := u.ledger.moveMembership(ctx, tx, m.ID, m.Status, model.MembershipStatusPendingCancellation); err != nil {
			return err
		}

		msg := "Your cancellation request was submitted and will be reviewed."
		if refund {
			msg = fmt.Sprintf("Your cancellation request with a refund of %d was submitted and will be reviewed.", amount)
		}
		if err := u.ledger.notifyUser(ctx, tx, in.UserID, model.NotificationCancellationRequested, c.ID, msg); err != nil {
			return err
		}
		review := fmt.Sprintf("New cancellation request for membership %s (refund %d), please review.", m.ID, amount)
		if err := u.ledger.notifyAdmins(ctx, tx, model.NotificationCancellationReview, c.ID, review); err != nil {
			return err
		}
		if _, err := u.projector.Project(ctx, tx, in.UserID); err != nil {
			return err
		}
		req = c
		return nil
	})
	if err != nil {
		u.log.Info().Err(err).Str("user_id", in.UserID).Str("membership_id", in.MembershipID).Msg("cancellation request refused")
		return nil, err
	}

	metrics.IncCancellation(string(model.CancellationStatusPending))
	u.log.Info().
		Str("request_id", req.ID).
		Str("user_id", req.UserID).
		Bool("refund", req.RefundRequested).
		Int64("amount", req.RequestedAmount).
		Msg("cancellation requested")
	return req, nil
}

// Approve accepts a pending request. A request without a refund has nothing
// left to settle, so it completes right away.
func (u *cancellationUC) Approve(ctx context.Context, requestID, adminID string, approvedAmount *int64, notes string) (*model.CancellationRequest, error) {
	defer logging.TraceDuration(u.log, "CancellationUC.Approve")()

	return u.adminTransition(ctx, "approve_cancellation", requestID, adminID, func(ctx context.Context, tx repository.Tx, c *model.CancellationRequest, now time.Time) error {
		if !c.RefundRequested && approvedAmount != nil {
			return domain.Validation("request %s has no refund to approve an amount for", c.ID)
		}
		from := c.Status
		c.ProcessedBy = &adminID
		c.ApprovedAt = &now
		c.AdminNotes = notes
		c.UpdatedAt = now

		if !c.RefundRequested {
			if err := u.transition(c, model.CancellationStatusCompleted); err != nil {
				return err
			}
			if err := u.ledger.Cancellations.Update(ctx, tx, c, from); err != nil {
				return err
			}
			if err := u.settleMembership(ctx, tx, c); err != nil {
				return err
			}
			return u.ledger.notifyUser(ctx, tx, c.UserID, model.NotificationCancellationCompleted, c.ID, "Your membership was cancelled.")
		}

		p, err := u.ledger.Payments.FindByID(ctx, tx, c.PaymentID)
		if err != nil {
			return err
		}
		amount := c.RequestedAmount
		if approvedAmount != nil {
			if *approvedAmount <= 0 || *approvedAmount > p.Amount {
				return domain.Validation("approved amount must be between 1 and %d", p.Amount)
			}
			amount = *approvedAmount
		}
		if err := u.transition(c, model.CancellationStatusApproved); err != nil {
			return err
		}
		c.RefundApproved = true
		c.ApprovedAmount = amount
		if err := u.ledger.Cancellations.Update(ctx, tx, c, from); err != nil {
			return err
		}
		msg := fmt.Sprintf("Your refund of %d was approved and will be transferred to %s.", amount, c.Bank.BankName)
		return u.ledger.notifyUser(ctx, tx, c.UserID, model.NotificationRefundApproved, c.ID, msg)
	})
}

// Reject declines a pending request and restores the membership's prior status.
func (u *cancellationUC) Reject(ctx context.Context, requestID, adminID, notes string) (*model.CancellationRequest, error) {
	defer logging.TraceDuration(u.log, "CancellationUC.Reject")()

	return u.adminTransition(ctx, "reject_cancellation", requestID, adminID, func(ctx context.Context, tx repository.Tx, c *model.CancellationRequest, now time.Time) error {
		from := c.Status
		if err := u.transition(c, model.CancellationStatusRejected); err != nil {
			return err
		}
		c.ProcessedBy = &adminID
		c.RejectedAt = &now
		c.AdminNotes = notes
		c.UpdatedAt = now
		if err := u.ledger.Cancellations.Update(ctx, tx, c, from); err != nil {
			return err
		}
		if err := u.ledger.moveMembership(ctx, tx, c.MembershipID, model.MembershipStatusPendingCancellation, c.PriorMembershipStatus); err != nil {
			return err
		}
		msg := "Your cancellation request was rejected."
		if notes != "" {
			msg += " Note: " + notes
		}
		if err := u.ledger.notifyUser(ctx, tx, c.UserID, model.NotificationCancellationRejected, c.ID, msg); err != nil {
			return err
		}
		_, err := u.projector.Project(ctx, tx, c.UserID)
		return err
	})
}

func (u *cancellationUC) ConfirmTransfer(ctx context.Context, requestID, adminID string) (*model.CancellationRequest, error) {
	defer logging.TraceDuration(u.log, "CancellationUC.ConfirmTransfer")()

	c, err := u.adminTransition(ctx, "confirm_transfer", requestID, adminID, func(ctx context.Context, tx repository.Tx, c *model.CancellationRequest, now time.Time) error {
		from := c.Status
		if err := u.transition(c, model.CancellationStatusTransferConfirmed); err != nil {
			return err
		}
		c.TransferConfirmedAt = &now
		c.UpdatedAt = now
		if err := u.ledger.Cancellations.Update(ctx, tx, c, from); err != nil {
			return err
		}
		msg := fmt.Sprintf("Your refund of %d was sent. Please confirm once you have received it.", c.ApprovedAmount)
		return u.ledger.notifyUser(ctx, tx, c.UserID, model.NotificationRefundTransferred, c.ID, msg)
	})
	if err == nil {
		metrics.AddRefundPaid(c.ApprovedAmount)
	}
	return c, err
}

// ConfirmReceived is the member acknowledging the refund. It settles the
// membership and payment. A second acknowledgement is a conflict.
func (u *cancellationUC) ConfirmReceived(ctx context.Context, requestID, userID string) (*model.CancellationRequest, error) {
	defer logging.TraceDuration(u.log, "CancellationUC.ConfirmReceived")()

	var out *model.CancellationRequest
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		c, err := u.lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if c.UserID != userID {
			return domain.NotFound("cancellation request")
		}
		if c.RefundReceived {
			return domain.Conflict(domain.ReasonAlreadyReceived, "refund receipt was already confirmed")
		}
		if !c.AwaitingReceipt() {
			return domain.NotFound("refund awaiting receipt")
		}

		now := time.Now()
		from := c.Status
		if err := u.transition(c, model.CancellationStatusCompleted); err != nil {
			return err
		}
		c.RefundReceived = true
		c.ReceivedAt = &now
		c.UpdatedAt = now
		if err := u.ledger.Cancellations.Update(ctx, tx, c, from); err != nil {
			return err
		}
		if err := u.settleMembership(ctx, tx, c); err != nil {
			return err
		}
		msg := fmt.Sprintf("Thanks for confirming the refund of %d. Your membership is now closed.", c.ApprovedAmount)
		if err := u.ledger.notifyUser(ctx, tx, c.UserID, model.NotificationRefundReceived, c.ID, msg); err != nil {
			return err
		}
		admin := fmt.Sprintf("Member %s confirmed receipt of refund %d for request %s.", c.UserID, c.ApprovedAmount, c.ID)
		if err := u.ledger.notifyAdmins(ctx, tx, model.NotificationRefundReceivedAdmin, c.ID, admin); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.IncCancellation(string(out.Status))
	u.log.Info().Str("request_id", out.ID).Str("user_id", userID).Msg("refund receipt confirmed")
	return out, nil
}

type transitionFunc func(ctx context.Context, tx repository.Tx, c *model.CancellationRequest, now time.Time) error

// adminTransition runs an admin step on a request under the owner's lock.
func (u *cancellationUC) adminTransition(ctx context.Context, action, requestID, adminID string, fn transitionFunc) (*model.CancellationRequest, error) {
	if err := u.ledger.requireAdmin(ctx, adminID); err != nil {
		metrics.IncAdminAction(action, "forbidden")
		return nil, err
	}

	var out *model.CancellationRequest
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		c, err := u.lockRequest(ctx, tx, requestID)
		if err != nil {
			return err
		}
		if err := fn(ctx, tx, c, time.Now()); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		metrics.IncAdminAction(action, "error")
		u.log.Warn().Err(err).Str("request_id", requestID).Str("admin_id", adminID).Str("action", action).Msg("cancellation step failed")
		return nil, err
	}

	metrics.IncAdminAction(action, "ok")
	metrics.IncCancellation(string(out.Status))
	u.log.Info().Str("request_id", out.ID).Str("admin_id", adminID).Str("status", string(out.Status)).Msg("cancellation request updated")
	return out, nil
}

func (u *cancellationUC) lockRequest(ctx context.Context, tx repository.Tx, requestID string) (*model.CancellationRequest, error) {
	if requestID == "" {
		return nil, domain.Validation("request id is required")
	}
	c, err := u.ledger.Cancellations.FindByID(ctx, repository.NoTX, requestID)
	if err != nil {
		return nil, err
	}
	if err := u.ledger.Users.Lock(ctx, tx, c.UserID); err != nil {
		return nil, err
	}
	return u.ledger.Cancellations.FindByID(ctx, tx, requestID)
}

func (u *cancellationUC) transition(c *model.CancellationRequest, to model.CancellationStatus) error {
	if !model.CanTransitionCancellation(c.Status, to) {
		return domain.Conflict(domain.ReasonInvalidState, "cancellation request is %s", c.Status)
	}
	c.Status = to
	return nil
}

// settleMembership closes the membership and payment behind a finished request.
func (u *cancellationUC) settleMembership(ctx context.Context, tx repository.Tx, c *model.CancellationRequest) error {
	if err := u.ledger.moveMembership(ctx, tx, c.MembershipID, model.MembershipStatusPendingCancellation, model.MembershipStatusCancelled); err != nil {
		return err
	}
	p, err := u.ledger.Payments.FindByID(ctx, tx, c.PaymentID)
	if err != nil {
		return err
	}
	switch p.Status {
	case model.PaymentStatusConfirmed, model.PaymentStatusPending:
		if err := u.ledger.Payments.UpdateStatus(ctx, tx, p.ID, p.Status, model.PaymentStatusCancelled); err != nil {
			return err
		}
	}
	_, err = u.projector.Project(ctx, tx, c.UserID)
	return err
}
