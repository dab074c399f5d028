package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
	ucport "coaching-subscription/internal/domain/ports/usecase"
	"coaching-subscription/internal/infra/logging"
	"coaching-subscription/internal/infra/metrics"
)

var _ ucport.ExpirySweeper = (*expiryUC)(nil)

type ExpiryOptions struct {
	BatchSize int
	// PendingPaymentTTL cancels purchases left unconfirmed for longer. Zero disables it.
	PendingPaymentTTL time.Duration
}

type expiryUC struct {
	ledger    Ledger
	projector *RoleProjector
	tm        repository.TransactionManager
	log       *zerolog.Logger
	opts      ExpiryOptions
}

func NewExpiryUseCase(ledger Ledger, tm repository.TransactionManager, logger *zerolog.Logger, opts ExpiryOptions) *expiryUC {
	l := logger.With().Str("component", "ExpiryUC").Logger()
	if opts.BatchSize <= 0 {
		opts.BatchSize = 500
	}
	return &expiryUC{
		ledger:    ledger,
		projector: NewRoleProjector(ledger.Users, ledger.Memberships, &l),
		tm:        tm,
		log:       &l,
		opts:      opts,
	}
}

// Run processes one batch of lapsed memberships, each in its own transaction,
// then one batch of stale pending purchases. A failing item is logged and
// skipped. Returns how many memberships changed state.
func (u *expiryUC) Run(ctx context.Context) (int, error) {
	defer logging.TraceDuration(u.log, "ExpiryUC.Run")()
	now := time.Now()

	lapsed, err := u.ledger.Memberships.ListExpired(ctx, repository.NoTX, now, u.opts.BatchSize)
	if err != nil {
		return 0, err
	}
	expired := 0
	for _, m := range lapsed {
		if err := ctx.Err(); err != nil {
			return expired, err
		}
		changed, err := u.expireOne(ctx, m.ID, m.UserID, now)
		if err != nil {
			metrics.IncSweepItemFailure()
			u.log.Error().Err(err).Str("membership_id", m.ID).Str("user_id", m.UserID).Msg("failed to expire membership")
			continue
		}
		if changed {
			expired++
		}
	}
	metrics.IncMembershipsExpired("lapsed", expired)

	cancelled := 0
	if u.opts.PendingPaymentTTL > 0 {
		cutoff := now.Add(-u.opts.PendingPaymentTTL)
		stale, err := u.ledger.Memberships.ListStalePending(ctx, repository.NoTX, cutoff, u.opts.BatchSize)
		if err != nil {
			return expired, err
		}
		for _, m := range stale {
			if err := ctx.Err(); err != nil {
				return expired + cancelled, err
			}
			changed, err := u.cancelStale(ctx, m.ID, m.UserID, cutoff)
			if err != nil {
				metrics.IncSweepItemFailure()
				u.log.Error().Err(err).Str("membership_id", m.ID).Str("user_id", m.UserID).Msg("failed to cancel stale purchase")
				continue
			}
			if changed {
				cancelled++
			}
		}
		metrics.IncMembershipsExpired("stale_pending", cancelled)
	}

	if counts, err := u.ledger.Memberships.CountByStatus(ctx, repository.NoTX); err == nil {
		metrics.SetMembershipsTotal(counts)
	}

	if expired+cancelled > 0 {
		u.log.Info().Int("expired", expired).Int("stale_cancelled", cancelled).Msg("expiry sweep finished")
	}
	return expired + cancelled, nil
}

// expireOne re-checks the membership under the user lock so a second sweep
// or a racing cancellation turns into a skip.
func (u *expiryUC) expireOne(ctx context.Context, membershipID, userID string, now time.Time) (bool, error) {
	changed := false
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.ledger.Users.Lock(ctx, tx, userID); err != nil {
			return err
		}
		m, err := u.ledger.Memberships.FindByID(ctx, tx, membershipID)
		if err != nil {
			return err
		}
		if !m.IsLapsed(now) {
			return nil
		}
		if err := u.ledger.expireMembership(ctx, tx, m); err != nil {
			return err
		}
		if _, err := u.projector.Project(ctx, tx, userID); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

func (u *expiryUC) cancelStale(ctx context.Context, membershipID, userID string, cutoff time.Time) (bool, error) {
	changed := false
	err := u.tm.WithTx(ctx, pgx.TxOptions{}, func(ctx context.Context, tx repository.Tx) error {
		if err := u.ledger.Users.Lock(ctx, tx, userID); err != nil {
			return err
		}
		m, err := u.ledger.Memberships.FindByID(ctx, tx, membershipID)
		if err != nil {
			return err
		}
		if m.Status != model.MembershipStatusPending || !m.CreatedAt.Before(cutoff) {
			return nil
		}
		p, err := u.ledger.Payments.FindByID(ctx, tx, m.PaymentID)
		if err != nil {
			return err
		}
		if p.Status == model.PaymentStatusPending {
			if err := u.ledger.Payments.UpdateStatus(ctx, tx, p.ID, model.PaymentStatusPending, model.PaymentStatusExpired); err != nil {
				return err
			}
		}
		if err := u.ledger.moveMembership(ctx, tx, m.ID, model.MembershipStatusPending, model.MembershipStatusCancelled); err != nil {
			return err
		}
		msg := fmt.Sprintf("Payment %s was not confirmed in time and the purchase was cancelled.", p.TransactionRef)
		if err := u.ledger.notifyUser(ctx, tx, userID, model.NotificationPaymentExpired, p.ID, msg); err != nil {
			return err
		}
		if _, err := u.projector.Project(ctx, tx, userID); err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}

// expireMembership moves an active membership and its payment to expired.
// The caller holds the user lock and projects the role afterwards.
func (l Ledger) expireMembership(ctx context.Context, tx repository.Tx, m *model.Membership) error {
	if err := l.moveMembership(ctx, tx, m.ID, model.MembershipStatusActive, model.MembershipStatusExpired); err != nil {
		return err
	}
	p, err := l.Payments.FindByID(ctx, tx, m.PaymentID)
	if err != nil {
		return err
	}
	if p.Status == model.PaymentStatusConfirmed {
		if err := l.Payments.UpdateStatus(ctx, tx, p.ID, model.PaymentStatusConfirmed, model.PaymentStatusExpired); err != nil {
			return err
		}
	}
	msg := fmt.Sprintf("Your membership ended on %s.", m.EndDate.Format(time.DateOnly))
	return l.notifyUser(ctx, tx, m.UserID, model.NotificationMembershipExpired, m.ID, msg)
}
