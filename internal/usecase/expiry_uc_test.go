//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
	ucport "coaching-subscription/internal/domain/ports/usecase"
	"coaching-subscription/internal/usecase"
)

func (h *harness) expiry(opts usecase.ExpiryOptions) ucport.ExpirySweeper {
	return usecase.NewExpiryUseCase(h.ledger, h.tm, newTestLogger(), opts)
}

func TestExpiryUseCase_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("should expire a lapsed membership and demote the member", func(t *testing.T) {
		h := newHarness()
		res := purchaseAndConfirm(t, h)
		lapse(h, res.Membership.ID)

		n, err := h.expiry(usecase.ExpiryOptions{}).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, model.MembershipStatusExpired, h.store.membership(res.Membership.ID).Status)
		assert.Equal(t, model.PaymentStatusExpired, h.store.payment(res.Payment.ID).Status)
		assert.Equal(t, model.RoleGuest, h.store.user(memberID).Role)
		assert.Equal(t, 1, countKind(h.store.notificationsFor(memberID), model.NotificationMembershipExpired))
	})

	t.Run("a second run should change nothing", func(t *testing.T) {
		h := newHarness()
		res := purchaseAndConfirm(t, h)
		lapse(h, res.Membership.ID)
		sweeper := h.expiry(usecase.ExpiryOptions{})

		_, err := sweeper.Run(ctx)
		require.NoError(t, err)
		n, err := sweeper.Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, 1, countKind(h.store.notificationsFor(memberID), model.NotificationMembershipExpired))
	})

	t.Run("should leave current memberships alone", func(t *testing.T) {
		h := newHarness()
		res := purchaseAndConfirm(t, h)

		n, err := h.expiry(usecase.ExpiryOptions{}).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, model.MembershipStatusActive, h.store.membership(res.Membership.ID).Status)
		assert.Equal(t, model.RoleMember, h.store.user(memberID).Role)
	})

	t.Run("should lose to a cancellation committed after listing", func(t *testing.T) {
		h := newHarness()
		res := purchaseAndConfirm(t, h)
		lapse(h, res.Membership.ID)

		var once sync.Once
		h.memberships.FindByIDFunc = func(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
			once.Do(func() {
				m := h.store.membership(id)
				m.Status = model.MembershipStatusPendingCancellation
				h.store.putMembership(m)
			})
			m := h.store.membership(id)
			return &m, nil
		}

		n, err := h.expiry(usecase.ExpiryOptions{}).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, model.MembershipStatusPendingCancellation, h.store.membership(res.Membership.ID).Status)
		assert.Equal(t, model.PaymentStatusConfirmed, h.store.payment(res.Payment.ID).Status)
		assert.Equal(t, model.RoleMember, h.store.user(memberID).Role)
		assert.Zero(t, countKind(h.store.notificationsFor(memberID), model.NotificationMembershipExpired))
	})

	t.Run("a failing membership should not stop the batch", func(t *testing.T) {
		h := newHarness()
		first := purchaseAndConfirm(t, h)
		lapse(h, first.Membership.ID)

		h.store.addUser("user-2", model.RoleMember)
		second := h.store.membership(first.Membership.ID)
		second.ID = "m-second"
		second.UserID = "user-2"
		second.EndDate = second.EndDate.Add(time.Hour)
		h.store.putMembership(second)

		h.memberships.FindByIDFunc = func(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
			if id == first.Membership.ID {
				return nil, errors.New("connection reset")
			}
			m := h.store.membership(id)
			return &m, nil
		}

		n, err := h.expiry(usecase.ExpiryOptions{}).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, model.MembershipStatusActive, h.store.membership(first.Membership.ID).Status)
		assert.Equal(t, model.MembershipStatusExpired, h.store.membership("m-second").Status)
		assert.Equal(t, model.RoleGuest, h.store.user("user-2").Role)
	})

	t.Run("should respect the batch size", func(t *testing.T) {
		h := newHarness()
		res := purchaseAndConfirm(t, h)
		lapse(h, res.Membership.ID)
		for _, id := range []string{"m-a", "m-b"} {
			h.store.addUser("owner-"+id, model.RoleMember)
			m := h.store.membership(res.Membership.ID)
			m.ID = id
			m.UserID = "owner-" + id
			h.store.putMembership(m)
		}

		n, err := h.expiry(usecase.ExpiryOptions{BatchSize: 2}).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	})
}

func TestExpiryUseCase_StalePending(t *testing.T) {
	ctx := context.Background()

	age := func(h *harness, membershipID string, d time.Duration) {
		m := h.store.membership(membershipID)
		m.CreatedAt = time.Now().Add(-d)
		h.store.putMembership(m)
	}

	t.Run("should cancel purchases left unconfirmed past the ttl", func(t *testing.T) {
		h := newHarness()
		res, err := h.subscriptions().Purchase(ctx, memberID, planID, "BankTransfer")
		require.NoError(t, err)
		age(h, res.Membership.ID, 8*24*time.Hour)

		n, err := h.expiry(usecase.ExpiryOptions{PendingPaymentTTL: 7 * 24 * time.Hour}).Run(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, model.MembershipStatusCancelled, h.store.membership(res.Membership.ID).Status)
		assert.Equal(t, model.PaymentStatusExpired, h.store.payment(res.Payment.ID).Status)
		assert.Equal(t, model.RoleGuest, h.store.user(memberID).Role)
		assert.True(t, hasKind(h.store.notificationsFor(memberID), model.NotificationPaymentExpired))

		// The member can buy again.
		_, err = h.subscriptions().Purchase(ctx, memberID, planID, "BankTransfer")
		assert.NoError(t, err)
	})

	t.Run("should keep recent purchases", func(t *testing.T) {
		h := newHarness()
		res, err := h.subscriptions().Purchase(ctx, memberID, planID, "BankTransfer")
		require.NoError(t, err)
		age(h, res.Membership.ID, time.Hour)

		n, err := h.expiry(usecase.ExpiryOptions{PendingPaymentTTL: 7 * 24 * time.Hour}).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, model.MembershipStatusPending, h.store.membership(res.Membership.ID).Status)
	})

	t.Run("a zero ttl should disable the cleanup", func(t *testing.T) {
		h := newHarness()
		res, err := h.subscriptions().Purchase(ctx, memberID, planID, "BankTransfer")
		require.NoError(t, err)
		age(h, res.Membership.ID, 30*24*time.Hour)

		n, err := h.expiry(usecase.ExpiryOptions{}).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, model.PaymentStatusPending, h.store.payment(res.Payment.ID).Status)
	})

	t.Run("should skip a purchase confirmed after listing", func(t *testing.T) {
		h := newHarness()
		res, err := h.subscriptions().Purchase(ctx, memberID, planID, "BankTransfer")
		require.NoError(t, err)
		age(h, res.Membership.ID, 8*24*time.Hour)

		h.memberships.FindByIDFunc = func(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
			m := h.store.membership(id)
			m.Status = model.MembershipStatusActive
			return &m, nil
		}

		n, err := h.expiry(usecase.ExpiryOptions{PendingPaymentTTL: 7 * 24 * time.Hour}).Run(ctx)
		require.NoError(t, err)
		assert.Zero(t, n)
		assert.Equal(t, model.PaymentStatusPending, h.store.payment(res.Payment.ID).Status)
	})
}
