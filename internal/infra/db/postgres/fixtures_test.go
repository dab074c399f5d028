//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

type fixture struct {
	user       *model.User
	plan       *model.Plan
	payment    *model.Payment
	membership *model.Membership
}

// seedPurchase stores a user, a plan and a pending payment/membership pair.
func seedPurchase(t *testing.T, ctx context.Context) *fixture {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)

	u := &model.User{ID: uuid.NewString(), DisplayName: "member", Role: model.RoleGuest, CreatedAt: now, UpdatedAt: now}
	if err := NewPostgresUserRepo(testPool).Save(ctx, repository.NoTX, u); err != nil {
		t.Fatalf("failed to save user: %v", err)
	}
	plan, _ := model.NewPlan(uuid.NewString(), "Monthly", 200000, 30, []string{"coach chat"})
	if err := NewPlanRepo(testPool).Save(ctx, repository.NoTX, plan); err != nil {
		t.Fatalf("failed to save plan: %v", err)
	}
	start, end := plan.Window(now)
	p := &model.Payment{
		ID: uuid.NewString(), UserID: u.ID, PlanID: plan.ID, Amount: plan.Price,
		Method: model.PaymentMethodBankTransfer, Status: model.PaymentStatusPending,
		TransactionRef: model.NewTransactionRef(), StartDate: start, EndDate: end,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := NewPaymentRepo(testPool).Save(ctx, repository.NoTX, p); err != nil {
		t.Fatalf("failed to save payment: %v", err)
	}
	m := &model.Membership{
		ID: uuid.NewString(), UserID: u.ID, PlanID: plan.ID, PaymentID: p.ID,
		Status: model.MembershipStatusPending, StartDate: start, EndDate: end,
		CreatedAt: now, UpdatedAt: now,
	}
	if err := NewMembershipRepo(testPool).Save(ctx, repository.NoTX, m); err != nil {
		t.Fatalf("failed to save membership: %v", err)
	}
	return &fixture{user: u, plan: plan, payment: p, membership: m}
}
