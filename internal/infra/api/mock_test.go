//go:build !integration

package api

import (
	"context"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/usecase"
)

type mockSubscriptionUC struct {
	PurchaseFunc          func(ctx context.Context, userID, planID, method string) (*usecase.PurchaseResult, error)
	ConfirmFunc           func(ctx context.Context, paymentID, confirmedBy string) error
	RejectPaymentFunc     func(ctx context.Context, paymentID, adminID, reason string) error
	CurrentMembershipFunc func(ctx context.Context, userID string) (*model.Membership, error)
	ListPlansFunc         func(ctx context.Context) ([]*model.Plan, error)
}

func (m *mockSubscriptionUC) Purchase(ctx context.Context, userID, planID, method string) (*usecase.PurchaseResult, error) {
	return m.PurchaseFunc(ctx, userID, planID, method)
}

func (m *mockSubscriptionUC) Confirm(ctx context.Context, paymentID, confirmedBy string) error {
	return m.ConfirmFunc(ctx, paymentID, confirmedBy)
}

func (m *mockSubscriptionUC) RejectPayment(ctx context.Context, paymentID, adminID, reason string) error {
	return m.RejectPaymentFunc(ctx, paymentID, adminID, reason)
}

func (m *mockSubscriptionUC) CurrentMembership(ctx context.Context, userID string) (*model.Membership, error) {
	return m.CurrentMembershipFunc(ctx, userID)
}

func (m *mockSubscriptionUC) ListPlans(ctx context.Context) ([]*model.Plan, error) {
	return m.ListPlansFunc(ctx)
}

type mockCancellationUC struct {
	RequestCancellationFunc func(ctx context.Context, in usecase.CancellationInput) (*model.CancellationRequest, error)
	ApproveFunc             func(ctx context.Context, requestID, adminID string, amount *int64, notes string) (*model.CancellationRequest, error)
	RejectFunc              func(ctx context.Context, requestID, adminID, notes string) (*model.CancellationRequest, error)
	ConfirmTransferFunc     func(ctx context.Context, requestID, adminID string) (*model.CancellationRequest, error)
	ConfirmReceivedFunc     func(ctx context.Context, requestID, userID string) (*model.CancellationRequest, error)
}

func (m *mockCancellationUC) RequestCancellation(ctx context.Context, in usecase.CancellationInput) (*model.CancellationRequest, error) {
	return m.RequestCancellationFunc(ctx, in)
}

func (m *mockCancellationUC) Approve(ctx context.Context, requestID, adminID string, amount *int64, notes string) (*model.CancellationRequest, error) {
	return m.ApproveFunc(ctx, requestID, adminID, amount, notes)
}

func (m *mockCancellationUC) Reject(ctx context.Context, requestID, adminID, notes string) (*model.CancellationRequest, error) {
	return m.RejectFunc(ctx, requestID, adminID, notes)
}

func (m *mockCancellationUC) ConfirmTransfer(ctx context.Context, requestID, adminID string) (*model.CancellationRequest, error) {
	return m.ConfirmTransferFunc(ctx, requestID, adminID)
}

func (m *mockCancellationUC) ConfirmReceived(ctx context.Context, requestID, userID string) (*model.CancellationRequest, error) {
	return m.ConfirmReceivedFunc(ctx, requestID, userID)
}
