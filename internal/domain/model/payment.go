package model

import (
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"coaching-subscription/internal/domain"
)

type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BankTransfer"
	PaymentMethodCash         PaymentMethod = "Cash"
)

// ParsePaymentMethod accepts the canonical names and their snake_case forms.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "banktransfer", "bank_transfer":
		return PaymentMethodBankTransfer, nil
	case "cash":
		return PaymentMethodCash, nil
	}
	return "", domain.Validation("unsupported payment method %q", s)
}

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"   // submitted, awaiting admin confirmation
	PaymentStatusConfirmed PaymentStatus = "confirmed" // money received
	PaymentStatusRejected  PaymentStatus = "rejected"  // admin refused the payment
	PaymentStatusCancelled PaymentStatus = "cancelled" // refunded through the cancellation workflow
	PaymentStatusExpired   PaymentStatus = "expired"   // coverage window ended or never confirmed
)

// Payment is the financial record of one purchase attempt. It is paired 1:1
// with a Membership created in the same transaction.
type Payment struct {
	ID             string
	UserID         string
	PlanID         string
	Amount         int64
	Method         PaymentMethod
	Status         PaymentStatus
	TransactionRef string
	StartDate      time.Time
	EndDate        time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PaymentConfirmation is the audit row written when an admin confirms a payment.
type PaymentConfirmation struct {
	ID          string
	PaymentID   string
	ConfirmedBy string
	ConfirmedAt time.Time
}

// NewTransactionRef returns a sortable, unique reference for a payment.
func NewTransactionRef() string {
	return "TXN-" + ulid.Make().String()
}
