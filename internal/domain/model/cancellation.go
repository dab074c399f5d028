package model

import (
	"strings"
	"time"

	"coaching-subscription/internal/domain"
)

type CancellationStatus string

const (
	CancellationStatusPending           CancellationStatus = "pending"
	CancellationStatusApproved          CancellationStatus = "approved"
	CancellationStatusRejected          CancellationStatus = "rejected"
	CancellationStatusTransferConfirmed CancellationStatus = "transfer_confirmed"
	CancellationStatusCompleted         CancellationStatus = "completed"
)

// DefaultRefundPercent is applied to the paid amount when the member does not
// ask for a specific refund.
const DefaultRefundPercent = 50

// BankInfo is where a refund is wired to.
type BankInfo struct {
	AccountNumber string
	BankName      string
	HolderName    string
}

// Validate requires every field once a refund is asked for.
func (b *BankInfo) Validate() error {
	if b == nil {
		return nil
	}
	if strings.TrimSpace(b.AccountNumber) == "" || strings.TrimSpace(b.BankName) == "" || strings.TrimSpace(b.HolderName) == "" {
		return domain.Validation("bank account number, bank name and account holder name are all required for a refund")
	}
	return nil
}

// CancellationRequest is the refund workflow instance and audit trail for a
// membership. Rows are never deleted.
type CancellationRequest struct {
	ID                    string
	UserID                string
	MembershipID          string
	PaymentID             string
	RequestedAmount       int64
	ApprovedAmount        int64
	Reason                string
	Bank                  BankInfo
	RefundRequested       bool
	RefundApproved        bool
	RefundReceived        bool
	PriorMembershipStatus MembershipStatus
	Status                CancellationStatus
	AdminNotes            string
	ProcessedBy           *string
	ApprovedAt            *time.Time
	RejectedAt            *time.Time
	TransferConfirmedAt   *time.Time
	ReceivedAt            *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// RefundAmount resolves the amount a member asks back on a payment of paid.
// An explicit amount must be positive and no larger than paid; otherwise the
// default percentage is applied, rounded down.
func RefundAmount(paid int64, requested *int64) (int64, error) {
	if requested != nil {
		if *requested <= 0 {
			return 0, domain.Validation("refund amount must be positive")
		}
		if *requested > paid {
			return 0, domain.Validation("refund amount %d exceeds paid amount %d", *requested, paid)
		}
		return *requested, nil
	}
	return paid * DefaultRefundPercent / 100, nil
}

// AwaitingReceipt reports whether the member can still acknowledge the refund.
func (c *CancellationRequest) AwaitingReceipt() bool {
	if c.RefundReceived {
		return false
	}
	return c.Status == CancellationStatusApproved || c.Status == CancellationStatusTransferConfirmed
}
