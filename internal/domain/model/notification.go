package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotificationPaymentSubmitted      NotificationKind = "payment_submitted"
	NotificationPaymentReview         NotificationKind = "payment_review"
	NotificationPaymentConfirmed      NotificationKind = "payment_confirmed"
	NotificationPaymentRejected       NotificationKind = "payment_rejected"
	NotificationPaymentExpired        NotificationKind = "payment_expired"
	NotificationMembershipExpired     NotificationKind = "membership_expired"
	NotificationCancellationRequested NotificationKind = "cancellation_requested"
	NotificationCancellationReview    NotificationKind = "cancellation_review"
	NotificationCancellationRejected  NotificationKind = "cancellation_rejected"
	NotificationCancellationCompleted NotificationKind = "cancellation_completed"
	NotificationRefundApproved        NotificationKind = "refund_approved"
	NotificationRefundTransferred     NotificationKind = "refund_transferred"
	NotificationRefundReceived        NotificationKind = "refund_received"
	NotificationRefundReceivedAdmin   NotificationKind = "refund_received_admin"
)

var notificationTitles = map[NotificationKind]string{
	NotificationPaymentSubmitted:      "Payment submitted",
	NotificationPaymentReview:         "New payment to review",
	NotificationPaymentConfirmed:      "Payment confirmed",
	NotificationPaymentRejected:       "Payment rejected",
	NotificationPaymentExpired:        "Payment expired",
	NotificationMembershipExpired:     "Membership expired",
	NotificationCancellationRequested: "Cancellation request submitted",
	NotificationCancellationReview:    "New cancellation request",
	NotificationCancellationRejected:  "Cancellation request rejected",
	NotificationCancellationCompleted: "Membership cancelled",
	NotificationRefundApproved:        "Refund approved",
	NotificationRefundTransferred:     "Refund sent",
	NotificationRefundReceived:        "Refund completed",
	NotificationRefundReceivedAdmin:   "Refund receipt confirmed",
}

// Notification is a user-facing message recorded for a state transition.
// The core only ever inserts them.
type Notification struct {
	ID        string
	UserID    string
	Kind      NotificationKind
	Title     string
	Message   string
	RelatedID string
	CreatedAt time.Time
}

func NewNotification(userID string, kind NotificationKind, relatedID, message string) *Notification {
	return &Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Title:     notificationTitles[kind],
		Message:   message,
		RelatedID: relatedID,
		CreatedAt: time.Now(),
	}
}
