package model

import "time"

type MembershipStatus string

const (
	MembershipStatusPending             MembershipStatus = "pending"
	MembershipStatusActive              MembershipStatus = "active"
	MembershipStatusExpired             MembershipStatus = "expired"
	MembershipStatusCancelled           MembershipStatus = "cancelled"
	MembershipStatusPendingCancellation MembershipStatus = "pending_cancellation"
	MembershipStatusCompleted           MembershipStatus = "completed"
)

// OpenMembershipStatuses are the statuses of which a user may hold at most one.
var OpenMembershipStatuses = []MembershipStatus{
	MembershipStatusActive,
	MembershipStatusPending,
	MembershipStatusPendingCancellation,
}

// Membership is one subscription instance for a billing period.
type Membership struct {
	ID        string
	UserID    string
	PlanID    string
	PaymentID string
	Status    MembershipStatus
	StartDate time.Time
	EndDate   time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (m *Membership) IsOpen() bool {
	for _, s := range OpenMembershipStatuses {
		if m.Status == s {
			return true
		}
	}
	return false
}

// IsLapsed reports an active membership whose end date has passed but which
// the sweeper has not expired yet.
func (m *Membership) IsLapsed(now time.Time) bool {
	return m.Status == MembershipStatusActive && m.EndDate.Before(now)
}
