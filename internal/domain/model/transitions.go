package model

type membershipTransition struct {
	From MembershipStatus
	To   MembershipStatus
}

var membershipTransitions = map[membershipTransition]bool{
	{MembershipStatusPending, MembershipStatusActive}:                true, // payment confirmed
	{MembershipStatusPending, MembershipStatusCancelled}:             true, // payment rejected or never confirmed
	{MembershipStatusPending, MembershipStatusPendingCancellation}:   true, // member cancels before confirmation
	{MembershipStatusActive, MembershipStatusExpired}:                true, // end date passed
	{MembershipStatusActive, MembershipStatusCompleted}:              true, // archived by a newer cycle
	{MembershipStatusActive, MembershipStatusPendingCancellation}:    true, // member asks to cancel
	{MembershipStatusPendingCancellation, MembershipStatusActive}:    true, // cancellation rejected
	{MembershipStatusPendingCancellation, MembershipStatusPending}:   true, // cancellation rejected
	{MembershipStatusPendingCancellation, MembershipStatusCancelled}: true, // refund settled
}

// CanTransitionMembership reports whether a membership may move from one status to another.
func CanTransitionMembership(from, to MembershipStatus) bool {
	return membershipTransitions[membershipTransition{from, to}]
}

type cancellationTransition struct {
	From CancellationStatus
	To   CancellationStatus
}

var cancellationTransitions = map[cancellationTransition]bool{
	{CancellationStatusPending, CancellationStatusApproved}:            true,
	{CancellationStatusPending, CancellationStatusRejected}:            true,
	{CancellationStatusPending, CancellationStatusCompleted}:           true, // approved without a refund
	{CancellationStatusApproved, CancellationStatusTransferConfirmed}:  true,
	{CancellationStatusApproved, CancellationStatusCompleted}:          true, // receipt without explicit transfer step
	{CancellationStatusTransferConfirmed, CancellationStatusCompleted}: true,
}

// CanTransitionCancellation reports whether a cancellation request may move between statuses.
func CanTransitionCancellation(from, to CancellationStatus) bool {
	return cancellationTransitions[cancellationTransition{from, to}]
}
