package usecase

import "context"

// ExpirySweeper is what the background scheduler needs from the expiry use case.
type ExpirySweeper interface {
	// Run expires lapsed memberships and returns how many were processed.
	Run(ctx context.Context) (int, error)
}
