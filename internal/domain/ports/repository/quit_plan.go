package repository

import (
	"context"
	"time"
)

type QuitPlanRepository interface {
	// ArchiveActiveByUser archives every active quit plan of the user and
	// returns how many were archived.
	ArchiveActiveByUser(ctx context.Context, tx Tx, userID string, at time.Time) (int64, error)
}
