package repository

import (
	"context"

	"coaching-subscription/internal/domain/model"
)

// NotificationRepository is insert-only from the core's point of view.
type NotificationRepository interface {
	Save(ctx context.Context, tx Tx, n *model.Notification) error
}
