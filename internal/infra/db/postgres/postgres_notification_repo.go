package postgres

import (
	"context"

	"github.com/jackc/pgx/v4/pgxpool"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

var _ repository.NotificationRepository = (*notificationRepo)(nil)

type notificationRepo struct{ pool *pgxpool.Pool }

func NewNotificationRepo(pool *pgxpool.Pool) *notificationRepo {
	return &notificationRepo{pool: pool}
}

func (r *notificationRepo) Save(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	const q = `
INSERT INTO notifications (id, user_id, kind, title, message, related_id, created_at)
VALUES ($1,$2,$3,$4,$5,NULLIF($6,''),$7);`
	_, err := execSQL(ctx, r.pool, tx, q, n.ID, n.UserID, n.Kind, n.Title, n.Message, n.RelatedID, n.CreatedAt)
	return translate("save notification", err)
}
