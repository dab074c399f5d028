package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

var _ repository.QuitPlanRepository = (*quitPlanRepo)(nil)

type quitPlanRepo struct{ pool *pgxpool.Pool }

func NewQuitPlanRepo(pool *pgxpool.Pool) *quitPlanRepo {
	return &quitPlanRepo{pool: pool}
}

func (r *quitPlanRepo) ArchiveActiveByUser(ctx context.Context, tx repository.Tx, userID string, at time.Time) (int64, error) {
	const q = `UPDATE quit_plans SET status='` + string(model.QuitPlanStatusArchived) + `', archived_at=$2
		WHERE user_id=$1 AND status='` + string(model.QuitPlanStatusActive) + `';`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, at)
	if err != nil {
		return 0, translate("archive quit plans", err)
	}
	return tag.RowsAffected(), nil
}
