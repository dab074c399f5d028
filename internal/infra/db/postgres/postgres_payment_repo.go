package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"coaching-subscription/internal/domain"
	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (
  id, user_id, plan_id, amount, method, status, transaction_ref, start_date, end_date, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11
);`
	_, err := execSQL(ctx, r.pool, tx, q, p.ID, p.UserID, p.PlanID, p.Amount, p.Method, p.Status, p.TransactionRef, p.StartDate, p.EndDate, p.CreatedAt, p.UpdatedAt)
	return translate("save payment", err)
}

func (r *paymentRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Payment, error) {
	q := lockRows(tx, `SELECT id, user_id, plan_id, amount, method, status, transaction_ref, start_date, end_date, created_at, updated_at FROM payments WHERE id=$1`)
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}

	p := &model.Payment{}
	if err := row.Scan(&p.ID, &p.UserID, &p.PlanID, &p.Amount, &p.Method, &p.Status, &p.TransactionRef, &p.StartDate, &p.EndDate, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("payment")
		}
		return nil, translate("find payment", err)
	}
	return p, nil
}

func (r *paymentRepo) MarkConfirmed(ctx context.Context, tx repository.Tx, id string, start, end time.Time) error {
	const q = `
UPDATE payments SET status='confirmed', start_date=$2, end_date=$3, updated_at=NOW()
 WHERE id=$1 AND status='pending';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, start, end)
	if err != nil {
		return translate("confirm payment", err)
	}
	return requireAffected(tag, "payment")
}

func (r *paymentRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, from, to model.PaymentStatus) error {
	const q = `UPDATE payments SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, from, to)
	if err != nil {
		return translate("update payment status", err)
	}
	return requireAffected(tag, "payment")
}

func (r *paymentRepo) SaveConfirmation(ctx context.Context, tx repository.Tx, c *model.PaymentConfirmation) error {
	const q = `INSERT INTO payment_confirmations (id, payment_id, confirmed_by, confirmed_at) VALUES ($1,$2,$3,$4);`
	_, err := execSQL(ctx, r.pool, tx, q, c.ID, c.PaymentID, c.ConfirmedBy, c.ConfirmedAt)
	return translate("save payment confirmation", err)
}
