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

var _ repository.MembershipRepository = (*membershipRepo)(nil)

const membershipColumns = `id, user_id, plan_id, payment_id, status, start_date, end_date, created_at, updated_at`

const openStatusFilter = `status IN ('active','pending','pending_cancellation')`

type membershipRepo struct{ pool *pgxpool.Pool }

func NewMembershipRepo(pool *pgxpool.Pool) *membershipRepo {
	return &membershipRepo{pool: pool}
}

func (r *membershipRepo) Save(ctx context.Context, tx repository.Tx, m *model.Membership) error {
	const q = `
INSERT INTO memberships (` + membershipColumns + `)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9);`
	_, err := execSQL(ctx, r.pool, tx, q, m.ID, m.UserID, m.PlanID, m.PaymentID, m.Status, m.StartDate, m.EndDate, m.CreatedAt, m.UpdatedAt)
	return translate("save membership", err)
}

func (r *membershipRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Membership, error) {
	return r.findOne(ctx, tx, `SELECT `+membershipColumns+` FROM memberships WHERE id=$1`, id)
}

func (r *membershipRepo) FindByPaymentID(ctx context.Context, tx repository.Tx, paymentID string) (*model.Membership, error) {
	return r.findOne(ctx, tx, `SELECT `+membershipColumns+` FROM memberships WHERE payment_id=$1`, paymentID)
}

func (r *membershipRepo) findOne(ctx context.Context, tx repository.Tx, q string, arg any) (*model.Membership, error) {
	row, err := pickRow(ctx, r.pool, tx, lockRows(tx, q), arg)
	if err != nil {
		return nil, err
	}
	m, err := scanMembership(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("membership")
		}
		return nil, translate("find membership", err)
	}
	return m, nil
}

func (r *membershipRepo) ListOpenByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Membership, error) {
	q := lockRows(tx, `SELECT `+membershipColumns+` FROM memberships WHERE user_id=$1 AND `+openStatusFilter+` ORDER BY created_at`)
	return r.list(ctx, tx, q, userID)
}

func (r *membershipRepo) CountOpenByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM memberships WHERE user_id=$1 AND `+openStatusFilter, userID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, translate("count open memberships", err)
	}
	return n, nil
}

func (r *membershipRepo) UpdateStatus(ctx context.Context, tx repository.Tx, id string, from, to model.MembershipStatus) error {
	const q = `UPDATE memberships SET status=$3, updated_at=NOW() WHERE id=$1 AND status=$2;`
	tag, err := execSQL(ctx, r.pool, tx, q, id, from, to)
	if err != nil {
		return translate("update membership status", err)
	}
	return requireAffected(tag, "membership")
}

func (r *membershipRepo) Activate(ctx context.Context, tx repository.Tx, id string, start, end time.Time) error {
	const q = `
UPDATE memberships SET status='active', start_date=$2, end_date=$3, updated_at=NOW()
 WHERE id=$1 AND status='pending';`
	tag, err := execSQL(ctx, r.pool, tx, q, id, start, end)
	if err != nil {
		return translate("activate membership", err)
	}
	return requireAffected(tag, "membership")
}

func (r *membershipRepo) CompleteOtherActive(ctx context.Context, tx repository.Tx, userID, keepID string) (int64, error) {
	const q = `
UPDATE memberships SET status='completed', updated_at=NOW()
 WHERE user_id=$1 AND id<>$2 AND status='active';`
	tag, err := execSQL(ctx, r.pool, tx, q, userID, keepID)
	if err != nil {
		return 0, translate("complete previous memberships", err)
	}
	return tag.RowsAffected(), nil
}

func (r *membershipRepo) ListExpired(ctx context.Context, tx repository.Tx, now time.Time, limit int) ([]*model.Membership, error) {
	const q = `SELECT ` + membershipColumns + ` FROM memberships WHERE status='active' AND end_date < $1 ORDER BY end_date LIMIT $2`
	return r.list(ctx, tx, q, now, limit)
}

func (r *membershipRepo) ListStalePending(ctx context.Context, tx repository.Tx, createdBefore time.Time, limit int) ([]*model.Membership, error) {
	const q = `SELECT ` + membershipColumns + ` FROM memberships WHERE status='pending' AND created_at < $1 ORDER BY created_at LIMIT $2`
	return r.list(ctx, tx, q, createdBefore, limit)
}

func (r *membershipRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.MembershipStatus]int, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT status, COUNT(*) FROM memberships GROUP BY status`)
	if err != nil {
		return nil, translate("count memberships", err)
	}
	defer rows.Close()

	out := make(map[model.MembershipStatus]int)
	for rows.Next() {
		var s model.MembershipStatus
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, translate("scan membership count", err)
		}
		out[s] = n
	}
	return out, translate("count memberships", rows.Err())
}

func (r *membershipRepo) list(ctx context.Context, tx repository.Tx, q string, args ...any) ([]*model.Membership, error) {
	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, translate("list memberships", err)
	}
	defer rows.Close()

	var out []*model.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, translate("scan membership", err)
		}
		out = append(out, m)
	}
	return out, translate("list memberships", rows.Err())
}

func scanMembership(row pgx.Row) (*model.Membership, error) {
	var m model.Membership
	if err := row.Scan(&m.ID, &m.UserID, &m.PlanID, &m.PaymentID, &m.Status, &m.StartDate, &m.EndDate, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
