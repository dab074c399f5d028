package postgres

import (
	"context"
	"errors"
	"hash/fnv"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"coaching-subscription/internal/domain"
	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

func (r *PostgresUserRepo) Save(ctx context.Context, tx repository.Tx, u *model.User) error {
	const q = `
INSERT INTO users (id, display_name, role, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5)
ON CONFLICT (id) DO UPDATE SET display_name=$2, role=$3, updated_at=$5;`
	_, err := execSQL(ctx, r.pool, tx, q, u.ID, u.DisplayName, u.Role, u.CreatedAt, u.UpdatedAt)
	return translate("save user", err)
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	q := lockRows(tx, `SELECT id, display_name, role, created_at, updated_at FROM users WHERE id=$1`)
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	var u model.User
	if err := row.Scan(&u.ID, &u.DisplayName, &u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("user")
		}
		return nil, translate("find user", err)
	}
	return &u, nil
}

// Lock takes a transaction-scoped advisory lock keyed by the user id.
func (r *PostgresUserRepo) Lock(ctx context.Context, tx repository.Tx, userID string) error {
	if _, ok := tx.(pgx.Tx); !ok {
		return domain.ErrInvalidExecContext
	}
	_, err := execSQL(ctx, r.pool, tx, `SELECT pg_advisory_xact_lock($1)`, hashToInt64(userID))
	return translate("lock user", err)
}

func (r *PostgresUserRepo) UpdateRole(ctx context.Context, tx repository.Tx, userID string, role model.Role) error {
	tag, err := execSQL(ctx, r.pool, tx, `UPDATE users SET role=$2, updated_at=NOW() WHERE id=$1`, userID, role)
	if err != nil {
		return translate("update user role", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("user")
	}
	return nil
}

func (r *PostgresUserRepo) ListAdminIDs(ctx context.Context, tx repository.Tx) ([]string, error) {
	rows, err := queryRows(ctx, r.pool, tx, `SELECT id FROM users WHERE role='admin' ORDER BY created_at`)
	if err != nil {
		return nil, translate("list admins", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, translate("scan admin", err)
		}
		ids = append(ids, id)
	}
	return ids, translate("list admins", rows.Err())
}

func hashToInt64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
