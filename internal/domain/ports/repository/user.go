package repository

import (
	"context"

	"coaching-subscription/internal/domain/model"
)

// -----------------------------
// Users
// -----------------------------

type UserRepository interface {
	Save(ctx context.Context, tx Tx, u *model.User) error
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// Lock serialises membership transitions of one user until tx ends.
	Lock(ctx context.Context, tx Tx, userID string) error
	UpdateRole(ctx context.Context, tx Tx, userID string, role model.Role) error
	ListAdminIDs(ctx context.Context, tx Tx) ([]string, error)
}
