package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

// RoleProjector keeps users.role equal to the projection of the user's
// memberships: member while any membership is open, guest otherwise.
// It must run inside the transaction that changed the memberships.
type RoleProjector struct {
	users       repository.UserRepository
	memberships repository.MembershipRepository
	log         *zerolog.Logger
}

func NewRoleProjector(users repository.UserRepository, memberships repository.MembershipRepository, logger *zerolog.Logger) *RoleProjector {
	return &RoleProjector{users: users, memberships: memberships, log: logger}
}

// Project recomputes and persists the role of userID. Admins are left alone.
func (p *RoleProjector) Project(ctx context.Context, tx repository.Tx, userID string) (model.Role, error) {
	u, err := p.users.FindByID(ctx, tx, userID)
	if err != nil {
		return "", err
	}
	if u.IsAdmin() {
		return u.Role, nil
	}

	open, err := p.memberships.CountOpenByUser(ctx, tx, userID)
	if err != nil {
		return "", err
	}
	want := model.RoleGuest
	if open > 0 {
		want = model.RoleMember
	}
	if u.Role == want {
		return want, nil
	}

	if err := p.users.UpdateRole(ctx, tx, userID, want); err != nil {
		return "", err
	}
	p.log.Debug().Str("user_id", userID).Str("from", string(u.Role)).Str("to", string(want)).Msg("role projected")
	return want, nil
}
