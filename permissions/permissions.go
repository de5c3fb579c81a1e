// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package permissions

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielhkuo/bookclub/models"
	"github.com/danielhkuo/bookclub/store"
)

var ErrClubNotFound = errors.New("club not found")

// ClubLookup reads the two facts a role is derived from.
type ClubLookup interface {
	ClubOwner(ctx context.Context, clubID string) (string, error)
	MembershipRole(ctx context.Context, userID, clubID string) (models.Role, error)
}

// Resolve merges club ownership and the membership row into one role.
// Ownership wins over whatever the membership row says.
func Resolve(ownerID, userID string, membership models.Role) models.Role {
	if userID != "" && ownerID == userID {
		return models.RoleOwner
	}
	switch membership {
	case models.RoleOwner, models.RoleModerator, models.RoleMember:
		return membership
	}
	return models.RoleNone
}

// CanManage reports whether the role may open, close, or conclude periods.
func CanManage(role models.Role) bool {
	return role == models.RoleOwner || role == models.RoleModerator
}

// CanVote reports whether the role may vote in the club's periods.
func CanVote(role models.Role) bool {
	return CanManage(role) || role == models.RoleMember
}

type Evaluator struct {
	clubs ClubLookup
}

func NewEvaluator(clubs ClubLookup) *Evaluator {
	return &Evaluator{clubs: clubs}
}

// RoleFor returns the caller's effective role in the club.
func (e *Evaluator) RoleFor(ctx context.Context, userID, clubID string) (models.Role, error) {
	ownerID, err := e.clubs.ClubOwner(ctx, clubID)
	if errors.Is(err, store.ErrNotFound) {
		return models.RoleNone, ErrClubNotFound
	}
	if err != nil {
		return models.RoleNone, fmt.Errorf("failed to resolve club owner: %w", err)
	}

	if ownerID == userID {
		return models.RoleOwner, nil
	}

	membership, err := e.clubs.MembershipRole(ctx, userID, clubID)
	if err != nil {
		return models.RoleNone, fmt.Errorf("failed to resolve membership: %w", err)
	}
	return Resolve(ownerID, userID, membership), nil
}
