// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/danielhkuo/bookclub/models"
)

var (
	ErrMissingUsername = errors.New("username is required")
	ErrInvalidUsername = errors.New("username must be 2-50 characters")
	ErrUnknownUser     = errors.New("user not found")
)

// UserLookup finds a user record by handle. ok is false when no such user exists.
type UserLookup interface {
	UserByUsername(ctx context.Context, username string) (user models.User, ok bool, err error)
}

// NewID creates a random record identifier
func NewID() string {
	return uuid.NewString()
}

// ValidateUsername checks the caller handle before it reaches storage
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrMissingUsername
	}
	if len(username) < 2 || len(username) > 50 {
		return ErrInvalidUsername
	}
	return nil
}

// ResolveCaller maps the caller handle supplied by the authentication layer
// to a user record. The handle is trusted; only existence is checked.
func ResolveCaller(ctx context.Context, lookup UserLookup, username string) (models.User, error) {
	if err := ValidateUsername(username); err != nil {
		return models.User{}, err
	}

	user, ok, err := lookup.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return models.User{}, fmt.Errorf("failed to look up user: %w", err)
	}
	if !ok {
		return models.User{}, ErrUnknownUser
	}
	return user, nil
}
