// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth is the identity boundary of the service.

Session and token validation happen upstream. Requests arrive with the
caller's username already verified; this package only maps it to a user
record.

# Caller Resolution

	user, err := auth.ResolveCaller(ctx, store, req.Username)
	switch {
	case errors.Is(err, auth.ErrUnknownUser):
		// 404
	case errors.Is(err, auth.ErrMissingUsername), errors.Is(err, auth.ErrInvalidUsername):
		// 400
	}

Usernames must be 2-50 characters after trimming.

# Identifiers

NewID returns a random UUIDv4 string used as the primary key of every row
this service writes (periods, options, votes, notifications).
*/
package auth
