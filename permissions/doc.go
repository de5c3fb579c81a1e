// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package permissions derives a caller's single role in a club from the
// club's owner and the caller's membership row. Ownership always yields
// OWNER, even with no membership row or a lesser one.
package permissions
