// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package periods runs a club's reading period lifecycle.

# States

A club is in exactly one State at a time:

	Inactive → Voting (VOTACION) → Reading (LEYENDO) → Inactive

A finished period is stored as CERRADO and shows up in History. Transitions
are manual; deadlines are validated on creation and never enforced by a timer.

# Commands

	state, err := svc.CurrentState(ctx, clubID)
	detail, err := svc.CreatePeriod(ctx, periods.CreatePeriodInput{...})
	receipt, err := svc.CastVote(ctx, periodID, optionID, username)
	result, err := svc.CloseVoting(ctx, periodID, username)
	result, err := svc.ConcludeReading(ctx, periodID, username)
	history, err := svc.History(ctx, clubID)

Each write runs in one store transaction whose first statement is a
conditional UPDATE on the period row. A command that loses a race sees the
period already moved on and is rejected with KindInvalidState.

# Votes

A member holds at most one live vote per period. Voting for another option
replaces the earlier vote; voting for the same option again is a conflict.

# Tally

CloseVoting ranks options by vote count with a stable sort, so ties go to
the option nominated first. A period with no votes still closes, and its
first option wins with zero votes.

# Errors

Rejected commands return *Error with a Kind and a caller-safe Spanish
message. Any other error is internal.
*/
package periods
