// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the repository for reading periods and their related rows.

# Reads and Writes

Every query is a method on Queries. A Store embeds the pool-backed Queries
and opens transactions:

	st := store.New(conn)
	period, err := st.PeriodByID(ctx, id)

	err = st.InTx(ctx, func(q *store.Queries) error {
		if err := q.LockPeriod(ctx, id, models.StatusVoting, now); err != nil {
			return err
		}
		_, err := q.DeletePeriodVotes(ctx, id, userID)
		...
	})

# Errors

  - ErrNotFound: the addressed row does not exist
  - ErrConflict: a unique index or a concurrent transaction rejected the write
  - ErrStale: a compare-and-set on period status found a different status

# Concurrency

LockPeriod and TransitionPeriod are conditional updates on the period row.
The first statement of a vote or transition transaction takes that row
lock, so concurrent votes and closes on one period serialize. The schema's
unique indexes back up the one-active-period and one-vote-per-user rules.
*/
package store
