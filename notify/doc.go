// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package notify broadcasts reading period changes to club inboxes.

A Dispatcher owns a bounded queue and a single worker goroutine. Callers
hand it an Event after their own transaction has committed:

	d := notify.NewDispatcher(st, logger, 256)
	defer d.Close()
	d.Dispatch(notify.PeriodOpened(period, callerID, time.Now()))

The worker resolves the club's owner and members, skips the user who
triggered the event, and writes one notification row per recipient in a
single transaction. Delivery failures are logged and never reach the
request that caused them.

Event types:

	NUEVA_VOTACION     a period opened for voting
	VOTACION_CERRADA   voting closed and a winner was picked
	LECTURA_CONCLUIDA  the club finished reading
*/
package notify
