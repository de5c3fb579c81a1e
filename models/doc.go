// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

JSON field names follow the public club API (Spanish), Go names are English.

# Request Types

  - CreatePeriodRequest: nombre, fechaFinVotacion, fechaFinLectura, clubBookIds, username
  - CastVoteRequest: opcionId, username
  - CallerRequest: username (close voting, conclude reading)

# Response Types

Every response carries success. Errors use ErrorResponse:

	{"success": false, "message": "...", "error": "Not Found"}

# Domain Types

  - ReadingPeriod: one nominate → vote → read → close cycle
  - VotingOption: a nominated club book inside a period
  - OptionTally: option plus live vote count and voter usernames
  - PeriodDetail: period with tallies and, once decided, the winning book
  - ClubBook / Book: a book on a club's shelf
  - Vote, VoteReceipt: a user's single live vote in a period
  - Notification: inbox row written after a state change

# Constants

Period status:

	StatusVoting   = "VOTACION"
	StatusReading  = "LEYENDO"
	StatusClosed   = "CERRADO"
	StatusInactive = "INACTIVO" (reported, never stored)

Club book status:

	BookToRead  = "por_leer"
	BookReading = "leyendo"
	BookRead    = "leido"

Roles: OWNER, MODERATOR, MEMBER, NONE.
*/
package models
