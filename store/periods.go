// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/bookclub/models"
)

const periodColumns = `id, club_id, name, status, voting_ends_at, reading_ends_at,
		       winner_club_book_id, created_at, updated_at`

func scanPeriod(scan func(dest ...any) error) (models.ReadingPeriod, error) {
	var p models.ReadingPeriod
	var winner sql.NullString
	err := scan(&p.ID, &p.ClubID, &p.Name, &p.Status, &p.VotingEndsAt, &p.ReadingEndsAt,
		&winner, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return models.ReadingPeriod{}, err
	}
	p.WinnerClubBookID = nullString(winner)
	p.VotingEndsAt = utc(p.VotingEndsAt)
	p.ReadingEndsAt = utc(p.ReadingEndsAt)
	p.CreatedAt = utc(p.CreatedAt)
	p.UpdatedAt = utc(p.UpdatedAt)
	return p, nil
}

// InsertPeriod writes a new period row. A second active period for the
// same club fails with ErrConflict through ux_reading_periods_active.
func (q *Queries) InsertPeriod(ctx context.Context, p models.ReadingPeriod) error {
	_, err := q.exec(ctx, `
		INSERT INTO reading_periods (id, club_id, name, status, voting_ends_at, reading_ends_at,
		                             winner_club_book_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, p.ID, p.ClubID, p.Name, p.Status, utc(p.VotingEndsAt), utc(p.ReadingEndsAt),
		p.WinnerClubBookID, utc(p.CreatedAt), utc(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert period: %w", err)
	}
	return nil
}

func (q *Queries) InsertOption(ctx context.Context, o models.VotingOption) error {
	_, err := q.exec(ctx, `
		INSERT INTO voting_options (id, period_id, club_book_id, position)
		VALUES ($1, $2, $3, $4)
	`, o.ID, o.PeriodID, o.ClubBookID, o.Position)
	if err != nil {
		return fmt.Errorf("failed to insert voting option: %w", err)
	}
	return nil
}

func (q *Queries) PeriodByID(ctx context.Context, id string) (models.ReadingPeriod, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+periodColumns+`
		FROM reading_periods
		WHERE id = $1
	`, id)
	p, err := scanPeriod(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReadingPeriod{}, ErrNotFound
	}
	if err != nil {
		return models.ReadingPeriod{}, fmt.Errorf("failed to query period: %w", err)
	}
	return p, nil
}

// PeriodByStatus returns the club's period in the given status, if any.
func (q *Queries) PeriodByStatus(ctx context.Context, clubID, status string) (models.ReadingPeriod, bool, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+periodColumns+`
		FROM reading_periods
		WHERE club_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`, clubID, status)
	p, err := scanPeriod(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReadingPeriod{}, false, nil
	}
	if err != nil {
		return models.ReadingPeriod{}, false, fmt.Errorf("failed to query period: %w", err)
	}
	return p, true, nil
}

// ActivePeriod returns the club's VOTACION or LEYENDO period, if any.
func (q *Queries) ActivePeriod(ctx context.Context, clubID string) (models.ReadingPeriod, bool, error) {
	for _, status := range []string{models.StatusVoting, models.StatusReading} {
		p, ok, err := q.PeriodByStatus(ctx, clubID, status)
		if err != nil || ok {
			return p, ok, err
		}
	}
	return models.ReadingPeriod{}, false, nil
}

// ClosedPeriods returns the club's CERRADO periods, newest first.
func (q *Queries) ClosedPeriods(ctx context.Context, clubID string) ([]models.ReadingPeriod, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT `+periodColumns+`
		FROM reading_periods
		WHERE club_id = $1 AND status = $2
		ORDER BY created_at DESC, id DESC
	`, clubID, models.StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed periods: %w", err)
	}
	defer rows.Close()

	periods := []models.ReadingPeriod{}
	for rows.Next() {
		p, err := scanPeriod(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	return periods, rows.Err()
}

// LockPeriod bumps updated_at only while the period is still in status.
// It takes the row lock that serializes votes against transitions and
// returns ErrStale when the period has already moved on.
func (q *Queries) LockPeriod(ctx context.Context, periodID, status string, at time.Time) error {
	n, err := q.exec(ctx, `
		UPDATE reading_periods SET updated_at = $1
		WHERE id = $2 AND status = $3
	`, utc(at), periodID, status)
	if err != nil {
		return fmt.Errorf("failed to lock period: %w", err)
	}
	if n == 0 {
		return ErrStale
	}
	return nil
}

// TransitionPeriod moves a period from one status to the next. winner is
// only written when non-nil. Returns ErrStale if the period is not in from.
func (q *Queries) TransitionPeriod(ctx context.Context, periodID, from, to string, winner *string, at time.Time) error {
	n, err := q.exec(ctx, `
		UPDATE reading_periods
		SET status = $1, winner_club_book_id = COALESCE($2, winner_club_book_id), updated_at = $3
		WHERE id = $4 AND status = $5
	`, to, winner, utc(at), periodID, from)
	if err != nil {
		return fmt.Errorf("failed to update period status: %w", err)
	}
	if n == 0 {
		return ErrStale
	}
	return nil
}

// Options returns a period's voting options in creation order.
func (q *Queries) Options(ctx context.Context, periodID string) ([]models.VotingOption, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT o.id, o.period_id, o.club_book_id, o.position, `+clubBookColumns+`
		FROM voting_options o
		JOIN club_books cb ON cb.id = o.club_book_id
		JOIN books b ON b.id = cb.book_id
		WHERE o.period_id = $1
		ORDER BY o.position
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query voting options: %w", err)
	}
	defer rows.Close()

	options := []models.VotingOption{}
	for rows.Next() {
		var o models.VotingOption
		cb := &o.ClubBook
		if err := rows.Scan(&o.ID, &o.PeriodID, &o.ClubBookID, &o.Position,
			&cb.ID, &cb.ClubID, &cb.Status, &cb.Book.ID, &cb.Book.Title, &cb.Book.Author); err != nil {
			return nil, fmt.Errorf("failed to scan voting option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}

// OptionTallies returns every option of a period, in creation order, with
// its live vote count and voter usernames.
func (q *Queries) OptionTallies(ctx context.Context, periodID string) ([]models.OptionTally, error) {
	options, err := q.Options(ctx, periodID)
	if err != nil {
		return nil, err
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT v.option_id, u.username
		FROM votes v
		JOIN users u ON u.id = v.user_id
		WHERE v.period_id = $1
		ORDER BY v.created_at, u.username
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	voters := make(map[string][]string)
	for rows.Next() {
		var optionID, username string
		if err := rows.Scan(&optionID, &username); err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		voters[optionID] = append(voters[optionID], username)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tallies := make([]models.OptionTally, len(options))
	for i, o := range options {
		names := voters[o.ID]
		if names == nil {
			names = []string{}
		}
		tallies[i] = models.OptionTally{VotingOption: o, Votes: len(names), Voters: names}
	}
	return tallies, nil
}

// OptionInPeriod returns the option only if it belongs to the period.
func (q *Queries) OptionInPeriod(ctx context.Context, optionID, periodID string) (models.VotingOption, bool, error) {
	var o models.VotingOption
	cb := &o.ClubBook
	err := q.q.QueryRowContext(ctx, `
		SELECT o.id, o.period_id, o.club_book_id, o.position, `+clubBookColumns+`
		FROM voting_options o
		JOIN club_books cb ON cb.id = o.club_book_id
		JOIN books b ON b.id = cb.book_id
		WHERE o.id = $1 AND o.period_id = $2
	`, optionID, periodID).Scan(&o.ID, &o.PeriodID, &o.ClubBookID, &o.Position,
		&cb.ID, &cb.ClubID, &cb.Status, &cb.Book.ID, &cb.Book.Title, &cb.Book.Author)
	if errors.Is(err, sql.ErrNoRows) {
		return models.VotingOption{}, false, nil
	}
	if err != nil {
		return models.VotingOption{}, false, fmt.Errorf("failed to query voting option: %w", err)
	}
	return o, true, nil
}

func (q *Queries) VoteExists(ctx context.Context, optionID, userID string) (bool, error) {
	var exists bool
	err := q.q.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM votes WHERE option_id = $1 AND user_id = $2
		)
	`, optionID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to query vote: %w", err)
	}
	return exists, nil
}

// DeletePeriodVotes retracts every vote the user holds in the period.
func (q *Queries) DeletePeriodVotes(ctx context.Context, periodID, userID string) (int64, error) {
	n, err := q.exec(ctx, `
		DELETE FROM votes WHERE period_id = $1 AND user_id = $2
	`, periodID, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete votes: %w", err)
	}
	return n, nil
}

func (q *Queries) InsertVote(ctx context.Context, v models.Vote) error {
	_, err := q.exec(ctx, `
		INSERT INTO votes (id, option_id, period_id, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.OptionID, v.PeriodID, v.UserID, utc(v.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}
	return nil
}
