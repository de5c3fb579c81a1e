// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/bookclub/models"
)

// UserByUsername looks a user up by handle.
func (q *Queries) UserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	var u models.User
	err := q.q.QueryRowContext(ctx, `
		SELECT id, username FROM users WHERE username = $1
	`, username).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to query user: %w", err)
	}
	return u, true, nil
}

func (q *Queries) UserByID(ctx context.Context, id string) (models.User, bool, error) {
	var u models.User
	err := q.q.QueryRowContext(ctx, `
		SELECT id, username FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, false, nil
	}
	if err != nil {
		return models.User{}, false, fmt.Errorf("failed to query user: %w", err)
	}
	return u, true, nil
}

// ClubOwner returns the club's id_owner.
func (q *Queries) ClubOwner(ctx context.Context, clubID string) (string, error) {
	var ownerID string
	err := q.q.QueryRowContext(ctx, `
		SELECT id_owner FROM clubs WHERE id = $1
	`, clubID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to query club: %w", err)
	}
	return ownerID, nil
}

// MembershipRole returns the role on the user's membership row, or RoleNone
// when the user has no row in the club.
func (q *Queries) MembershipRole(ctx context.Context, userID, clubID string) (models.Role, error) {
	var role string
	err := q.q.QueryRowContext(ctx, `
		SELECT role FROM club_members WHERE user_id = $1 AND club_id = $2
	`, userID, clubID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return models.RoleNone, nil
	}
	if err != nil {
		return models.RoleNone, fmt.Errorf("failed to query membership: %w", err)
	}
	return models.Role(role), nil
}

// ClubMemberIDs returns the owner and every member of a club, deduplicated.
func (q *Queries) ClubMemberIDs(ctx context.Context, clubID string) ([]string, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id_owner FROM clubs WHERE id = $1
		UNION
		SELECT user_id FROM club_members WHERE club_id = $1
		ORDER BY 1
	`, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to query club members: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan club member: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const clubBookColumns = `cb.id, cb.club_id, cb.status, b.id, b.title, b.author`

func scanClubBook(scan func(dest ...any) error) (models.ClubBook, error) {
	var cb models.ClubBook
	err := scan(&cb.ID, &cb.ClubID, &cb.Status, &cb.Book.ID, &cb.Book.Title, &cb.Book.Author)
	return cb, err
}

// AvailableClubBooks returns the subset of ids that belong to the club and
// are still waiting to be read. Duplicate ids resolve to one row.
func (q *Queries) AvailableClubBooks(ctx context.Context, clubID string, ids []string) ([]models.ClubBook, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]any, 0, len(ids)+2)
	args = append(args, clubID, models.BookToRead)
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT `+clubBookColumns+`
		FROM club_books cb
		JOIN books b ON b.id = cb.book_id
		WHERE cb.club_id = $1 AND cb.status = $2 AND cb.id IN (`+placeholders(3, len(ids))+`)
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query club books: %w", err)
	}
	defer rows.Close()

	var books []models.ClubBook
	for rows.Next() {
		cb, err := scanClubBook(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan club book: %w", err)
		}
		books = append(books, cb)
	}
	return books, rows.Err()
}

func (q *Queries) ClubBookByID(ctx context.Context, id string) (models.ClubBook, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+clubBookColumns+`
		FROM club_books cb
		JOIN books b ON b.id = cb.book_id
		WHERE cb.id = $1
	`, id)
	cb, err := scanClubBook(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ClubBook{}, ErrNotFound
	}
	if err != nil {
		return models.ClubBook{}, fmt.Errorf("failed to query club book: %w", err)
	}
	return cb, nil
}

// SetClubBookStatus moves a club book along por_leer → leyendo → leido.
func (q *Queries) SetClubBookStatus(ctx context.Context, id, status string) error {
	n, err := q.exec(ctx, `
		UPDATE club_books SET status = $1 WHERE id = $2
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update club book: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
