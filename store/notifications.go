// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/bookclub/models"
)

// InsertNotifications writes inbox rows. Callers fan out inside InTx so a
// broadcast lands for every member or for none.
func (q *Queries) InsertNotifications(ctx context.Context, notifications []models.Notification) error {
	for _, n := range notifications {
		var data sql.NullString
		if n.Data != nil {
			raw, err := json.Marshal(n.Data)
			if err != nil {
				return fmt.Errorf("failed to encode notification data: %w", err)
			}
			data = sql.NullString{String: string(raw), Valid: true}
		}

		_, err := q.exec(ctx, `
			INSERT INTO notifications (id, user_id, type, title, message, data, read, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, n.ID, n.UserID, n.Type, n.Title, n.Message, data, n.Read, utc(n.CreatedAt))
		if err != nil {
			return fmt.Errorf("failed to insert notification: %w", err)
		}
	}
	return nil
}

const notificationColumns = `id, user_id, type, title, message, data, read, created_at`

func scanNotification(scan func(dest ...any) error) (models.Notification, error) {
	var n models.Notification
	var data sql.NullString
	if err := scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &data, &n.Read, &n.CreatedAt); err != nil {
		return models.Notification{}, err
	}
	if data.Valid {
		if err := json.Unmarshal([]byte(data.String), &n.Data); err != nil {
			return models.Notification{}, fmt.Errorf("failed to decode notification data: %w", err)
		}
	}
	n.CreatedAt = utc(n.CreatedAt)
	return n, nil
}

// Notifications lists a user's inbox, newest first. read filters by read
// state when non-nil.
func (q *Queries) Notifications(ctx context.Context, userID string, read *bool, limit int) ([]models.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1`
	args := []any{userID}
	if read != nil {
		query += ` AND read = $2`
		args = append(args, *read)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit)

	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (q *Queries) NotificationByID(ctx context.Context, id string) (models.Notification, error) {
	row := q.q.QueryRowContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE id = $1
	`, id)
	n, err := scanNotification(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Notification{}, ErrNotFound
	}
	if err != nil {
		return models.Notification{}, fmt.Errorf("failed to query notification: %w", err)
	}
	return n, nil
}

func (q *Queries) UnreadCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = $2
	`, userID, false).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

// MarkNotificationRead flags one notification as read. Marking an already
// read notification is not an error.
func (q *Queries) MarkNotificationRead(ctx context.Context, id string) error {
	n, err := q.exec(ctx, `
		UPDATE notifications SET read = $1 WHERE id = $2
	`, true, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsRead flags every unread notification of the user and
// returns how many changed.
func (q *Queries) MarkAllNotificationsRead(ctx context.Context, userID string) (int64, error) {
	n, err := q.exec(ctx, `
		UPDATE notifications SET read = $1 WHERE user_id = $2 AND read = $3
	`, true, userID, false)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return n, nil
}

func (q *Queries) DeleteNotification(ctx context.Context, id string) error {
	n, err := q.exec(ctx, `
		DELETE FROM notifications WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearReadNotifications deletes the user's read notifications and returns
// how many were removed.
func (q *Queries) ClearReadNotifications(ctx context.Context, userID string) (int64, error) {
	n, err := q.exec(ctx, `
		DELETE FROM notifications WHERE user_id = $1 AND read = $2
	`, userID, true)
	if err != nil {
		return 0, fmt.Errorf("failed to clear notifications: %w", err)
	}
	return n, nil
}
