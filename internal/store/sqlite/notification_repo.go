package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

type NotificationRepo struct {
	db *sql.DB
}

func NewNotificationRepo(db *sql.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

var _ domain.NotificationRepository = (*NotificationRepo)(nil)

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	var payload *string
	if len(n.Payload) > 0 {
		s := string(n.Payload)
		payload = &s
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, type, category, priority, entity_id, actor_id, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.UserID, n.Type, n.Category, n.Priority, n.EntityID, n.ActorID, payload, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	n.ID = id
	return nil
}

func (r *NotificationRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, category, priority, entity_id, actor_id, payload, read_at, dismissed_at, created_at
		FROM notifications
		WHERE user_id = ? AND dismissed_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var res []*domain.Notification
	for rows.Next() {
		n := &domain.Notification{}
		var payload sql.NullString
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Type,
			&n.Category,
			&n.Priority,
			&n.EntityID,
			&n.ActorID,
			&payload,
			&n.ReadAt,
			&n.DismissedAt,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if payload.Valid {
			n.Payload = json.RawMessage(payload.String)
		}
		res = append(res, n)
	}
	return res, rows.Err()
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET read_at = ?
		WHERE id = ? AND user_id = ? AND read_at IS NULL
	`, time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) Dismiss(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET dismissed_at = ?
		WHERE id = ? AND user_id = ? AND dismissed_at IS NULL
	`, time.Now().UTC(), id, userID)
	if err != nil {
		return fmt.Errorf("dismiss notification: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *NotificationRepo) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM notifications
		WHERE user_id = ? AND read_at IS NULL AND dismissed_at IS NULL
	`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}
