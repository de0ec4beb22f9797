package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

type PresenceRepo struct {
	db *sql.DB
}

func NewPresenceRepo(db *sql.DB) *PresenceRepo {
	return &PresenceRepo{db: db}
}

var _ domain.PresenceRepository = (*PresenceRepo)(nil)

// Set writes the single presence row for the user, last write wins.
func (r *PresenceRepo) Set(ctx context.Context, userID int64, status domain.PresenceStatus, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO presence (user_id, status, last_seen_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			status = excluded.status,
			last_seen_at = excluded.last_seen_at
	`, userID, string(status), at.UTC())
	if err != nil {
		return fmt.Errorf("set presence: %w", err)
	}
	return nil
}

func (r *PresenceRepo) Get(ctx context.Context, userID int64) (*domain.Presence, error) {
	p := &domain.Presence{}
	var status string
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, status, last_seen_at FROM presence WHERE user_id = ?
	`, userID).Scan(&p.UserID, &status, &p.LastSeenAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get presence: %w", err)
	}
	p.Status = domain.PresenceStatus(status)
	return p, nil
}

func (r *PresenceRepo) ListOnline(ctx context.Context, excludeUserID int64) ([]*domain.Presence, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, status, last_seen_at
		FROM presence
		WHERE status = ? AND user_id <> ?
		ORDER BY last_seen_at DESC
	`, string(domain.PresenceOnline), excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("list online: %w", err)
	}
	defer rows.Close()

	var res []*domain.Presence
	for rows.Next() {
		p := &domain.Presence{}
		var status string
		if err := rows.Scan(&p.UserID, &status, &p.LastSeenAt); err != nil {
			return nil, fmt.Errorf("scan presence: %w", err)
		}
		p.Status = domain.PresenceStatus(status)
		res = append(res, p)
	}
	return res, rows.Err()
}
