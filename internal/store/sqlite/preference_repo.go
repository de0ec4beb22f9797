package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

type PreferenceRepo struct {
	db *sql.DB
}

func NewPreferenceRepo(db *sql.DB) *PreferenceRepo {
	return &PreferenceRepo{db: db}
}

var _ domain.PreferenceRepository = (*PreferenceRepo)(nil)

const preferenceColumns = `id, user_id, category, subcategory, in_app_enabled, email_enabled, email_frequency, updated_at`

func (r *PreferenceRepo) Get(ctx context.Context, userID int64, category, subcategory string) (*domain.NotificationPreference, error) {
	p := &domain.NotificationPreference{}
	var freq string
	err := r.db.QueryRowContext(ctx, `
		SELECT `+preferenceColumns+`
		FROM notification_preferences
		WHERE user_id = ? AND category = ? AND subcategory = ?
	`, userID, category, subcategory).Scan(
		&p.ID,
		&p.UserID,
		&p.Category,
		&p.Subcategory,
		&p.InAppEnabled,
		&p.EmailEnabled,
		&freq,
		&p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get preference: %w", err)
	}
	p.EmailFrequency = domain.EmailFrequency(freq)
	return p, nil
}

// Upsert writes the preference row; the last writer wins on conflict.
func (r *PreferenceRepo) Upsert(ctx context.Context, p *domain.NotificationPreference) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notification_preferences (user_id, category, subcategory, in_app_enabled, email_enabled, email_frequency, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, category, subcategory) DO UPDATE SET
			in_app_enabled = excluded.in_app_enabled,
			email_enabled = excluded.email_enabled,
			email_frequency = excluded.email_frequency,
			updated_at = excluded.updated_at
	`, p.UserID, p.Category, p.Subcategory, p.InAppEnabled, p.EmailEnabled, string(p.EmailFrequency), p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

func (r *PreferenceRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.NotificationPreference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+preferenceColumns+`
		FROM notification_preferences
		WHERE user_id = ?
		ORDER BY category ASC, subcategory ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	defer rows.Close()

	var res []*domain.NotificationPreference
	for rows.Next() {
		p := &domain.NotificationPreference{}
		var freq string
		if err := rows.Scan(
			&p.ID,
			&p.UserID,
			&p.Category,
			&p.Subcategory,
			&p.InAppEnabled,
			&p.EmailEnabled,
			&freq,
			&p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan preference: %w", err)
		}
		p.EmailFrequency = domain.EmailFrequency(freq)
		res = append(res, p)
	}
	return res, rows.Err()
}

// SeedDefaults inserts the registration-time cross-product in one
// transaction. Rows already present are left untouched.
func (r *PreferenceRepo) SeedDefaults(ctx context.Context, userID int64, prefs []*domain.NotificationPreference) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, p := range prefs {
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO notification_preferences (user_id, category, subcategory, in_app_enabled, email_enabled, email_frequency, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, userID, p.Category, p.Subcategory, p.InAppEnabled, p.EmailEnabled, string(p.EmailFrequency), now); err != nil {
			return fmt.Errorf("seed preference %s/%s: %w", p.Category, p.Subcategory, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
