package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

type ConversationRepo struct {
	db *sql.DB
}

func NewConversationRepo(db *sql.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

var _ domain.ConversationRepository = (*ConversationRepo)(nil)

const conversationColumns = `id, user_low_id, user_high_id, last_message_at, created_at`

// GetOrCreate resolves the unordered pair (a, b) to exactly one row. The
// insert is guarded by the UNIQUE (user_low_id, user_high_id) index: a losing
// racer's INSERT OR IGNORE is a no-op and the follow-up select returns the
// winner's row.
func (r *ConversationRepo) GetOrCreate(ctx context.Context, a, b int64) (*domain.Conversation, error) {
	low, high := domain.CanonicalPair(a, b)

	if c, err := r.getByPair(ctx, low, high); err != nil || c != nil {
		return c, err
	}

	now := time.Now().UTC()
	if _, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO conversations (user_low_id, user_high_id, last_message_at, created_at)
		VALUES (?, ?, ?, ?)
	`, low, high, now, now); err != nil {
		return nil, fmt.Errorf("insert conversation: %w", err)
	}

	c, err := r.getByPair(ctx, low, high)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("get-or-create conversation (%d,%d): %w", low, high, domain.ErrInternal)
	}
	return c, nil
}

func (r *ConversationRepo) getByPair(ctx context.Context, low, high int64) (*domain.Conversation, error) {
	c := &domain.Conversation{}
	err := r.db.QueryRowContext(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE user_low_id = ? AND user_high_id = ?
	`, low, high).Scan(
		&c.ID,
		&c.UserLowID,
		&c.UserHighID,
		&c.LastMessageAt,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation by pair: %w", err)
	}
	return c, nil
}

func (r *ConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	c := &domain.Conversation{}
	err := r.db.QueryRowContext(ctx, `
		SELECT `+conversationColumns+` FROM conversations WHERE id = ?
	`, id).Scan(
		&c.ID,
		&c.UserLowID,
		&c.UserHighID,
		&c.LastMessageAt,
		&c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	return c, nil
}

func (r *ConversationRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.Conversation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+conversationColumns+`
		FROM conversations
		WHERE user_low_id = ? OR user_high_id = ?
		ORDER BY last_message_at DESC
	`, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var res []*domain.Conversation
	for rows.Next() {
		c := &domain.Conversation{}
		if err := rows.Scan(
			&c.ID,
			&c.UserLowID,
			&c.UserHighID,
			&c.LastMessageAt,
			&c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// TouchLastMessage moves last_message_at forward, never backwards.
func (r *ConversationRepo) TouchLastMessage(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE conversations
		SET last_message_at = ?
		WHERE id = ? AND last_message_at < ?
	`, at.UTC(), id, at.UTC())
	if err != nil {
		return fmt.Errorf("touch last message: %w", err)
	}
	return nil
}
