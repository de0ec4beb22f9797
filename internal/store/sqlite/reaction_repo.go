package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

type ReactionRepo struct {
	db *sql.DB
}

func NewReactionRepo(db *sql.DB) *ReactionRepo {
	return &ReactionRepo{db: db}
}

var _ domain.ReactionRepository = (*ReactionRepo)(nil)

// Add inserts the reaction; the UNIQUE (message_id, user_id, emoji) index
// makes duplicate adds no-ops, so the operation is set-insert, not a counter.
func (r *ReactionRepo) Add(ctx context.Context, reaction *domain.MessageReaction) error {
	if reaction.CreatedAt.IsZero() {
		reaction.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO message_reactions (message_id, user_id, emoji, created_at)
		VALUES (?, ?, ?, ?)
	`, reaction.MessageID, reaction.UserID, reaction.Emoji, reaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert reaction: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		reaction.ID = id
	}
	return nil
}

func (r *ReactionRepo) Remove(ctx context.Context, messageID, userID int64, emoji string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM message_reactions
		WHERE message_id = ? AND user_id = ? AND emoji = ?
	`, messageID, userID, emoji)
	if err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}
	return nil
}

func (r *ReactionRepo) ListForMessage(ctx context.Context, messageID int64) ([]*domain.MessageReaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, message_id, user_id, emoji, created_at
		FROM message_reactions
		WHERE message_id = ?
		ORDER BY created_at ASC
	`, messageID)
	if err != nil {
		return nil, fmt.Errorf("list reactions: %w", err)
	}
	defer rows.Close()

	var res []*domain.MessageReaction
	for rows.Next() {
		reaction := &domain.MessageReaction{}
		if err := rows.Scan(
			&reaction.ID,
			&reaction.MessageID,
			&reaction.UserID,
			&reaction.Emoji,
			&reaction.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan reaction: %w", err)
		}
		res = append(res, reaction)
	}
	return res, rows.Err()
}
