package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

type ReceiptRepo struct {
	db *sql.DB
}

func NewReceiptRepo(db *sql.DB) *ReceiptRepo {
	return &ReceiptRepo{db: db}
}

var _ domain.ReceiptRepository = (*ReceiptRepo)(nil)

// Upsert overwrites the singleton cursor row for (conversation, user).
func (r *ReceiptRepo) Upsert(ctx context.Context, rr *domain.ReadReceipt) error {
	if rr.UpdatedAt.IsZero() {
		rr.UpdatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO read_receipts (conversation_id, user_id, last_read_message_id, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (conversation_id, user_id) DO UPDATE SET
			last_read_message_id = excluded.last_read_message_id,
			updated_at = excluded.updated_at
	`, rr.ConversationID, rr.UserID, rr.LastReadMessageID, rr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert read receipt: %w", err)
	}
	return nil
}

func (r *ReceiptRepo) Get(ctx context.Context, conversationID, userID int64) (*domain.ReadReceipt, error) {
	rr := &domain.ReadReceipt{}
	err := r.db.QueryRowContext(ctx, `
		SELECT conversation_id, user_id, last_read_message_id, updated_at
		FROM read_receipts
		WHERE conversation_id = ? AND user_id = ?
	`, conversationID, userID).Scan(
		&rr.ConversationID,
		&rr.UserID,
		&rr.LastReadMessageID,
		&rr.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get read receipt: %w", err)
	}
	return rr, nil
}

func (r *ReceiptRepo) ListForConversation(ctx context.Context, conversationID int64) ([]*domain.ReadReceipt, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT conversation_id, user_id, last_read_message_id, updated_at
		FROM read_receipts
		WHERE conversation_id = ?
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list read receipts: %w", err)
	}
	defer rows.Close()

	var res []*domain.ReadReceipt
	for rows.Next() {
		rr := &domain.ReadReceipt{}
		if err := rows.Scan(
			&rr.ConversationID,
			&rr.UserID,
			&rr.LastReadMessageID,
			&rr.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan read receipt: %w", err)
		}
		res = append(res, rr)
	}
	return res, rows.Err()
}
