package domain

import (
	"context"
	"time"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ListNotifiable returns all active, non-suspended users. Used by the
	// all-users broadcast.
	ListNotifiable(ctx context.Context) ([]*User, error)
}

// ConversationRepository defines persistence operations for conversations.
type ConversationRepository interface {
	// GetOrCreate returns the conversation for the unordered pair (a, b),
	// creating it if none exists. Concurrent first-contact calls for the same
	// pair must resolve to a single row.
	GetOrCreate(ctx context.Context, a, b int64) (*Conversation, error)
	GetByID(ctx context.Context, id int64) (*Conversation, error)
	// ListForUser returns the user's conversations ordered by
	// last_message_at descending.
	ListForUser(ctx context.Context, userID int64) ([]*Conversation, error)
	// TouchLastMessage bumps last_message_at, never moving it backwards.
	TouchLastMessage(ctx context.Context, id int64, at time.Time) error
}

// MessageRepository defines persistence operations for messages.
type MessageRepository interface {
	Create(ctx context.Context, m *Message) error
	GetByID(ctx context.Context, id int64) (*Message, error)
	// ListForConversation returns the full history in ascending time order.
	ListForConversation(ctx context.Context, conversationID int64) ([]*Message, error)
	Latest(ctx context.Context, conversationID int64) (*Message, error)
	// MarkAllRead flips is_read for every message in the conversation not
	// sent by readerID.
	MarkAllRead(ctx context.Context, conversationID, readerID int64) error
	// UnreadCount counts messages in one conversation not sent by userID and
	// not yet read.
	UnreadCount(ctx context.Context, conversationID, userID int64) (int, error)
	// UnreadTotal sums unread messages across all of userID's conversations.
	UnreadTotal(ctx context.Context, userID int64) (int, error)
}

// ReactionRepository defines persistence operations for message reactions.
type ReactionRepository interface {
	// Add inserts the (message, user, emoji) member; duplicates are ignored.
	Add(ctx context.Context, r *MessageReaction) error
	Remove(ctx context.Context, messageID, userID int64, emoji string) error
	ListForMessage(ctx context.Context, messageID int64) ([]*MessageReaction, error)
}

// ReceiptRepository defines persistence operations for read receipts.
type ReceiptRepository interface {
	// Upsert overwrites the singleton (conversation, user) cursor row.
	Upsert(ctx context.Context, rr *ReadReceipt) error
	Get(ctx context.Context, conversationID, userID int64) (*ReadReceipt, error)
	ListForConversation(ctx context.Context, conversationID int64) ([]*ReadReceipt, error)
}

// PresenceRepository defines persistence operations for presence rows.
type PresenceRepository interface {
	// Set writes the user's presence row, last write wins.
	Set(ctx context.Context, userID int64, status PresenceStatus, at time.Time) error
	Get(ctx context.Context, userID int64) (*Presence, error)
	ListOnline(ctx context.Context, excludeUserID int64) ([]*Presence, error)
}

// NotificationRepository defines persistence operations for notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *Notification) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]*Notification, error)
	MarkRead(ctx context.Context, id, userID int64) error
	Dismiss(ctx context.Context, id, userID int64) error
	UnreadCount(ctx context.Context, userID int64) (int, error)
}

// PreferenceRepository defines persistence operations for notification
// preferences.
type PreferenceRepository interface {
	Get(ctx context.Context, userID int64, category, subcategory string) (*NotificationPreference, error)
	// Upsert writes the (user, category, subcategory) row, last write wins.
	Upsert(ctx context.Context, p *NotificationPreference) error
	ListForUser(ctx context.Context, userID int64) ([]*NotificationPreference, error)
	// SeedDefaults bulk-creates the registration-time cross-product inside a
	// single transaction. Existing rows are left untouched.
	SeedDefaults(ctx context.Context, userID int64, prefs []*NotificationPreference) error
}

// InterestRepository defines persistence operations for category interests.
type InterestRepository interface {
	Add(ctx context.Context, i *UserCategoryInterest) error
	Remove(ctx context.Context, userID int64, categoryType, categoryValue string) error
	// ListUserIDs returns ids of users with an exact-match interest row.
	ListUserIDs(ctx context.Context, categoryType, categoryValue string) ([]int64, error)
}
