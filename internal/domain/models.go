package domain

import (
	"encoding/json"
	"time"
)

// PresenceStatus is the online/offline state tracked per user.
type PresenceStatus string

const (
	PresenceOnline  PresenceStatus = "online"
	PresenceOffline PresenceStatus = "offline"
)

// EmailFrequency controls how often email notifications are bundled.
type EmailFrequency string

const (
	FrequencyInstant EmailFrequency = "instant"
	FrequencyDaily   EmailFrequency = "daily"
	FrequencyWeekly  EmailFrequency = "weekly"
)

// ValidFrequency reports whether f is one of the supported email frequencies.
func ValidFrequency(f EmailFrequency) bool {
	switch f {
	case FrequencyInstant, FrequencyDaily, FrequencyWeekly:
		return true
	}
	return false
}

// User represents a platform resident account.
type User struct {
	ID             int64     `db:"id" json:"id"`
	Username       string    `db:"username" json:"username"`
	Email          *string   `db:"email" json:"email,omitempty"`
	HashedPassword string    `db:"hashed_password" json:"-"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	IsSuspended    bool      `db:"is_suspended" json:"is_suspended"`
	IsAdmin        bool      `db:"is_admin" json:"is_admin"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Conversation is a direct chat between an unordered pair of users. The pair
// is stored canonically (UserLowID < UserHighID) so that exactly one row can
// exist per pair regardless of who initiated contact.
type Conversation struct {
	ID            int64     `db:"id" json:"id"`
	UserLowID     int64     `db:"user_low_id" json:"user_low_id"`
	UserHighID    int64     `db:"user_high_id" json:"user_high_id"`
	LastMessageAt time.Time `db:"last_message_at" json:"last_message_at"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *Conversation) HasParticipant(userID int64) bool {
	return userID == c.UserLowID || userID == c.UserHighID
}

// PeerOf returns the other participant's id. The caller must already be a
// participant; for a non-participant the low id is returned.
func (c *Conversation) PeerOf(userID int64) int64 {
	if userID == c.UserLowID {
		return c.UserHighID
	}
	return c.UserLowID
}

// CanonicalPair orders two user ids into the (low, high) form used as the
// conversation's unique key.
func CanonicalPair(a, b int64) (low, high int64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Message is one entry in a conversation's append-only log. Content may be
// empty when an attachment is present. IsRead is the coarse server-side flag
// flipped in bulk by mark-as-read; the per-user cursor lives in ReadReceipt.
type Message struct {
	ID             int64     `db:"id" json:"id"`
	ConversationID int64     `db:"conversation_id" json:"conversation_id"`
	SenderID       int64     `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	FileURL        *string   `db:"file_url" json:"file_url,omitempty"`
	FileName       *string   `db:"file_name" json:"file_name,omitempty"`
	FileMime       *string   `db:"file_mime" json:"file_mime,omitempty"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// MessageReaction is a (message, user, emoji) set member. Adding the same
// emoji twice is a no-op.
type MessageReaction struct {
	ID        int64     `db:"id" json:"id"`
	MessageID int64     `db:"message_id" json:"message_id"`
	UserID    int64     `db:"user_id" json:"user_id"`
	Emoji     string    `db:"emoji" json:"emoji"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ReadReceipt is the durable per-(conversation, user) read cursor. One row
// per pair, overwritten on every update.
type ReadReceipt struct {
	ConversationID    int64     `db:"conversation_id" json:"conversation_id"`
	UserID            int64     `db:"user_id" json:"user_id"`
	LastReadMessageID int64     `db:"last_read_message_id" json:"last_read_message_id"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// Presence is the single online/offline row per user, written only by the
// websocket connect/disconnect hooks.
type Presence struct {
	UserID     int64          `db:"user_id" json:"user_id"`
	Status     PresenceStatus `db:"status" json:"status"`
	LastSeenAt time.Time      `db:"last_seen_at" json:"last_seen_at"`
}

// Notification is an append-only in-app notification record. It is never
// rewritten, only marked read or dismissed.
type Notification struct {
	ID          int64           `db:"id" json:"id"`
	UserID      int64           `db:"user_id" json:"user_id"`
	Type        string          `db:"type" json:"type"`
	Category    string          `db:"category" json:"category"`
	Priority    string          `db:"priority" json:"priority"`
	EntityID    *int64          `db:"entity_id" json:"entity_id,omitempty"`
	ActorID     *int64          `db:"actor_id" json:"actor_id,omitempty"`
	Payload     json.RawMessage `db:"payload" json:"payload,omitempty"`
	ReadAt      *time.Time      `db:"read_at" json:"read_at,omitempty"`
	DismissedAt *time.Time      `db:"dismissed_at" json:"dismissed_at,omitempty"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

// NotificationPreference is the per-(user, category, subcategory) opt-in row.
// Absence of a row means "use the subcategory's static default".
type NotificationPreference struct {
	ID             int64          `db:"id" json:"id"`
	UserID         int64          `db:"user_id" json:"user_id"`
	Category       string         `db:"category" json:"category"`
	Subcategory    string         `db:"subcategory" json:"subcategory"`
	InAppEnabled   bool           `db:"in_app_enabled" json:"in_app_enabled"`
	EmailEnabled   bool           `db:"email_enabled" json:"email_enabled"`
	EmailFrequency EmailFrequency `db:"email_frequency" json:"email_frequency"`
	UpdatedAt      time.Time      `db:"updated_at" json:"updated_at"`
}

// UserCategoryInterest marks a user as interested in an exact
// (categoryType, categoryValue) pair, e.g. ("idea_topic", "gardening").
type UserCategoryInterest struct {
	ID            int64  `db:"id" json:"id"`
	UserID        int64  `db:"user_id" json:"user_id"`
	CategoryType  string `db:"category_type" json:"category_type"`
	CategoryValue string `db:"category_value" json:"category_value"`
}
