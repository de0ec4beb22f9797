package ws

import "github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"

// Client -> server event types.
const (
	EventSubscribe       = "subscribe"
	EventMessage         = "message"
	EventTypingStart     = "typing_start"
	EventTypingStop      = "typing_stop"
	EventReactionAdded   = "reaction_added"
	EventReactionRemoved = "reaction_removed"
	EventMessageRead     = "message_read"
)

// Server -> client frame types.
const (
	FrameConnected  = "connected"
	FrameNewMessage = "new_message"
	FrameError      = "error"
)

// ClientFrame is the union of all client -> server events. Type selects
// which fields are meaningful.
type ClientFrame struct {
	Type              string `json:"type"`
	ConversationID    int64  `json:"conversationId,omitempty"`
	Content           string `json:"content,omitempty"`
	MessageID         int64  `json:"messageId,omitempty"`
	Emoji             string `json:"emoji,omitempty"`
	LastReadMessageID int64  `json:"lastReadMessageId,omitempty"`
}

type ConnectedFrame struct {
	Type   string `json:"type"`
	UserID int64  `json:"userId"`
}

type NewMessageFrame struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message"`
}

type TypingFrame struct {
	Type           string `json:"type"`
	ConversationID int64  `json:"conversationId"`
	UserID         int64  `json:"userId"`
}

type ReactionFrame struct {
	Type           string `json:"type"`
	ConversationID int64  `json:"conversationId"`
	MessageID      int64  `json:"messageId"`
	UserID         int64  `json:"userId"`
	Emoji          string `json:"emoji"`
}

type MessageReadFrame struct {
	Type              string `json:"type"`
	ConversationID    int64  `json:"conversationId"`
	UserID            int64  `json:"userId"`
	LastReadMessageID int64  `json:"lastReadMessageId"`
}

type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}
