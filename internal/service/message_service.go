package service

import (
	"context"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/notify"
)

// Notifier is the slice of the notification engine that message sending
// feeds: every persisted message produces a new_message event for the peer.
type Notifier interface {
	Notify(ctx context.Context, userID int64, notificationType string, opts NotifyOptions) error
}

type MessageService struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	reactions     domain.ReactionRepository
	receipts      domain.ReceiptRepository
	notifier      Notifier

	MaxMessageLength int
}

func NewMessageService(
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	reactions domain.ReactionRepository,
	receipts domain.ReceiptRepository,
	notifier Notifier,
	maxMessageLength int,
) *MessageService {
	if maxMessageLength <= 0 {
		maxMessageLength = 5000
	}
	return &MessageService{
		conversations:    conversations,
		messages:         messages,
		reactions:        reactions,
		receipts:         receipts,
		notifier:         notifier,
		MaxMessageLength: maxMessageLength,
	}
}

// Attachment is the metadata of an already-uploaded file referenced by a
// message. Upload handling itself lives outside this subsystem.
type Attachment struct {
	URL  string
	Name string
	Mime string
}

type SendInput struct {
	ConversationID int64
	Content        string
	Attachment     *Attachment
}

// Send validates and persists a message, bumps the conversation's
// last_message_at, and hands the peer a new_message notification. The
// notification is best-effort: a preference-suppressed or failed write never
// fails the send.
func (s *MessageService) Send(ctx context.Context, in SendInput, senderID int64) (*domain.Message, error) {
	conv, err := s.conversations.GetByID(ctx, in.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %d", domain.ErrNotFound, in.ConversationID)
	}
	if !conv.HasParticipant(senderID) {
		return nil, domain.ErrUnauthorized
	}

	if in.Content == "" && in.Attachment == nil {
		return nil, fmt.Errorf("%w: message content cannot be empty", domain.ErrValidation)
	}
	if utf8.RuneCountInString(in.Content) > s.MaxMessageLength {
		return nil, fmt.Errorf("%w: message content exceeds %d characters", domain.ErrValidation, s.MaxMessageLength)
	}

	msg := &domain.Message{
		ConversationID: in.ConversationID,
		SenderID:       senderID,
		Content:        in.Content,
	}
	if in.Attachment != nil {
		msg.FileURL = &in.Attachment.URL
		msg.FileName = &in.Attachment.Name
		msg.FileMime = &in.Attachment.Mime
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, err
	}

	// Not atomic with the insert; the repo guard keeps last_message_at from
	// ever moving behind the newest message.
	if err := s.conversations.TouchLastMessage(ctx, conv.ID, msg.CreatedAt); err != nil {
		return nil, fmt.Errorf("touch conversation: %w", err)
	}

	if s.notifier != nil {
		peerID := conv.PeerOf(senderID)
		if err := s.notifier.Notify(ctx, peerID, notify.TypeNewMessage, NotifyOptions{
			EntityID: &msg.ID,
			ActorID:  &senderID,
		}); err != nil {
			slog.Warn("new_message notification failed", "conversation", conv.ID, "peer", peerID, "err", err)
		}
	}

	return msg, nil
}

// History returns the full ascending message history of a conversation the
// caller participates in.
func (s *MessageService) History(ctx context.Context, conversationID, callerID int64) ([]*domain.Message, error) {
	if _, err := s.requireParticipant(ctx, conversationID, callerID); err != nil {
		return nil, err
	}
	return s.messages.ListForConversation(ctx, conversationID)
}

// MarkRead flips is_read on every message in the conversation not sent by
// the caller.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, callerID int64) error {
	if _, err := s.requireParticipant(ctx, conversationID, callerID); err != nil {
		return err
	}
	return s.messages.MarkAllRead(ctx, conversationID, callerID)
}

// UnreadTotal sums unread messages across all of the caller's conversations.
func (s *MessageService) UnreadTotal(ctx context.Context, callerID int64) (int, error) {
	return s.messages.UnreadTotal(ctx, callerID)
}

// GetMessage returns a message after verifying the caller participates in
// its conversation.
func (s *MessageService) GetMessage(ctx context.Context, messageID, callerID int64) (*domain.Message, error) {
	return s.requireMessageAccess(ctx, messageID, callerID)
}

// AddReaction attaches an emoji to a message. Set semantics: re-adding the
// same emoji is a no-op.
func (s *MessageService) AddReaction(ctx context.Context, messageID, callerID int64, emoji string) (*domain.MessageReaction, error) {
	if err := validateEmoji(emoji); err != nil {
		return nil, err
	}
	if _, err := s.requireMessageAccess(ctx, messageID, callerID); err != nil {
		return nil, err
	}
	reaction := &domain.MessageReaction{
		MessageID: messageID,
		UserID:    callerID,
		Emoji:     emoji,
	}
	if err := s.reactions.Add(ctx, reaction); err != nil {
		return nil, err
	}
	return reaction, nil
}

// RemoveReaction detaches an emoji from a message. Because adds are
// set-inserts, a single remove clears the pair regardless of how many times
// the add was issued.
func (s *MessageService) RemoveReaction(ctx context.Context, messageID, callerID int64, emoji string) error {
	if err := validateEmoji(emoji); err != nil {
		return err
	}
	if _, err := s.requireMessageAccess(ctx, messageID, callerID); err != nil {
		return err
	}
	return s.reactions.Remove(ctx, messageID, callerID, emoji)
}

// ListReactions returns all reactions on a message the caller can see.
func (s *MessageService) ListReactions(ctx context.Context, messageID, callerID int64) ([]*domain.MessageReaction, error) {
	if _, err := s.requireMessageAccess(ctx, messageID, callerID); err != nil {
		return nil, err
	}
	return s.reactions.ListForMessage(ctx, messageID)
}

// UpdateReceipt overwrites the caller's read cursor for the conversation.
func (s *MessageService) UpdateReceipt(ctx context.Context, conversationID, callerID, lastReadMessageID int64) (*domain.ReadReceipt, error) {
	if _, err := s.requireParticipant(ctx, conversationID, callerID); err != nil {
		return nil, err
	}
	msg, err := s.messages.GetByID(ctx, lastReadMessageID)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if msg == nil || msg.ConversationID != conversationID {
		return nil, fmt.Errorf("%w: message %d is not in conversation %d", domain.ErrValidation, lastReadMessageID, conversationID)
	}
	rr := &domain.ReadReceipt{
		ConversationID:    conversationID,
		UserID:            callerID,
		LastReadMessageID: lastReadMessageID,
	}
	if err := s.receipts.Upsert(ctx, rr); err != nil {
		return nil, err
	}
	return rr, nil
}

// Receipts returns the read cursors of both participants.
func (s *MessageService) Receipts(ctx context.Context, conversationID, callerID int64) ([]*domain.ReadReceipt, error) {
	if _, err := s.requireParticipant(ctx, conversationID, callerID); err != nil {
		return nil, err
	}
	return s.receipts.ListForConversation(ctx, conversationID)
}

func (s *MessageService) requireParticipant(ctx context.Context, conversationID, callerID int64) (*domain.Conversation, error) {
	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("%w: conversation %d", domain.ErrNotFound, conversationID)
	}
	if !conv.HasParticipant(callerID) {
		return nil, domain.ErrUnauthorized
	}
	return conv, nil
}

func (s *MessageService) requireMessageAccess(ctx context.Context, messageID, callerID int64) (*domain.Message, error) {
	msg, err := s.messages.GetByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("get message: %w", err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: message %d", domain.ErrNotFound, messageID)
	}
	if _, err := s.requireParticipant(ctx, msg.ConversationID, callerID); err != nil {
		return nil, err
	}
	return msg, nil
}

func validateEmoji(emoji string) error {
	n := utf8.RuneCountInString(emoji)
	if n == 0 || n > 10 {
		return fmt.Errorf("%w: emoji must be 1-10 characters", domain.ErrValidation)
	}
	return nil
}
