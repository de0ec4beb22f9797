package service

import (
	"context"
	"fmt"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

type ConversationService struct {
	conversations domain.ConversationRepository
	messages      domain.MessageRepository
	users         domain.UserRepository
}

func NewConversationService(
	conversations domain.ConversationRepository,
	messages domain.MessageRepository,
	users domain.UserRepository,
) *ConversationService {
	return &ConversationService{
		conversations: conversations,
		messages:      messages,
		users:         users,
	}
}

// GetOrCreate returns the single conversation for the unordered pair
// (callerID, peerID), creating it lazily on first contact.
func (s *ConversationService) GetOrCreate(ctx context.Context, callerID, peerID int64) (*domain.Conversation, error) {
	if callerID == peerID {
		return nil, fmt.Errorf("%w: cannot start a conversation with yourself", domain.ErrValidation)
	}
	peer, err := s.users.GetByID(ctx, peerID)
	if err != nil {
		return nil, fmt.Errorf("get peer: %w", err)
	}
	if peer == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, peerID)
	}
	return s.conversations.GetOrCreate(ctx, callerID, peerID)
}

// Get returns the conversation after verifying the caller participates in it.
func (s *ConversationService) Get(ctx context.Context, conversationID, callerID int64) (*domain.Conversation, error) {
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

// PeerProfile is the slice of the other participant's account shown in
// conversation listings.
type PeerProfile struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email,omitempty"`
}

// ConversationSummary is one entry of the enriched conversation listing.
type ConversationSummary struct {
	Conversation *domain.Conversation `json:"conversation"`
	Peer         *PeerProfile         `json:"peer"`
	UnreadCount  int                  `json:"unread_count"`
	LastMessage  *domain.Message      `json:"last_message,omitempty"`
}

// ListForUser returns the caller's conversations, newest activity first, each
// enriched with the peer's profile, the caller's unread count, and the most
// recent message.
func (s *ConversationService) ListForUser(ctx context.Context, userID int64) ([]*ConversationSummary, error) {
	convs, err := s.conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	res := make([]*ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		peerID := conv.PeerOf(userID)
		peer, err := s.users.GetByID(ctx, peerID)
		if err != nil {
			return nil, fmt.Errorf("get peer %d: %w", peerID, err)
		}
		unread, err := s.messages.UnreadCount(ctx, conv.ID, userID)
		if err != nil {
			return nil, fmt.Errorf("unread count: %w", err)
		}
		last, err := s.messages.Latest(ctx, conv.ID)
		if err != nil {
			return nil, fmt.Errorf("latest message: %w", err)
		}

		summary := &ConversationSummary{
			Conversation: conv,
			UnreadCount:  unread,
			LastMessage:  last,
		}
		if peer != nil {
			summary.Peer = &PeerProfile{ID: peer.ID, Username: peer.Username, Email: peer.Email}
		}
		res = append(res, summary)
	}
	return res, nil
}
