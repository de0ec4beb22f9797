package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
)

// PresenceService tracks per-user online/offline state. Writes happen only
// through the websocket connect/disconnect hooks; there is no TTL or
// heartbeat expiry, so a connection that dies without a clean close leaves
// the user online until the transport's keep-alive fires the close.
type PresenceService struct {
	presence domain.PresenceRepository
	users    domain.UserRepository
}

func NewPresenceService(presence domain.PresenceRepository, users domain.UserRepository) *PresenceService {
	return &PresenceService{presence: presence, users: users}
}

func (s *PresenceService) SetOnline(ctx context.Context, userID int64) error {
	return s.presence.Set(ctx, userID, domain.PresenceOnline, time.Now().UTC())
}

func (s *PresenceService) SetOffline(ctx context.Context, userID int64) error {
	return s.presence.Set(ctx, userID, domain.PresenceOffline, time.Now().UTC())
}

// Get returns the user's presence. A user that exists but has never
// connected reads as offline.
func (s *PresenceService) Get(ctx context.Context, userID int64) (*domain.Presence, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: user %d", domain.ErrNotFound, userID)
	}
	p, err := s.presence.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &domain.Presence{UserID: userID, Status: domain.PresenceOffline}
	}
	return p, nil
}

// Online lists currently-online users, optionally excluding one user id
// (pass 0 to exclude nobody).
func (s *PresenceService) Online(ctx context.Context, excludeUserID int64) ([]*domain.Presence, error) {
	return s.presence.ListOnline(ctx, excludeUserID)
}
