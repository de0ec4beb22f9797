package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/notify"
)

// broadcastBatchSize caps how many notification writes an all-users
// broadcast issues concurrently. Batches run strictly one after another to
// protect the store's connection pool; inside a batch every write runs
// concurrently.
const broadcastBatchSize = 50

// NotificationService decides, per event and per user, whether to persist an
// in-app notification. Suppression by preference is a silent success.
type NotificationService struct {
	notifications domain.NotificationRepository
	preferences   domain.PreferenceRepository
	interests     domain.InterestRepository
	users         domain.UserRepository

	batchSize int
}

func NewNotificationService(
	notifications domain.NotificationRepository,
	preferences domain.PreferenceRepository,
	interests domain.InterestRepository,
	users domain.UserRepository,
	batchSize int,
) *NotificationService {
	if batchSize <= 0 {
		batchSize = broadcastBatchSize
	}
	return &NotificationService{
		notifications: notifications,
		preferences:   preferences,
		interests:     interests,
		users:         users,
		batchSize:     batchSize,
	}
}

var _ Notifier = (*NotificationService)(nil)

// NotifyOptions carries the optional fields of a notification event.
type NotifyOptions struct {
	EntityID *int64
	ActorID  *int64
	Payload  json.RawMessage
}

// Notify is the single-recipient primitive. Unknown types and
// preference-suppressed events are successful no-ops; only store failures
// surface as errors.
func (s *NotificationService) Notify(ctx context.Context, userID int64, notificationType string, opts NotifyOptions) error {
	cfg, ok := notify.Lookup(notificationType)
	if !ok {
		slog.Warn("unknown notification type", "type", notificationType, "user", userID)
		return nil
	}

	enabled, err := s.Enabled(ctx, userID, cfg.Category, cfg.Type)
	if err != nil {
		return fmt.Errorf("resolve preference: %w", err)
	}
	if !enabled {
		return nil
	}

	n := &domain.Notification{
		UserID:   userID,
		Type:     cfg.Type,
		Category: cfg.Category,
		Priority: cfg.Priority,
		EntityID: opts.EntityID,
		ActorID:  opts.ActorID,
		Payload:  opts.Payload,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// Enabled resolves the in-app opt-in for (user, category, subcategory): an
// explicit preference row is authoritative, otherwise the subcategory's
// static default applies. A subcategory missing from the catalog reads as
// enabled.
func (s *NotificationService) Enabled(ctx context.Context, userID int64, category, subcategory string) (bool, error) {
	pref, err := s.preferences.Get(ctx, userID, category, subcategory)
	if err != nil {
		return false, err
	}
	if pref != nil {
		return pref.InAppEnabled, nil
	}
	cfg, ok := notify.Lookup(subcategory)
	if !ok {
		return true, nil
	}
	return cfg.DefaultEnabled, nil
}

// NotifyInterested fans an event out to every user with an exact-match
// interest in (categoryType, categoryValue), excluding the actor. Calling it
// for a type not flagged interest-based is a caller-contract violation:
// logged loudly, then a no-op.
func (s *NotificationService) NotifyInterested(ctx context.Context, notificationType, categoryType, categoryValue string, actorID int64, opts NotifyOptions) error {
	cfg, ok := notify.Lookup(notificationType)
	if !ok || !cfg.RequiresInterest {
		slog.Warn("interest fan-out called for non-interest type", "type", notificationType)
		return nil
	}

	userIDs, err := s.interests.ListUserIDs(ctx, categoryType, categoryValue)
	if err != nil {
		return fmt.Errorf("list interested users: %w", err)
	}

	if opts.ActorID == nil && actorID != 0 {
		opts.ActorID = &actorID
	}
	for _, id := range userIDs {
		if id == actorID {
			continue
		}
		if err := s.Notify(ctx, id, notificationType, opts); err != nil {
			slog.Error("interest notification failed", "type", notificationType, "user", id, "err", err)
		}
	}
	return nil
}

// NotifyAllUsers broadcasts to every active, non-suspended user except the
// actor. Batches of batchSize run sequentially; writes inside a batch run
// concurrently and every one settles before the next batch starts. Per-user
// failures are logged and dropped — there is no retry, and the broadcast
// never reports them to its caller. Producers invoke this in its own
// goroutine so a triggering HTTP response never waits on it.
func (s *NotificationService) NotifyAllUsers(ctx context.Context, notificationType string, actorID int64, opts NotifyOptions) {
	users, err := s.users.ListNotifiable(ctx)
	if err != nil {
		slog.Error("broadcast aborted: list users", "type", notificationType, "err", err)
		return
	}

	recipients := make([]int64, 0, len(users))
	for _, u := range users {
		if u.ID == actorID {
			continue
		}
		recipients = append(recipients, u.ID)
	}

	if opts.ActorID == nil && actorID != 0 {
		opts.ActorID = &actorID
	}

	for _, batch := range chunkIDs(recipients, s.batchSize) {
		var wg sync.WaitGroup
		for _, id := range batch {
			wg.Add(1)
			go func(userID int64) {
				defer wg.Done()
				if err := s.Notify(ctx, userID, notificationType, opts); err != nil {
					slog.Error("broadcast notification failed", "type", notificationType, "user", userID, "err", err)
				}
			}(id)
		}
		wg.Wait()
	}
}

// SetPreference upserts the caller's (category, subcategory) row. Last write
// wins; this is a self-service path without concurrent-writer contention.
func (s *NotificationService) SetPreference(ctx context.Context, p *domain.NotificationPreference) error {
	if _, ok := notify.Lookup(p.Subcategory); !ok {
		return fmt.Errorf("%w: unknown notification type %q", domain.ErrValidation, p.Subcategory)
	}
	cfg, _ := notify.Lookup(p.Subcategory)
	if p.Category == "" {
		p.Category = cfg.Category
	}
	if p.Category != cfg.Category {
		return fmt.Errorf("%w: type %q belongs to category %q", domain.ErrValidation, p.Subcategory, cfg.Category)
	}
	if p.EmailFrequency == "" {
		p.EmailFrequency = domain.FrequencyInstant
	}
	if !domain.ValidFrequency(p.EmailFrequency) {
		return fmt.Errorf("%w: bad email frequency %q", domain.ErrValidation, p.EmailFrequency)
	}
	return s.preferences.Upsert(ctx, p)
}

// Preferences lists the caller's explicit preference rows.
func (s *NotificationService) Preferences(ctx context.Context, userID int64) ([]*domain.NotificationPreference, error) {
	return s.preferences.ListForUser(ctx, userID)
}

// AddInterest and RemoveInterest manage the exact-match targeting set used
// by NotifyInterested.
func (s *NotificationService) AddInterest(ctx context.Context, userID int64, categoryType, categoryValue string) error {
	if categoryType == "" || categoryValue == "" {
		return fmt.Errorf("%w: category type and value are required", domain.ErrValidation)
	}
	return s.interests.Add(ctx, &domain.UserCategoryInterest{
		UserID:        userID,
		CategoryType:  categoryType,
		CategoryValue: categoryValue,
	})
}

func (s *NotificationService) RemoveInterest(ctx context.Context, userID int64, categoryType, categoryValue string) error {
	return s.interests.Remove(ctx, userID, categoryType, categoryValue)
}

// ListForUser, MarkRead, Dismiss, UnreadCount expose the recipient-side
// notification surface.
func (s *NotificationService) ListForUser(ctx context.Context, userID int64, limit int) ([]*domain.Notification, error) {
	return s.notifications.ListForUser(ctx, userID, limit)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID int64) error {
	return s.notifications.MarkRead(ctx, id, userID)
}

func (s *NotificationService) Dismiss(ctx context.Context, id, userID int64) error {
	return s.notifications.Dismiss(ctx, id, userID)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.notifications.UnreadCount(ctx, userID)
}

// chunkIDs splits ids into consecutive slices of at most size elements.
func chunkIDs(ids []int64, size int) [][]int64 {
	if size <= 0 || len(ids) == 0 {
		return nil
	}
	var batches [][]int64
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		batches = append(batches, ids[start:end])
	}
	return batches
}
