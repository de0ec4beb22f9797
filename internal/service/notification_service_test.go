package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/notify"
)

// fakeNotificationRepo counts creates and can fail for selected users. It is
// mutex-guarded because broadcasts write from many goroutines.
type fakeNotificationRepo struct {
	mu      sync.Mutex
	created []*domain.Notification
	failFor map[int64]error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[n.UserID]; ok {
		return err
	}
	f.created = append(f.created, n)
	return nil
}

func (f *fakeNotificationRepo) createdCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

func (f *fakeNotificationRepo) ListForUser(ctx context.Context, userID int64, limit int) ([]*domain.Notification, error) {
	return nil, nil
}
func (f *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID int64) error { return nil }
func (f *fakeNotificationRepo) Dismiss(ctx context.Context, id, userID int64) error  { return nil }
func (f *fakeNotificationRepo) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return 0, nil
}

// fakePreferenceRepo serves explicit rows keyed by (user, subcategory).
type fakePreferenceRepo struct {
	mu   sync.Mutex
	rows map[int64]map[string]*domain.NotificationPreference
}

func (f *fakePreferenceRepo) Get(ctx context.Context, userID int64, category, subcategory string) (*domain.NotificationPreference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[userID][subcategory], nil
}

func (f *fakePreferenceRepo) Upsert(ctx context.Context, p *domain.NotificationPreference) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rows == nil {
		f.rows = make(map[int64]map[string]*domain.NotificationPreference)
	}
	if f.rows[p.UserID] == nil {
		f.rows[p.UserID] = make(map[string]*domain.NotificationPreference)
	}
	f.rows[p.UserID][p.Subcategory] = p
	return nil
}

func (f *fakePreferenceRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.NotificationPreference, error) {
	return nil, nil
}

func (f *fakePreferenceRepo) SeedDefaults(ctx context.Context, userID int64, prefs []*domain.NotificationPreference) error {
	return nil
}

type fakeInterestRepo struct {
	userIDs []int64
}

func (f *fakeInterestRepo) Add(ctx context.Context, i *domain.UserCategoryInterest) error { return nil }
func (f *fakeInterestRepo) Remove(ctx context.Context, userID int64, categoryType, categoryValue string) error {
	return nil
}
func (f *fakeInterestRepo) ListUserIDs(ctx context.Context, categoryType, categoryValue string) ([]int64, error) {
	return f.userIDs, nil
}

type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}
func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) ListNotifiable(ctx context.Context) ([]*domain.User, error) {
	return f.users, nil
}

func newTestNotificationService(notifs *fakeNotificationRepo, prefs *fakePreferenceRepo, interests *fakeInterestRepo, users *fakeUserRepo) *NotificationService {
	if notifs == nil {
		notifs = &fakeNotificationRepo{}
	}
	if prefs == nil {
		prefs = &fakePreferenceRepo{}
	}
	if interests == nil {
		interests = &fakeInterestRepo{}
	}
	if users == nil {
		users = &fakeUserRepo{}
	}
	return NewNotificationService(notifs, prefs, interests, users, 50)
}

func TestNotifyPersistsWithDefaultEnabled(t *testing.T) {
	notifs := &fakeNotificationRepo{}
	svc := newTestNotificationService(notifs, nil, nil, nil)

	err := svc.Notify(context.Background(), 7, notify.TypeNewMessage, NotifyOptions{})
	require.NoError(t, err)
	require.Equal(t, 1, notifs.createdCount())

	n := notifs.created[0]
	assert.Equal(t, int64(7), n.UserID)
	assert.Equal(t, notify.TypeNewMessage, n.Type)
	assert.Equal(t, notify.CategoryChat, n.Category)
	assert.Equal(t, notify.PriorityHigh, n.Priority)
}

func TestNotifyUnknownTypeIsNoOp(t *testing.T) {
	notifs := &fakeNotificationRepo{}
	svc := newTestNotificationService(notifs, nil, nil, nil)

	err := svc.Notify(context.Background(), 7, "no_such_type", NotifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, notifs.createdCount())
}

func TestNotifyPreferenceSuppression(t *testing.T) {
	notifs := &fakeNotificationRepo{}
	prefs := &fakePreferenceRepo{}
	svc := newTestNotificationService(notifs, prefs, nil, nil)

	require.NoError(t, prefs.Upsert(context.Background(), &domain.NotificationPreference{
		UserID:       7,
		Category:     notify.CategoryChat,
		Subcategory:  notify.TypeNewMessage,
		InAppEnabled: false,
	}))

	err := svc.Notify(context.Background(), 7, notify.TypeNewMessage, NotifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, notifs.createdCount(), "disabled preference must suppress silently")

	// Flip the row back on and the same event persists again.
	require.NoError(t, prefs.Upsert(context.Background(), &domain.NotificationPreference{
		UserID:       7,
		Category:     notify.CategoryChat,
		Subcategory:  notify.TypeNewMessage,
		InAppEnabled: true,
	}))
	require.NoError(t, svc.Notify(context.Background(), 7, notify.TypeNewMessage, NotifyOptions{}))
	assert.Equal(t, 1, notifs.createdCount())
}

func TestNotifyDefaultDisabledType(t *testing.T) {
	notifs := &fakeNotificationRepo{}
	svc := newTestNotificationService(notifs, nil, nil, nil)

	// listing_posted defaults to disabled; no preference row exists.
	err := svc.Notify(context.Background(), 7, notify.TypeListingPosted, NotifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, notifs.createdCount())
}

func TestNotifyInterestedExcludesActor(t *testing.T) {
	notifs := &fakeNotificationRepo{}
	interests := &fakeInterestRepo{userIDs: []int64{1, 2, 3}}
	svc := newTestNotificationService(notifs, nil, interests, nil)

	err := svc.NotifyInterested(context.Background(), notify.TypeJobPosted, "job_category", "plumbing", 2, NotifyOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, notifs.createdCount())
	for _, n := range notifs.created {
		assert.NotEqual(t, int64(2), n.UserID)
		require.NotNil(t, n.ActorID)
		assert.Equal(t, int64(2), *n.ActorID)
	}
}

func TestNotifyInterestedRejectsNonInterestType(t *testing.T) {
	notifs := &fakeNotificationRepo{}
	interests := &fakeInterestRepo{userIDs: []int64{1, 2, 3}}
	svc := newTestNotificationService(notifs, nil, interests, nil)

	// new_message is direct-targeted, never interest fan-out.
	err := svc.NotifyInterested(context.Background(), notify.TypeNewMessage, "job_category", "plumbing", 0, NotifyOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, notifs.createdCount())
}

func TestNotifyAllUsersBatchesAndDropsFailures(t *testing.T) {
	users := &fakeUserRepo{}
	for i := int64(1); i <= 121; i++ {
		users.users = append(users.users, &domain.User{ID: i, IsActive: true})
	}
	notifs := &fakeNotificationRepo{
		failFor: map[int64]error{42: errors.New("disk full")},
	}
	svc := newTestNotificationService(notifs, nil, nil, users)

	// Actor 121 is excluded, user 42 fails: 121 - 1 - 1 = 119 rows.
	svc.NotifyAllUsers(context.Background(), notify.TypeAdminAnnouncement, 121, NotifyOptions{})
	assert.Equal(t, 119, notifs.createdCount())

	seen := make(map[int64]bool)
	for _, n := range notifs.created {
		assert.False(t, seen[n.UserID], "user %d notified twice", n.UserID)
		seen[n.UserID] = true
		assert.NotEqual(t, int64(121), n.UserID)
	}
}

func TestChunkIDs(t *testing.T) {
	ids := make([]int64, 120)
	for i := range ids {
		ids[i] = int64(i + 1)
	}

	batches := chunkIDs(ids, 50)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 50)
	assert.Len(t, batches[1], 50)
	assert.Len(t, batches[2], 20)
	assert.Equal(t, int64(1), batches[0][0])
	assert.Equal(t, int64(120), batches[2][19])

	assert.Nil(t, chunkIDs(nil, 50))
	assert.Nil(t, chunkIDs(ids, 0))
	assert.Len(t, chunkIDs(ids[:50], 50), 1)
}

func TestSetPreferenceValidation(t *testing.T) {
	prefs := &fakePreferenceRepo{}
	svc := newTestNotificationService(nil, prefs, nil, nil)
	ctx := context.Background()

	err := svc.SetPreference(ctx, &domain.NotificationPreference{
		UserID:      7,
		Subcategory: "no_such_type",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.SetPreference(ctx, &domain.NotificationPreference{
		UserID:      7,
		Category:    notify.CategoryJobs,
		Subcategory: notify.TypeNewMessage,
	})
	assert.ErrorIs(t, err, domain.ErrValidation, "category must match the type's catalog entry")

	err = svc.SetPreference(ctx, &domain.NotificationPreference{
		UserID:         7,
		Subcategory:    notify.TypeNewMessage,
		EmailFrequency: "hourly",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	p := &domain.NotificationPreference{
		UserID:       7,
		Subcategory:  notify.TypeNewMessage,
		InAppEnabled: false,
	}
	require.NoError(t, svc.SetPreference(ctx, p))
	assert.Equal(t, notify.CategoryChat, p.Category, "category filled from catalog")
	assert.Equal(t, domain.FrequencyInstant, p.EmailFrequency)

	stored, err := prefs.Get(ctx, 7, notify.CategoryChat, notify.TypeNewMessage)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.False(t, stored.InAppEnabled)
}
