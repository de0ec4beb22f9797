package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/service"
)

type mockConversationRepo struct {
	mock.Mock
}

func (m *mockConversationRepo) GetOrCreate(ctx context.Context, a, b int64) (*domain.Conversation, error) {
	args := m.Called(ctx, a, b)
	conv, _ := args.Get(0).(*domain.Conversation)
	return conv, args.Error(1)
}

func (m *mockConversationRepo) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	args := m.Called(ctx, id)
	conv, _ := args.Get(0).(*domain.Conversation)
	return conv, args.Error(1)
}

func (m *mockConversationRepo) ListForUser(ctx context.Context, userID int64) ([]*domain.Conversation, error) {
	args := m.Called(ctx, userID)
	convs, _ := args.Get(0).([]*domain.Conversation)
	return convs, args.Error(1)
}

func (m *mockConversationRepo) TouchLastMessage(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockMessageRepo) GetByID(ctx context.Context, id int64) (*domain.Message, error) {
	args := m.Called(ctx, id)
	msg, _ := args.Get(0).(*domain.Message)
	return msg, args.Error(1)
}

func (m *mockMessageRepo) ListForConversation(ctx context.Context, conversationID int64) ([]*domain.Message, error) {
	args := m.Called(ctx, conversationID)
	msgs, _ := args.Get(0).([]*domain.Message)
	return msgs, args.Error(1)
}

func (m *mockMessageRepo) Latest(ctx context.Context, conversationID int64) (*domain.Message, error) {
	args := m.Called(ctx, conversationID)
	msg, _ := args.Get(0).(*domain.Message)
	return msg, args.Error(1)
}

func (m *mockMessageRepo) MarkAllRead(ctx context.Context, conversationID, readerID int64) error {
	args := m.Called(ctx, conversationID, readerID)
	return args.Error(0)
}

func (m *mockMessageRepo) UnreadCount(ctx context.Context, conversationID, userID int64) (int, error) {
	args := m.Called(ctx, conversationID, userID)
	return args.Int(0), args.Error(1)
}

func (m *mockMessageRepo) UnreadTotal(ctx context.Context, userID int64) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockReactionRepo struct {
	mock.Mock
}

func (m *mockReactionRepo) Add(ctx context.Context, r *domain.MessageReaction) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReactionRepo) Remove(ctx context.Context, messageID, userID int64, emoji string) error {
	args := m.Called(ctx, messageID, userID, emoji)
	return args.Error(0)
}

func (m *mockReactionRepo) ListForMessage(ctx context.Context, messageID int64) ([]*domain.MessageReaction, error) {
	args := m.Called(ctx, messageID)
	rs, _ := args.Get(0).([]*domain.MessageReaction)
	return rs, args.Error(1)
}

type mockReceiptRepo struct {
	mock.Mock
}

func (m *mockReceiptRepo) Upsert(ctx context.Context, rr *domain.ReadReceipt) error {
	args := m.Called(ctx, rr)
	return args.Error(0)
}

func (m *mockReceiptRepo) Get(ctx context.Context, conversationID, userID int64) (*domain.ReadReceipt, error) {
	args := m.Called(ctx, conversationID, userID)
	rr, _ := args.Get(0).(*domain.ReadReceipt)
	return rr, args.Error(1)
}

func (m *mockReceiptRepo) ListForConversation(ctx context.Context, conversationID int64) ([]*domain.ReadReceipt, error) {
	args := m.Called(ctx, conversationID)
	rrs, _ := args.Get(0).([]*domain.ReadReceipt)
	return rrs, args.Error(1)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) ListNotifiable(ctx context.Context) ([]*domain.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]*domain.User)
	return users, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, userID int64, notificationType string, opts service.NotifyOptions) error {
	args := m.Called(ctx, userID, notificationType, opts)
	return args.Error(0)
}
