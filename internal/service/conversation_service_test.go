package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sachanni/NiralaTechieConnect-sub000/internal/domain"
	"github.com/sachanni/NiralaTechieConnect-sub000/internal/service"
)

func TestGetOrCreateRejectsSelfConversation(t *testing.T) {
	svc := service.NewConversationService(&mockConversationRepo{}, &mockMessageRepo{}, &mockUserRepo{})

	_, err := svc.GetOrCreate(context.Background(), 5, 5)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGetOrCreateUnknownPeer(t *testing.T) {
	users := &mockUserRepo{}
	users.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)
	svc := service.NewConversationService(&mockConversationRepo{}, &mockMessageRepo{}, users)

	_, err := svc.GetOrCreate(context.Background(), 5, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	users.AssertExpectations(t)
}

func TestGetOrCreateResolvesSameRowForBothDirections(t *testing.T) {
	conv := &domain.Conversation{ID: 1, UserLowID: 3, UserHighID: 8}

	convs := &mockConversationRepo{}
	convs.On("GetOrCreate", mock.Anything, int64(3), int64(8)).Return(conv, nil)
	convs.On("GetOrCreate", mock.Anything, int64(8), int64(3)).Return(conv, nil)
	users := &mockUserRepo{}
	users.On("GetByID", mock.Anything, mock.Anything).Return(&domain.User{ID: 8, Username: "peer"}, nil)

	svc := service.NewConversationService(convs, &mockMessageRepo{}, users)

	first, err := svc.GetOrCreate(context.Background(), 3, 8)
	require.NoError(t, err)
	second, err := svc.GetOrCreate(context.Background(), 8, 3)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "unordered pair must map to one conversation")
}

func TestGetRequiresParticipancy(t *testing.T) {
	conv := &domain.Conversation{ID: 1, UserLowID: 3, UserHighID: 8}
	convs := &mockConversationRepo{}
	convs.On("GetByID", mock.Anything, int64(1)).Return(conv, nil)

	svc := service.NewConversationService(convs, &mockMessageRepo{}, &mockUserRepo{})

	_, err := svc.Get(context.Background(), 1, 99)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	got, err := svc.Get(context.Background(), 1, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}

func TestListForUserEnrichesSummaries(t *testing.T) {
	now := time.Now().UTC()
	conv := &domain.Conversation{ID: 1, UserLowID: 3, UserHighID: 8, LastMessageAt: now}
	last := &domain.Message{ID: 40, ConversationID: 1, SenderID: 8, Content: "hi"}
	email := "peer@example.com"

	convs := &mockConversationRepo{}
	convs.On("ListForUser", mock.Anything, int64(3)).Return([]*domain.Conversation{conv}, nil)
	msgs := &mockMessageRepo{}
	msgs.On("UnreadCount", mock.Anything, int64(1), int64(3)).Return(2, nil)
	msgs.On("Latest", mock.Anything, int64(1)).Return(last, nil)
	users := &mockUserRepo{}
	users.On("GetByID", mock.Anything, int64(8)).Return(&domain.User{ID: 8, Username: "peer", Email: &email}, nil)

	svc := service.NewConversationService(convs, msgs, users)

	summaries, err := svc.ListForUser(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, int64(1), s.Conversation.ID)
	require.NotNil(t, s.Peer)
	assert.Equal(t, "peer", s.Peer.Username)
	assert.Equal(t, 2, s.UnreadCount)
	require.NotNil(t, s.LastMessage)
	assert.Equal(t, int64(40), s.LastMessage.ID)
}
