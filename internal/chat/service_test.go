package chat

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/internal/users"
	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	"github.com/kisansetu/kisansetu-backend/pkg/enums"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/realtime"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (r gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

type capturedEvent struct {
	userID    uuid.UUID
	eventType string
	payload   any
}

type stubNotifier struct {
	events []capturedEvent
}

func (n *stubNotifier) Notify(ctx context.Context, userID uuid.UUID, eventType string, payload any) {
	n.events = append(n.events, capturedEvent{userID: userID, eventType: eventType, payload: payload})
}

func setupChatTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:chat_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Conversation{}, &models.ChatMessage{}))
	return db
}

func newChatService(t *testing.T, db *gorm.DB) (Service, *stubNotifier) {
	t.Helper()
	events := &stubNotifier{}
	userRepo := users.NewRepository(db)
	svc, err := NewService(ServiceParams{
		Repo:   NewRepository(db),
		Users:  userRepo,
		Names:  userRepo,
		Tx:     gormTxRunner{db: db},
		Events: events,
	})
	require.NoError(t, err)
	return svc, events
}

func mustCreateChatUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        fmt.Sprintf("%s_%s@example.com", name, uuid.NewString()),
		PasswordHash: "x",
		Role:         enums.UserRoleConsumer,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestSendMessage(t *testing.T) {
	db := setupChatTestDB(t)
	svc, events := newChatService(t, db)
	ctx := context.Background()

	sender := mustCreateChatUser(t, db, "meena")
	receiver := mustCreateChatUser(t, db, "suresh")

	msg, err := svc.SendMessage(ctx, sender.ID, SendMessageRequest{
		ReceiverID: receiver.ID,
		Body:       "  Is the tomato lot still available?  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Is the tomato lot still available?", msg.Body)
	assert.False(t, msg.Read)

	// one thread, bumped with the latest message
	var conversations []models.Conversation
	require.NoError(t, db.Find(&conversations).Error)
	require.Len(t, conversations, 1)
	assert.Equal(t, "Is the tomato lot still available?", conversations[0].LastMessage)
	assert.True(t, conversations[0].ParticipantIDs.Contains(sender.ID))
	assert.True(t, conversations[0].ParticipantIDs.Contains(receiver.ID))

	require.Len(t, events.events, 1)
	assert.Equal(t, receiver.ID, events.events[0].userID)
	assert.Equal(t, realtime.EventNewMessage, events.events[0].eventType)

	// replying reuses the same thread regardless of direction
	_, err = svc.SendMessage(ctx, receiver.ID, SendMessageRequest{ReceiverID: sender.ID, Body: "Yes, 40kg left."})
	require.NoError(t, err)

	require.NoError(t, db.Find(&conversations).Error)
	require.Len(t, conversations, 1)
	assert.Equal(t, "Yes, 40kg left.", conversations[0].LastMessage)
}

func TestSendMessage_Guards(t *testing.T) {
	db := setupChatTestDB(t)
	svc, _ := newChatService(t, db)
	ctx := context.Background()

	sender := mustCreateChatUser(t, db, "meena")

	_, err := svc.SendMessage(ctx, sender.ID, SendMessageRequest{ReceiverID: uuid.New(), Body: "hello"})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())

	_, err = svc.SendMessage(ctx, sender.ID, SendMessageRequest{ReceiverID: sender.ID, Body: "hello"})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())

	_, err = svc.SendMessage(ctx, sender.ID, SendMessageRequest{ReceiverID: uuid.New(), Body: "   "})
	appErr = pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestListConversationsAndMessages(t *testing.T) {
	db := setupChatTestDB(t)
	svc, _ := newChatService(t, db)
	ctx := context.Background()

	consumer := mustCreateChatUser(t, db, "meena")
	farmerA := mustCreateChatUser(t, db, "suresh")
	farmerB := mustCreateChatUser(t, db, "lakshmi")

	_, err := svc.SendMessage(ctx, consumer.ID, SendMessageRequest{ReceiverID: farmerA.ID, Body: "first"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, farmerA.ID, SendMessageRequest{ReceiverID: consumer.ID, Body: "second"})
	require.NoError(t, err)
	_, err = svc.SendMessage(ctx, consumer.ID, SendMessageRequest{ReceiverID: farmerB.ID, Body: "third"})
	require.NoError(t, err)

	conversations, err := svc.ListConversations(ctx, consumer.ID)
	require.NoError(t, err)
	require.Len(t, conversations, 2)
	// newest thread first
	assert.Equal(t, farmerB.ID, conversations[0].CounterpartID)
	assert.Equal(t, "lakshmi", conversations[0].CounterpartName)
	assert.Equal(t, "third", conversations[0].LastMessage)

	// farmerA only sees their own thread
	own, err := svc.ListConversations(ctx, farmerA.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, consumer.ID, own[0].CounterpartID)

	thread, err := svc.ListMessages(ctx, consumer.ID, farmerA.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "first", thread[0].Body)
	assert.Equal(t, "second", thread[1].Body)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	db := setupChatTestDB(t)
	svc, events := newChatService(t, db)
	ctx := context.Background()

	consumer := mustCreateChatUser(t, db, "meena")
	farmer := mustCreateChatUser(t, db, "suresh")

	for i := 0; i < 3; i++ {
		_, err := svc.SendMessage(ctx, farmer.ID, SendMessageRequest{ReceiverID: consumer.ID, Body: fmt.Sprintf("update %d", i)})
		require.NoError(t, err)
	}

	unread, err := svc.UnreadCount(ctx, consumer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, unread.Count)

	events.events = nil
	require.NoError(t, svc.MarkRead(ctx, consumer.ID, farmer.ID))

	unread, err = svc.UnreadCount(ctx, consumer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, unread.Count)

	require.Len(t, events.events, 1)
	assert.Equal(t, consumer.ID, events.events[0].userID)
	assert.Equal(t, realtime.EventMessagesRead, events.events[0].eventType)

	// nothing left to flip, so no second event
	events.events = nil
	require.NoError(t, svc.MarkRead(ctx, consumer.ID, farmer.ID))
	assert.Empty(t, events.events)
}
