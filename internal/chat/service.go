package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	pkgerrors "github.com/kisansetu/kisansetu-backend/pkg/errors"
	"github.com/kisansetu/kisansetu-backend/pkg/realtime"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type nameReader interface {
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

type userReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, eventType string, payload any)
}

// Service is the chat workflow: threads, messages, unread tracking, and
// fire-and-forget realtime events.
type Service interface {
	SendMessage(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error)
	ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationDTO, error)
	ListMessages(ctx context.Context, userID, otherID uuid.UUID) ([]MessageDTO, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (*UnreadCountDTO, error)
	MarkRead(ctx context.Context, userID, senderID uuid.UUID) error
}

type service struct {
	repo   *Repository
	users  userReader
	names  nameReader
	tx     txRunner
	events notifier
}

// ServiceParams names the dependencies for the chat service.
type ServiceParams struct {
	Repo   *Repository
	Users  userReader
	Names  nameReader
	Tx     txRunner
	Events notifier
}

// NewService constructs a chat service. Events may be nil; delivery is best
// effort and chat works without a realtime backend.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("chat repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("users reader required")
	}
	if params.Names == nil {
		return nil, fmt.Errorf("names reader required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:   params.Repo,
		users:  params.Users,
		names:  params.Names,
		tx:     params.Tx,
		events: params.Events,
	}, nil
}

func (s *service) SendMessage(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageDTO, error) {
	if senderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}
	if req.ReceiverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receiver_id is required")
	}
	if req.ReceiverID == senderID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot message yourself")
	}
	if _, err := s.users.FindByID(ctx, req.ReceiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "receiver not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load receiver")
	}

	now := time.Now().UTC()
	var message *models.ChatMessage

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateMessage(ctx, &models.ChatMessage{
			SenderID:   senderID,
			ReceiverID: req.ReceiverID,
			OrderID:    req.OrderID,
			Body:       body,
		})
		if err != nil {
			return err
		}
		if _, err := repo.UpsertConversation(ctx, senderID, req.ReceiverID, body, now); err != nil {
			return err
		}
		message = created
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send message")
	}

	dto := messageFromModel(message)
	if s.events != nil {
		s.events.Notify(ctx, req.ReceiverID, realtime.EventNewMessage, dto)
	}
	return dto, nil
}

func (s *service) ListConversations(ctx context.Context, userID uuid.UUID) ([]ConversationDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	rows, err := s.repo.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list conversations")
	}

	counterparts := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		for _, participant := range row.ParticipantIDs {
			if participant != userID {
				counterparts = append(counterparts, participant)
			}
		}
	}
	names, err := s.names.NamesByIDs(ctx, counterparts)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load counterpart names")
	}

	out := make([]ConversationDTO, 0, len(rows))
	for _, row := range rows {
		dto := ConversationDTO{
			ID:            row.ID,
			LastMessage:   row.LastMessage,
			LastMessageAt: row.LastMessageAt,
		}
		for _, participant := range row.ParticipantIDs {
			if participant != userID {
				dto.CounterpartID = participant
				dto.CounterpartName = names[participant]
			}
		}
		out = append(out, dto)
	}
	return out, nil
}

func (s *service) ListMessages(ctx context.Context, userID, otherID uuid.UUID) ([]MessageDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if otherID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	rows, err := s.repo.ListMessagesBetween(ctx, userID, otherID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list messages")
	}
	return messagesFromModels(rows), nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (*UnreadCountDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count unread messages")
	}
	return &UnreadCountDTO{Count: count}, nil
}

// MarkRead clears the unread flag on everything a sender has sent the user
// and tells the user's other sessions to refresh their badge.
func (s *service) MarkRead(ctx context.Context, userID, senderID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if senderID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "sender id is required")
	}

	updated, err := s.repo.MarkReadFromSender(ctx, userID, senderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark messages read")
	}
	if updated > 0 && s.events != nil {
		s.events.Notify(ctx, userID, realtime.EventMessagesRead, map[string]any{
			"sender_id": senderID,
			"count":     updated,
		})
	}
	return nil
}
