package chat

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
	dbtypes "github.com/kisansetu/kisansetu-backend/pkg/db/types"
)

// participantPair returns the two ids in a canonical order so a pair always
// serializes to the same array literal.
func participantPair(a, b uuid.UUID) dbtypes.UUIDArray {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return dbtypes.UUIDArray{a, b}
}

// Repository persists conversations and messages.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) CreateMessage(ctx context.Context, msg *models.ChatMessage) (*models.ChatMessage, error) {
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, err
	}
	return msg, nil
}

// UpsertConversation bumps the pair's thread summary, creating the thread on
// first contact.
func (r *Repository) UpsertConversation(ctx context.Context, a, b uuid.UUID, lastMessage string, at time.Time) (*models.Conversation, error) {
	pair := participantPair(a, b)
	pairValue, err := pair.Value()
	if err != nil {
		return nil, err
	}

	var conversation models.Conversation
	err = r.db.WithContext(ctx).
		Where("participant_ids = ?", pairValue).
		First(&conversation).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		conversation = models.Conversation{
			ID:             uuid.New(),
			ParticipantIDs: pair,
			LastMessage:    lastMessage,
			LastMessageAt:  at,
		}
		if createErr := r.db.WithContext(ctx).Create(&conversation).Error; createErr != nil {
			return nil, createErr
		}
		return &conversation, nil
	}

	conversation.LastMessage = lastMessage
	conversation.LastMessageAt = at
	if err := r.db.WithContext(ctx).Save(&conversation).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListConversationsByUser returns the user's threads, most recent first. The
// stored pair literal embeds both uuids, so membership is a substring match.
func (r *Repository) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]models.Conversation, error) {
	var rows []models.Conversation
	err := r.db.WithContext(ctx).
		Where("participant_ids LIKE ?", "%"+userID.String()+"%").
		Order("last_message_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListMessagesBetween returns the full thread between two users oldest first.
func (r *Repository) ListMessagesBetween(ctx context.Context, userID, otherID uuid.UUID) ([]models.ChatMessage, error) {
	var rows []models.ChatMessage
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) CountUnread(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("receiver_id = ? AND read = ?", receiverID, false).
		Count(&count).Error
	return count, err
}

// MarkReadFromSender flips every unread message from one sender to read and
// reports how many rows changed.
func (r *Repository) MarkReadFromSender(ctx context.Context, receiverID, senderID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.ChatMessage{}).
		Where("sender_id = ? AND receiver_id = ? AND read = ?", senderID, receiverID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}
