package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// ChatService manages private conversations between two users
type ChatService struct {
	store *repository.Store
}

func NewChatService(store *repository.Store) *ChatService {
	return &ChatService{store: store}
}

// Start opens a chat between the caller and another user. Starting a chat that already
// exists returns it with created set to false.
func (s *ChatService) Start(ctx context.Context, actor Actor, otherID int64) (chat *models.Chat, created bool, err error) {
	if err := requireSession(actor, "start chat"); err != nil {
		return nil, false, err
	}
	if otherID <= 0 {
		return nil, false, invalidID("user", otherID)
	}
	if otherID == actor.UserID {
		return nil, false, fmt.Errorf("service: %w - cannot start a chat with yourself", marketerrors.ErrInvalidInput)
	}

	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.Users.GetByID(ctx, otherID); err != nil {
			return err
		}

		existing, err := tx.ChatBetween(ctx, actor.UserID, otherID)
		if err == nil {
			chat = existing
			return nil
		}
		if !repository.IsNotFound(err) {
			return err
		}

		chat, err = models.NewChat(map[string]any{"user1_id": actor.UserID, "user2_id": otherID})
		if err != nil {
			return err
		}
		if _, err := tx.Chats.Create(ctx, chat); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("service: failed to start chat with user %d: %w", otherID, err)
	}
	return chat, created, nil
}

// List returns the caller's chats, most recently active first
func (s *ChatService) List(ctx context.Context, actor Actor, q repository.Query) ([]models.Chat, error) {
	if err := requireSession(actor, "list chats"); err != nil {
		return nil, err
	}
	chats, err := s.store.Chats.GetAll(ctx, q.With("participant", strconv.FormatInt(actor.UserID, 10)))
	if err != nil {
		return nil, fmt.Errorf("service: failed to list chats: %w", err)
	}
	return chats, nil
}

// Get returns a chat the caller takes part in. Staff may read any chat.
func (s *ChatService) Get(ctx context.Context, actor Actor, id int64) (*models.Chat, error) {
	if err := requireSession(actor, "get chat"); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, invalidID("chat", id)
	}

	chat, err := s.store.Chats.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get chat %d: %w", id, err)
	}
	if !chat.HasParticipant(actor.UserID) && !actor.IsStaff() {
		return nil, forbidden(fmt.Sprintf("get chat %d", id))
	}
	return chat, nil
}

// Delete removes a chat and its messages. Only participants may delete it.
func (s *ChatService) Delete(ctx context.Context, actor Actor, id int64) error {
	chat, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	if !chat.HasParticipant(actor.UserID) {
		return forbidden(fmt.Sprintf("delete chat %d", id))
	}

	n, err := s.store.Chats.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to delete chat %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("service: delete chat %d: %w", id, marketerrors.ErrNotFound)
	}
	return nil
}

// Messages returns a page of a chat's messages, oldest first
func (s *ChatService) Messages(ctx context.Context, actor Actor, chatID int64, q repository.Query) ([]models.ChatMessage, error) {
	if _, err := s.Get(ctx, actor, chatID); err != nil {
		return nil, err
	}
	messages, err := s.store.ChatMessagesOf(ctx, chatID, q)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list messages of chat %d: %w", chatID, err)
	}
	return messages, nil
}

// Send posts a message from the caller to a chat they take part in
func (s *ChatService) Send(ctx context.Context, actor Actor, chatID int64, content string) (*models.ChatMessage, error) {
	chat, err := s.Get(ctx, actor, chatID)
	if err != nil {
		return nil, err
	}
	if !chat.HasParticipant(actor.UserID) {
		return nil, forbidden(fmt.Sprintf("send to chat %d", chatID))
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("service: %w - message is empty", marketerrors.ErrInvalidInput)
	}

	message, err := models.NewChatMessage(map[string]any{
		"chat_id":   chatID,
		"sender_id": actor.UserID,
		"content":   content,
	})
	if err != nil {
		return nil, fmt.Errorf("service: invalid chat message: %w", err)
	}

	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		if _, err := tx.ChatMessages.Create(ctx, message); err != nil {
			return err
		}
		return tx.TouchChat(ctx, chatID)
	})
	if err != nil {
		return nil, fmt.Errorf("service: failed to send message to chat %d: %w", chatID, err)
	}
	return message, nil
}
