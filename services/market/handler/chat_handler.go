package handler

import (
	"net/http"

	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type ChatHandler struct {
	service ChatServiceInterface
}

func NewChatHandler(service ChatServiceInterface) *ChatHandler {
	return &ChatHandler{service: service}
}

// ListChatsHandler handles GET /chats
func (h *ChatHandler) ListChatsHandler(c *gin.Context) {
	actor := helpers.CurrentActor(c)
	chats, err := h.service.List(c.Request.Context(), actor, repository.QueryFromValues(c.Request.URL.Query()))
	if err != nil {
		helpers.RespondError(c, "ListChatsHandler", err, nil)
		return
	}
	if chats == nil {
		chats = []models.Chat{}
	}

	utils.JSONResponse(c, http.StatusOK, "chats", chats, "chats retrieved successfully")
}

// StartChatHandler handles POST /chats. An existing chat between the two users is returned
// with 200, a new one with 201.
func (h *ChatHandler) StartChatHandler(c *gin.Context) {
	var req helpers.StartChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "StartChatHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	chat, created, err := h.service.Start(c.Request.Context(), actor, req.UserID)
	if err != nil {
		helpers.RespondError(c, "StartChatHandler", err, map[string]any{"other_id": req.UserID})
		return
	}

	status, message := http.StatusOK, "chat retrieved successfully"
	if created {
		status, message = http.StatusCreated, "chat created successfully"
	}
	utils.JSONResponse(c, status, "chat", chat, message)
	helpers.LogSuccess("StartChatHandler", message, map[string]any{
		"user_id": actor.UserID,
		"chat_id": chat.ID,
	})
}

// GetChatHandler handles GET /chats/:id
func (h *ChatHandler) GetChatHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	chat, err := h.service.Get(c.Request.Context(), helpers.CurrentActor(c), id)
	if err != nil {
		helpers.RespondError(c, "GetChatHandler", err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "chat", chat, "chat retrieved successfully")
}

// DeleteChatHandler handles DELETE /chats/:id
func (h *ChatHandler) DeleteChatHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		helpers.RespondError(c, "DeleteChatHandler", err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "", nil, "chat deleted successfully")
	helpers.LogSuccess("DeleteChatHandler", "chat deleted successfully", map[string]any{
		"user_id": actor.UserID,
		"chat_id": id,
	})
}

// ChatMessagesHandler handles GET /chats/:id/messages
func (h *ChatHandler) ChatMessagesHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	q := repository.QueryFromValues(c.Request.URL.Query())
	messages, err := h.service.Messages(c.Request.Context(), helpers.CurrentActor(c), id, q)
	if err != nil {
		helpers.RespondError(c, "ChatMessagesHandler", err, map[string]any{"id": id})
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}

	utils.JSONResponse(c, http.StatusOK, "messages", messages, "messages retrieved successfully")
}

// SendMessageHandler handles POST /chats/:id/messages
func (h *ChatHandler) SendMessageHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	var req helpers.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "SendMessageHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	msg, err := h.service.Send(c.Request.Context(), actor, id, req.Content)
	if err != nil {
		helpers.RespondError(c, "SendMessageHandler", err, map[string]any{"chat_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, "message", msg, "message sent successfully")
	helpers.LogSuccess("SendMessageHandler", "message sent successfully", map[string]any{
		"user_id":    actor.UserID,
		"chat_id":    id,
		"message_id": msg.ID,
	})
}
