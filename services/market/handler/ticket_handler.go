package handler

import (
	"net/http"

	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service TicketServiceInterface
}

func NewTicketHandler(service TicketServiceInterface) *TicketHandler {
	return &TicketHandler{service: service}
}

// OpenTicketHandler handles POST /tickets
func (h *TicketHandler) OpenTicketHandler(c *gin.Context) {
	fields, ok := helpers.BindFields(c, "OpenTicketHandler")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	ticket, err := h.service.Open(c.Request.Context(), actor, fields)
	if err != nil {
		helpers.RespondError(c, "OpenTicketHandler", err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, "ticket", ticket, "ticket opened successfully")
	helpers.LogSuccess("OpenTicketHandler", "ticket opened successfully", map[string]any{
		"user_id":   actor.UserID,
		"ticket_id": ticket.ID,
	})
}

// TicketMessagesHandler handles GET /tickets/:id/messages
func (h *TicketHandler) TicketMessagesHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	q := repository.QueryFromValues(c.Request.URL.Query())
	messages, err := h.service.Messages(c.Request.Context(), helpers.CurrentActor(c), id, q)
	if err != nil {
		helpers.RespondError(c, "TicketMessagesHandler", err, map[string]any{"id": id})
		return
	}
	if messages == nil {
		messages = []models.TicketMessage{}
	}

	utils.JSONResponse(c, http.StatusOK, "messages", messages, "messages retrieved successfully")
}

// ReplyHandler handles POST /tickets/:id/messages
func (h *TicketHandler) ReplyHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	var req helpers.MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "ReplyHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	msg, err := h.service.Reply(c.Request.Context(), actor, id, req.Content)
	if err != nil {
		helpers.RespondError(c, "ReplyHandler", err, map[string]any{"ticket_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, "message", msg, "reply added successfully")
	helpers.LogSuccess("ReplyHandler", "reply added successfully", map[string]any{
		"user_id":    actor.UserID,
		"ticket_id":  id,
		"message_id": msg.ID,
	})
}

// AssignHandler handles PUT /tickets/:id/assign
func (h *TicketHandler) AssignHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	var req helpers.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "AssignHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	ticket, err := h.service.Assign(c.Request.Context(), actor, id, req.AssigneeID)
	if err != nil {
		helpers.RespondError(c, "AssignHandler", err, map[string]any{"ticket_id": id, "assignee_id": req.AssigneeID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "ticket", ticket, "ticket assigned successfully")
	helpers.LogSuccess("AssignHandler", "ticket assigned successfully", map[string]any{
		"user_id":     actor.UserID,
		"ticket_id":   id,
		"assignee_id": req.AssigneeID,
	})
}

// TicketStatusHandler handles PUT /tickets/:id/status
func (h *TicketHandler) TicketStatusHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	var req helpers.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "TicketStatusHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	ticket, err := h.service.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		helpers.RespondError(c, "TicketStatusHandler", err, map[string]any{"ticket_id": id, "status": req.Status})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "ticket", ticket, "ticket updated successfully")
	helpers.LogSuccess("TicketStatusHandler", "ticket updated successfully", map[string]any{
		"user_id":   actor.UserID,
		"ticket_id": id,
		"status":    ticket.Status,
	})
}
