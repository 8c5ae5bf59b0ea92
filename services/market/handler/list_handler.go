package handler

import (
	"net/http"

	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type ListHandler struct {
	service ListServiceInterface
}

func NewListHandler(service ListServiceInterface) *ListHandler {
	return &ListHandler{service: service}
}

// ListItemsHandler handles GET /lists/:id/items
func (h *ListHandler) ListItemsHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	q := repository.QueryFromValues(c.Request.URL.Query())
	items, err := h.service.Items(c.Request.Context(), helpers.CurrentActor(c), id, q)
	if err != nil {
		helpers.RespondError(c, "ListItemsHandler", err, map[string]any{"list_id": id})
		return
	}
	if items == nil {
		items = []models.ListItem{}
	}

	utils.JSONResponse(c, http.StatusOK, "list_items", items, "list items retrieved successfully")
}

// AddItemHandler handles POST /lists/:id/items
func (h *ListHandler) AddItemHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	fields, ok := helpers.BindFields(c, "AddItemHandler")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	item, err := h.service.AddItem(c.Request.Context(), actor, id, fields)
	if err != nil {
		helpers.RespondError(c, "AddItemHandler", err, map[string]any{"list_id": id})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, "list_item", item, "list item added successfully")
	helpers.LogSuccess("AddItemHandler", "list item added successfully", map[string]any{
		"user_id":    actor.UserID,
		"list_id":    id,
		"listing_id": item.ListingID,
	})
}

// RemoveItemHandler handles DELETE /lists/:id/items/:item_id
func (h *ListHandler) RemoveItemHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	itemID, ok := helpers.ParseID(c, "item_id")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	if err := h.service.RemoveItem(c.Request.Context(), actor, id, itemID); err != nil {
		helpers.RespondError(c, "RemoveItemHandler", err, map[string]any{"list_id": id, "item_id": itemID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "", nil, "list item removed successfully")
	helpers.LogSuccess("RemoveItemHandler", "list item removed successfully", map[string]any{
		"user_id": actor.UserID,
		"list_id": id,
		"item_id": itemID,
	})
}
