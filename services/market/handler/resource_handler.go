package handler

import (
	"net/http"
	"strconv"

	"auction-marketplace/internal/repository"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// ResourceHandler serves the list/get/create/update/delete routes of one resource. Responses
// carry the row under the singular name and lists under the plural name.
type ResourceHandler[T any] struct {
	service  CRUDServiceInterface[T]
	singular string
	plural   string
}

func NewResourceHandler[T any](service CRUDServiceInterface[T], singular, plural string) *ResourceHandler[T] {
	return &ResourceHandler[T]{service: service, singular: singular, plural: plural}
}

func (h *ResourceHandler[T]) name(op string) string { return op + "_" + h.singular }

// List handles GET /<resource> with filter, sort and paging parameters
func (h *ResourceHandler[T]) List(c *gin.Context) {
	h.list(c, repository.QueryFromValues(c.Request.URL.Query()))
}

// ListBy returns a handler listing the rows whose filterKey equals the path parameter param,
// e.g. GET /listings/:id/reviews
func (h *ResourceHandler[T]) ListBy(param, filterKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := helpers.ParseID(c, param)
		if !ok {
			return
		}
		q := repository.QueryFromValues(c.Request.URL.Query()).With(filterKey, strconv.FormatInt(id, 10))
		h.list(c, q)
	}
}

func (h *ResourceHandler[T]) list(c *gin.Context, q repository.Query) {
	actor := helpers.CurrentActor(c)
	items, err := h.service.List(c.Request.Context(), actor, q)
	if err != nil {
		helpers.RespondError(c, h.name("list"), err, map[string]any{"query": q})
		return
	}
	if items == nil {
		items = []T{}
	}

	utils.JSONResponse(c, http.StatusOK, h.plural, items, h.plural+" retrieved successfully")
	helpers.LogSuccess(h.name("list"), h.plural+" retrieved successfully", map[string]any{
		"user_id": actor.UserID,
		"count":   len(items),
	})
}

// Get handles GET /<resource>/:id
func (h *ResourceHandler[T]) Get(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	item, err := h.service.Get(c.Request.Context(), actor, id)
	if err != nil {
		helpers.RespondError(c, h.name("get"), err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, h.singular, item, h.singular+" retrieved successfully")
	helpers.LogSuccess(h.name("get"), h.singular+" retrieved successfully", map[string]any{
		"user_id": actor.UserID,
		"id":      id,
	})
}

// Create handles POST /<resource>
func (h *ResourceHandler[T]) Create(c *gin.Context) {
	fields, ok := helpers.BindFields(c, h.name("create"))
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	item, err := h.service.Create(c.Request.Context(), actor, fields)
	if err != nil {
		helpers.RespondError(c, h.name("create"), err, nil)
		return
	}

	utils.JSONResponse(c, http.StatusCreated, h.singular, item, h.singular+" created successfully")
	helpers.LogSuccess(h.name("create"), h.singular+" created successfully", map[string]any{
		"user_id": actor.UserID,
	})
}

// Update handles PUT /<resource>/:id with a partial field set
func (h *ResourceHandler[T]) Update(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	fields, ok := helpers.BindFields(c, h.name("update"))
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	item, err := h.service.Update(c.Request.Context(), actor, id, fields)
	if err != nil {
		helpers.RespondError(c, h.name("update"), err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, h.singular, item, h.singular+" updated successfully")
	helpers.LogSuccess(h.name("update"), h.singular+" updated successfully", map[string]any{
		"user_id": actor.UserID,
		"id":      id,
	})
}

// Delete handles DELETE /<resource>/:id
func (h *ResourceHandler[T]) Delete(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		helpers.RespondError(c, h.name("delete"), err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "", nil, h.singular+" deleted successfully")
	helpers.LogSuccess(h.name("delete"), h.singular+" deleted successfully", map[string]any{
		"user_id": actor.UserID,
		"id":      id,
	})
}
