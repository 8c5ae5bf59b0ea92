package handler

import (
	"net/http"

	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/models"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service OrderServiceInterface
}

func NewOrderHandler(service OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: service}
}

func purchaseRequest(req helpers.PurchaseRequest) market.PurchaseRequest {
	items := make([]market.PurchaseItem, len(req.Items))
	for i, item := range req.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		items[i] = market.PurchaseItem{ListingID: item.ListingID, Quantity: quantity}
	}

	return market.PurchaseRequest{
		Items: items,
		Shipping: market.Shipping{
			AddressLine1: req.Shipping.AddressLine1,
			AddressLine2: req.Shipping.AddressLine2,
			City:         req.Shipping.City,
			Postcode:     req.Shipping.Postcode,
			Country:      req.Shipping.Country,
		},
		PaymentReference: req.PaymentReference,
	}
}

// PurchaseHandler handles POST /orders
func (h *OrderHandler) PurchaseHandler(c *gin.Context) {
	var req helpers.PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PurchaseHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	order, err := h.service.Purchase(c.Request.Context(), actor, purchaseRequest(req))
	if err != nil {
		helpers.RespondError(c, "PurchaseHandler", err, map[string]any{"items": len(req.Items)})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, "order", order, "order placed successfully")
	helpers.LogSuccess("PurchaseHandler", "order placed successfully", map[string]any{
		"user_id":      actor.UserID,
		"order_id":     order.ID,
		"total_amount": order.TotalAmount,
	})
}

// GetOrderHandler handles GET /orders/:id and includes the order items
func (h *OrderHandler) GetOrderHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	order, err := h.service.GetWithItems(c.Request.Context(), actor, id)
	if err != nil {
		helpers.RespondError(c, "GetOrderHandler", err, map[string]any{"id": id})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "order", order, "order retrieved successfully")
	helpers.LogSuccess("GetOrderHandler", "order retrieved successfully", map[string]any{
		"user_id":  actor.UserID,
		"order_id": id,
	})
}

// OrderItemsHandler handles GET /orders/:id/items
func (h *OrderHandler) OrderItemsHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	actor := helpers.CurrentActor(c)
	items, err := h.service.Items(c.Request.Context(), actor, id)
	if err != nil {
		helpers.RespondError(c, "OrderItemsHandler", err, map[string]any{"id": id})
		return
	}
	if items == nil {
		items = []models.OrderItem{}
	}

	utils.JSONResponse(c, http.StatusOK, "order_items", items, "order items retrieved successfully")
}

// UpdateOrderStatusHandler handles PUT /orders/:id
func (h *OrderHandler) UpdateOrderStatusHandler(c *gin.Context) {
	id, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}
	var req helpers.StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateOrderStatusHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	order, err := h.service.UpdateStatus(c.Request.Context(), actor, id, req.Status)
	if err != nil {
		helpers.RespondError(c, "UpdateOrderStatusHandler", err, map[string]any{"id": id, "status": req.Status})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "order", order, "order updated successfully")
	helpers.LogSuccess("UpdateOrderStatusHandler", "order updated successfully", map[string]any{
		"user_id":  actor.UserID,
		"order_id": id,
		"status":   order.Status,
	})
}
