package handler

import (
	"net/http"
	"strconv"

	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// TotalCountHeader carries the number of search hits across all pages
const TotalCountHeader = "X-Total-Count"

type ListingHandler struct {
	service ListingSearcher
}

func NewListingHandler(service ListingSearcher) *ListingHandler {
	return &ListingHandler{service: service}
}

// SearchHandler handles GET /listings/search?q=...
func (h *ListingHandler) SearchHandler(c *gin.Context) {
	q := repository.QueryFromValues(c.Request.URL.Query())
	text := q["q"]

	listings, total, err := h.service.Search(c.Request.Context(), text, q)
	if err != nil {
		helpers.RespondError(c, "SearchHandler", err, map[string]any{"q": text})
		return
	}
	if listings == nil {
		listings = []models.Listing{}
	}

	c.Header(TotalCountHeader, strconv.FormatInt(total, 10))
	utils.JSONResponse(c, http.StatusOK, "listings", listings, "listings retrieved successfully")
	helpers.LogSuccess("SearchHandler", "listings retrieved successfully", map[string]any{
		"q":     text,
		"count": len(listings),
		"total": total,
	})
}
