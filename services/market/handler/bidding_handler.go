package handler

import (
	"errors"
	"net/http"
	"time"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/services/market/helpers"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type BiddingHandler struct {
	service BiddingServiceInterface
}

func NewBiddingHandler(service BiddingServiceInterface) *BiddingHandler {
	return &BiddingHandler{service: service}
}

func bidResponse(bid models.Bid) helpers.BidResponse {
	return helpers.BidResponse{
		ID:        bid.ID,
		ListingID: bid.ListingID,
		BidderID:  bid.BidderID,
		Amount:    bid.Amount,
		BidTime:   bid.BidTime.UTC().Format(time.RFC3339),
	}
}

// RecordBidHandler handles POST /bids. The bidder is the session user.
func (h *BiddingHandler) RecordBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "RecordBidHandler", err)
		return
	}

	actor := helpers.CurrentActor(c)
	bid, err := h.service.PlaceBid(c.Request.Context(), req.ListingID, actor.UserID, req.Amount)
	if err != nil {
		helpers.RespondError(c, "RecordBidHandler", err, map[string]any{
			"listing_id": req.ListingID,
			"amount":     req.Amount,
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, "bid", bidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("RecordBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.ID,
		"listing_id": bid.ListingID,
		"user_id":    actor.UserID,
		"amount":     bid.Amount,
	})
}

// GetBidsByListingHandler handles GET /listings/:id/bids
func (h *BiddingHandler) GetBidsByListingHandler(c *gin.Context) {
	listingID, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	bids, err := h.service.GetBidsForListing(c.Request.Context(), listingID)
	if err != nil && !errors.Is(err, marketerrors.ErrNoBids) {
		helpers.RespondError(c, "GetBidsByListingHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	resp := make([]helpers.BidResponse, 0, len(bids))
	for _, bid := range bids {
		resp = append(resp, bidResponse(bid))
	}

	utils.JSONResponse(c, http.StatusOK, "bids", resp, "bids retrieved successfully")
	helpers.LogSuccess("GetBidsByListingHandler", "bids retrieved successfully", map[string]any{
		"listing_id": listingID,
		"count":      len(resp),
	})
}

// GetWinningBidHandler handles GET /listings/:id/winning
func (h *BiddingHandler) GetWinningBidHandler(c *gin.Context) {
	listingID, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	bid, err := h.service.GetWinningBid(c.Request.Context(), listingID)
	if err != nil {
		if errors.Is(err, marketerrors.ErrNoBids) {
			utils.JSONError(c, http.StatusNotFound, err, "no winning bid found")
			utils.Info("GetWinningBidHandler: no winning bid found", map[string]any{"listing_id": listingID})
			return
		}
		helpers.RespondError(c, "GetWinningBidHandler", err, map[string]any{"listing_id": listingID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, "bid", bidResponse(bid), "winning bid retrieved successfully")
	helpers.LogSuccess("GetWinningBidHandler", "winning bid retrieved successfully", map[string]any{
		"bid_id":     bid.ID,
		"listing_id": bid.ListingID,
		"bidder_id":  bid.BidderID,
		"amount":     bid.Amount,
	})
}

// GetListingsByBidderHandler handles GET /users/:id/listings
func (h *BiddingHandler) GetListingsByBidderHandler(c *gin.Context) {
	userID, ok := helpers.ParseID(c, "id")
	if !ok {
		return
	}

	listings, err := h.service.GetListingsByBidder(c.Request.Context(), userID)
	if err != nil && !errors.Is(err, marketerrors.ErrUserNoBids) {
		helpers.RespondError(c, "GetListingsByBidderHandler", err, map[string]any{"bidder_id": userID})
		return
	}

	if listings == nil {
		listings = []models.Listing{}
	}

	utils.JSONResponse(c, http.StatusOK, "listings", listings, "listings retrieved successfully")
	helpers.LogSuccess("GetListingsByBidderHandler", "listings retrieved successfully", map[string]any{
		"bidder_id":      userID,
		"listings_count": len(listings),
	})
}
