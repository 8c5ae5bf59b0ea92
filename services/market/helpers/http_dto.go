package helpers

// Request/Response DTOs
type PlaceBidRequest struct {
	ListingID int64   `json:"listing_id" binding:"required,gt=0"`
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type BidResponse struct {
	ID        int64   `json:"id"`
	ListingID int64   `json:"listing_id"`
	BidderID  int64   `json:"bidder_id"`
	Amount    float64 `json:"amount"`
	BidTime   string  `json:"bid_time"`
}

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,max=150"`
	Password string  `json:"password" binding:"required,min=8,max=72"`
	Email    *string `json:"email" binding:"omitempty,email"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    int64  `json:"user_id"`
	Role      string `json:"role"`
}

type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignRequest struct {
	AssigneeID int64 `json:"assignee_id" binding:"required,gt=0"`
}

type StartChatRequest struct {
	UserID int64 `json:"user_id" binding:"required,gt=0"`
}

type MessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// PurchaseItemRequest is one checkout line. Quantity defaults to 1.
type PurchaseItemRequest struct {
	ListingID int64 `json:"listing_id" binding:"required,gt=0"`
	Quantity  int64 `json:"quantity" binding:"omitempty,gt=0"`
}

type ShippingRequest struct {
	AddressLine1 string  `json:"address_line1" binding:"required"`
	AddressLine2 *string `json:"address_line2"`
	City         string  `json:"city" binding:"required"`
	Postcode     string  `json:"postcode" binding:"required"`
	Country      string  `json:"country" binding:"required"`
}

type PurchaseRequest struct {
	Items            []PurchaseItemRequest `json:"items" binding:"required,min=1,dive"`
	Shipping         ShippingRequest       `json:"shipping"`
	PaymentReference *string               `json:"payment_reference"`
}

type BackupResponse struct {
	Path string `json:"path"`
}
