package models

import "time"

// Listing represents an item offered for auction or direct sale
type Listing struct {
	ID            int64      `json:"id"`
	SellerID      int64      `json:"seller_id"`
	CategoryID    *int64     `json:"category_id"`
	Title         string     `json:"title"`
	ShortTitle    *string    `json:"short_title"`
	Description   *string    `json:"description"`
	Specifics     *string    `json:"specifics"`
	ListingType   string     `json:"listing_type"`
	Status        string     `json:"status"`
	StartingPrice *float64   `json:"starting_price"`
	ReservePrice  *float64   `json:"reserve_price"`
	CurrentPrice  *float64   `json:"current_price"`
	BuyNowPrice   *float64   `json:"buy_now_price"`
	AuctionStart  *time.Time `json:"auction_start"`
	AuctionEnd    *time.Time `json:"auction_end"`
	BidCount      int64      `json:"bid_count"`
	PurchaseCount int64      `json:"purchase_count"`
	ReviewCount   int64      `json:"review_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

var ListingSchema = Schema{
	Entity: "listing",
	Fields: []Field{
		{Name: "seller_id", Kind: Int, Required: true},
		{Name: "category_id", Kind: Int},
		{Name: "title", Kind: String, Required: true},
		{Name: "short_title", Kind: String},
		{Name: "description", Kind: String},
		{Name: "specifics", Kind: String},
		{Name: "listing_type", Kind: String, Required: true, Enum: ListingTypes},
		{Name: "status", Kind: String, Enum: ListingStatuses, Default: ListingActive},
		{Name: "starting_price", Kind: Float, Bounded: true, Max: maxPrice},
		{Name: "reserve_price", Kind: Float, Bounded: true, Max: maxPrice},
		{Name: "current_price", Kind: Float, Bounded: true, Max: maxPrice, Managed: true},
		{Name: "buy_now_price", Kind: Float, Bounded: true, Max: maxPrice},
		{Name: "auction_start", Kind: Time},
		{Name: "auction_end", Kind: Time},
		{Name: "bid_count", Kind: Int, Default: int64(0), Managed: true},
		{Name: "purchase_count", Kind: Int, Default: int64(0), Managed: true},
		{Name: "review_count", Kind: Int, Default: int64(0), Managed: true},
	},
}

const maxPrice = 1e12

// NewListing builds a Listing from keyword fields
func NewListing(fields map[string]any) (*Listing, error) {
	return construct[Listing](ListingSchema, fields)
}

func (l Listing) ToMap() map[string]any { return toMap(l) }

// IsAuction reports whether the listing accepts bids
func (l Listing) IsAuction() bool { return l.ListingType == ListingTypeAuction }

// AuctionRunning reports whether now falls inside the auction window. Open bounds are unrestricted.
func (l Listing) AuctionRunning(now time.Time) bool {
	if l.AuctionStart != nil && now.Before(*l.AuctionStart) {
		return false
	}
	if l.AuctionEnd != nil && !now.Before(*l.AuctionEnd) {
		return false
	}
	return true
}

// MinimumBid returns the lowest acceptable first bid
func (l Listing) MinimumBid() float64 {
	if l.StartingPrice != nil {
		return *l.StartingPrice
	}
	return 0
}

// Category groups listings
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var CategorySchema = Schema{
	Entity: "category",
	Fields: []Field{
		{Name: "name", Kind: String, Required: true},
		{Name: "description", Kind: String},
		{Name: "image_url", Kind: String},
	},
}

func NewCategory(fields map[string]any) (*Category, error) {
	return construct[Category](CategorySchema, fields)
}

func (c Category) ToMap() map[string]any { return toMap(c) }

// Bid represents a user's bid on a listing
type Bid struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	BidderID  int64     `json:"bidder_id"`
	Amount    float64   `json:"amount"`
	BidTime   time.Time `json:"bid_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var BidSchema = Schema{
	Entity: "bid",
	Fields: []Field{
		{Name: "listing_id", Kind: Int, Required: true},
		{Name: "bidder_id", Kind: Int, Required: true},
		{Name: "amount", Kind: Float, Required: true, Bounded: true, Max: maxPrice},
		{Name: "bid_time", Kind: Time, Now: true},
	},
}

func NewBid(fields map[string]any) (*Bid, error) {
	return construct[Bid](BidSchema, fields)
}

func (b Bid) ToMap() map[string]any { return toMap(b) }
