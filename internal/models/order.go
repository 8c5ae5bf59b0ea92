package models

import "time"

// Order is a purchase made by a buyer, made up of one or more items
type Order struct {
	ID          int64       `json:"id"`
	BuyerID     int64       `json:"buyer_id"`
	Status      string      `json:"status"`
	TotalAmount float64     `json:"total_amount"`
	Items       []OrderItem `json:"items,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

var OrderSchema = Schema{
	Entity: "order",
	Fields: []Field{
		{Name: "buyer_id", Kind: Int, Required: true},
		{Name: "status", Kind: String, Enum: OrderStatuses, Default: OrderPending},
		{Name: "total_amount", Kind: Float, Bounded: true, Max: maxPrice, Default: float64(0)},
	},
}

func NewOrder(fields map[string]any) (*Order, error) {
	return construct[Order](OrderSchema, fields)
}

func (o Order) ToMap() map[string]any { return toMap(o) }

// OrderItem is one listing line of an order
type OrderItem struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"order_id"`
	ListingID int64     `json:"listing_id"`
	Quantity  int64     `json:"quantity"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var OrderItemSchema = Schema{
	Entity: "order_item",
	Fields: []Field{
		{Name: "order_id", Kind: Int, Required: true},
		{Name: "listing_id", Kind: Int, Required: true},
		{Name: "quantity", Kind: Int, Required: true, Bounded: true, Min: 1, Max: 10000},
		{Name: "price", Kind: Float, Required: true, Bounded: true, Max: maxPrice},
		{Name: "total", Kind: Float, Bounded: true, Max: maxPrice, Default: float64(0)},
	},
}

// NewOrderItem builds an OrderItem; an unset total is derived from price and quantity
func NewOrderItem(fields map[string]any) (*OrderItem, error) {
	item, err := construct[OrderItem](OrderItemSchema, fields)
	if err != nil {
		return nil, err
	}
	if _, ok := fields["total"]; !ok {
		item.Total = item.Price * float64(item.Quantity)
	}
	return item, nil
}

func (i OrderItem) ToMap() map[string]any { return toMap(i) }

// Transaction records a payment. UserID is the paying user; the listing, buyer and seller
// references are set for purchases and left empty for other payments.
type Transaction struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	OrderID          *int64    `json:"order_id"`
	ListingID        *int64    `json:"listing_id"`
	BuyerID          *int64    `json:"buyer_id"`
	SellerID         *int64    `json:"seller_id"`
	Amount           float64   `json:"amount"`
	Status           string    `json:"status"`
	PaymentReference *string   `json:"payment_reference"`
	ShippingAddress  *string   `json:"shipping_address"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

var TransactionSchema = Schema{
	Entity: "transaction",
	Fields: []Field{
		{Name: "user_id", Kind: Int, Required: true},
		{Name: "order_id", Kind: Int},
		{Name: "listing_id", Kind: Int},
		{Name: "buyer_id", Kind: Int},
		{Name: "seller_id", Kind: Int},
		{Name: "amount", Kind: Float, Required: true, Bounded: true, Max: maxPrice},
		{Name: "status", Kind: String, Enum: TransactionStatuses, Default: TransactionPending},
		{Name: "payment_reference", Kind: String},
		{Name: "shipping_address", Kind: String},
	},
}

func NewTransaction(fields map[string]any) (*Transaction, error) {
	return construct[Transaction](TransactionSchema, fields)
}

func (t Transaction) ToMap() map[string]any { return toMap(t) }

// Delivery tracks the shipment of one order item
type Delivery struct {
	ID                int64      `json:"id"`
	OrderItemID       int64      `json:"order_item_id"`
	AddressLine1      string     `json:"address_line1"`
	AddressLine2      *string    `json:"address_line2"`
	City              string     `json:"city"`
	Postcode          string     `json:"postcode"`
	Country           string     `json:"country"`
	DeliveryStatus    string     `json:"delivery_status"`
	Courier           *string    `json:"courier"`
	TrackingNumber    *string    `json:"tracking_number"`
	TrackingURL       *string    `json:"tracking_url"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	DeliveredAt       *time.Time `json:"delivered_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

var DeliverySchema = Schema{
	Entity: "delivery",
	Fields: []Field{
		{Name: "order_item_id", Kind: Int, Required: true},
		{Name: "address_line1", Kind: String, Required: true},
		{Name: "address_line2", Kind: String},
		{Name: "city", Kind: String, Required: true},
		{Name: "postcode", Kind: String, Required: true},
		{Name: "country", Kind: String, Required: true},
		{Name: "delivery_status", Kind: String, Enum: DeliveryStatuses, Default: DeliveryPending},
		{Name: "courier", Kind: String},
		{Name: "tracking_number", Kind: String},
		{Name: "tracking_url", Kind: String},
		{Name: "estimated_delivery", Kind: Time},
		{Name: "delivered_at", Kind: Time},
	},
}

func NewDelivery(fields map[string]any) (*Delivery, error) {
	return construct[Delivery](DeliverySchema, fields)
}

func (d Delivery) ToMap() map[string]any { return toMap(d) }
