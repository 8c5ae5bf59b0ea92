package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"auction-marketplace/internal/events"
	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// PurchaseItem is one listing bought in a checkout
type PurchaseItem struct {
	ListingID int64
	Quantity  int64
}

// Shipping is the address every item of a purchase is delivered to
type Shipping struct {
	AddressLine1 string
	AddressLine2 *string
	City         string
	Postcode     string
	Country      string
}

func (a Shipping) String() string {
	parts := []string{a.AddressLine1}
	if a.AddressLine2 != nil && *a.AddressLine2 != "" {
		parts = append(parts, *a.AddressLine2)
	}
	parts = append(parts, a.City, a.Postcode, a.Country)
	return strings.Join(parts, ", ")
}

// PurchaseRequest is a checkout of buy-now listings
type PurchaseRequest struct {
	Items            []PurchaseItem
	Shipping         Shipping
	PaymentReference *string
}

// OrderService handles checkout and order administration
type OrderService struct {
	*CRUDService[models.Order]
	store     *repository.Store
	publisher events.Publisher
}

func NewOrderService(store *repository.Store, publisher events.Publisher) *OrderService {
	return &OrderService{
		CRUDService: NewCRUDService(store.Orders, models.NewOrder, Policy[models.Order]{
			OwnerColumn: "buyer_id",
			Owner:       func(o *models.Order) int64 { return o.BuyerID },
			PrivateRead: true,
		}),
		store:     store,
		publisher: publisher,
	}
}

// Purchase buys the requested listings at their buy-now price. The order, its items, one
// delivery per item and the payment are stored together or not at all.
func (s *OrderService) Purchase(ctx context.Context, actor Actor, req PurchaseRequest) (*models.Order, error) {
	if err := requireSession(actor, "purchase"); err != nil {
		return nil, err
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("service: %w - an order needs at least one item", marketerrors.ErrInvalidInput)
	}

	purchase := &repository.Purchase{}
	seen := make(map[int64]bool, len(req.Items))
	var (
		total  float64
		single *models.Listing
	)

	for _, line := range req.Items {
		if seen[line.ListingID] {
			return nil, fmt.Errorf("service: %w - listing %d appears twice", marketerrors.ErrInvalidInput, line.ListingID)
		}
		seen[line.ListingID] = true

		listing, err := s.purchasable(ctx, actor, line)
		if err != nil {
			return nil, err
		}

		item, err := models.NewOrderItem(map[string]any{
			"order_id":   int64(0),
			"listing_id": listing.ID,
			"quantity":   line.Quantity,
			"price":      *listing.BuyNowPrice,
		})
		if err != nil {
			return nil, fmt.Errorf("service: invalid order item: %w", err)
		}
		purchase.Items = append(purchase.Items, *item)
		total += item.Total
		single = listing
		purchase.SoldOut = append(purchase.SoldOut, listing.ID)
	}

	order, err := models.NewOrder(map[string]any{"buyer_id": actor.UserID, "total_amount": total})
	if err != nil {
		return nil, fmt.Errorf("service: invalid order: %w", err)
	}
	purchase.Order = order

	delivery, err := models.NewDelivery(deliveryFields(req.Shipping))
	if err != nil {
		return nil, fmt.Errorf("service: invalid shipping address: %w", err)
	}
	purchase.Delivery = *delivery

	payment := map[string]any{
		"user_id":          actor.UserID,
		"buyer_id":         actor.UserID,
		"amount":           total,
		"shipping_address": req.Shipping.String(),
	}
	if req.PaymentReference != nil {
		payment["payment_reference"] = *req.PaymentReference
	}
	if len(purchase.Items) == 1 {
		payment["listing_id"] = single.ID
		payment["seller_id"] = single.SellerID
	}
	txn, err := models.NewTransaction(payment)
	if err != nil {
		return nil, fmt.Errorf("service: invalid transaction: %w", err)
	}
	purchase.Transaction = txn

	if err := s.store.PlaceOrder(ctx, purchase); err != nil {
		return nil, fmt.Errorf("service: failed to place order for user %d: %w", actor.UserID, err)
	}

	events.Emit(ctx, s.publisher, events.Event{
		Type:    events.OrderPlaced,
		Key:     strconv.FormatInt(order.ID, 10),
		ActorID: actor.UserID,
		Payload: map[string]any{
			"order_id":       order.ID,
			"buyer_id":       order.BuyerID,
			"total_amount":   order.TotalAmount,
			"item_count":     len(order.Items),
			"transaction_id": txn.ID,
		},
	})
	return order, nil
}

func (s *OrderService) purchasable(ctx context.Context, actor Actor, line PurchaseItem) (*models.Listing, error) {
	if line.ListingID <= 0 {
		return nil, invalidID("listing", line.ListingID)
	}
	if line.Quantity <= 0 {
		return nil, fmt.Errorf("service: %w - quantity must be at least 1", marketerrors.ErrInvalidInput)
	}

	listing, err := s.store.Listings.GetByID(ctx, line.ListingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load listing %d: %w", line.ListingID, err)
	}

	switch {
	case listing.Status != models.ListingActive:
		return nil, fmt.Errorf("service: %w - listing %d is %s", marketerrors.ErrListingClosed, listing.ID, listing.Status)
	case listing.BuyNowPrice == nil:
		return nil, fmt.Errorf("service: %w - listing %d has no buy-now price", marketerrors.ErrInvalidInput, listing.ID)
	case listing.SellerID == actor.UserID:
		return nil, fmt.Errorf("service: %w - sellers cannot buy their own listing", marketerrors.ErrInvalidInput)
	case line.Quantity != 1:
		return nil, fmt.Errorf("service: %w - listing %d is a single item", marketerrors.ErrInvalidInput, listing.ID)
	}
	return listing, nil
}

func deliveryFields(a Shipping) map[string]any {
	fields := map[string]any{
		"order_item_id": int64(0),
		"address_line1": a.AddressLine1,
		"city":          a.City,
		"postcode":      a.Postcode,
		"country":       a.Country,
	}
	if a.AddressLine2 != nil {
		fields["address_line2"] = *a.AddressLine2
	}
	for _, key := range []string{"address_line1", "city", "postcode", "country"} {
		if fields[key] == "" {
			delete(fields, key)
		}
	}
	return fields
}

// GetWithItems returns an order of the caller together with its items
func (s *OrderService) GetWithItems(ctx context.Context, actor Actor, id int64) (*models.Order, error) {
	order, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	items, err := s.store.OrderItemsOf(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load items of order %d: %w", id, err)
	}
	order.Items = items
	return order, nil
}

// Items returns the items of an order of the caller
func (s *OrderService) Items(ctx context.Context, actor Actor, id int64) ([]models.OrderItem, error) {
	order, err := s.GetWithItems(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return order.Items, nil
}

// UpdateStatus moves an order to status
func (s *OrderService) UpdateStatus(ctx context.Context, actor Actor, id int64, status string) (*models.Order, error) {
	if !actor.IsStaff() {
		return nil, forbidden(fmt.Sprintf("update status of order %d", id))
	}
	return s.Update(ctx, actor, id, map[string]any{"status": status})
}
