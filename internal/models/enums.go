package models

// Listing types
const (
	ListingTypeAuction = "auction"
	ListingTypeBuyNow  = "buy_now"
)

// Listing statuses
const (
	ListingActive    = "active"
	ListingSold      = "sold"
	ListingCancelled = "cancelled"
	ListingEnded     = "ended"
	ListingDraft     = "draft"
)

// Order statuses
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
	OrderRefunded  = "refunded"
)

// Transaction statuses
const (
	TransactionPending   = "pending"
	TransactionCompleted = "completed"
	TransactionFailed    = "failed"
	TransactionRefunded  = "refunded"
	TransactionCancelled = "cancelled"
)

// Delivery statuses
const (
	DeliveryPending        = "pending"
	DeliveryProcessing     = "processing"
	DeliveryShipped        = "shipped"
	DeliveryInTransit      = "in_transit"
	DeliveryOutForDelivery = "out_for_delivery"
	DeliveryDelivered      = "delivered"
	DeliveryCancelled      = "cancelled"
	DeliveryReturned       = "returned"
	DeliveryFailed         = "failed"
)

// Support ticket statuses and priorities
const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// User roles. A staff user is any user holding RoleStaff or RoleAdmin.
const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

var (
	ListingTypes        = []string{ListingTypeAuction, ListingTypeBuyNow}
	ListingStatuses     = []string{ListingActive, ListingSold, ListingCancelled, ListingEnded, ListingDraft}
	OrderStatuses       = []string{OrderPending, OrderPaid, OrderShipped, OrderCompleted, OrderCancelled, OrderRefunded}
	TransactionStatuses = []string{TransactionPending, TransactionCompleted, TransactionFailed, TransactionRefunded, TransactionCancelled}
	DeliveryStatuses    = []string{
		DeliveryPending, DeliveryProcessing, DeliveryShipped, DeliveryInTransit, DeliveryOutForDelivery,
		DeliveryDelivered, DeliveryCancelled, DeliveryReturned, DeliveryFailed,
	}
	TicketStatuses   = []string{TicketOpen, TicketInProgress, TicketResolved, TicketClosed}
	TicketPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
	Roles            = []string{RoleUser, RoleStaff, RoleAdmin}
)

// IsStaffRole reports whether role grants staff privileges
func IsStaffRole(role string) bool {
	return role == RoleStaff || role == RoleAdmin
}
