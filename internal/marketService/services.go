package market

import (
	"time"

	"auction-marketplace/internal/events"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/search"
)

// Services holds every marketplace service built on one store
type Services struct {
	Categories   *CRUDService[models.Category]
	Profiles     *CRUDService[models.Profile]
	Bids         *CRUDService[models.Bid]
	Transactions *CRUDService[models.Transaction]
	Deliveries   *CRUDService[models.Delivery]
	Sessions     *CRUDService[models.Session]

	Listings *ListingService
	Auth     *AuthService
	Users    *UserService
	Orders   *OrderService
	Reviews  *ReviewService
	Chats    *ChatService
	Tickets  *TicketService
	Lists    *ListService
}

// NewServices wires the services. index and publisher may be nil.
func NewServices(store *repository.Store, index search.ListingIndex, publisher events.Publisher, sessionTTL time.Duration) *Services {
	return &Services{
		Categories: NewCRUDService(store.Categories, models.NewCategory, Policy[models.Category]{}),
		Profiles: NewCRUDService(store.Profiles, models.NewProfile, Policy[models.Profile]{
			OwnerColumn: "user_id",
			Owner:       func(p *models.Profile) int64 { return p.UserID },
		}),
		Bids: NewCRUDService(store.Bids, models.NewBid, Policy[models.Bid]{}),
		Transactions: NewCRUDService(store.Transactions, models.NewTransaction, Policy[models.Transaction]{
			OwnerColumn: "user_id",
			Owner:       func(t *models.Transaction) int64 { return t.UserID },
			PrivateRead: true,
		}),
		Deliveries: NewCRUDService(store.Deliveries, models.NewDelivery, Policy[models.Delivery]{}),
		Sessions:   NewCRUDService(store.Sessions, models.NewSession, Policy[models.Session]{}),

		Listings: NewListingService(store, index, publisher),
		Auth:     NewAuthService(store, publisher, sessionTTL),
		Users:    NewUserService(store),
		Orders:   NewOrderService(store, publisher),
		Reviews:  NewReviewService(store, publisher),
		Chats:    NewChatService(store),
		Tickets:  NewTicketService(store),
		Lists:    NewListService(store),
	}
}
