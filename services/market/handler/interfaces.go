package handler

import (
	"context"

	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

type BiddingServiceInterface interface {
	PlaceBid(ctx context.Context, listingID, bidderID int64, amount float64) (models.Bid, error)
	GetBidsForListing(ctx context.Context, listingID int64) ([]models.Bid, error)
	GetWinningBid(ctx context.Context, listingID int64) (models.Bid, error)
	GetListingsByBidder(ctx context.Context, bidderID int64) ([]models.Listing, error)
}

// CRUDServiceInterface is the generic resource service behind ResourceHandler
type CRUDServiceInterface[T any] interface {
	Get(ctx context.Context, actor market.Actor, id int64) (*T, error)
	List(ctx context.Context, actor market.Actor, q repository.Query) ([]T, error)
	Create(ctx context.Context, actor market.Actor, fields map[string]any) (*T, error)
	Update(ctx context.Context, actor market.Actor, id int64, fields map[string]any) (*T, error)
	Delete(ctx context.Context, actor market.Actor, id int64) error
}

type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string, email *string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.Session, *models.User, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, actor market.Actor) (*models.User, error)
}

type ListingSearcher interface {
	Search(ctx context.Context, text string, q repository.Query) ([]models.Listing, int64, error)
}

type UserServiceInterface interface {
	List(ctx context.Context, actor market.Actor, q repository.Query) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, actor market.Actor, id int64, fields map[string]any) (*models.User, error)
	SetActive(ctx context.Context, actor market.Actor, id int64, active bool) (*models.User, error)
	SetRole(ctx context.Context, actor market.Actor, id int64, role string) (*models.User, error)
	Delete(ctx context.Context, actor market.Actor, id int64) error
	Profile(ctx context.Context, id int64) (*models.Profile, error)
}

type OrderServiceInterface interface {
	Purchase(ctx context.Context, actor market.Actor, req market.PurchaseRequest) (*models.Order, error)
	GetWithItems(ctx context.Context, actor market.Actor, id int64) (*models.Order, error)
	Items(ctx context.Context, actor market.Actor, id int64) ([]models.OrderItem, error)
	UpdateStatus(ctx context.Context, actor market.Actor, id int64, status string) (*models.Order, error)
}

type ChatServiceInterface interface {
	Start(ctx context.Context, actor market.Actor, otherID int64) (*models.Chat, bool, error)
	List(ctx context.Context, actor market.Actor, q repository.Query) ([]models.Chat, error)
	Get(ctx context.Context, actor market.Actor, id int64) (*models.Chat, error)
	Delete(ctx context.Context, actor market.Actor, id int64) error
	Messages(ctx context.Context, actor market.Actor, chatID int64, q repository.Query) ([]models.ChatMessage, error)
	Send(ctx context.Context, actor market.Actor, chatID int64, content string) (*models.ChatMessage, error)
}

type TicketServiceInterface interface {
	Open(ctx context.Context, actor market.Actor, fields map[string]any) (*models.SupportTicket, error)
	Messages(ctx context.Context, actor market.Actor, ticketID int64, q repository.Query) ([]models.TicketMessage, error)
	Reply(ctx context.Context, actor market.Actor, ticketID int64, text string) (*models.TicketMessage, error)
	Assign(ctx context.Context, actor market.Actor, ticketID, assigneeID int64) (*models.SupportTicket, error)
	UpdateStatus(ctx context.Context, actor market.Actor, ticketID int64, status string) (*models.SupportTicket, error)
}

type ListServiceInterface interface {
	Items(ctx context.Context, actor market.Actor, listID int64, q repository.Query) ([]models.ListItem, error)
	AddItem(ctx context.Context, actor market.Actor, listID int64, fields map[string]any) (*models.ListItem, error)
	RemoveItem(ctx context.Context, actor market.Actor, listID, itemID int64) error
}

// BackupFunc takes an on-demand database backup and returns the file written
type BackupFunc func(ctx context.Context) (string, error)
