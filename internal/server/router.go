package server

import (
	"net/http"

	"auction-marketplace/internal/config"
	market "auction-marketplace/internal/marketService"
	"auction-marketplace/internal/models"
	handler "auction-marketplace/services/market/handler"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// Deps is everything the router needs to build its handlers
type Deps struct {
	Services *market.Services
	Bidding  handler.BiddingServiceInterface
	// Backup runs an on-demand backup. Nil disables POST /api/backups.
	Backup  handler.BackupFunc
	Session config.SessionConfig
	Auth    config.AuthConfig
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging
	router.Use(SessionAuth(deps.Services.Auth, deps.Session.CookieName))

	router.GET("/health", func(c *gin.Context) {
		utils.JSONResponse(c, http.StatusOK, "", nil, "ok")
	})

	svc := deps.Services
	session := RequireSession()
	staff := RequireRoles(models.RoleStaff, models.RoleAdmin)
	admin := RequireRoles(models.RoleAdmin)

	biddingHandler := handler.NewBiddingHandler(deps.Bidding)
	authHandler := handler.NewAuthHandler(svc.Auth, handler.CookieOptions{
		Name:   deps.Session.CookieName,
		Secure: deps.Session.Secure,
	})
	userHandler := handler.NewUserHandler(svc.Users)
	listingSearch := handler.NewListingHandler(svc.Listings)
	orderHandler := handler.NewOrderHandler(svc.Orders)
	chatHandler := handler.NewChatHandler(svc.Chats)
	ticketHandler := handler.NewTicketHandler(svc.Tickets)
	listHandler := handler.NewListHandler(svc.Lists)

	profiles := handler.NewResourceHandler[models.Profile](svc.Profiles, "profile", "profiles")
	categories := handler.NewResourceHandler[models.Category](svc.Categories, "category", "categories")
	listings := handler.NewResourceHandler[models.Listing](svc.Listings, "listing", "listings")
	bids := handler.NewResourceHandler[models.Bid](svc.Bids, "bid", "bids")
	orders := handler.NewResourceHandler[models.Order](svc.Orders, "order", "orders")
	transactions := handler.NewResourceHandler[models.Transaction](svc.Transactions, "transaction", "transactions")
	deliveries := handler.NewResourceHandler[models.Delivery](svc.Deliveries, "delivery", "deliveries")
	reviews := handler.NewResourceHandler[models.Review](svc.Reviews, "review", "reviews")
	tickets := handler.NewResourceHandler[models.SupportTicket](svc.Tickets, "ticket", "tickets")
	lists := handler.NewResourceHandler[models.List](svc.Lists, "list", "lists")
	sessions := handler.NewResourceHandler[models.Session](svc.Sessions, "session", "sessions")

	api := router.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.RegisterHandler)
		auth.POST("/login", NewIPRateLimiter(deps.Auth.LoginRate, deps.Auth.LoginBurst).Middleware(), authHandler.LoginHandler)
		auth.POST("/logout", session, authHandler.LogoutHandler)
		auth.GET("/me", session, authHandler.MeHandler)
	}

	users := api.Group("/users")
	{
		users.GET("", staff, userHandler.ListUsersHandler)
		users.GET("/:id", userHandler.GetUserHandler)
		users.PUT("/:id", session, userHandler.UpdateUserHandler)
		users.PUT("/:id/activate", staff, userHandler.SetActiveHandler(true))
		users.PUT("/:id/deactivate", staff, userHandler.SetActiveHandler(false))
		users.PUT("/:id/role", admin, userHandler.SetRoleHandler)
		users.DELETE("/:id", admin, userHandler.DeleteUserHandler)
		users.GET("/:id/profile", session, userHandler.ProfileHandler)
		users.GET("/:id/bids", bids.ListBy("id", "bidder_id"))
		users.GET("/:id/listings", biddingHandler.GetListingsByBidderHandler)
	}

	profileRoutes := api.Group("/profiles", session)
	{
		profileRoutes.GET("", profiles.List)
		profileRoutes.GET("/:id", profiles.Get)
		profileRoutes.POST("", profiles.Create)
		profileRoutes.PUT("/:id", profiles.Update)
		profileRoutes.DELETE("/:id", profiles.Delete)
	}

	categoryRoutes := api.Group("/categories")
	{
		categoryRoutes.GET("", categories.List)
		categoryRoutes.GET("/:id", categories.Get)
		categoryRoutes.POST("", staff, categories.Create)
		categoryRoutes.PUT("/:id", staff, categories.Update)
		categoryRoutes.DELETE("/:id", staff, categories.Delete)
	}

	listingRoutes := api.Group("/listings")
	{
		listingRoutes.GET("", listings.List)
		listingRoutes.GET("/search", listingSearch.SearchHandler)
		listingRoutes.GET("/:id", listings.Get)
		listingRoutes.POST("", session, listings.Create)
		listingRoutes.PUT("/:id", session, listings.Update)
		listingRoutes.DELETE("/:id", session, listings.Delete)
		listingRoutes.GET("/:id/bids", biddingHandler.GetBidsByListingHandler)
		listingRoutes.GET("/:id/winning", biddingHandler.GetWinningBidHandler)
		listingRoutes.GET("/:id/reviews", reviews.ListBy("id", "listing_id"))
	}

	bidRoutes := api.Group("/bids")
	{
		bidRoutes.GET("", bids.List)
		bidRoutes.GET("/:id", bids.Get)
		bidRoutes.POST("", session, biddingHandler.RecordBidHandler)
		bidRoutes.DELETE("/:id", staff, bids.Delete)
	}

	orderRoutes := api.Group("/orders", session)
	{
		orderRoutes.GET("", orders.List)
		orderRoutes.GET("/:id", orderHandler.GetOrderHandler)
		orderRoutes.POST("", orderHandler.PurchaseHandler)
		orderRoutes.PUT("/:id", staff, orderHandler.UpdateOrderStatusHandler)
		orderRoutes.DELETE("/:id", admin, orders.Delete)
		orderRoutes.GET("/:id/items", orderHandler.OrderItemsHandler)
	}

	transactionRoutes := api.Group("/transactions", session)
	{
		transactionRoutes.GET("", transactions.List)
		transactionRoutes.GET("/:id", transactions.Get)
		transactionRoutes.POST("", staff, transactions.Create)
		transactionRoutes.PUT("/:id", staff, transactions.Update)
		transactionRoutes.DELETE("/:id", admin, transactions.Delete)
	}

	deliveryRoutes := api.Group("/deliveries", staff)
	{
		deliveryRoutes.GET("", deliveries.List)
		deliveryRoutes.GET("/:id", deliveries.Get)
		deliveryRoutes.POST("", deliveries.Create)
		deliveryRoutes.PUT("/:id", deliveries.Update)
		deliveryRoutes.DELETE("/:id", deliveries.Delete)
	}

	reviewRoutes := api.Group("/reviews")
	{
		reviewRoutes.GET("", reviews.List)
		reviewRoutes.GET("/:id", reviews.Get)
		reviewRoutes.POST("", session, reviews.Create)
		reviewRoutes.PUT("/:id", session, reviews.Update)
		reviewRoutes.DELETE("/:id", session, reviews.Delete)
	}

	chatRoutes := api.Group("/chats", session)
	{
		chatRoutes.GET("", chatHandler.ListChatsHandler)
		chatRoutes.POST("", chatHandler.StartChatHandler)
		chatRoutes.GET("/:id", chatHandler.GetChatHandler)
		chatRoutes.DELETE("/:id", chatHandler.DeleteChatHandler)
		chatRoutes.GET("/:id/messages", chatHandler.ChatMessagesHandler)
		chatRoutes.POST("/:id/messages", chatHandler.SendMessageHandler)
	}

	ticketRoutes := api.Group("/tickets", session)
	{
		ticketRoutes.GET("", tickets.List)
		ticketRoutes.POST("", ticketHandler.OpenTicketHandler)
		ticketRoutes.GET("/:id", tickets.Get)
		ticketRoutes.PUT("/:id", staff, tickets.Update)
		ticketRoutes.DELETE("/:id", admin, tickets.Delete)
		ticketRoutes.GET("/:id/messages", ticketHandler.TicketMessagesHandler)
		ticketRoutes.POST("/:id/messages", ticketHandler.ReplyHandler)
		ticketRoutes.PUT("/:id/assign", staff, ticketHandler.AssignHandler)
		ticketRoutes.PUT("/:id/status", staff, ticketHandler.TicketStatusHandler)
	}

	listRoutes := api.Group("/lists")
	{
		listRoutes.GET("", lists.List)
		listRoutes.POST("", session, lists.Create)
		listRoutes.GET("/:id", lists.Get)
		listRoutes.PUT("/:id", session, lists.Update)
		listRoutes.DELETE("/:id", session, lists.Delete)
		listRoutes.GET("/:id/items", listHandler.ListItemsHandler)
		listRoutes.POST("/:id/items", session, listHandler.AddItemHandler)
		listRoutes.DELETE("/:id/items/:item_id", session, listHandler.RemoveItemHandler)
	}

	sessionRoutes := api.Group("/sessions", admin)
	{
		sessionRoutes.GET("", sessions.List)
		sessionRoutes.DELETE("/:id", sessions.Delete)
	}

	if deps.Backup != nil {
		api.POST("/backups", admin, handler.NewBackupHandler(deps.Backup).RunBackupHandler)
	}

	return router
}
