package repository

import "auction-marketplace/internal/models"

var userTable = func() *Table[models.User] {
	t := newTable("users", models.UserSchema, func(u *models.User) []any {
		return []any{&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt}
	})
	t.Filters["role"] = OneOf("role", models.Roles)
	t.Filters["is_active"] = EqualsBool("is_active")
	t.Filters["q"] = Contains("username", "email")
	t.Sortable = []string{"username", "created_at"}
	return t
}()

var sessionTable = func() *Table[models.Session] {
	t := newTable("sessions", models.SessionSchema, func(s *models.Session) []any {
		return []any{&s.ID, &s.UserID, &s.Role, &s.Token, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt}
	})
	t.Filters["user_id"] = EqualsInt("user_id")
	t.Filters["expires_before"] = Before("expires_at")
	t.Sortable = []string{"expires_at", "created_at"}
	return t
}()

var profileTable = func() *Table[models.Profile] {
	t := newTable("profiles", models.ProfileSchema, func(p *models.Profile) []any {
		return []any{
			&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.BirthDate, &p.Phone, &p.Email,
			&p.AddressLine1, &p.AddressLine2, &p.City, &p.Postcode, &p.Country, &p.Bio,
			&p.WebsiteURL, &p.TwitterURL, &p.InstagramURL, &p.FacebookURL, &p.CreatedAt, &p.UpdatedAt,
		}
	})
	t.Filters["user_id"] = EqualsInt("user_id")
	t.Filters["city"] = EqualsString("city")
	t.Filters["country"] = EqualsString("country")
	return t
}()

var categoryTable = func() *Table[models.Category] {
	t := newTable("categories", models.CategorySchema, func(c *models.Category) []any {
		return []any{&c.ID, &c.Name, &c.Description, &c.ImageURL, &c.CreatedAt, &c.UpdatedAt}
	})
	t.Filters["name"] = EqualsString("name")
	t.Filters["q"] = Contains("name", "description")
	t.Sortable = []string{"name", "created_at"}
	t.OrderBy = "name ASC, id ASC"
	return t
}()

var listingTable = func() *Table[models.Listing] {
	t := newTable("listings", models.ListingSchema, func(l *models.Listing) []any {
		return []any{
			&l.ID, &l.SellerID, &l.CategoryID, &l.Title, &l.ShortTitle, &l.Description, &l.Specifics,
			&l.ListingType, &l.Status, &l.StartingPrice, &l.ReservePrice, &l.CurrentPrice, &l.BuyNowPrice,
			&l.AuctionStart, &l.AuctionEnd, &l.BidCount, &l.PurchaseCount, &l.ReviewCount,
			&l.CreatedAt, &l.UpdatedAt,
		}
	})
	t.Filters["category_id"] = EqualsInt("category_id")
	t.Filters["category"] = EqualsInt("category_id")
	t.Filters["seller_id"] = EqualsInt("seller_id")
	t.Filters["status"] = OneOf("status", models.ListingStatuses)
	t.Filters["listing_type"] = OneOf("listing_type", models.ListingTypes)
	t.Filters["min_price"] = AtLeast("current_price")
	t.Filters["max_price"] = AtMost("current_price")
	t.Filters["q"] = Contains("title", "description")
	t.Filters["search"] = Contains("title", "description")
	t.Filters["ending_before"] = Before("auction_end")
	t.Filters["ending_after"] = After("auction_end")
	t.Sortable = []string{"created_at", "current_price", "auction_end", "title", "bid_count"}
	t.OrderBy = "created_at DESC, id DESC"
	return t
}()

var bidTable = func() *Table[models.Bid] {
	t := newTable("bids", models.BidSchema, func(b *models.Bid) []any {
		return []any{&b.ID, &b.ListingID, &b.BidderID, &b.Amount, &b.BidTime, &b.CreatedAt, &b.UpdatedAt}
	})
	t.Filters["listing_id"] = EqualsInt("listing_id")
	t.Filters["bidder_id"] = EqualsInt("bidder_id")
	t.Filters["min_amount"] = AtLeast("amount")
	t.Sortable = []string{"amount", "bid_time"}
	t.OrderBy = "bid_time ASC, id ASC"
	return t
}()

var orderTable = func() *Table[models.Order] {
	t := newTable("orders", models.OrderSchema, func(o *models.Order) []any {
		return []any{&o.ID, &o.BuyerID, &o.Status, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt}
	})
	t.Filters["buyer_id"] = EqualsInt("buyer_id")
	t.Filters["status"] = OneOf("status", models.OrderStatuses)
	t.Sortable = []string{"created_at", "total_amount"}
	t.OrderBy = "created_at DESC, id DESC"
	return t
}()

var orderItemTable = func() *Table[models.OrderItem] {
	t := newTable("order_items", models.OrderItemSchema, func(i *models.OrderItem) []any {
		return []any{&i.ID, &i.OrderID, &i.ListingID, &i.Quantity, &i.Price, &i.Total, &i.CreatedAt, &i.UpdatedAt}
	})
	t.Filters["order_id"] = EqualsInt("order_id")
	t.Filters["listing_id"] = EqualsInt("listing_id")
	return t
}()

var transactionTable = func() *Table[models.Transaction] {
	t := newTable("transactions", models.TransactionSchema, func(tx *models.Transaction) []any {
		return []any{
			&tx.ID, &tx.UserID, &tx.OrderID, &tx.ListingID, &tx.BuyerID, &tx.SellerID, &tx.Amount,
			&tx.Status, &tx.PaymentReference, &tx.ShippingAddress, &tx.CreatedAt, &tx.UpdatedAt,
		}
	})
	t.Filters["user_id"] = EqualsInt("user_id")
	t.Filters["order_id"] = EqualsInt("order_id")
	t.Filters["buyer_id"] = EqualsInt("buyer_id")
	t.Filters["seller_id"] = EqualsInt("seller_id")
	t.Filters["status"] = OneOf("status", models.TransactionStatuses)
	t.Sortable = []string{"created_at", "amount"}
	t.OrderBy = "created_at DESC, id DESC"
	return t
}()

var deliveryTable = func() *Table[models.Delivery] {
	t := newTable("deliveries", models.DeliverySchema, func(d *models.Delivery) []any {
		return []any{
			&d.ID, &d.OrderItemID, &d.AddressLine1, &d.AddressLine2, &d.City, &d.Postcode, &d.Country,
			&d.DeliveryStatus, &d.Courier, &d.TrackingNumber, &d.TrackingURL, &d.EstimatedDelivery,
			&d.DeliveredAt, &d.CreatedAt, &d.UpdatedAt,
		}
	})
	t.Filters["order_item_id"] = EqualsInt("order_item_id")
	t.Filters["delivery_status"] = OneOf("delivery_status", models.DeliveryStatuses)
	t.Filters["courier"] = EqualsString("courier")
	t.Sortable = []string{"created_at", "estimated_delivery"}
	return t
}()

var reviewTable = func() *Table[models.Review] {
	t := newTable("reviews", models.ReviewSchema, func(r *models.Review) []any {
		return []any{&r.ID, &r.ListingID, &r.AuthorID, &r.Rating, &r.Title, &r.Description, &r.CreatedAt, &r.UpdatedAt}
	})
	t.Filters["listing_id"] = EqualsInt("listing_id")
	t.Filters["author_id"] = EqualsInt("author_id")
	t.Filters["min_rating"] = AtLeast("rating")
	t.Sortable = []string{"created_at", "rating"}
	t.OrderBy = "created_at DESC, id DESC"
	return t
}()

var chatTable = func() *Table[models.Chat] {
	t := newTable("chats", models.ChatSchema, func(c *models.Chat) []any {
		return []any{&c.ID, &c.User1ID, &c.User2ID, &c.CreatedAt, &c.UpdatedAt}
	})
	t.Filters["participant"] = EitherInt("user1_id", "user2_id")
	t.Sortable = []string{"created_at", "updated_at"}
	t.OrderBy = "updated_at DESC, id DESC"
	return t
}()

var chatMessageTable = func() *Table[models.ChatMessage] {
	t := newTable("chat_messages", models.ChatMessageSchema, func(m *models.ChatMessage) []any {
		return []any{&m.ID, &m.ChatID, &m.SenderID, &m.Content, &m.SentAt, &m.CreatedAt, &m.UpdatedAt}
	})
	t.Filters["chat_id"] = EqualsInt("chat_id")
	t.Filters["sender_id"] = EqualsInt("sender_id")
	t.OrderBy = "sent_at ASC, id ASC"
	return t
}()

var ticketTable = func() *Table[models.SupportTicket] {
	t := newTable("support_tickets", models.SupportTicketSchema, func(s *models.SupportTicket) []any {
		return []any{&s.ID, &s.UserID, &s.Subject, &s.Description, &s.Status, &s.Priority, &s.AssignedTo, &s.CreatedAt, &s.UpdatedAt}
	})
	t.Filters["user_id"] = EqualsInt("user_id")
	t.Filters["status"] = OneOf("status", models.TicketStatuses)
	t.Filters["priority"] = OneOf("priority", models.TicketPriorities)
	t.Filters["assigned_to"] = EqualsInt("assigned_to")
	t.Sortable = []string{"created_at", "updated_at", "priority"}
	t.OrderBy = "created_at DESC, id DESC"
	return t
}()

var ticketMessageTable = func() *Table[models.TicketMessage] {
	t := newTable("ticket_messages", models.TicketMessageSchema, func(m *models.TicketMessage) []any {
		return []any{&m.ID, &m.TicketID, &m.SenderID, &m.Message, &m.CreatedAt, &m.UpdatedAt}
	})
	t.Filters["ticket_id"] = EqualsInt("ticket_id")
	t.OrderBy = "created_at ASC, id ASC"
	return t
}()

var listTable = func() *Table[models.List] {
	t := newTable("lists", models.ListSchema, func(l *models.List) []any {
		return []any{&l.ID, &l.UserID, &l.Name, &l.Description, &l.IsPublic, &l.CreatedAt, &l.UpdatedAt}
	})
	t.Filters["user_id"] = EqualsInt("user_id")
	t.Filters["is_public"] = EqualsBool("is_public")
	t.Sortable = []string{"name", "created_at"}
	return t
}()

var listItemTable = func() *Table[models.ListItem] {
	t := newTable("list_items", models.ListItemSchema, func(i *models.ListItem) []any {
		return []any{&i.ID, &i.ListID, &i.ListingID, &i.Note, &i.CreatedAt, &i.UpdatedAt}
	})
	t.Filters["list_id"] = EqualsInt("list_id")
	t.Filters["listing_id"] = EqualsInt("listing_id")
	return t
}()
