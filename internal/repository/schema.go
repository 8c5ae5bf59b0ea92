package repository

import (
	"context"
	"fmt"
	"strings"
)

// schemaStatements create every table and index. Type tokens are expanded per dialect.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
    id {{pk}},
    username VARCHAR(150) NOT NULL UNIQUE,
    email VARCHAR(255),
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL DEFAULT 'user',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS sessions (
    id {{pk}},
    user_id BIGINT NOT NULL,
    role VARCHAR(20) NOT NULL,
    token VARCHAR(128) NOT NULL UNIQUE,
    expires_at {{ts}} NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS profiles (
    id {{pk}},
    user_id BIGINT NOT NULL UNIQUE,
    first_name VARCHAR(150),
    last_name VARCHAR(150),
    birth_date {{ts}},
    phone VARCHAR(50),
    email VARCHAR(255),
    address_line1 VARCHAR(255),
    address_line2 VARCHAR(255),
    city VARCHAR(150),
    postcode VARCHAR(20),
    country VARCHAR(100),
    bio TEXT,
    website_url VARCHAR(512),
    twitter_url VARCHAR(512),
    instagram_url VARCHAR(512),
    facebook_url VARCHAR(512),
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE RESTRICT
)`,
	`CREATE TABLE IF NOT EXISTS categories (
    id {{pk}},
    name VARCHAR(150) NOT NULL UNIQUE,
    description TEXT,
    image_url VARCHAR(512),
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL
)`,
	`CREATE TABLE IF NOT EXISTS listings (
    id {{pk}},
    seller_id BIGINT NOT NULL,
    category_id BIGINT,
    title VARCHAR(255) NOT NULL,
    short_title VARCHAR(80),
    description TEXT,
    specifics TEXT,
    listing_type VARCHAR(20) NOT NULL,
    status VARCHAR(20) NOT NULL,
    starting_price DOUBLE PRECISION,
    reserve_price DOUBLE PRECISION,
    current_price DOUBLE PRECISION,
    buy_now_price DOUBLE PRECISION,
    auction_start {{ts}},
    auction_end {{ts}},
    bid_count INTEGER NOT NULL DEFAULT 0,
    purchase_count INTEGER NOT NULL DEFAULT 0,
    review_count INTEGER NOT NULL DEFAULT 0,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (seller_id) REFERENCES users(id),
    FOREIGN KEY (category_id) REFERENCES categories(id) ON DELETE SET NULL
)`,
	`CREATE TABLE IF NOT EXISTS bids (
    id {{pk}},
    listing_id BIGINT NOT NULL,
    bidder_id BIGINT NOT NULL,
    amount DOUBLE PRECISION NOT NULL,
    bid_time {{ts}} NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE,
    FOREIGN KEY (bidder_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS orders (
    id {{pk}},
    buyer_id BIGINT NOT NULL,
    status VARCHAR(20) NOT NULL,
    total_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (buyer_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS order_items (
    id {{pk}},
    order_id BIGINT NOT NULL,
    listing_id BIGINT NOT NULL,
    quantity INTEGER NOT NULL,
    price DOUBLE PRECISION NOT NULL,
    total DOUBLE PRECISION NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE,
    FOREIGN KEY (listing_id) REFERENCES listings(id)
)`,
	`CREATE TABLE IF NOT EXISTS transactions (
    id {{pk}},
    user_id BIGINT NOT NULL,
    order_id BIGINT,
    listing_id BIGINT,
    buyer_id BIGINT,
    seller_id BIGINT,
    amount DOUBLE PRECISION NOT NULL,
    status VARCHAR(20) NOT NULL,
    payment_reference VARCHAR(255),
    shipping_address TEXT,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE SET NULL,
    FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE SET NULL
)`,
	`CREATE TABLE IF NOT EXISTS deliveries (
    id {{pk}},
    order_item_id BIGINT NOT NULL,
    address_line1 VARCHAR(255) NOT NULL,
    address_line2 VARCHAR(255),
    city VARCHAR(150) NOT NULL,
    postcode VARCHAR(20) NOT NULL,
    country VARCHAR(100) NOT NULL,
    delivery_status VARCHAR(30) NOT NULL,
    courier VARCHAR(100),
    tracking_number VARCHAR(100),
    tracking_url VARCHAR(512),
    estimated_delivery {{ts}},
    delivered_at {{ts}},
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (order_item_id) REFERENCES order_items(id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS reviews (
    id {{pk}},
    listing_id BIGINT NOT NULL,
    author_id BIGINT NOT NULL,
    rating INTEGER NOT NULL,
    title VARCHAR(255),
    description TEXT,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    UNIQUE (listing_id, author_id),
    FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE,
    FOREIGN KEY (author_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS chats (
    id {{pk}},
    user1_id BIGINT NOT NULL,
    user2_id BIGINT NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (user1_id) REFERENCES users(id),
    FOREIGN KEY (user2_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
    id {{pk}},
    chat_id BIGINT NOT NULL,
    sender_id BIGINT NOT NULL,
    content TEXT NOT NULL,
    sent_at {{ts}} NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (chat_id) REFERENCES chats(id) ON DELETE CASCADE,
    FOREIGN KEY (sender_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS support_tickets (
    id {{pk}},
    user_id BIGINT NOT NULL,
    subject VARCHAR(255) NOT NULL,
    description TEXT,
    status VARCHAR(20) NOT NULL,
    priority VARCHAR(20) NOT NULL,
    assigned_to BIGINT,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (assigned_to) REFERENCES users(id) ON DELETE SET NULL
)`,
	`CREATE TABLE IF NOT EXISTS ticket_messages (
    id {{pk}},
    ticket_id BIGINT NOT NULL,
    sender_id BIGINT NOT NULL,
    message TEXT NOT NULL,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (ticket_id) REFERENCES support_tickets(id) ON DELETE CASCADE,
    FOREIGN KEY (sender_id) REFERENCES users(id)
)`,
	`CREATE TABLE IF NOT EXISTS lists (
    id {{pk}},
    user_id BIGINT NOT NULL,
    name VARCHAR(150) NOT NULL,
    description TEXT,
    is_public BOOLEAN NOT NULL DEFAULT FALSE,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
)`,
	`CREATE TABLE IF NOT EXISTS list_items (
    id {{pk}},
    list_id BIGINT NOT NULL,
    listing_id BIGINT NOT NULL,
    note TEXT,
    created_at {{ts}} NOT NULL,
    updated_at {{ts}} NOT NULL,
    UNIQUE (list_id, listing_id),
    FOREIGN KEY (list_id) REFERENCES lists(id) ON DELETE CASCADE,
    FOREIGN KEY (listing_id) REFERENCES listings(id) ON DELETE CASCADE
)`,
}

// index name -> definition; created only when missing
var schemaIndexes = [][2]string{
	{"idx_listings_seller", "listings (seller_id)"},
	{"idx_listings_category", "listings (category_id)"},
	{"idx_listings_status", "listings (status, listing_type)"},
	{"idx_bids_listing", "bids (listing_id, amount)"},
	{"idx_bids_bidder", "bids (bidder_id)"},
	{"idx_orders_buyer", "orders (buyer_id)"},
	{"idx_order_items_order", "order_items (order_id)"},
	{"idx_transactions_user", "transactions (user_id)"},
	{"idx_deliveries_item", "deliveries (order_item_id)"},
	{"idx_chat_messages_chat", "chat_messages (chat_id, sent_at)"},
	{"idx_ticket_messages_ticket", "ticket_messages (ticket_id)"},
	{"idx_sessions_expires", "sessions (expires_at)"},
}

// Migrate creates any missing tables and indexes. It is safe to run on every start.
func Migrate(ctx context.Context, db DBTX, d Dialect) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, d.DDL(stmt)); err != nil {
			return fmt.Errorf("migrate: %s: %w", tableOf(stmt), err)
		}
	}

	for _, idx := range schemaIndexes {
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s", idx[0], idx[1])
		if d.Name == MySQL.Name {
			// MySQL has no IF NOT EXISTS for indexes; duplicates are ignored below
			stmt = fmt.Sprintf("CREATE INDEX %s ON %s", idx[0], idx[1])
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			if d.Name == MySQL.Name && strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("migrate: index %s: %w", idx[0], err)
		}
	}
	return nil
}

func tableOf(stmt string) string {
	fields := strings.Fields(stmt)
	if len(fields) >= 6 {
		return fields[5]
	}
	return "statement"
}
