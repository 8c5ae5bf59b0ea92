package models

import (
	"encoding/json"
	"time"
)

// User represents an account holder. Staff users are users with a staff or admin role.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        *string   `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

var UserSchema = Schema{
	Entity: "user",
	Fields: []Field{
		{Name: "username", Kind: String, Required: true},
		{Name: "email", Kind: String},
		{Name: "password_hash", Kind: String, Required: true},
		{Name: "role", Kind: String, Enum: Roles, Default: RoleUser},
		{Name: "is_active", Kind: Bool, Default: true},
	},
}

// NewUser builds a User from keyword fields
func NewUser(fields map[string]any) (*User, error) {
	return construct[User](UserSchema, fields)
}

// ToMap returns every field of the user, including the password hash
func (u User) ToMap() map[string]any { return toMap(u) }

// IsStaff reports whether the user holds a staff or admin role
func (u User) IsStaff() bool { return IsStaffRole(u.Role) }

// MarshalJSON omits the password hash from API payloads
func (u User) MarshalJSON() ([]byte, error) {
	type alias User
	return json.Marshal(struct {
		alias
		PasswordHash string `json:"password_hash,omitempty"`
	}{alias: alias(u)})
}

// Session is an authenticated login identified by an opaque token
type Session struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var SessionSchema = Schema{
	Entity: "session",
	Fields: []Field{
		{Name: "user_id", Kind: Int, Required: true},
		{Name: "role", Kind: String, Required: true, Enum: Roles},
		{Name: "token", Kind: String, Required: true},
		{Name: "expires_at", Kind: Time, Required: true},
	},
}

func NewSession(fields map[string]any) (*Session, error) {
	return construct[Session](SessionSchema, fields)
}

func (s Session) ToMap() map[string]any { return toMap(s) }

// Expired reports whether the session is no longer valid at now
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Profile holds the personal details of exactly one user
type Profile struct {
	ID           int64      `json:"id"`
	UserID       int64      `json:"user_id"`
	FirstName    *string    `json:"first_name"`
	LastName     *string    `json:"last_name"`
	BirthDate    *time.Time `json:"birth_date"`
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email"`
	AddressLine1 *string    `json:"address_line1"`
	AddressLine2 *string    `json:"address_line2"`
	City         *string    `json:"city"`
	Postcode     *string    `json:"postcode"`
	Country      *string    `json:"country"`
	Bio          *string    `json:"bio"`
	WebsiteURL   *string    `json:"website_url"`
	TwitterURL   *string    `json:"twitter_url"`
	InstagramURL *string    `json:"instagram_url"`
	FacebookURL  *string    `json:"facebook_url"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

var ProfileSchema = Schema{
	Entity: "profile",
	Fields: []Field{
		{Name: "user_id", Kind: Int, Required: true},
		{Name: "first_name", Kind: String},
		{Name: "last_name", Kind: String},
		{Name: "birth_date", Kind: Time},
		{Name: "phone", Kind: String},
		{Name: "email", Kind: String},
		{Name: "address_line1", Kind: String},
		{Name: "address_line2", Kind: String},
		{Name: "city", Kind: String},
		{Name: "postcode", Kind: String},
		{Name: "country", Kind: String},
		{Name: "bio", Kind: String},
		{Name: "website_url", Kind: String},
		{Name: "twitter_url", Kind: String},
		{Name: "instagram_url", Kind: String},
		{Name: "facebook_url", Kind: String},
	},
}

func NewProfile(fields map[string]any) (*Profile, error) {
	return construct[Profile](ProfileSchema, fields)
}

func (p Profile) ToMap() map[string]any { return toMap(p) }
