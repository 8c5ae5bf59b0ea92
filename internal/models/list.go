package models

import "time"

// List is a named collection of listings curated by a user
type List struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var ListSchema = Schema{
	Entity: "list",
	Fields: []Field{
		{Name: "user_id", Kind: Int, Required: true},
		{Name: "name", Kind: String, Required: true},
		{Name: "description", Kind: String},
		{Name: "is_public", Kind: Bool, Default: false},
	},
}

func NewList(fields map[string]any) (*List, error) {
	return construct[List](ListSchema, fields)
}

func (l List) ToMap() map[string]any { return toMap(l) }

// ListItem references a listing saved in a list
type ListItem struct {
	ID        int64     `json:"id"`
	ListID    int64     `json:"list_id"`
	ListingID int64     `json:"listing_id"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var ListItemSchema = Schema{
	Entity: "list_item",
	Fields: []Field{
		{Name: "list_id", Kind: Int, Required: true},
		{Name: "listing_id", Kind: Int, Required: true},
		{Name: "note", Kind: String},
	},
}

func NewListItem(fields map[string]any) (*ListItem, error) {
	return construct[ListItem](ListItemSchema, fields)
}

func (i ListItem) ToMap() map[string]any { return toMap(i) }
