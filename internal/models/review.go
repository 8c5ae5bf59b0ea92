package models

import "time"

// Review is a star rating left by a user on a listing
type Review struct {
	ID          int64     `json:"id"`
	ListingID   int64     `json:"listing_id"`
	AuthorID    int64     `json:"author_id"`
	Rating      int64     `json:"rating"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

var ReviewSchema = Schema{
	Entity: "review",
	Fields: []Field{
		{Name: "listing_id", Kind: Int, Required: true},
		{Name: "author_id", Kind: Int, Required: true},
		{Name: "rating", Kind: Int, Required: true, Bounded: true, Min: 1, Max: 5},
		{Name: "title", Kind: String},
		{Name: "description", Kind: String},
	},
}

func NewReview(fields map[string]any) (*Review, error) {
	return construct[Review](ReviewSchema, fields)
}

func (r Review) ToMap() map[string]any { return toMap(r) }
