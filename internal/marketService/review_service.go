package market

import (
	"context"
	"fmt"
	"strconv"

	"auction-marketplace/internal/events"
	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
)

// ReviewService manages listing reviews and the review counters on listings
type ReviewService struct {
	*CRUDService[models.Review]
	store     *repository.Store
	publisher events.Publisher
}

func NewReviewService(store *repository.Store, publisher events.Publisher) *ReviewService {
	return &ReviewService{
		CRUDService: NewCRUDService(store.Reviews, models.NewReview, Policy[models.Review]{
			OwnerColumn: "author_id",
			Owner:       func(r *models.Review) int64 { return r.AuthorID },
		}),
		store:     store,
		publisher: publisher,
	}
}

// Create stores a review written by the caller. An author reviews a listing at most once.
func (s *ReviewService) Create(ctx context.Context, actor Actor, fields map[string]any) (*models.Review, error) {
	fields, err := s.ownedFields(actor, fields, "create")
	if err != nil {
		return nil, err
	}

	review, err := models.NewReview(fields)
	if err != nil {
		return nil, fmt.Errorf("service: invalid review: %w", err)
	}

	listing, err := s.store.Listings.GetByID(ctx, review.ListingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to load listing %d: %w", review.ListingID, err)
	}
	if listing.SellerID == review.AuthorID {
		return nil, fmt.Errorf("service: %w - sellers cannot review their own listing", marketerrors.ErrInvalidInput)
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("service: failed to create review on listing %d: %w", review.ListingID, err)
	}

	events.Emit(ctx, s.publisher, events.Event{
		Type:    events.ReviewCreated,
		Key:     strconv.FormatInt(review.ListingID, 10),
		ActorID: actor.UserID,
		Payload: review.ToMap(),
	})
	return review, nil
}

// Update changes a review written by the caller. A review keeps its listing and its author.
func (s *ReviewService) Update(ctx context.Context, actor Actor, id int64, fields map[string]any) (*models.Review, error) {
	if id <= 0 {
		return nil, invalidID("review", id)
	}
	if err := s.authorize(ctx, actor, id, "update"); err != nil {
		return nil, err
	}

	current, err := s.store.Reviews.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get review %d: %w", id, err)
	}
	fixed := []struct {
		column string
		value  int64
	}{
		{"listing_id", current.ListingID},
		{"author_id", current.AuthorID},
	}
	for _, f := range fixed {
		raw, ok := fields[f.column]
		if !ok {
			continue
		}
		if v, isID := idValue(raw); !isID || v != f.value {
			return nil, fmt.Errorf("service: %w - review %d cannot change its %s", marketerrors.ErrInvalidInput, id, f.column)
		}
	}

	return s.CRUDService.Update(ctx, actor, id, fields)
}

// Delete removes a review written by the caller
func (s *ReviewService) Delete(ctx context.Context, actor Actor, id int64) error {
	if id <= 0 {
		return invalidID("review", id)
	}
	if err := s.authorize(ctx, actor, id, "delete"); err != nil {
		return err
	}

	n, err := s.store.DeleteReview(ctx, id)
	if err != nil {
		return fmt.Errorf("service: failed to delete review %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("service: delete review %d: %w", id, marketerrors.ErrNotFound)
	}
	return nil
}
