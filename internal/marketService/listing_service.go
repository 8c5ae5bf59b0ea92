package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"auction-marketplace/internal/events"
	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/internal/models"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/search"
	"auction-marketplace/utils"
)

// ListingService manages listings, keeping the search index and event stream in step
type ListingService struct {
	*CRUDService[models.Listing]
	store     *repository.Store
	index     search.ListingIndex
	publisher events.Publisher
}

// NewListingService creates a ListingService. index and publisher may be nil.
func NewListingService(store *repository.Store, index search.ListingIndex, publisher events.Publisher) *ListingService {
	return &ListingService{
		CRUDService: NewCRUDService(store.Listings, models.NewListing, Policy[models.Listing]{
			OwnerColumn: "seller_id",
			Owner:       func(l *models.Listing) int64 { return l.SellerID },
		}),
		store:     store,
		index:     index,
		publisher: publisher,
	}
}

// Create stores a listing sold by the caller
func (s *ListingService) Create(ctx context.Context, actor Actor, fields map[string]any) (*models.Listing, error) {
	listing, err := s.CRUDService.Create(ctx, actor, fields)
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, listing)
	s.emit(ctx, events.ListingCreated, actor, listing.ID, listing.ToMap())
	return listing, nil
}

// Update changes a listing owned by the caller
func (s *ListingService) Update(ctx context.Context, actor Actor, id int64, fields map[string]any) (*models.Listing, error) {
	listing, err := s.CRUDService.Update(ctx, actor, id, fields)
	if err != nil {
		return nil, err
	}

	s.reindex(ctx, listing)
	s.emit(ctx, events.ListingUpdated, actor, listing.ID, listing.ToMap())
	return listing, nil
}

// Delete removes a listing owned by the caller together with its bids, reviews and list entries
func (s *ListingService) Delete(ctx context.Context, actor Actor, id int64) error {
	if err := s.CRUDService.Delete(ctx, actor, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteListing(ctx, id); err != nil {
			utils.Warn("failed to remove listing from search index", map[string]any{"listing_id": id, "error": err.Error()})
		}
	}
	s.emit(ctx, events.ListingDeleted, actor, id, map[string]any{"id": id})
	return nil
}

// Search finds listings matching free text. Results come from the search index when one is
// configured and from a substring match on title and description otherwise.
func (s *ListingService) Search(ctx context.Context, text string, q repository.Query) ([]models.Listing, int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, 0, fmt.Errorf("service: %w - empty search query", marketerrors.ErrInvalidInput)
	}

	if s.index != nil {
		listings, total, err := s.searchIndex(ctx, text, q)
		if err == nil {
			return listings, total, nil
		}
		utils.Warn("search index unavailable, falling back to database search", map[string]any{"query": text, "error": err.Error()})
	}

	q = q.With("q", text)
	listings, err := s.store.Listings.GetAll(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to search listings: %w", err)
	}
	total, err := s.store.Listings.Count(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("service: failed to count listings: %w", err)
	}
	return listings, total, nil
}

func (s *ListingService) searchIndex(ctx context.Context, text string, q repository.Query) ([]models.Listing, int64, error) {
	limit, offset := q.Page()
	total, ids, err := s.index.SearchListings(ctx, text, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	listings := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		listing, err := s.store.Listings.GetByID(ctx, id)
		if repository.IsNotFound(err) {
			// the index lags behind deletes
			continue
		}
		if err != nil {
			return nil, 0, err
		}
		listings = append(listings, *listing)
	}
	return listings, total, nil
}

func (s *ListingService) reindex(ctx context.Context, listing *models.Listing) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexListing(ctx, *listing); err != nil {
		utils.Warn("failed to index listing", map[string]any{"listing_id": listing.ID, "error": err.Error()})
	}
}

func (s *ListingService) emit(ctx context.Context, eventType string, actor Actor, id int64, payload map[string]any) {
	events.Emit(ctx, s.publisher, events.Event{
		Type:    eventType,
		Key:     strconv.FormatInt(id, 10),
		ActorID: actor.UserID,
		Payload: payload,
	})
}
