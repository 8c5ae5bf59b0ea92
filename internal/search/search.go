package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"auction-marketplace/internal/config"
	"auction-marketplace/internal/models"
	"auction-marketplace/utils"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esapi"
)

// ListingIndex keeps a full-text index of listings
type ListingIndex interface {
	IndexListing(ctx context.Context, l models.Listing) error
	DeleteListing(ctx context.Context, id int64) error
	SearchListings(ctx context.Context, query string, from, size int) (total int64, ids []int64, err error)
}

// ESIndex is a ListingIndex backed by Elasticsearch
type ESIndex struct {
	es    *elasticsearch.Client
	index string
}

// NewClient creates an Elasticsearch client from the search settings
func NewClient(cfg config.SearchConfig) (*elasticsearch.Client, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("search: create client: %w", err)
	}
	return client, nil
}

// NewESIndex wraps a client for the given index name
func NewESIndex(es *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{es: es, index: index}
}

// listingDocument holds only the fields a seller edits. Prices, counters and status are read from
// the database.
type listingDocument struct {
	ID          int64   `json:"id"`
	SellerID    int64   `json:"seller_id"`
	CategoryID  *int64  `json:"category_id,omitempty"`
	Title       string  `json:"title"`
	ShortTitle  *string `json:"short_title,omitempty"`
	Description *string `json:"description,omitempty"`
	Specifics   *string `json:"specifics,omitempty"`
	ListingType string  `json:"listing_type"`
}

func document(l models.Listing) listingDocument {
	return listingDocument{
		ID:          l.ID,
		SellerID:    l.SellerID,
		CategoryID:  l.CategoryID,
		Title:       l.Title,
		ShortTitle:  l.ShortTitle,
		Description: l.Description,
		Specifics:   l.Specifics,
		ListingType: l.ListingType,
	}
}

// IndexListing adds or replaces the listing document
func (x *ESIndex) IndexListing(ctx context.Context, l models.Listing) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(document(l)); err != nil {
		return fmt.Errorf("search: encode listing %d: %w", l.ID, err)
	}

	res, err := x.es.Index(
		x.index,
		&buf,
		x.es.Index.WithContext(ctx),
		x.es.Index.WithDocumentID(strconv.FormatInt(l.ID, 10)),
	)
	if err != nil {
		return fmt.Errorf("search: index listing %d: %w", l.ID, err)
	}
	defer res.Body.Close()
	return responseError("index listing", res)
}

// DeleteListing removes the listing document. A missing document is not an error.
func (x *ESIndex) DeleteListing(ctx context.Context, id int64) error {
	res, err := x.es.Delete(
		x.index,
		strconv.FormatInt(id, 10),
		x.es.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("search: delete listing %d: %w", id, err)
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return responseError("delete listing", res)
}

// SearchListings runs a fuzzy match over the text fields and returns the matching listing ids
// in relevance order
func (x *ESIndex) SearchListings(ctx context.Context, query string, from, size int) (int64, []int64, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"title^2", "short_title", "description", "specifics"},
				"fuzziness": "AUTO",
			},
		},
		"_source": []string{"id"},
		"from":    from,
		"size":    size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("search: encode query: %w", err)
	}

	res, err := x.es.Search(
		x.es.Search.WithContext(ctx),
		x.es.Search.WithIndex(x.index),
		x.es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("search: query listings: %w", err)
	}
	defer res.Body.Close()
	if err := responseError("search listings", res); err != nil {
		return 0, nil, err
	}

	var r struct {
		Hits struct {
			Total struct{ Value int64 } `json:"total"`
			Hits  []struct {
				Source struct {
					ID int64 `json:"id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, fmt.Errorf("search: decode response: %w", err)
	}

	ids := make([]int64, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		ids = append(ids, hit.Source.ID)
	}
	return r.Hits.Total.Value, ids, nil
}

func responseError(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
	utils.Warn("elasticsearch error response", map[string]any{"op": op, "status": res.StatusCode, "body": string(body)})
	return fmt.Errorf("search: %s: %s", op, res.Status())
}
