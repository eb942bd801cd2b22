// README: Google Maps helpers for verifying itinerary places and routing a day's activities.
package maps

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"googlemaps.github.io/maps"
)

var ErrNoMatch = errors.New("no matching place found")

// Place represents a simplified location result.
type Place struct {
	Name             string  `json:"name"`
	Address          string  `json:"address"`
	Rating           float32 `json:"rating"`
	UserRatingsTotal int     `json:"user_ratings_total"`
	PlaceID          string  `json:"place_id"`
	MapsURL          string  `json:"maps_url"`
	PriceSearchURL   string  `json:"price_search_url"`
}

// PlacesService handles interactions with Google Places API.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string, opts ...maps.ClientOption) (*PlacesService, error) {
	client, err := newClient(apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &PlacesService{client: client}, nil
}

func newClient(apiKey string, opts []maps.ClientOption) (*maps.Client, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return client, nil
}

// Lookup resolves an activity's place name within the trip destination and
// returns the best text-search match.
func (s *PlacesService) Lookup(ctx context.Context, placeName, destination string) (*Place, error) {
	query := strings.TrimSpace(placeName)
	if query == "" {
		return nil, ErrNoMatch
	}
	if d := strings.TrimSpace(destination); d != "" {
		query = fmt.Sprintf("%s, %s", query, d)
	}

	resp, err := s.client.TextSearch(ctx, &maps.TextSearchRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}
	if len(resp.Results) == 0 {
		return nil, ErrNoMatch
	}

	r := resp.Results[0]
	return &Place{
		Name:             r.Name,
		Address:          r.FormattedAddress,
		Rating:           r.Rating,
		UserRatingsTotal: r.UserRatingsTotal,
		PlaceID:          r.PlaceID,
		MapsURL:          MapsURL(r.Name+", "+r.FormattedAddress, r.PlaceID),
		PriceSearchURL:   PriceSearchURL(placeName),
	}, nil
}

// MapsURL builds a Google Maps search link. placeID may be empty.
func MapsURL(query, placeID string) string {
	v := url.Values{}
	v.Set("api", "1")
	v.Set("query", query)
	if placeID != "" {
		v.Set("query_place_id", placeID)
	}
	return "https://www.google.com/maps/search/?" + v.Encode()
}

// PriceSearchURL builds a web search link for a place's ticket price.
func PriceSearchURL(placeName string) string {
	v := url.Values{}
	v.Set("q", strings.TrimSpace(placeName)+" ticket price")
	return "https://www.google.com/search?" + v.Encode()
}
