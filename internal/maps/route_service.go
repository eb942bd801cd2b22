package maps

import (
	"context"
	"fmt"
	"strings"
	"time"

	"googlemaps.github.io/maps"
)

// Leg is the travel estimate between two consecutive activities.
type Leg struct {
	From     string        `json:"from"`
	To       string        `json:"to"`
	Duration time.Duration `json:"-"`
	Minutes  int           `json:"minutes"`
	Distance string        `json:"distance"`
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string, opts ...maps.ClientOption) (*RouteService, error) {
	client, err := newClient(apiKey, opts)
	if err != nil {
		return nil, err
	}
	return &RouteService{client: client}, nil
}

// ParseMode maps a query value to a travel mode; empty means driving.
func ParseMode(s string) (maps.Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "driving":
		return maps.TravelModeDriving, nil
	case "walking":
		return maps.TravelModeWalking, nil
	case "transit":
		return maps.TravelModeTransit, nil
	case "bicycling":
		return maps.TravelModeBicycling, nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// DayRoute returns one leg per pair of consecutive places. Most modes are
// resolved with a single Directions request using the inner places as
// waypoints. Transit does not accept waypoints, so it is requested pair by pair.
func (s *RouteService) DayRoute(ctx context.Context, destination string, places []string, mode maps.Mode) ([]Leg, error) {
	if len(places) < 2 {
		return []Leg{}, nil
	}

	stops := make([]string, len(places))
	for i, p := range places {
		stops[i] = p
		if destination != "" {
			stops[i] = p + ", " + destination
		}
	}

	var apiLegs []*maps.Leg
	if mode == maps.TravelModeTransit {
		for i := 0; i+1 < len(stops); i++ {
			legs, err := s.directions(ctx, &maps.DirectionsRequest{
				Origin:      stops[i],
				Destination: stops[i+1],
				Mode:        mode,
			}, 1)
			if err != nil {
				return nil, err
			}
			apiLegs = append(apiLegs, legs...)
		}
	} else {
		legs, err := s.directions(ctx, &maps.DirectionsRequest{
			Origin:      stops[0],
			Destination: stops[len(stops)-1],
			Waypoints:   stops[1 : len(stops)-1],
			Mode:        mode,
		}, len(places)-1)
		if err != nil {
			return nil, err
		}
		apiLegs = legs
	}

	out := make([]Leg, 0, len(apiLegs))
	for i, l := range apiLegs {
		out = append(out, Leg{
			From:     places[i],
			To:       places[i+1],
			Duration: l.Duration,
			Minutes:  int(l.Duration.Round(time.Minute) / time.Minute),
			Distance: l.Distance.HumanReadable,
		})
	}
	return out, nil
}

// directions runs r and checks that the first route has wantLegs legs.
func (s *RouteService) directions(ctx context.Context, r *maps.DirectionsRequest, wantLegs int) ([]*maps.Leg, error) {
	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}
	if len(routes) == 0 || len(routes[0].Legs) != wantLegs {
		return nil, fmt.Errorf("no route found")
	}
	return routes[0].Legs, nil
}
