// Package geocode provides reverse-geocoding enrichment through the
// Nominatim API. Lookups are best-effort: any failure degrades to an empty
// result so enrichment can never abort a run.
package geocode

import (
	"context"
	"fmt"

	"github.com/denvermesh/meshsync/internal/transport"
	"github.com/denvermesh/meshsync/pkg/constants"
	"github.com/denvermesh/meshsync/pkg/logging"
)

// Provider identifies this service in logs.
const Provider = "nominatim"

// DefaultBaseURL is the public Nominatim reverse endpoint.
const DefaultBaseURL = "https://nominatim.openstreetmap.org/reverse"

// address holds the subset of the Nominatim address breakdown we care about.
type address struct {
	Neighbourhood string `json:"neighbourhood"`
	Suburb        string `json:"suburb"`
	Village       string `json:"village"`
	Town          string `json:"town"`
	City          string `json:"city"`
	Municipality  string `json:"municipality"`
}

// placeName returns the most specific non-empty component.
func (a address) placeName() string {
	for _, candidate := range []string{a.Neighbourhood, a.Suburb, a.Village, a.Town, a.City, a.Municipality} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

type response struct {
	Address address `json:"address"`
}

// Client performs reverse geocoding lookups.
type Client struct {
	baseURL string
	http    *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the reverse-geocoding endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// NewClient creates a Nominatim client. Nominatim's usage policy requires an
// identifying user agent.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		http: transport.New(
			transport.WithTimeout(constants.GeocodeTimeout),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlaceName resolves coordinates to the most specific known locality name,
// preferring neighbourhood over suburb over village, town, city, and
// municipality. It returns an empty string when the position is unknown or
// the lookup fails; errors are logged, never propagated.
func (c *Client) PlaceName(ctx context.Context, lat, lon *float64) string {
	if lat == nil || lon == nil {
		return ""
	}

	url := fmt.Sprintf("%s?format=json&lat=%v&lon=%v&zoom=18", c.baseURL, *lat, *lon)

	var resp response
	if err := c.http.GetJSON(ctx, Provider, url, &resp); err != nil {
		logging.FromContext(ctx).Warn().
			Err(err).
			Float64("lat", *lat).
			Float64("lon", *lon).
			Msg("Reverse geocoding failed")
		return ""
	}
	return resp.Address.placeName()
}
