// Package meshmapper fetches the MeshMapper repeater directory and
// normalizes it into canonical nodes. MeshMapper records carry no device
// type of their own; normalization cross-references the LetsMesh role index
// to tell room servers apart from plain repeaters.
package meshmapper

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/denvermesh/meshsync/internal/transport"
	"github.com/denvermesh/meshsync/pkg/errors"
)

// Provider identifies this source in logs and errors.
const Provider = "meshmapper"

// DefaultURL is the Denver repeater directory endpoint.
const DefaultURL = "https://den.meshmapper.net/repeaters.json"

// Repeater is a raw repeater record as returned by the MeshMapper API.
type Repeater struct {
	ID        string  `json:"id"`
	HexID     string  `json:"hex_id"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	LastHeard int64   `json:"last_heard"`
	CreatedAt string  `json:"created_at"` // Unix timestamp as string
	Enabled   int     `json:"enabled"`
	Power     string  `json:"power"`
	IATA      string  `json:"iata"`
	CanReach  *string `json:"can_reach"` // present in the planning feed only
}

// Validate checks that the record carries the fields normalization depends on.
func (r Repeater) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.HexID, validation.Required),
		validation.Field(&r.Name, validation.Required),
	)
}

// Client fetches repeater records from the MeshMapper API.
type Client struct {
	url  string
	http *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the repeater directory endpoint.
func WithURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.url = u
		}
	}
}

// WithTransport replaces the HTTP client, primarily for tests.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.http = t
	}
}

// NewClient creates a MeshMapper client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:  DefaultURL,
		http: transport.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the configured repeater directory endpoint.
func (c *Client) URL() string {
	return c.url
}

// Repeaters fetches and validates the full repeater directory.
func (c *Client) Repeaters(ctx context.Context) ([]Repeater, error) {
	var list []Repeater
	if err := c.http.GetJSON(ctx, Provider, c.url, &list); err != nil {
		return nil, err
	}

	for _, r := range list {
		if err := r.Validate(); err != nil {
			return nil, errors.WrapValidation("repeater", err)
		}
	}
	return list, nil
}
