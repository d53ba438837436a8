// Package letsmesh fetches region node records from the LetsMesh API and
// normalizes them into canonical nodes. LetsMesh is the only source that
// carries an explicit device role, so it also feeds the role index used to
// classify MeshMapper repeaters.
package letsmesh

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/denvermesh/meshsync/internal/transport"
	"github.com/denvermesh/meshsync/pkg/constants"
	"github.com/denvermesh/meshsync/pkg/errors"
	"github.com/denvermesh/meshsync/pkg/nodes"
)

// Provider identifies this source in logs and errors.
const Provider = "letsmesh"

// DefaultBaseURL is the LetsMesh node listing endpoint.
const DefaultBaseURL = "https://api.letsmesh.net/api/nodes"

// DefaultRegion scopes the node listing to the Denver mesh.
const DefaultRegion = "DEN"

// Role is the device role as reported by the LetsMesh API. The set is
// closed; unknown values are rejected at decode time.
type Role int

// Device roles on the wire.
const (
	RoleCompanion Role = 1
	RoleRepeater  Role = 2
	RoleRoom      Role = 3
)

// RoleFromInt converts a raw integer into a Role. An unrecognized role is an
// input-validation error: guessing a device type would poison every
// downstream comparison.
func RoleFromInt(v int) (Role, error) {
	switch r := Role(v); r {
	case RoleCompanion, RoleRepeater, RoleRoom:
		return r, nil
	default:
		return 0, errors.NewValidationError("device_role", v, "unknown device role")
	}
}

// UnmarshalJSON validates the closed role set on decode.
func (r *Role) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := RoleFromInt(v)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// NodeType maps the wire role onto the canonical device type.
func (r Role) NodeType() nodes.Type {
	switch r {
	case RoleCompanion:
		return nodes.TypeCompanion
	case RoleRepeater:
		return nodes.TypeRepeater
	case RoleRoom:
		return nodes.TypeRoomServer
	default:
		// Unreachable for a Role built through RoleFromInt.
		return 0
	}
}

// Location is the optional position attached to a node record.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Node is a raw node record as returned by the LetsMesh API.
type Node struct {
	PublicKey       string    `json:"public_key"`
	Name            string    `json:"name"`
	DeviceRole      Role      `json:"device_role"`
	Regions         []string  `json:"regions"`
	FirstSeen       string    `json:"first_seen"`
	LastSeen        string    `json:"last_seen"`
	IsMQTTConnected bool      `json:"is_mqtt_connected"`
	Location        *Location `json:"location"`
}

// Validate checks that the record carries the fields normalization depends on.
func (n Node) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.PublicKey, validation.Required),
		validation.Field(&n.DeviceRole, validation.Required, validation.In(RoleCompanion, RoleRepeater, RoleRoom)),
	)
}

// response is the envelope the node listing endpoint wraps its payload in.
type response struct {
	Nodes []Node `json:"nodes"`
}

// Client fetches node records from the LetsMesh API.
type Client struct {
	baseURL string
	region  string
	http    *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the node listing endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithRegion overrides the region filter.
func WithRegion(region string) Option {
	return func(c *Client) {
		if region != "" {
			c.region = region
		}
	}
}

// WithTransport replaces the HTTP client, primarily for tests.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		c.http = t
	}
}

// NewClient creates a LetsMesh client. The API refuses bare library clients,
// so the transport sends browser-style headers.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		region:  DefaultRegion,
		http: transport.New(
			transport.WithHeader("User-Agent", constants.BrowserUserAgent),
			transport.WithHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"),
			transport.WithHeader("Accept-Language", "en-US,en;q=0.9"),
		),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the fully-qualified node listing URL for the configured region.
func (c *Client) URL() string {
	return fmt.Sprintf("%s?region=%s", c.baseURL, url.QueryEscape(c.region))
}

// Nodes fetches and validates all node records for the region.
func (c *Client) Nodes(ctx context.Context) ([]Node, error) {
	var resp response
	if err := c.http.GetJSON(ctx, Provider, c.URL(), &resp); err != nil {
		return nil, err
	}

	for _, n := range resp.Nodes {
		if err := n.Validate(); err != nil {
			return nil, errors.WrapValidation("node", err)
		}
	}
	return resp.Nodes, nil
}
