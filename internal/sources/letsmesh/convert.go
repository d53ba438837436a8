package letsmesh

import (
	"strings"
	"time"

	"github.com/denvermesh/meshsync/pkg/nodes"
)

// timestampLayout matches the API's usual ISO-8601 format with millisecond
// precision and a literal Z suffix, e.g. 2026-02-18T01:19:00.379Z.
const timestampLayout = "2006-01-02T15:04:05.000Z"

// parseTimestamp converts an API timestamp to Unix seconds. The strict
// layout covers the common case; RFC 3339 with any fractional-second width
// is accepted as a fallback. Malformed or empty values normalize to 0
// rather than failing the run; timestamps are volatile metadata, not
// identity.
func parseTimestamp(s string) int64 {
	if s == "" {
		return 0
	}
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		if t, err = time.Parse(time.RFC3339Nano, s); err != nil {
			return 0
		}
	}
	return t.Unix()
}

// Companions converts the raw records into canonical nodes, keeping only
// companion devices. A node counts as an observer when it is not actively
// connected over MQTT.
func Companions(list []Node) []nodes.Node {
	out := make([]nodes.Node, 0, len(list))
	for _, raw := range list {
		if raw.DeviceRole != RoleCompanion {
			continue
		}
		out = append(out, canonical(raw))
	}
	return out
}

// canonical maps one raw record onto the canonical model.
func canonical(raw Node) nodes.Node {
	node := nodes.Node{
		PublicKey:  raw.PublicKey,
		Name:       raw.Name,
		Type:       raw.DeviceRole.NodeType(),
		IsObserver: !raw.IsMQTTConnected,
		Contact:    nodes.BuildContactURL(raw.Name, raw.PublicKey),
		CreatedAt:  parseTimestamp(raw.FirstSeen),
		LastHeard:  parseTimestamp(raw.LastSeen),
	}
	if raw.Location != nil {
		lat, lon := raw.Location.Latitude, raw.Location.Longitude
		node.Latitude = &lat
		node.Longitude = &lon
	}
	return node
}

// RoleIndex maps upper-cased public keys to their reported device role. It
// is the cross-source lookup MeshMapper normalization needs to tell room
// servers apart from plain repeaters.
type RoleIndex map[string]Role

// NewRoleIndex builds a role index from raw records.
func NewRoleIndex(list []Node) RoleIndex {
	index := make(RoleIndex, len(list))
	for _, raw := range list {
		index[strings.ToUpper(raw.PublicKey)] = raw.DeviceRole
	}
	return index
}

// IsRoom reports whether the key is known to LetsMesh as a room server. Keys
// are compared case-insensitively; unknown keys are not rooms.
func (ri RoleIndex) IsRoom(publicKey string) bool {
	role, ok := ri[strings.ToUpper(publicKey)]
	return ok && role == RoleRoom
}
