package meshmapper

import (
	"strconv"

	"github.com/denvermesh/meshsync/internal/sources/letsmesh"
	"github.com/denvermesh/meshsync/pkg/nodes"
)

// Nodes converts raw repeaters into canonical nodes. The LetsMesh role index
// supplies the device type MeshMapper does not report: a repeater whose key
// LetsMesh knows as a room server is classified as one, everything else is a
// plain repeater. The observer flag is unknowable from this source and stays
// false.
func Nodes(repeaters []Repeater, roles letsmesh.RoleIndex) []nodes.Node {
	out := make([]nodes.Node, 0, len(repeaters))
	for _, raw := range repeaters {
		out = append(out, canonical(raw, roles))
	}
	return out
}

func canonical(raw Repeater, roles letsmesh.RoleIndex) nodes.Node {
	typ := nodes.TypeRepeater
	if roles.IsRoom(raw.HexID) {
		typ = nodes.TypeRoomServer
	}

	lat, lon := raw.Lat, raw.Lon
	return nodes.Node{
		PublicKey:  raw.HexID,
		Name:       raw.Name,
		Latitude:   &lat,
		Longitude:  &lon,
		Type:       typ,
		IsObserver: false,
		Contact:    nodes.BuildContactURL(raw.Name, raw.HexID),
		CreatedAt:  parseNumericTimestamp(raw.CreatedAt),
		LastHeard:  raw.LastHeard,
	}
}

// parseNumericTimestamp parses MeshMapper's created_at, a Unix timestamp
// serialized as a decimal string. Anything not purely numeric normalizes
// to 0.
func parseNumericTimestamp(s string) int64 {
	if s == "" {
		return 0
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return v
}
