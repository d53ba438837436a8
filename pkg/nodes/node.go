// Package nodes defines the canonical, source-independent representation of
// a MeshCore device. Records from every provider are normalized into a Node
// before any comparison happens; identity and change detection are defined
// here and nowhere else.
package nodes

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	"github.com/denvermesh/meshsync/pkg/errors"
)

// Type identifies the kind of device a node is. The set is closed: no other
// value is representable in a valid Node.
type Type int

// Device types.
const (
	TypeRepeater   Type = 1
	TypeRoomServer Type = 2
	TypeCompanion  Type = 3
)

// Types returns all valid device types.
func Types() []Type {
	return []Type{TypeRepeater, TypeRoomServer, TypeCompanion}
}

// IsValid returns true if the type is one of the defined constants.
func (t Type) IsValid() bool {
	return slices.Contains(Types(), t)
}

// String returns a human-readable name for the type.
func (t Type) String() string {
	switch t {
	case TypeRepeater:
		return "repeater"
	case TypeRoomServer:
		return "room_server"
	case TypeCompanion:
		return "companion"
	default:
		return "unknown"
	}
}

// TypeFromInt converts a raw integer into a device type. Unknown values are
// an input-validation error, never guessed at.
func TypeFromInt(v int) (Type, error) {
	t := Type(v)
	if !t.IsValid() {
		return 0, errors.NewValidationError("node_type", v, "unknown device type")
	}
	return t, nil
}

// UnmarshalJSON validates the closed set on decode, so a snapshot carrying an
// unknown type integer is rejected rather than loaded.
func (t *Type) UnmarshalJSON(data []byte) error {
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	parsed, err := TypeFromInt(v)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Fingerprint is a deterministic digest over the identity-relevant fields of
// a node, used for change detection. Volatile fields (contact, created_at,
// last_heard) are excluded: they move on every observation without
// constituting a meaningful state change.
type Fingerprint string

// Node is the canonical record for a single device.
//
// The JSON field set and order match the persisted snapshot format exactly.
type Node struct {
	PublicKey  string   `json:"public_key"`
	Name       string   `json:"name"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Type       Type     `json:"node_type"`
	IsObserver bool     `json:"is_observer"`
	Contact    string   `json:"contact"`
	CreatedAt  int64    `json:"created_at"`
	LastHeard  int64    `json:"last_heard"`
}

// ShortID returns the first two bytes (4-character hex string) of the public
// key, upper-cased. Used for display and for cross-referencing between
// sources.
func (n Node) ShortID() string {
	return shortID(n.PublicKey, 4)
}

// ShortID2 returns the first byte (2-character hex string) of the public key,
// upper-cased.
func (n Node) ShortID2() string {
	return shortID(n.PublicKey, 2)
}

func shortID(publicKey string, chars int) string {
	if len(publicKey) < chars {
		chars = len(publicKey)
	}
	return strings.ToUpper(publicKey[:chars])
}

// Same reports whether two nodes represent the same device. Identity is the
// public key alone, compared case-insensitively.
func (n Node) Same(other Node) bool {
	return strings.EqualFold(n.PublicKey, other.PublicKey)
}

// Fingerprint derives the content fingerprint for this node. Two nodes with
// equal fingerprints are indistinguishable to reconciliation.
func (n Node) Fingerprint() Fingerprint {
	payload := strings.Join([]string{
		n.Name,
		n.ShortID(),
		strconv.Itoa(int(n.Type)),
		formatCoordinate(n.Latitude),
		formatCoordinate(n.Longitude),
		strconv.FormatBool(n.IsObserver),
	}, ":")
	sum := sha256.Sum256([]byte(payload))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

func formatCoordinate(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// IsReservedShortID reports whether a short identifier (2 or 4 hex
// characters) falls in a reserved block and therefore does not belong to a
// usable device. The 00 and FF byte prefixes are reserved by the upstream
// networks; the A block is held back by DenverMesh for future use.
//
// Reconciliation does not filter on this; it is exposed for callers that
// allocate or audit identifiers.
func IsReservedShortID(id string) bool {
	upper := strings.ToUpper(id)

	if len(upper) >= 2 {
		switch upper[:2] {
		case "00", "FF":
			return true
		}
	}

	return strings.HasPrefix(upper, "A")
}
