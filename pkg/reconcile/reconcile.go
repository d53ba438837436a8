// Package reconcile classifies two canonical node collections into new,
// unchanged, and missing sets by content fingerprint.
//
// Identity here is deliberately the fingerprint, not the public key: an
// observation of a known device with a changed name, location, or type shows
// up as one missing entry plus one new entry rather than an in-place update.
// Consumers that want "did anything meaningful change" ask the changeset,
// not individual fields.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/denvermesh/meshsync/pkg/nodes"
)

// Changeset holds the three-way classification of a reconciliation run.
// The three sets partition existing ∪ observed by fingerprint. Slice order
// is not part of the contract; callers must treat the sets as unordered.
type Changeset struct {
	// New are fingerprints observed now but absent from the existing snapshot.
	New []nodes.Node

	// Unchanged are fingerprints present in both collections.
	Unchanged []nodes.Node

	// Missing are fingerprints in the existing snapshot that were not observed.
	Missing []nodes.Node
}

// Nodes reconciles an existing snapshot against a newly observed collection.
//
// All nodes from both collections are placed into a single map keyed by
// fingerprint, last write wins. A true collision, where two distinct devices
// agree on every fingerprinted attribute, silently keeps the most recently
// inserted node: such devices are indistinguishable to every consumer of the
// snapshot, so a count-preserving multiset would buy nothing.
func Nodes(existing, observed []nodes.Node) *Changeset {
	combined := make(map[nodes.Fingerprint]nodes.Node, len(existing)+len(observed))

	existingSet := make(map[nodes.Fingerprint]struct{}, len(existing))
	for _, node := range existing {
		fp := node.Fingerprint()
		existingSet[fp] = struct{}{}
		combined[fp] = node
	}

	observedSet := make(map[nodes.Fingerprint]struct{}, len(observed))
	for _, node := range observed {
		fp := node.Fingerprint()
		observedSet[fp] = struct{}{}
		combined[fp] = node
	}

	changeset := &Changeset{
		New:       []nodes.Node{},
		Unchanged: []nodes.Node{},
		Missing:   []nodes.Node{},
	}

	for fp := range observedSet {
		if _, ok := existingSet[fp]; ok {
			changeset.Unchanged = append(changeset.Unchanged, combined[fp])
		} else {
			changeset.New = append(changeset.New, combined[fp])
		}
	}

	for fp := range existingSet {
		if _, ok := observedSet[fp]; !ok {
			changeset.Missing = append(changeset.Missing, combined[fp])
		}
	}

	// Sort for stable logs and diffable output
	sortNodes(changeset.New)
	sortNodes(changeset.Unchanged)
	sortNodes(changeset.Missing)

	return changeset
}

// HasChanges reports whether the snapshot needs a rewrite: any appearance or
// disappearance counts, unchanged-only runs do not.
func (c *Changeset) HasChanges() bool {
	return len(c.New) > 0 || len(c.Missing) > 0
}

// Summary returns a one-line human-readable view of the changeset.
func (c *Changeset) Summary() string {
	return fmt.Sprintf("%d new, %d unchanged, %d missing", len(c.New), len(c.Unchanged), len(c.Missing))
}

func sortNodes(list []nodes.Node) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].PublicKey < list[j].PublicKey
	})
}
