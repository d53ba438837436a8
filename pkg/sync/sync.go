// Package sync orchestrates a full inventory run: fetch both sources,
// normalize each into the canonical model, reconcile against the on-disk
// snapshots, and commit whatever changed.
package sync

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/denvermesh/meshsync/internal/sources/letsmesh"
	"github.com/denvermesh/meshsync/internal/sources/meshmapper"
	"github.com/denvermesh/meshsync/pkg/errors"
	"github.com/denvermesh/meshsync/pkg/logging"
	"github.com/denvermesh/meshsync/pkg/nodes"
	"github.com/denvermesh/meshsync/pkg/reconcile"
	"github.com/denvermesh/meshsync/pkg/snapshot"
)

// Node categories tracked as separate snapshots.
const (
	CategoryRepeaters  = "repeaters"
	CategoryCompanions = "companions"
)

// Syncer runs inventory syncs against both upstream sources.
type Syncer struct {
	meshmapper *meshmapper.Client
	letsmesh   *letsmesh.Client
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithMeshMapper replaces the MeshMapper client.
func WithMeshMapper(c *meshmapper.Client) Option {
	return func(s *Syncer) {
		if c != nil {
			s.meshmapper = c
		}
	}
}

// WithLetsMesh replaces the LetsMesh client.
func WithLetsMesh(c *letsmesh.Client) Option {
	return func(s *Syncer) {
		if c != nil {
			s.letsmesh = c
		}
	}
}

// New creates a Syncer with default clients for both sources.
func New(opts ...Option) *Syncer {
	s := &Syncer{
		meshmapper: meshmapper.NewClient(),
		letsmesh:   letsmesh.NewClient(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// fetch pulls both sources concurrently. Either source failing fails the
// whole run: a partial inventory would misreport every node of the missing
// source as gone.
func (s *Syncer) fetch(ctx context.Context) ([]meshmapper.Repeater, []letsmesh.Node, error) {
	var (
		repeaters []meshmapper.Repeater
		lmNodes   []letsmesh.Node
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ctx := logging.WithProvider(gctx, meshmapper.Provider)
		logging.FromContext(ctx).Debug().Msg("Fetching repeater directory")

		var err error
		repeaters, err = s.meshmapper.Repeaters(ctx)
		if err != nil {
			return errors.NewSyncError(meshmapper.Provider, CategoryRepeaters, err)
		}
		return nil
	})
	g.Go(func() error {
		ctx := logging.WithProvider(gctx, letsmesh.Provider)
		logging.FromContext(ctx).Debug().Msg("Fetching region nodes")

		var err error
		lmNodes, err = s.letsmesh.Nodes(ctx)
		if err != nil {
			return errors.NewSyncError(letsmesh.Provider, CategoryCompanions, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return repeaters, lmNodes, nil
}

// Repeaters fetches both sources and returns the observed repeater
// collection. Both sources are needed: the LetsMesh role index decides which
// MeshMapper entries are room servers.
func (s *Syncer) Repeaters(ctx context.Context) ([]nodes.Node, error) {
	repeaters, lmNodes, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return meshmapper.Nodes(repeaters, letsmesh.NewRoleIndex(lmNodes)), nil
}

// Companions fetches LetsMesh and returns the observed companion collection.
func (s *Syncer) Companions(ctx context.Context) ([]nodes.Node, error) {
	lmNodes, err := s.letsmesh.Nodes(ctx)
	if err != nil {
		return nil, errors.NewSyncError(letsmesh.Provider, CategoryCompanions, err)
	}
	return letsmesh.Companions(lmNodes), nil
}

// Result reports the outcome of a full sync run.
type Result struct {
	Repeaters  *reconcile.Changeset
	Companions *reconcile.Changeset
}

// Run executes a full sync: both sources are fetched once, normalized into
// the repeater and companion collections, and each collection is reconciled
// against its own snapshot file.
func (s *Syncer) Run(ctx context.Context, repeatersPath, companionsPath string) (*Result, error) {
	log := logging.FromContext(ctx)

	repeaters, lmNodes, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	log.Info().
		Int("meshmapper_repeaters", len(repeaters)).
		Int("letsmesh_nodes", len(lmNodes)).
		Msg("Fetched source inventories")

	observedRepeaters := meshmapper.Nodes(repeaters, letsmesh.NewRoleIndex(lmNodes))
	observedCompanions := letsmesh.Companions(lmNodes)

	result := &Result{}
	result.Repeaters, err = s.commit(ctx, CategoryRepeaters, repeatersPath, observedRepeaters)
	if err != nil {
		return nil, err
	}
	result.Companions, err = s.commit(ctx, CategoryCompanions, companionsPath, observedCompanions)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// commit reconciles one category against its snapshot and logs the outcome.
func (s *Syncer) commit(ctx context.Context, category, path string, observed []nodes.Node) (*reconcile.Changeset, error) {
	changeset, err := snapshot.Sync(path, observed)
	if err != nil {
		return nil, errors.NewSyncError("snapshot", category, err)
	}

	ctx = logging.WithCategory(ctx, category)
	log := logging.FromContext(ctx)
	for _, n := range changeset.New {
		log.Info().
			Str("public_key", n.PublicKey).
			Str("name", n.Name).
			Str("type", n.Type.String()).
			Msg("New node")
	}
	for _, n := range changeset.Missing {
		log.Info().
			Str("public_key", n.PublicKey).
			Str("name", n.Name).
			Msg("Missing node")
	}
	if changeset.HasChanges() {
		log.Info().Str("path", path).Str("changes", changeset.Summary()).Msg("Snapshot updated")
	} else {
		log.Info().Str("path", path).Str("changes", changeset.Summary()).Msg("Snapshot unchanged")
	}
	return changeset, nil
}
