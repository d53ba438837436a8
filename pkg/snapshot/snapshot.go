// Package snapshot persists the full set of canonical nodes as of the last
// successful sync. The snapshot is always replaced wholesale, never patched:
// a sync either rewrites the entire file with the freshly observed
// collection or leaves it byte-for-byte untouched.
package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/denvermesh/meshsync/pkg/constants"
	"github.com/denvermesh/meshsync/pkg/errors"
	"github.com/denvermesh/meshsync/pkg/nodes"
	"github.com/denvermesh/meshsync/pkg/reconcile"
)

// Read loads a snapshot from disk. A missing file is the valid empty
// snapshot, not an error; malformed JSON content is fatal, there is no
// corrupt-file fallback.
func Read(path string) ([]nodes.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []nodes.Node{}, nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	var list []nodes.Node
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	return list, nil
}

// Write replaces the snapshot at path with the given collection. The file is
// written to a temporary sibling first and renamed into place so a failed
// write never leaves a truncated snapshot behind.
func Write(path string, list []nodes.Node) error {
	if list == nil {
		list = []nodes.Node{}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	tmpPath := tmp.Name()

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(list); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", path, err)
	}

	if err := os.Chmod(tmpPath, constants.FilePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("move", path, err)
	}
	return nil
}

// Sync reconciles the observed collection against the snapshot at path and
// commits the result.
//
// The snapshot is rewritten in full with the observed collection only when
// the changeset contains new or missing nodes. An unchanged-only run leaves
// the file untouched even though last_heard timestamps inside it have moved:
// no identity-relevant change means no write.
func Sync(path string, observed []nodes.Node) (*reconcile.Changeset, error) {
	existing, err := Read(path)
	if err != nil {
		return nil, err
	}

	changeset := reconcile.Nodes(existing, observed)
	if !changeset.HasChanges() {
		return changeset, nil
	}

	if err := Write(path, observed); err != nil {
		return nil, err
	}
	return changeset, nil
}
