package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denvermesh/meshsync/pkg/errors"
	"github.com/denvermesh/meshsync/pkg/nodes"
)

func floatPtr(v float64) *float64 { return &v }

func node(publicKey, name string) nodes.Node {
	return nodes.Node{
		PublicKey: publicKey,
		Name:      name,
		Latitude:  floatPtr(39.7),
		Longitude: floatPtr(-105.0),
		Type:      nodes.TypeRepeater,
		Contact:   nodes.BuildContactURL(name, publicKey),
		CreatedAt: 1700000000,
		LastHeard: 1760000000,
	}
}

func TestRead_MissingFileIsEmptySnapshot(t *testing.T) {
	list, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRead_MalformedJSONIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Read(path)
	require.Error(t, err)
	var parseErr *errors.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestRead_UnknownNodeTypeIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badtype.json")
	content := `[{"public_key":"ab12","name":"x","latitude":null,"longitude":null,"node_type":9,"is_observer":false,"contact":"","created_at":0,"last_heard":0}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Read(path)
	require.Error(t, err)
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	list := []nodes.Node{node("ab12cd34", "Alpha"), node("bc23de45", "Bravo")}

	require.NoError(t, Write(path, list))

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, list, loaded)
}

func TestWrite_EmptyListIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, Write(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw []json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Empty(t, raw)
}

func TestWrite_StableFieldOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, Write(path, []nodes.Node{node("ab12cd34", "Alpha")}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	text := string(data)
	order := []string{`"public_key"`, `"name"`, `"latitude"`, `"longitude"`, `"node_type"`, `"is_observer"`, `"contact"`, `"created_at"`, `"last_heard"`}
	last := -1
	for _, field := range order {
		idx := indexOf(text, field)
		require.GreaterOrEqual(t, idx, 0, "missing field %s", field)
		assert.Greater(t, idx, last, "field %s out of order", field)
		last = idx
	}
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestSync_FirstRunCreatesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	observed := []nodes.Node{node("ab12cd34", "Alpha")}

	cs, err := Sync(path, observed)
	require.NoError(t, err)
	assert.Len(t, cs.New, 1)
	assert.True(t, cs.HasChanges())

	loaded, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, observed, loaded)
}

func TestSync_WriteSuppression(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	observed := []nodes.Node{node("ab12cd34", "Alpha"), node("bc23de45", "Bravo")}
	require.NoError(t, Write(path, observed))

	before, err := os.Stat(path)
	require.NoError(t, err)
	beforeContent, err := os.ReadFile(path)
	require.NoError(t, err)

	// Same fingerprints in a different order with fresher timestamps.
	again := []nodes.Node{observed[1], observed[0]}
	again[0].LastHeard = 1770000000
	again[1].LastHeard = 1770000000

	cs, err := Sync(path, again)
	require.NoError(t, err)
	assert.False(t, cs.HasChanges())
	assert.Len(t, cs.Unchanged, 2)

	after, err := os.Stat(path)
	require.NoError(t, err)
	afterContent, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, before.ModTime(), after.ModTime())
	assert.Equal(t, beforeContent, afterContent)
}

func TestSync_RewriteKeepsObservedVersions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, Write(path, []nodes.Node{node("ab12cd34", "Alpha"), node("bc23de45", "Bravo")}))

	// Bravo unchanged but freshly observed, Charlie new, Alpha gone.
	freshBravo := node("bc23de45", "Bravo")
	freshBravo.LastHeard = 1770000000
	observed := []nodes.Node{freshBravo, node("cd34ef56", "Charlie")}

	cs, err := Sync(path, observed)
	require.NoError(t, err)
	assert.Len(t, cs.New, 1)
	assert.Len(t, cs.Missing, 1)
	assert.Len(t, cs.Unchanged, 1)

	loaded, err := Read(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// The full observed collection wins, unchanged nodes included.
	byKey := make(map[string]nodes.Node, len(loaded))
	for _, n := range loaded {
		byKey[n.PublicKey] = n
	}
	assert.NotContains(t, byKey, "ab12cd34")
	assert.Equal(t, int64(1770000000), byKey["bc23de45"].LastHeard)
	assert.Contains(t, byKey, "cd34ef56")
}

func TestSync_MalformedSnapshotAborts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, os.WriteFile(path, []byte("[{"), 0o644))

	_, err := Sync(path, []nodes.Node{node("ab12cd34", "Alpha")})
	require.Error(t, err)

	// The corrupt file is left as-is for inspection.
	data, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "[{", string(data))
}
