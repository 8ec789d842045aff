package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neumenon/flatconf/flatconf"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yaml", `
web:
  host: localhost
  port: 8080
  tls:
    enabled: true
`)

	tree, err := Load(path)
	require.NoError(t, err)

	opts, ok := tree.Get(flatconf.Symbol("web"))
	require.True(t, ok)

	host, ok := opts.Get(flatconf.Symbol("host"))
	require.True(t, ok)
	assert.True(t, host.Literal().Equal(flatconf.Str("localhost")))

	port, ok := opts.Get(flatconf.Symbol("port"))
	require.True(t, ok)
	assert.True(t, port.Literal().Equal(flatconf.Int(8080)))

	tls, ok := opts.Get(flatconf.Symbol("tls"))
	require.True(t, ok)
	require.True(t, tls.IsNested(), "mapping at option position must be Nested")
	enabled, ok := tls.Options().Get(flatconf.Symbol("enabled"))
	require.True(t, ok)
	assert.True(t, enabled.Literal().Equal(flatconf.Bool(true)))
}

func TestLoad_LaterFileOverrides(t *testing.T) {
	dir := t.TempDir()
	base := writeFile(t, dir, "base.yaml", `
web:
  port: 8080
  host: localhost
`)
	override := writeFile(t, dir, "prod.yaml", `
web:
  port: 443
`)

	tree, err := Load(base, override)
	require.NoError(t, err)

	opts, _ := tree.Get(flatconf.Symbol("web"))
	port, _ := opts.Get(flatconf.Symbol("port"))
	assert.True(t, port.Literal().Equal(flatconf.Int(443)))
	host, ok := opts.Get(flatconf.Symbol("host"))
	require.True(t, ok, "non-overridden keys survive the merge")
	assert.True(t, host.Literal().Equal(flatconf.Str("localhost")))
}

func TestLoad_JSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.json", `{"repo": {"pool": 5}}`)

	tree, err := Load(path)
	require.NoError(t, err)

	opts, ok := tree.Get(flatconf.Symbol("repo"))
	require.True(t, ok)
	pool, _ := opts.Get(flatconf.Symbol("pool"))
	assert.True(t, pool.Literal().Equal(flatconf.Int(5)))
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load()
	assert.ErrorIs(t, err, ErrLoad)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, ErrLoad)

	bad := writeFile(t, dir, "bad.yaml", "{unclosed: [")
	_, err = Load(bad)
	assert.ErrorIs(t, err, ErrLoad)

	scalar := writeFile(t, dir, "scalar.yaml", "web: 42\n")
	_, err = Load(scalar)
	assert.ErrorIs(t, err, ErrLoad)

	badName := writeFile(t, dir, "name.yaml", "\"my app\":\n  k: 1\n")
	_, err = Load(badName)
	assert.ErrorIs(t, err, ErrLoad)
}

func TestStringConventions(t *testing.T) {
	doc := map[string]any{
		"app": map[string]any{
			"mode":    ":prod",
			"adapter": "Repo.Postgres",
			"plain":   "hello world",
			"single":  "Upper",
			"colon":   ": not a symbol",
		},
	}

	tree, err := FromMap(doc)
	require.NoError(t, err)

	opts, _ := tree.Get(flatconf.Symbol("app"))

	mode, _ := opts.Get(flatconf.Symbol("mode"))
	assert.True(t, mode.Literal().Equal(flatconf.Sym("prod")))

	adapter, _ := opts.Get(flatconf.Symbol("adapter"))
	assert.True(t, adapter.Literal().Equal(flatconf.QName("Repo.Postgres")))

	plain, _ := opts.Get(flatconf.Symbol("plain"))
	assert.True(t, plain.Literal().Equal(flatconf.Str("hello world")))

	// A dotless uppercase string stays a string; qualified names opt in
	// via a dot.
	single, _ := opts.Get(flatconf.Symbol("single"))
	assert.True(t, single.Literal().Equal(flatconf.Str("Upper")))

	colon, _ := opts.Get(flatconf.Symbol("colon"))
	assert.True(t, colon.Literal().Equal(flatconf.Str(": not a symbol")))
}

func TestFromMap_ListsAndInnerMaps(t *testing.T) {
	doc := map[string]any{
		"app": map[string]any{
			"servers": []any{
				map[string]any{"host": "a", "weight": int64(1)},
				map[string]any{"host": "b", "weight": int64(2)},
			},
		},
	}

	tree, err := FromMap(doc)
	require.NoError(t, err)

	opts, _ := tree.Get(flatconf.Symbol("app"))
	servers, _ := opts.Get(flatconf.Symbol("servers"))
	require.False(t, servers.IsNested(), "list stays a leaf")

	items, err := servers.Literal().AsList()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, flatconf.LitPairs, items[0].Kind(), "mapping inside a list is a pair-list literal")
	host := items[0].Get(flatconf.Symbol("host"))
	assert.True(t, host.Equal(flatconf.Str("a")))
}

func TestFromMapToMapRoundTrip(t *testing.T) {
	doc := map[string]any{
		"web": map[string]any{
			"host":  "localhost",
			"port":  int64(8080),
			"ratio": 0.25,
			"mode":  ":prod",
			"tags":  []any{"a", "b"},
			"tls":   map[string]any{"enabled": true},
			"empty": nil,
		},
	}

	tree, err := FromMap(doc)
	require.NoError(t, err)

	back := ToMap(tree)
	assert.Equal(t, doc, back)
}

func TestLoadEncodeRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "app.yaml", `
repo:
  adapter: Repo.Postgres
  pool:
    size: 10
`)

	tree, err := Load(path)
	require.NoError(t, err)

	flat, err := flatconf.Encode(tree)
	require.NoError(t, err)
	assert.Equal(t, "Repo.Postgres", flat["conf-repo-adapter"])
	assert.Equal(t, "10", flat["conf-repo-pool-size"])

	back, invalid := flatconf.Decode(flat)
	assert.Empty(t, invalid)
	assert.True(t, back.Equal(tree))
}
