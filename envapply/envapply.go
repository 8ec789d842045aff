// Package envapply writes flattened configuration into an application
// environment. An Env is anything that can get and set per-application
// string settings: a process environment shim, a test map, a remote
// agent. Apply projects a tree onto it; Changed reports the drift
// without writing.
package envapply

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Neumenon/flatconf/flatconf"
)

// Env is a per-application settings surface.
type Env interface {
	// Get returns the value stored for app and key, and whether it
	// was present.
	Get(app, key string) (string, bool)

	// Set stores value for app and key.
	Set(app, key, value string) error
}

// Apply flattens tree and writes every pair into env. Keys are set in
// sorted order so repeated runs touch the environment the same way.
func Apply(env Env, tree flatconf.Tree) error {
	flat, err := flatconf.Encode(tree)
	if err != nil {
		return err
	}

	for _, key := range sortedKeys(flat) {
		app, envKey, err := splitKey(key)
		if err != nil {
			return err
		}
		if err := env.Set(app, envKey, flat[key]); err != nil {
			return fmt.Errorf("set %s/%s: %w", app, envKey, err)
		}
	}
	return nil
}

// Changed reports the flat keys whose values in env differ from tree,
// including keys env does not hold at all. An empty result means env
// already matches.
func Changed(env Env, tree flatconf.Tree) ([]string, error) {
	flat, err := flatconf.Encode(tree)
	if err != nil {
		return nil, err
	}

	var changed []string
	for _, key := range sortedKeys(flat) {
		app, envKey, err := splitKey(key)
		if err != nil {
			return nil, err
		}
		current, ok := env.Get(app, envKey)
		if !ok || current != flat[key] {
			changed = append(changed, key)
		}
	}
	return changed, nil
}

// splitKey turns an encoded key into the application name and the
// joined option path the Env is addressed by.
func splitKey(key string) (app, envKey string, err error) {
	segments, err := flatconf.DecodePath(key)
	if err != nil {
		return "", "", err
	}
	names := make([]string, len(segments)-1)
	for i, seg := range segments[1:] {
		names[i] = seg.Name()
	}
	return segments[0].Name(), strings.Join(names, flatconf.KeySep), nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MapEnv is an in-memory Env for tests and dry runs.
type MapEnv map[string]map[string]string

func (m MapEnv) Get(app, key string) (string, bool) {
	section, ok := m[app]
	if !ok {
		return "", false
	}
	v, ok := section[key]
	return v, ok
}

func (m MapEnv) Set(app, key, value string) error {
	section, ok := m[app]
	if !ok {
		section = make(map[string]string)
		m[app] = section
	}
	section[key] = value
	return nil
}
