// Package loader reads configuration documents from disk and evaluates
// them into a flatconf.Tree ready for encoding. It is a collaborator of
// the core transform: the core never touches files, and the loader
// never touches key or value encoding.
package loader

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"

	"github.com/Neumenon/flatconf/flatconf"
)

// ErrLoad wraps every load-time failure: unreadable files, malformed
// documents, and values the tree model cannot represent.
var ErrLoad = errors.New("loader: load error")

// Load reads one or more YAML or JSON documents and evaluates them into
// a single tree. Later files override earlier ones key-wise, nested
// mappings merging recursively.
func Load(paths ...string) (flatconf.Tree, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no files given", ErrLoad)
	}

	merged := map[string]any{}
	for _, path := range paths {
		doc, err := readDoc(path)
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(&merged, doc, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("%w: merge %s: %v", ErrLoad, path, err)
		}
	}

	tree, err := FromMap(merged)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return tree, nil
}

// readDoc reads and parses one document. YAML is a superset of JSON, so
// one parser covers both.
func readDoc(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrLoad, path, err)
	}
	return doc, nil
}
