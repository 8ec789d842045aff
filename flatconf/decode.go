package flatconf

import (
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// parallelDecodeThreshold is the payload size at which the per-entry
// phase fans out across goroutines.
const parallelDecodeThreshold = 64

// decoded holds the outcome of one entry's independent decode.
type decoded struct {
	app     Ident
	options OptionList
	invalid *InvalidEntry
}

// Decode converts a flat string map back into a configuration tree.
//
// Every entry is decoded independently: a failed key or value records an
// InvalidEntry and never aborts the rest of the payload. Valid entries
// are folded through Merge in ascending byte order of their encoded key;
// that ordering is part of the contract and makes exact-key collisions
// deterministic (last key in sort order wins). The returned invalid list
// follows the same order.
//
// The per-entry phase is independent per pair and runs in parallel for
// large payloads; the fold stays sequential.
func Decode(flat map[string]string) (Tree, []InvalidEntry) {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	results := make([]decoded, len(keys))
	if len(keys) >= parallelDecodeThreshold {
		g := new(errgroup.Group)
		g.SetLimit(runtime.GOMAXPROCS(0))
		for i, k := range keys {
			i, k := i, k
			g.Go(func() error {
				results[i] = decodeEntry(k, flat[k])
				return nil
			})
		}
		_ = g.Wait() // decodeEntry never errors the group
	} else {
		for i, k := range keys {
			results[i] = decodeEntry(k, flat[k])
		}
	}

	var tree Tree
	var invalid []InvalidEntry
	for _, r := range results {
		if r.invalid != nil {
			invalid = append(invalid, *r.invalid)
			continue
		}
		tree = Merge(tree, r.app, r.options)
	}
	return tree, invalid
}

// decodeEntry decodes one (key, value) pair into an (app, options)
// contribution, or an InvalidEntry.
func decodeEntry(key, value string) decoded {
	segments, err := DecodePath(key)
	if err != nil {
		return decoded{invalid: &InvalidEntry{Key: key, Value: value, Kind: KindBadKey, Err: err}}
	}
	if len(segments) < 2 {
		err := fmt.Errorf("%w: key %q has no option path", ErrBadKey, key)
		return decoded{invalid: &InvalidEntry{Key: key, Value: value, Kind: KindBadKey, Err: err}}
	}

	lit, err := DecodeValue(value)
	if err != nil {
		return decoded{invalid: &InvalidEntry{Key: key, Value: value, Kind: KindBadValue, Err: err}}
	}

	// Build nested single-key option groups from the path tail inward.
	opts := OptionList{{Key: segments[len(segments)-1], Value: Leaf(lit)}}
	for i := len(segments) - 2; i >= 1; i-- {
		opts = OptionList{{Key: segments[i], Value: Nested(opts)}}
	}
	return decoded{app: segments[0], options: opts}
}
