package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Neumenon/flatconf/flatconf"
)

// Syncer pushes trees to a KV backend and pulls them back. Push writes
// a full snapshot: every flattened pair is stored and any previously
// stored pair no longer in the tree is deleted, so the backend mirrors
// the tree exactly.
type Syncer struct {
	kv  KV
	log zerolog.Logger
}

func NewSyncer(kv KV, log zerolog.Logger) *Syncer {
	return &Syncer{kv: kv, log: log}
}

// keyPrefix is what every flattened configuration key starts with.
const keyPrefix = flatconf.KeyTag + flatconf.KeySep

// Push flattens tree and mirrors it into the backend. When the stored
// digest already matches the snapshot, nothing is written.
func (s *Syncer) Push(ctx context.Context, tree flatconf.Tree) error {
	flat, err := flatconf.Encode(tree)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}

	digest := flatconf.DigestHex(flat)
	stored, err := s.kv.Get(ctx, DigestKey)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("read digest: %w", err)
	}
	if stored == digest {
		s.log.Debug().Str("digest", digest).Msg("snapshot unchanged, skipping push")
		return nil
	}

	existing, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return fmt.Errorf("list keys: %w", err)
	}

	for key, value := range flat {
		if err := s.kv.Put(ctx, key, value); err != nil {
			return fmt.Errorf("put %s: %w", key, err)
		}
	}

	var stale int
	for _, key := range existing {
		if _, ok := flat[key]; ok {
			continue
		}
		if err := s.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("delete %s: %w", key, err)
		}
		stale++
	}

	if err := s.kv.Put(ctx, DigestKey, digest); err != nil {
		return fmt.Errorf("put digest: %w", err)
	}

	s.log.Info().
		Int("entries", len(flat)).
		Int("stale", stale).
		Str("digest", digest).
		Msg("pushed snapshot")
	return nil
}

// Pull reads every stored pair and decodes it back into a tree.
// Entries that fail to decode are logged and returned; the tree holds
// everything that did decode.
func (s *Syncer) Pull(ctx context.Context) (flatconf.Tree, []flatconf.InvalidEntry, error) {
	keys, err := s.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, nil, fmt.Errorf("list keys: %w", err)
	}

	flat := make(map[string]string, len(keys))
	for _, key := range keys {
		value, err := s.kv.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			// Deleted between listing and reading.
			continue
		}
		if err != nil {
			return nil, nil, fmt.Errorf("get %s: %w", key, err)
		}
		flat[key] = value
	}

	tree, invalid := flatconf.Decode(flat)
	for _, entry := range invalid {
		s.log.Warn().
			Str("key", entry.Key).
			Str("kind", entry.Kind.String()).
			Err(entry.Err).
			Msg("skipping invalid entry")
	}

	s.log.Info().
		Int("entries", len(flat)).
		Int("invalid", len(invalid)).
		Msg("pulled snapshot")
	return tree, invalid, nil
}
