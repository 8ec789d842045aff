package flatconf

import (
	"crypto/sha256"
	"encoding/binary"
	"sort"
)

// Digest computes a deterministic SHA-256 over a flat map: pairs are
// visited in sorted key order and each string is length-prefixed, so
// the digest is independent of map iteration order and free of
// concatenation collisions. Two payloads with equal digests decode to
// equal trees.
func Digest(flat map[string]string) [32]byte {
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	var lenBuf [8]byte
	writeField := func(s string) {
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(s)))
		h.Write(lenBuf[:])
		h.Write([]byte(s))
	}
	for _, k := range keys {
		writeField(k)
		writeField(flat[k])
	}

	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// DigestHex returns the digest as a lowercase hex string.
func DigestHex(flat map[string]string) string {
	sum := Digest(flat)
	const hextable = "0123456789abcdef"
	var buf [64]byte
	for i, b := range sum {
		buf[i*2] = hextable[b>>4]
		buf[i*2+1] = hextable[b&0x0f]
	}
	return string(buf[:])
}
