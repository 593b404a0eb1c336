// internal/conditions/fingerprint.go
package conditions

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"sort"

	"github.com/solatis/promofilter/internal/types"
)

/*
 * Result cache fingerprinting.
 *
 * A fingerprint is a content-addressed SHA-256 over the canonical encoding
 * of (sorted candidate ids, conditions in order, logic). Length-prefixed
 * framing makes the encoding injective: values containing separator-like
 * characters cannot collide with field boundaries, which is the failure
 * mode of naive string-joined cache keys.
 *
 * Candidate ids are sorted before hashing so two callers passing the same
 * set in different orders share one cache entry; the engine re-projects a
 * hit through the caller's order.
 */

// fingerprintVersion is bumped whenever the canonical encoding changes,
// invalidating stale cache entries across deploys.
const fingerprintVersion = "pf1"

// Fingerprint returns the deterministic cache key for (candidates, set).
func Fingerprint(candidates []types.ProductID, set types.ConditionSet) string {
	h := sha256.New()
	var buf [8]byte

	writeString := func(s string) {
		binary.BigEndian.PutUint64(buf[:], uint64(len(s)))
		h.Write(buf[:])
		h.Write([]byte(s))
	}
	writeInt := func(n uint64) {
		binary.BigEndian.PutUint64(buf[:], n)
		h.Write(buf[:])
	}

	writeString(fingerprintVersion)
	writeInt(uint64(set.Logic))

	sorted := make([]types.ProductID, len(candidates))
	copy(sorted, candidates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	writeInt(uint64(len(sorted)))
	for _, id := range sorted {
		writeInt(uint64(id))
	}

	writeInt(uint64(len(set.Conditions)))
	for _, c := range set.Conditions {
		writeString(c.Property)
		writeString(string(c.Operator))
		writeInt(uint64(c.Mode))
		writeInt(uint64(len(c.Values)))
		for _, v := range c.Values {
			writeString(v)
		}
	}

	return fingerprintVersion + ":" + hex.EncodeToString(h.Sum(nil))
}
