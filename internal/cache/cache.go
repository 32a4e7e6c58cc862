package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache stores reference match results between runs
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// MatchKey derives the cache key for a sequence matched against a reference
// database identified by its content digest
func MatchKey(referenceDigest, sequence string) string {
	h := sha256.New()
	h.Write([]byte(referenceDigest))
	h.Write([]byte{0})
	h.Write([]byte(sequence))
	return "peptidemine:match:v1:" + hex.EncodeToString(h.Sum(nil))
}
