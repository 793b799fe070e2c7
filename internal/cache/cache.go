package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching extraction results
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ResultKey generates a cache key from the document type and raw file
// bytes, so re-uploads of the same document hit the cache regardless of
// file name.
func ResultKey(docType string, data []byte) string {
	hash := sha256.Sum256(data)
	return "docintel:v1:" + docType + ":" + hex.EncodeToString(hash[:])
}
