package cache

import (
	"encoding/json"
	"log"
	"path/filepath"

	"github.com/dnsby/storefront/internal/domain"
	"github.com/spf13/afero"
)

// cartFileName is the single fixed storage key for the serialized cart,
// carried over from the web client's localStorage key.
const cartFileName = "dns_by_cart_v1.json"

// FileCartCache is the durable local cart cache: one JSON file holding the
// full cart line list, rewritten wholesale on every local mutation. It is a
// best-effort cache, so every storage failure is logged and swallowed.
type FileCartCache struct {
	fs   afero.Fs
	path string
}

// NewFileCartCache creates a cart cache rooted at dir on the given
// filesystem.
func NewFileCartCache(fs afero.Fs, dir string) *FileCartCache {
	return &FileCartCache{
		fs:   fs,
		path: filepath.Join(dir, cartFileName),
	}
}

// Persist serializes the full line list to the cache file. Encoding or
// storage errors (disk full, read-only volume) never surface to the caller.
func (c *FileCartCache) Persist(lines []domain.CartLine) {
	if lines == nil {
		lines = []domain.CartLine{}
	}

	data, err := json.Marshal(lines)
	if err != nil {
		log.Printf("[CACHE] failed to encode cart: %v", err)
		return
	}

	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		log.Printf("[CACHE] failed to create cache dir: %v", err)
		return
	}
	if err := afero.WriteFile(c.fs, c.path, data, 0o644); err != nil {
		log.Printf("[CACHE] failed to write cart: %v", err)
	}
}

// Load deserializes the stored cart. A missing file, corrupt encoding or a
// non-array value all degrade to an empty sequence; Load never fails.
func (c *FileCartCache) Load() []domain.CartLine {
	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		return []domain.CartLine{}
	}

	var lines []domain.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		log.Printf("[CACHE] discarding corrupt cart cache: %v", err)
		return []domain.CartLine{}
	}
	if lines == nil {
		return []domain.CartLine{}
	}
	return lines
}

// Clear persists the empty cart, used after a successful order submission.
func (c *FileCartCache) Clear() {
	c.Persist([]domain.CartLine{})
}
