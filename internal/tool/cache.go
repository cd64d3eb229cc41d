package tool

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"

	"github.com/thenoetrevino/etapa/internal/models"
)

// Cache memoizes captured tool results by digest of the invocation: same
// binary, args and rendered input never run the tool twice. Safe for
// concurrent jobs.
type Cache struct {
	mu      sync.RWMutex
	results map[string]string
}

// NewCache creates an empty result cache.
func NewCache() *Cache {
	return &Cache{results: make(map[string]string)}
}

// Get returns the cached captured value for the invocation, if any.
func (c *Cache) Get(step models.ToolStep, input string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.results[cacheKey(step, input)]
	return v, ok
}

// Put stores the captured value for the invocation.
func (c *Cache) Put(step models.ToolStep, input, captured string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[cacheKey(step, input)] = captured
}

// Len reports how many results are cached.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}

func cacheKey(step models.ToolStep, input string) string {
	h := sha256.New()
	// Capture and RetryOn shape the result, so two steps differing only in
	// their patterns must not share an entry.
	for _, part := range []string{step.Binary, strings.Join(step.Args, "\x00"), step.Capture, step.RetryOn, input} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
