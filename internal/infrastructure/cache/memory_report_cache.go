package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerly/backend/internal/domain/shared"
)

// MemoryReportCache is an in-process report cache for single-instance
// deployments and tests. Entries expire lazily on read.
type MemoryReportCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	companyID uuid.UUID
	payload   []byte
	expiresAt time.Time
}

// NewMemoryReportCache creates an empty in-memory cache.
func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func memoryKey(companyID uuid.UUID, key string) string {
	return companyID.String() + ":" + key
}

// Get returns the cached payload, or shared.ErrNotFound when the entry
// is absent or expired.
func (c *MemoryReportCache) Get(_ context.Context, companyID uuid.UUID, key string) ([]byte, error) {
	c.mu.RLock()
	entry, ok := c.entries[memoryKey(companyID, key)]
	c.mu.RUnlock()

	if !ok {
		return nil, shared.ErrNotFound
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, memoryKey(companyID, key))
		c.mu.Unlock()
		return nil, shared.ErrNotFound
	}
	return entry.payload, nil
}

// Set stores a payload with the given TTL.
func (c *MemoryReportCache) Set(_ context.Context, companyID uuid.UUID, key string, payload []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[memoryKey(companyID, key)] = memoryEntry{
		companyID: companyID,
		payload:   payload,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

// InvalidateCompany drops every entry for one company.
func (c *MemoryReportCache) InvalidateCompany(_ context.Context, companyID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.entries {
		if entry.companyID == companyID {
			delete(c.entries, key)
		}
	}
	return nil
}
