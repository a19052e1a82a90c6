package store

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"urlsentinel/internal/logger"
	"urlsentinel/pkg/models"
)

type memoryEntry struct {
	record    models.ScanRecord
	timestamp time.Time
	ttl       time.Duration
}

func (e *memoryEntry) isExpired(now time.Time) bool {
	if e.ttl == 0 {
		return false
	}
	return now.Sub(e.timestamp) > e.ttl
}

// MemoryStore keeps scan records in process memory and evicts them after
// ttl. A zero ttl keeps records until Close.
type MemoryStore struct {
	entries map[string]*memoryEntry
	mutex   sync.RWMutex
	ttl     time.Duration
	done    chan struct{}
	once    sync.Once
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	store := &MemoryStore{
		entries: make(map[string]*memoryEntry),
		ttl:     ttl,
		done:    make(chan struct{}),
	}

	if ttl > 0 {
		go store.cleanupExpired()
	}

	return store
}

func (m *MemoryStore) Record(ctx context.Context, rec models.ScanRecord) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.entries[rec.ID] = &memoryEntry{
		record:    rec,
		timestamp: time.Now(),
		ttl:       m.ttl,
	}

	logger.Get().Debug("scan record stored",
		slog.String("id", rec.ID),
		slog.String("domain", rec.Domain),
		slog.Int("total_entries", len(m.entries)))

	return nil
}

func (m *MemoryStore) Recent(ctx context.Context, limit int) ([]models.ScanRecord, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	now := time.Now()
	records := make([]models.ScanRecord, 0, len(m.entries))
	for _, entry := range m.entries {
		if !entry.isExpired(now) {
			records = append(records, entry.record)
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID > records[j].ID
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

func (m *MemoryStore) Size() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return len(m.entries)
}

// Close stops the cleanup loop.
func (m *MemoryStore) Close() error {
	m.once.Do(func() { close(m.done) })
	return nil
}

func (m *MemoryStore) cleanupExpired() {
	ticker := time.NewTicker(m.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
		}

		m.mutex.Lock()
		now := time.Now()
		removed := 0
		for id, entry := range m.entries {
			if entry.isExpired(now) {
				delete(m.entries, id)
				removed++
			}
		}
		remaining := len(m.entries)
		m.mutex.Unlock()

		if removed > 0 {
			logger.Get().Debug("scan record cleanup completed",
				slog.Int("removed", removed),
				slog.Int("remaining", remaining))
		}
	}
}
