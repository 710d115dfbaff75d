package catalogcache

import (
	"context"
	"sort"
	"sync"
	"time"
)

type memoryItem struct {
	payload   []byte
	storedAt  time.Time
	expiresAt time.Time
}

// MemoryStore keeps entries in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]map[string]memoryItem
	now   func() time.Time
}

// NewMemory returns an empty in-process store.
func NewMemory() *MemoryStore {
	return &MemoryStore{items: make(map[string]map[string]memoryItem), now: time.Now}
}

func (m *MemoryStore) Get(_ context.Context, namespace, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.items[namespace][key]
	if !ok || !item.expiresAt.After(m.now()) {
		return nil, false, nil
	}
	return append([]byte(nil), item.payload...), true, nil
}

func (m *MemoryStore) Put(_ context.Context, namespace, key string, payload []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.items[namespace]
	if !ok {
		bucket = make(map[string]memoryItem)
		m.items[namespace] = bucket
	}
	now := m.now()
	bucket[key] = memoryItem{
		payload:   append([]byte(nil), payload...),
		storedAt:  now,
		expiresAt: now.Add(ttl),
	}
	return nil
}

func (m *MemoryStore) List(_ context.Context) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []Entry
	for namespace, bucket := range m.items {
		for key, item := range bucket {
			entries = append(entries, Entry{
				Namespace: namespace,
				Key:       key,
				Size:      len(item.payload),
				StoredAt:  item.storedAt,
				ExpiresAt: item.expiresAt,
			})
		}
	}
	sortEntries(entries)
	return entries, nil
}

func (m *MemoryStore) Clear(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, bucket := range m.items {
		n += len(bucket)
	}
	m.items = make(map[string]map[string]memoryItem)
	return n, nil
}

func (m *MemoryStore) Prune(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	n := 0
	for namespace, bucket := range m.items {
		for key, item := range bucket {
			if !item.expiresAt.After(now) {
				delete(bucket, key)
				n++
			}
		}
		if len(bucket) == 0 {
			delete(m.items, namespace)
		}
	}
	return n, nil
}

func (m *MemoryStore) Close() error { return nil }

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].StoredAt.Equal(entries[j].StoredAt) {
			return entries[i].StoredAt.After(entries[j].StoredAt)
		}
		if entries[i].Namespace != entries[j].Namespace {
			return entries[i].Namespace < entries[j].Namespace
		}
		return entries[i].Key < entries[j].Key
	})
}
