package demotools

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jtuffin/starmcp/tools"
)

// Entry is one stored key-value pair.
type Entry struct {
	ID       string    `json:"id"`
	Key      string    `json:"key"`
	Value    any       `json:"value"`
	StoredAt time.Time `json:"stored_at"`
}

// Store is the in-memory key-value store backing the demo tools and
// resources. It lives in the hosting application; the protocol core keeps no
// cross-request state.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{entries: make(map[string]Entry)}
}

// Put stores value under key, assigning a fresh entry id.
func (s *Store) Put(key string, value any) Entry {
	entry := Entry{
		ID:       uuid.New().String(),
		Key:      key,
		Value:    value,
		StoredAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return entry
}

// Get returns the entry stored under key.
func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	return entry, ok
}

// Keys returns all stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Snapshot returns a copy of the stored values keyed by key.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.entries))
	for k, e := range s.entries {
		out[k] = e.Value
	}
	return out
}

// StoreParams are the arguments for the store_data tool.
type StoreParams struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// StoreResult confirms a store_data call.
type StoreResult struct {
	Success  bool   `json:"success"`
	Key      string `json:"key"`
	ID       string `json:"id"`
	StoredAt string `json:"stored_at"`
}

// NewStoreDataTool creates the store_data tool.
func NewStoreDataTool(store *Store, m *Metrics) tools.Tool {
	handler := func(ctx context.Context, params StoreParams) (StoreResult, error) {
		m.Requests.Add(1)

		if params.Key == "" {
			m.Errors.Add(1)
			return StoreResult{}, tools.NewInvalidParamsError("key cannot be empty")
		}

		entry := store.Put(params.Key, params.Value)
		return StoreResult{
			Success:  true,
			Key:      entry.Key,
			ID:       entry.ID,
			StoredAt: entry.StoredAt.Format(time.RFC3339),
		}, nil
	}

	return tools.NewTool(
		"store_data",
		"Store data in the database",
		handler,
	)
}

// RetrieveParams are the arguments for the retrieve_data tool.
type RetrieveParams struct {
	Key string `json:"key"`
}

// RetrieveResult carries a retrieved value, or an explanation when the key is
// absent.
type RetrieveResult struct {
	Success bool   `json:"success"`
	Key     string `json:"key"`
	Value   any    `json:"value,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewRetrieveDataTool creates the retrieve_data tool.
func NewRetrieveDataTool(store *Store, m *Metrics) tools.Tool {
	handler := func(ctx context.Context, params RetrieveParams) (RetrieveResult, error) {
		m.Requests.Add(1)

		entry, ok := store.Get(params.Key)
		if !ok {
			return RetrieveResult{
				Success: false,
				Key:     params.Key,
				Error:   "Key not found",
			}, nil
		}

		return RetrieveResult{
			Success: true,
			Key:     entry.Key,
			Value:   entry.Value,
		}, nil
	}

	return tools.NewTool(
		"retrieve_data",
		"Retrieve data from the database",
		handler,
	)
}
