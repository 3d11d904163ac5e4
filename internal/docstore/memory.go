package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Memory keeps documents in process. Documents are stored serialized so callers
// never share maps with the store.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string][]byte)}
}

func (m *Memory) Get(ctx context.Context, collection, key string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	data, ok := m.collections[collection][key]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, ErrNotFound)
	}

	return unmarshal(data)
}

func (m *Memory) Put(ctx context.Context, collection, key string, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := marshal(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	docs, ok := m.collections[collection]
	if !ok {
		docs = make(map[string][]byte)
		m.collections[collection] = docs
	}
	docs[key] = data

	return nil
}

// Query returns matching documents ordered by key.
func (m *Memory) Query(ctx context.Context, collection string, filter Filter) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	docs := m.collections[collection]
	keys := make([]string, 0, len(docs))
	for key := range docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	raw := make([][]byte, 0, len(keys))
	for _, key := range keys {
		raw = append(raw, docs[key])
	}
	m.mu.RUnlock()

	result := make([]Document, 0, len(raw))
	for _, data := range raw {
		doc, err := unmarshal(data)
		if err != nil {
			return nil, err
		}
		if Matches(doc, filter) {
			result = append(result, doc)
		}
	}

	return result, nil
}

func (m *Memory) Delete(ctx context.Context, collection, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	delete(m.collections[collection], key)
	m.mu.Unlock()

	return nil
}

func (m *Memory) Close() error {
	return nil
}
