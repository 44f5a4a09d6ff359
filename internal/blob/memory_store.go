package blob

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is the in-process Store used in tests and when no object
// storage is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) key(jobID, name string) string { return jobID + "/" + name }

func (m *MemoryStore) Put(_ context.Context, jobID, name string, content []byte) error {
	if strings.TrimSpace(jobID) == "" || strings.TrimSpace(name) == "" {
		return fmt.Errorf("blob: job id and name are required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	buf := make([]byte, len(content))
	copy(buf, content)
	m.data[m.key(jobID, name)] = buf
	return nil
}

func (m *MemoryStore) Get(_ context.Context, jobID, name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[m.key(jobID, name)]
	if !ok {
		return nil, fmt.Errorf("blob: %s/%s not found", jobID, name)
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

func (m *MemoryStore) List(_ context.Context, jobID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	prefix := jobID + "/"
	var names []string
	for k := range m.data {
		if strings.HasPrefix(k, prefix) {
			names = append(names, strings.TrimPrefix(k, prefix))
		}
	}
	sort.Strings(names)
	return names, nil
}
