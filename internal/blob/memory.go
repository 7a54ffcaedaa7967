package blob

import (
	"context"
	"sync"

	"github.com/jonathan/interview-screener/internal/faults"
)

type object struct {
	contentType string
	data        []byte
}

// Memory is an in-process Store. It is the default backend and the one tests
// run against.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]object
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]object)}
}

// Put stores a copy of data under ref, replacing any prior object.
func (m *Memory) Put(_ context.Context, ref, contentType string, data []byte) error {
	if ref == "" {
		return faults.Validation("ref", "storage reference must not be empty")
	}

	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[ref] = object{contentType: contentType, data: buf}
	return nil
}

// Get returns a copy of the object stored under ref.
func (m *Memory) Get(_ context.Context, ref string) ([]byte, string, error) {
	m.mu.RLock()
	obj, ok := m.objects[ref]
	m.mu.RUnlock()

	if !ok {
		return nil, "", faults.NotFound("audio object", ref)
	}

	buf := make([]byte, len(obj.data))
	copy(buf, obj.data)
	return buf, obj.contentType, nil
}

// Delete removes the object under ref. Deleting a missing ref is not an error.
func (m *Memory) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, ref)
	return nil
}

// Len returns the number of stored objects.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
