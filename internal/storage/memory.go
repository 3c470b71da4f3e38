package storage

import (
	"context"
	"sync"
)

type object struct {
	data        []byte
	contentType string
}

// Memory is an in-process object store for development runs without MinIO.
// Objects are lost on restart.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]object
}

// NewMemory creates an empty in-process object store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]object)}
}

// Upload stores a copy of data under key.
func (m *Memory) Upload(_ context.Context, key string, data []byte, contentType string) error {
	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	m.objects[key] = object{data: buf, contentType: contentType}
	m.mu.Unlock()
	return nil
}

// Download returns a copy of the object and its content type.
func (m *Memory) Download(_ context.Context, key string) ([]byte, string, error) {
	m.mu.RLock()
	obj, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return nil, "", ErrObjectNotFound
	}

	buf := make([]byte, len(obj.data))
	copy(buf, obj.data)
	return buf, obj.contentType, nil
}

// Remove deletes the object under key. Missing keys are not an error.
func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}
