package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/config"
)

// MemoryStore keeps objects in process. It backs STORE_DRIVER=memory and
// tests, and produces the same URL shape as S3Store.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	cfg     config.S3Config
}

type memoryObject struct {
	contentType string
	data        []byte
}

// NewMemoryStore creates an empty store. Missing bucket and region fall
// back to local placeholders.
func NewMemoryStore(cfg config.S3Config) *MemoryStore {
	if cfg.Bucket == "" {
		cfg.Bucket = "goat-local"
	}
	if cfg.Region == "" {
		cfg.Region = "local"
	}
	return &MemoryStore{objects: make(map[string]memoryObject), cfg: cfg}
}

// Config returns the effective bucket settings
func (m *MemoryStore) Config() config.S3Config {
	return m.cfg
}

func (m *MemoryStore) Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", fmt.Errorf("read object %s: %w", key, err)
	}

	m.mu.Lock()
	m.objects[key] = memoryObject{contentType: contentType, data: buf.Bytes()}
	m.mu.Unlock()

	return ObjectURL(m.cfg, key), nil
}

func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.objects[key]; !ok {
		return fmt.Errorf("object %s not found", key)
	}
	delete(m.objects, key)
	return nil
}

// PresignGet has nothing to sign, it returns the object URL with an expiry hint
func (m *MemoryStore) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	_, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("object %s not found", key)
	}
	return fmt.Sprintf("%s?expires=%d", ObjectURL(m.cfg, key), int(ttl.Seconds())), nil
}

// Has reports whether key is stored
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}
