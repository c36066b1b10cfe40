package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
)

// Memory keeps blobs in process. Used in dev when no Cloudinary account is
// configured, and in tests.
type Memory struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string][]byte
}

var _ Store = (*Memory)(nil)

// NewMemory creates an in-memory store whose URLs start with baseURL.
func NewMemory(baseURL string) *Memory {
	return &Memory{baseURL: baseURL, objects: make(map[string][]byte)}
}

// Upload reads r fully and returns a unique URL for it.
func (m *Memory) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("read blob: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", m.baseURL, uuid.NewString(), name)
	m.mu.Lock()
	m.objects[url] = buf.Bytes()
	m.mu.Unlock()
	return url, nil
}

// Delete drops the blob stored under url.
func (m *Memory) Delete(ctx context.Context, url string) error {
	m.mu.Lock()
	delete(m.objects, url)
	m.mu.Unlock()
	return nil
}

// Get returns the content stored under url.
func (m *Memory) Get(url string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[url]
	return data, ok
}

// Len reports how many blobs are stored.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
