package assets

import (
	"context"
	"fmt"
	"sync"
)

// Store saves and removes binary assets (organization logos and stamps) on an
// external CDN. Implementations must not be relied on for transactional
// guarantees: callers update database state only after a successful Upload.
type Store interface {
	// Upload stores the image bytes under folder/publicID and returns the
	// public URL of the stored asset.
	Upload(ctx context.Context, content []byte, folder, publicID string) (string, error)
	// Delete removes the asset identified by publicID. Returns true when the
	// asset existed and was removed.
	Delete(ctx context.Context, publicID string) (bool, error)
}

// Memory is an in-process Store used in tests and local development.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemory returns an empty in-memory asset store.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) Upload(_ context.Context, content []byte, folder, publicID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := folder + "/" + publicID
	m.files[key] = content
	return fmt.Sprintf("memory://%s", key), nil
}

func (m *Memory) Delete(_ context.Context, publicID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.files {
		if key == publicID || hasBase(key, publicID) {
			delete(m.files, key)
			return true, nil
		}
	}
	return false, nil
}

func hasBase(key, publicID string) bool {
	return len(key) > len(publicID) && key[len(key)-len(publicID)-1:] == "/"+publicID
}
