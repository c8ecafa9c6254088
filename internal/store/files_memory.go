package store

import (
	"context"
	"sync"
)

// MemoryFileStore is an in-process FileStore for tests and development.
type MemoryFileStore struct {
	mu      sync.RWMutex
	folders map[string][]File
	content map[string][]byte
}

// NewMemoryFileStore creates an empty in-memory file store.
func NewMemoryFileStore() *MemoryFileStore {
	return &MemoryFileStore{
		folders: make(map[string][]File),
		content: make(map[string][]byte),
	}
}

// AddFile registers a file under a folder.
func (s *MemoryFileStore) AddFile(folderID string, f File, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.MimeType == "" {
		f.MimeType = "image/png"
	}
	s.folders[folderID] = append(s.folders[folderID], f)
	s.content[f.ID] = data
}

// ListFiles returns the image files in a folder.
func (s *MemoryFileStore) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]File(nil), s.folders[folderID]...), nil
}

// GetBytes retrieves a file's content and MIME type by ID.
func (s *MemoryFileStore) GetBytes(ctx context.Context, fileID string) ([]byte, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, ok := s.content[fileID]
	if !ok {
		return nil, "", ErrFileNotFound
	}
	for _, files := range s.folders {
		for _, f := range files {
			if f.ID == fileID {
				return data, f.MimeType, nil
			}
		}
	}
	return data, "image/png", nil
}

var _ FileStore = (*MemoryFileStore)(nil)
