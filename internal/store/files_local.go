package store

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalFileStore implements FileStore over a directory tree, one
// subdirectory per rarity tier. File IDs are root-relative paths.
type LocalFileStore struct {
	root string
}

// NewLocalFileStore creates a file store rooted at the given directory.
func NewLocalFileStore(root string) (*LocalFileStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve file store root: %w", err)
	}
	log.Printf("[LocalFileStore] Initialized with root: %s", abs)
	return &LocalFileStore{root: abs}, nil
}

// ListFiles returns the image files in a folder.
func (s *LocalFileStore) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	dir, err := s.resolve(folderID)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
	}

	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		mimeType := mime.TypeByExtension(filepath.Ext(e.Name()))
		if !strings.HasPrefix(mimeType, "image/") {
			continue
		}
		files = append(files, File{
			ID:       path.Join(folderID, e.Name()),
			Name:     e.Name(),
			MimeType: mimeType,
		})
	}
	return files, nil
}

// GetBytes retrieves a file's content and MIME type by ID.
func (s *LocalFileStore) GetBytes(ctx context.Context, fileID string) ([]byte, string, error) {
	p, err := s.resolve(fileID)
	if err != nil {
		return nil, "", err
	}

	data, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return nil, "", ErrFileNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, mime.TypeByExtension(filepath.Ext(p)), nil
}

// resolve maps an ID to an absolute path, rejecting escapes from the root.
func (s *LocalFileStore) resolve(id string) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(id))
	if p != s.root && !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid file id %q", id)
	}
	return p, nil
}

var _ FileStore = (*LocalFileStore)(nil)
