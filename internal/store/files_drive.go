package store

import (
	"context"
	"fmt"
	"io"
	"log"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveFileStore implements FileStore on Google Drive, one folder per
// rarity tier. Requires read access for the service account.
type DriveFileStore struct {
	svc *drive.Service
}

// NewDriveFileStore connects with a service-account credential.
func NewDriveFileStore(ctx context.Context, serviceAccountJSON string) (*DriveFileStore, error) {
	svc, err := drive.NewService(ctx,
		option.WithCredentialsJSON([]byte(serviceAccountJSON)),
		option.WithScopes(drive.DriveReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive client: %w", err)
	}

	log.Printf("[DriveFileStore] Initialized")
	return &DriveFileStore{svc: svc}, nil
}

// ListFiles returns the image files in a Drive folder.
func (s *DriveFileStore) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	q := fmt.Sprintf("'%s' in parents and mimeType contains 'image/' and trashed = false", folderID)

	var files []File
	pageToken := ""
	for {
		call := s.svc.Files.List().
			Q(q).
			Fields("nextPageToken, files(id, name, mimeType)").
			PageSize(1000).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list folder %s: %w", folderID, err)
		}
		for _, f := range resp.Files {
			files = append(files, File{ID: f.Id, Name: f.Name, MimeType: f.MimeType})
		}
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return files, nil
}

// GetBytes retrieves a file's content and MIME type by ID.
func (s *DriveFileStore) GetBytes(ctx context.Context, fileID string) ([]byte, string, error) {
	resp, err := s.svc.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file %s: %w", fileID, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}

var _ FileStore = (*DriveFileStore)(nil)
