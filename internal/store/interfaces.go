package store

import "context"

// Table names the service works with.
const (
	TableInventory = "inventory"
	TableDailyDraw = "daily_draws"
	TableSacrifice = "sacrifice_draws"
	TableExchange  = "exchange"
)

// TabularStore is the spreadsheet-like row store holding all durable state.
// Rows are ordered sequences of string cells; row order is the only ordering
// guarantee and indexes are 0-based positions, not stable IDs.
type TabularStore interface {
	// ListRows returns every row of the table in order.
	ListRows(ctx context.Context, table string) ([][]string, error)

	// AppendRow adds a row after the current last row.
	AppendRow(ctx context.Context, table string, cells []string) error

	// UpdateRow replaces the row at the given position.
	UpdateRow(ctx context.Context, table string, index int, cells []string) error

	// DeleteRow removes the row at the given position; later rows shift up.
	DeleteRow(ctx context.Context, table string, index int) error

	// Close closes the store connection.
	Close() error
}

// File describes one image file backing a card.
type File struct {
	ID       string
	Name     string
	MimeType string
}

// FileStore is the folder-based image store.
type FileStore interface {
	// ListFiles returns the image files in a folder.
	ListFiles(ctx context.Context, folderID string) ([]File, error)

	// GetBytes retrieves a file's content and MIME type by ID.
	GetBytes(ctx context.Context, fileID string) ([]byte, string, error)
}

// StoreError is a sentinel error type for store failures.
type StoreError string

func (e StoreError) Error() string { return string(e) }

const (
	// ErrRowOutOfRange indicates an update or delete addressed a missing row.
	ErrRowOutOfRange StoreError = "row index out of range"

	// ErrFileNotFound indicates the requested file does not exist.
	ErrFileNotFound StoreError = "file not found"
)
