package simpleasset

import (
	"context"
	"io"
	"time"
)

// BlobStore defines the interface for storage backends holding the actual
// file bytes. Object keys are the storage-relative names produced by
// StorageKey; backends must treat them as opaque.
type BlobStore interface {
	// Upload writes the reader's bytes under the given object key
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// Download opens the object for reading
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete removes the object
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// Repository defines the interface for file and asset record persistence.
//
// The file and asset stores are two independent identifier-keyed mappings
// with independent monotonic counters. CreateAsset stores the given FileID
// unconditionally; validating that the file exists is the import
// coordinator's job (it creates the file record first). Removing a file
// leaves any asset referencing it dangling, which is intentional.
type Repository interface {
	// File operations
	CreateFile(ctx context.Context, title string, ext Extension, backendName string) (*File, error)
	GetFile(ctx context.Context, id FileID) (*File, error)
	UpdateFile(ctx context.Context, file *File) error
	RemoveFile(ctx context.Context, id FileID) (*File, error)
	CountFiles(ctx context.Context) (int, error)
	ListFiles(ctx context.Context) ([]*File, error)

	// Asset operations
	CreateAsset(ctx context.Context, title string, fileID FileID) (*Asset, error)
	GetAsset(ctx context.Context, id AssetID) (*Asset, error)
	CountAssets(ctx context.Context) (int, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
}

// EventSink defines the interface for lifecycle event handling. Sink errors
// are reported to the sink's own infrastructure, never to the caller; a
// failing sink must not fail the operation that fired it.
type EventSink interface {
	// FileImported is fired after a file's bytes have landed in storage
	FileImported(ctx context.Context, file *File) error

	// FileRemoved is fired when a file record is removed (compensating rollback)
	FileRemoved(ctx context.Context, fileID FileID) error

	// AssetCreated is fired when an asset record is created
	AssetCreated(ctx context.Context, asset *Asset) error

	// ImportFailed is fired when an import is abandoned after rollback
	ImportFailed(ctx context.Context, sourcePath string, err error) error
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
	Metadata    map[string]string
}
