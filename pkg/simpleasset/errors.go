package simpleasset

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrFileNotFound indicates a file record was not found. A lookup miss
	// is a normal empty outcome, not a failure of the catalog.
	ErrFileNotFound = errors.New("file not found")

	// ErrAssetNotFound indicates an asset record was not found
	ErrAssetNotFound = errors.New("asset not found")

	// ErrStorageBackendNotFound indicates a storage backend was not found
	ErrStorageBackendNotFound = errors.New("storage backend not found")

	// ErrUnsupportedExtension indicates a source path's extension is absent
	// or not in the allow-list. Detected before any mutation.
	ErrUnsupportedExtension = errors.New("unsupported file extension")

	// ErrCopyFailed indicates the byte copy into managed storage failed. The
	// provisionally allocated file record is removed before this surfaces.
	ErrCopyFailed = errors.New("copy to managed storage failed")
)

// FileError represents an error related to file operations
type FileError struct {
	FileID FileID
	Op     string
	Err    error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("file operation %s failed for file %d: %v", e.Op, e.FileID, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// AssetError represents an error related to asset operations
type AssetError struct {
	AssetID AssetID
	Op      string
	Err     error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("asset operation %s failed for asset %d: %v", e.Op, e.AssetID, e.Err)
}

func (e *AssetError) Unwrap() error {
	return e.Err
}

// StorageError represents an error related to storage operations
type StorageError struct {
	Backend string
	Key     string
	Op      string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage operation %s failed for key %s on backend %s: %v", e.Op, e.Key, e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
