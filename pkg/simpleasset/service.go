package simpleasset

import (
	"context"
	"io"
)

// Service defines the main interface for the simple-asset library
type Service interface {
	// Import operations
	ImportFile(ctx context.Context, req ImportFileRequest) (*File, error)
	ImportAsset(ctx context.Context, req ImportAssetRequest) (*Asset, error)

	// File operations
	GetFile(ctx context.Context, id FileID) (*File, error)
	ListFiles(ctx context.Context) ([]*File, error)
	CountFiles(ctx context.Context) (int, error)
	TagFile(ctx context.Context, id FileID, tags ...Tag) (*File, error)
	DownloadFile(ctx context.Context, id FileID) (io.ReadCloser, *File, error)

	// Asset operations
	GetAsset(ctx context.Context, id AssetID) (*Asset, error)
	ListAssets(ctx context.Context) ([]*Asset, error)
	CountAssets(ctx context.Context) (int, error)

	// Storage backend operations
	RegisterBackend(name string, backend BlobStore)
	GetBackend(name string) (BlobStore, error)
}
