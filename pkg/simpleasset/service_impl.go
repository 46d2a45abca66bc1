package simpleasset

import (
	"context"
	"fmt"
	"io"
	"os"
)

// service implements the Service interface
type service struct {
	repository     Repository
	blobStores     map[string]BlobStore
	defaultBackend string
	eventSink      EventSink
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore adds a blob storage backend. The first registered backend
// becomes the default unless WithDefaultBackend overrides it.
func WithBlobStore(name string, store BlobStore) Option {
	return func(s *service) {
		if s.blobStores == nil {
			s.blobStores = make(map[string]BlobStore)
		}
		s.blobStores[name] = store
		if s.defaultBackend == "" {
			s.defaultBackend = name
		}
	}
}

// WithDefaultBackend selects which registered backend imports use when the
// request does not name one.
func WithDefaultBackend(name string) Option {
	return func(s *service) {
		s.defaultBackend = name
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		blobStores: make(map[string]BlobStore),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}

	return s, nil
}

// Import operations

// ImportFile copies the bytes at req.SourcePath into managed storage and
// records them in the file store.
//
// The operation is a three-phase allocate/attempt/compensate sequence: the
// file record is allocated first, the copy is attempted under the record's
// derived object key, and on copy failure the record is removed again before
// the error surfaces. A failed import therefore leaves the repository exactly
// as it was, apart from the skipped identifier; holes in the id sequence are
// expected and harmless.
func (s *service) ImportFile(ctx context.Context, req ImportFileRequest) (*File, error) {
	ext, ok := ExtensionFromPath(req.SourcePath)
	if !ok {
		return nil, fmt.Errorf("%q: %w", req.SourcePath, ErrUnsupportedExtension)
	}

	backendName, backend, err := s.resolveBackend(req.StorageBackendName)
	if err != nil {
		return nil, err
	}

	file, err := s.repository.CreateFile(ctx, req.Title, ext, backendName)
	if err != nil {
		return nil, fmt.Errorf("failed to create file record: %w", err)
	}

	if err := s.copyFromDisk(ctx, backend, file.ObjectKey, req.SourcePath); err != nil {
		// The bytes are not actually in managed storage. Remove the record
		// so no orphaned reference survives the failed copy.
		if _, rbErr := s.repository.RemoveFile(ctx, file.ID); rbErr == nil {
			s.eventSink.FileRemoved(ctx, file.ID)
		}
		s.eventSink.ImportFailed(ctx, req.SourcePath, err)
		return nil, &FileError{
			FileID: file.ID,
			Op:     "import",
			Err:    fmt.Errorf("%w: %w", ErrCopyFailed, err),
		}
	}

	s.eventSink.FileImported(ctx, file)

	return file, nil
}

// ImportAsset imports the file at req.SourcePath and creates an asset
// referencing it. The asset record is created only after the copy has
// succeeded, so an asset's file reference always named a live file record at
// creation time.
func (s *service) ImportAsset(ctx context.Context, req ImportAssetRequest) (*Asset, error) {
	file, err := s.ImportFile(ctx, ImportFileRequest{
		Title:              req.Title,
		SourcePath:         req.SourcePath,
		StorageBackendName: req.StorageBackendName,
	})
	if err != nil {
		return nil, err
	}

	asset, err := s.repository.CreateAsset(ctx, req.Title, file.ID)
	if err != nil {
		return nil, &AssetError{Op: "create", Err: err}
	}

	s.eventSink.AssetCreated(ctx, asset)

	return asset, nil
}

// copyFromDisk streams the source file into the backend under objectKey.
func (s *service) copyFromDisk(ctx context.Context, backend BlobStore, objectKey, sourcePath string) error {
	src, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", sourcePath, err)
	}
	defer src.Close()

	if err := backend.Upload(ctx, objectKey, src); err != nil {
		return fmt.Errorf("failed to store %q: %w", objectKey, err)
	}

	return nil
}

// resolveBackend maps an optional backend name to the canonical name and the
// registered store; an empty name selects the default backend.
func (s *service) resolveBackend(name string) (string, BlobStore, error) {
	if name == "" {
		name = s.defaultBackend
	}
	backend, err := s.GetBackend(name)
	return name, backend, err
}

// File operations

func (s *service) GetFile(ctx context.Context, id FileID) (*File, error) {
	return s.repository.GetFile(ctx, id)
}

func (s *service) ListFiles(ctx context.Context) ([]*File, error) {
	return s.repository.ListFiles(ctx)
}

func (s *service) CountFiles(ctx context.Context) (int, error) {
	return s.repository.CountFiles(ctx)
}

// TagFile adds system tags to a file record. Tags are metadata only; they
// never change the derived object key.
func (s *service) TagFile(ctx context.Context, id FileID, tags ...Tag) (*File, error) {
	file, err := s.repository.GetFile(ctx, id)
	if err != nil {
		return nil, err
	}

	for _, tag := range tags {
		file.AddTag(tag)
	}

	if err := s.repository.UpdateFile(ctx, file); err != nil {
		return nil, &FileError{FileID: id, Op: "tag", Err: err}
	}

	return file, nil
}

// DownloadFile opens the file's bytes from the backend the import wrote to,
// and returns the record alongside the reader so callers need no second
// lookup.
func (s *service) DownloadFile(ctx context.Context, id FileID) (io.ReadCloser, *File, error) {
	file, err := s.repository.GetFile(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	backendName, backend, err := s.resolveBackend(file.StorageBackendName)
	if err != nil {
		return nil, nil, err
	}

	rc, err := backend.Download(ctx, file.ObjectKey)
	if err != nil {
		return nil, nil, &StorageError{
			Backend: backendName,
			Key:     file.ObjectKey,
			Op:      "download",
			Err:     err,
		}
	}

	return rc, file, nil
}

// Asset operations

func (s *service) GetAsset(ctx context.Context, id AssetID) (*Asset, error) {
	return s.repository.GetAsset(ctx, id)
}

func (s *service) ListAssets(ctx context.Context) ([]*Asset, error) {
	return s.repository.ListAssets(ctx)
}

func (s *service) CountAssets(ctx context.Context) (int, error) {
	return s.repository.CountAssets(ctx)
}

// Storage backend operations

func (s *service) RegisterBackend(name string, backend BlobStore) {
	s.blobStores[name] = backend
	if s.defaultBackend == "" {
		s.defaultBackend = name
	}
}

func (s *service) GetBackend(name string) (BlobStore, error) {
	backend, ok := s.blobStores[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrStorageBackendNotFound)
	}
	return backend, nil
}
