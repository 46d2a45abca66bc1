package memory

import (
	"context"
	"sync"
	"time"

	"github.com/tendant/simple-asset/pkg/simpleasset"
)

// Repository implements simpleasset.Repository using in-memory storage.
//
// Files and assets live in two independent maps with independent monotonic
// counters, both starting at 0. Identifiers are never reused: the counter
// only moves forward, so an id retired by RemoveFile stays retired. One
// mutex guards the whole store pair; the import coordinator relies on no
// other writer observing the file store between allocation and
// rollback-or-commit.
type Repository struct {
	mu          sync.RWMutex
	files       map[simpleasset.FileID]*simpleasset.File
	assets      map[simpleasset.AssetID]*simpleasset.Asset
	nextFileID  simpleasset.FileID
	nextAssetID simpleasset.AssetID
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		files:  make(map[simpleasset.FileID]*simpleasset.File),
		assets: make(map[simpleasset.AssetID]*simpleasset.Asset),
	}
}

// File operations

// CreateFile allocates the next file identifier and inserts a record with an
// empty tag set. The object key is derived from the identifier and extension
// only; backendName records which blob store will hold the bytes. This is
// pure in-memory allocation: no I/O happens here and the call never fails.
func (r *Repository) CreateFile(ctx context.Context, title string, ext simpleasset.Extension, backendName string) (*simpleasset.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	id := r.nextFileID
	file := &simpleasset.File{
		ID:                 id,
		Title:              title,
		Extension:          ext,
		ObjectKey:          simpleasset.StorageKey(id, ext),
		StorageBackendName: backendName,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	r.files[id] = file
	r.nextFileID++

	// Return a copy to prevent external modifications
	fileCopy := *file
	return &fileCopy, nil
}

func (r *Repository) GetFile(ctx context.Context, id simpleasset.FileID) (*simpleasset.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	file, exists := r.files[id]
	if !exists {
		return nil, simpleasset.ErrFileNotFound
	}

	// Return a copy to prevent external modifications
	fileCopy := *file
	fileCopy.Tags = append([]simpleasset.Tag(nil), file.Tags...)
	return &fileCopy, nil
}

func (r *Repository) UpdateFile(ctx context.Context, file *simpleasset.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.files[file.ID]
	if !exists {
		return simpleasset.ErrFileNotFound
	}

	// Only metadata is mutable. Identifier, extension, object key and
	// backend are fixed at creation; the stored values win over whatever
	// the caller set.
	fileCopy := *file
	fileCopy.Extension = stored.Extension
	fileCopy.ObjectKey = stored.ObjectKey
	fileCopy.StorageBackendName = stored.StorageBackendName
	fileCopy.CreatedAt = stored.CreatedAt
	fileCopy.UpdatedAt = time.Now().UTC()
	fileCopy.Tags = append([]simpleasset.Tag(nil), file.Tags...)

	r.files[file.ID] = &fileCopy

	return nil
}

// RemoveFile deletes and returns the record if present. This is the
// compensating action used by the import coordinator when a copy fails; the
// identifier is not recycled.
func (r *Repository) RemoveFile(ctx context.Context, id simpleasset.FileID) (*simpleasset.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	file, exists := r.files[id]
	if !exists {
		return nil, simpleasset.ErrFileNotFound
	}

	delete(r.files, id)

	fileCopy := *file
	return &fileCopy, nil
}

func (r *Repository) CountFiles(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.files), nil
}

// ListFiles returns all live file records. Map iteration order is not
// meaningful; callers must not depend on it.
func (r *Repository) ListFiles(ctx context.Context) ([]*simpleasset.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simpleasset.File, 0, len(r.files))
	for _, file := range r.files {
		fileCopy := *file
		fileCopy.Tags = append([]simpleasset.Tag(nil), file.Tags...)
		result = append(result, &fileCopy)
	}

	return result, nil
}

// Asset operations

// CreateAsset allocates the next asset identifier and stores the record
// unconditionally. It does not validate that fileID names a live file
// record; the import coordinator guarantees that by construction, and a
// later file removal leaves the reference dangling silently.
func (r *Repository) CreateAsset(ctx context.Context, title string, fileID simpleasset.FileID) (*simpleasset.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextAssetID
	asset := &simpleasset.Asset{
		ID:        id,
		Title:     title,
		FileID:    fileID,
		CreatedAt: time.Now().UTC(),
	}

	r.assets[id] = asset
	r.nextAssetID++

	// Return a copy to prevent external modifications
	assetCopy := *asset
	return &assetCopy, nil
}

func (r *Repository) GetAsset(ctx context.Context, id simpleasset.AssetID) (*simpleasset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	asset, exists := r.assets[id]
	if !exists {
		return nil, simpleasset.ErrAssetNotFound
	}

	assetCopy := *asset
	return &assetCopy, nil
}

func (r *Repository) CountAssets(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.assets), nil
}

func (r *Repository) ListAssets(ctx context.Context) ([]*simpleasset.Asset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simpleasset.Asset, 0, len(r.assets))
	for _, asset := range r.assets {
		assetCopy := *asset
		result = append(result, &assetCopy)
	}

	return result, nil
}
