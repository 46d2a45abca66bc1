package simpleasset

import (
	"strconv"
	"time"
)

// FileID is an opaque handle to a file record. Handles are allocated
// monotonically per repository starting at 0 and are never reused, so a
// removed file's identifier stays retired forever. Callers must not
// construct or arithmetically manipulate ids; they only pass them back in.
type FileID uint64

// AssetID is an opaque handle to an asset record. The asset counter is
// independent of the file counter.
type AssetID uint64

// Extension is the domain type for file extensions the catalog understands.
// It is a closed set: adding a type is a deliberate code change, not
// configuration.
type Extension string

// Known extension constants (typed).
const (
	ExtensionPNG Extension = "png"
)

// knownExtensions is the single source of truth for the allow-list.
var knownExtensions = map[Extension]bool{
	ExtensionPNG: true,
}

// Tag is a system-assigned metadata flag on a file record, distinct from the
// user-supplied title.
type Tag string

// System tag constants (typed).
const (
	TagHasTransparency Tag = "has_transparency"
)

// File represents a file physically held in managed storage.
//
// ObjectKey is derived from the identifier and extension only; the title
// never influences the on-disk name, so titles can be arbitrary text without
// ever touching a filesystem path. StorageBackendName records which blob
// store holds the bytes, so retrieval routes to the backend the import
// actually wrote to.
type File struct {
	ID                 FileID    `json:"id"`
	Title              string    `json:"title"`
	Extension          Extension `json:"extension"`
	Tags               []Tag     `json:"tags,omitempty"`
	ObjectKey          string    `json:"object_key"`
	StorageBackendName string    `json:"storage_backend_name"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// HasTag reports whether the file carries the given system tag.
func (f *File) HasTag(tag Tag) bool {
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag adds a system tag if not already present.
func (f *File) AddTag(tag Tag) {
	if !f.HasTag(tag) {
		f.Tags = append(f.Tags, tag)
	}
}

// Asset represents a titled catalog entry referencing exactly one file.
//
// FileID is stored as a plain identifier value. The repository does not
// enforce referential integrity: removing the referenced file leaves the
// asset's reference dangling silently.
type Asset struct {
	ID        AssetID   `json:"id"`
	Title     string    `json:"title"`
	FileID    FileID    `json:"file_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StorageKey derives the storage-relative object key for a file record. It
// is a pure function of the identifier and extension: two files with
// different titles but the same extension differ only in their numeric stem.
func StorageKey(id FileID, ext Extension) string {
	return strconv.FormatUint(uint64(id), 10) + "." + string(ext)
}
