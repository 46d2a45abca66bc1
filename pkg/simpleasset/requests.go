package simpleasset

// Request DTOs

// ImportFileRequest contains parameters for importing a file from disk.
//
// StorageBackendName selects a registered blob store; when empty the
// service's default backend is used.
type ImportFileRequest struct {
	Title              string
	SourcePath         string
	StorageBackendName string
}

// ImportAssetRequest contains parameters for importing a file from disk and
// creating an asset referencing it.
type ImportAssetRequest struct {
	Title              string
	SourcePath         string
	StorageBackendName string
}
