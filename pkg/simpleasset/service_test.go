package simpleasset_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tendant/simple-asset/pkg/simpleasset"
	"github.com/tendant/simple-asset/pkg/simpleasset/repo/memory"
	fsstorage "github.com/tendant/simple-asset/pkg/simpleasset/storage/fs"
	memorystorage "github.com/tendant/simple-asset/pkg/simpleasset/storage/memory"
)

func TestServiceCreation(t *testing.T) {
	tests := []struct {
		name        string
		options     []simpleasset.Option
		expectError bool
	}{
		{
			name:        "no options should fail",
			options:     []simpleasset.Option{},
			expectError: true,
		},
		{
			name: "with repository should succeed",
			options: []simpleasset.Option{
				simpleasset.WithRepository(memory.New()),
			},
			expectError: false,
		},
		{
			name: "with repository and blob store should succeed",
			options: []simpleasset.Option{
				simpleasset.WithRepository(memory.New()),
				simpleasset.WithBlobStore("memory", memorystorage.New()),
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := simpleasset.New(tt.options...)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, svc)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, svc)
			}
		})
	}
}

func setupTestService(t *testing.T) simpleasset.Service {
	t.Helper()

	svc, err := simpleasset.New(
		simpleasset.WithRepository(memory.New()),
		simpleasset.WithBlobStore("memory", memorystorage.New()),
		simpleasset.WithEventSink(simpleasset.NewNoopEventSink()),
	)
	require.NoError(t, err)
	require.NotNil(t, svc)

	return svc
}

// writeSourcePNG drops a small file with a .png name into a temp dir and
// returns its path.
func writeSourcePNG(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestImportFile(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("SuccessfulImport", func(t *testing.T) {
		source := writeSourcePNG(t, "source.png", []byte("png bytes"))

		file, err := svc.ImportFile(ctx, simpleasset.ImportFileRequest{
			Title:      "My Title",
			SourcePath: source,
		})
		require.NoError(t, err)
		require.NotNil(t, file)

		assert.Equal(t, "My Title", file.Title)
		assert.Equal(t, simpleasset.ExtensionPNG, file.Extension)
		assert.Equal(t, "0.png", file.ObjectKey)
		assert.Empty(t, file.Tags)

		// Round-trip through the repository.
		got, err := svc.GetFile(ctx, file.ID)
		require.NoError(t, err)
		assert.Equal(t, file.Title, got.Title)
		assert.Equal(t, file.Extension, got.Extension)

		// The bytes landed in the blob store.
		rc, downloaded, err := svc.DownloadFile(ctx, file.ID)
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, []byte("png bytes"), data)
		assert.Equal(t, file.ObjectKey, downloaded.ObjectKey)
	})

	t.Run("UnsupportedExtension", func(t *testing.T) {
		before, err := svc.CountFiles(ctx)
		require.NoError(t, err)

		_, err = svc.ImportFile(ctx, simpleasset.ImportFileRequest{
			Title:      "A Document",
			SourcePath: "document.pdf",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleasset.ErrUnsupportedExtension)

		after, err := svc.CountFiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after, "no state mutation on unsupported extension")
	})

	t.Run("RollbackOnMissingSource", func(t *testing.T) {
		before, err := svc.CountFiles(ctx)
		require.NoError(t, err)

		_, err = svc.ImportFile(ctx, simpleasset.ImportFileRequest{
			Title:      "Ghost",
			SourcePath: filepath.Join(t.TempDir(), "does-not-exist.png"),
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleasset.ErrCopyFailed)

		var fileErr *simpleasset.FileError
		require.ErrorAs(t, err, &fileErr)
		assert.Equal(t, "import", fileErr.Op)

		after, err := svc.CountFiles(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after, "failed copy must remove the provisional record")

		// The allocated id is skipped, never reused: the record must be gone.
		_, err = svc.GetFile(ctx, fileErr.FileID)
		assert.ErrorIs(t, err, simpleasset.ErrFileNotFound)
	})

	t.Run("IdentifierHoleAfterFailedImport", func(t *testing.T) {
		source := writeSourcePNG(t, "next.png", []byte("more bytes"))

		file, err := svc.ImportFile(ctx, simpleasset.ImportFileRequest{
			Title:      "After Failure",
			SourcePath: source,
		})
		require.NoError(t, err)

		// Id 1 was burned by the rollback test above.
		assert.Equal(t, simpleasset.FileID(2), file.ID)
		assert.Equal(t, "2.png", file.ObjectKey)
	})

	t.Run("UnknownBackend", func(t *testing.T) {
		source := writeSourcePNG(t, "backend.png", []byte("x"))

		_, err := svc.ImportFile(ctx, simpleasset.ImportFileRequest{
			Title:              "Nope",
			SourcePath:         source,
			StorageBackendName: "does-not-exist",
		})
		assert.ErrorIs(t, err, simpleasset.ErrStorageBackendNotFound)
	})
}

func TestImportIntoNamedBackend(t *testing.T) {
	ctx := context.Background()

	primary := memorystorage.New()
	secondary := memorystorage.New()
	svc, err := simpleasset.New(
		simpleasset.WithRepository(memory.New()),
		simpleasset.WithBlobStore("primary", primary),
		simpleasset.WithBlobStore("secondary", secondary),
	)
	require.NoError(t, err)

	content := []byte("bytes in the secondary store")
	source := writeSourcePNG(t, "routed.png", content)

	file, err := svc.ImportFile(ctx, simpleasset.ImportFileRequest{
		Title:              "Routed",
		SourcePath:         source,
		StorageBackendName: "secondary",
	})
	require.NoError(t, err)
	assert.Equal(t, "secondary", file.StorageBackendName)

	// The bytes live only in the named backend.
	_, err = primary.Download(ctx, file.ObjectKey)
	require.Error(t, err)

	// Download must route to the backend the import wrote to, not the
	// default.
	rc, got, err := svc.DownloadFile(ctx, file.ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, "secondary", got.StorageBackendName)
}

func TestImportAsset(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("SuccessfulImportCreatesAssetAndFile", func(t *testing.T) {
		source := writeSourcePNG(t, "sword.png", []byte("sword sprite"))

		asset, err := svc.ImportAsset(ctx, simpleasset.ImportAssetRequest{
			Title:      "Tall Sword",
			SourcePath: source,
		})
		require.NoError(t, err)
		require.NotNil(t, asset)

		assert.Equal(t, "Tall Sword", asset.Title)

		file, err := svc.GetFile(ctx, asset.FileID)
		require.NoError(t, err)
		assert.Equal(t, "Tall Sword", file.Title)

		fileCount, err := svc.CountFiles(ctx)
		require.NoError(t, err)
		assetCount, err := svc.CountAssets(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, fileCount)
		assert.Equal(t, 1, assetCount)
	})

	t.Run("NoAssetOnFailedCopy", func(t *testing.T) {
		before, err := svc.CountAssets(ctx)
		require.NoError(t, err)

		_, err = svc.ImportAsset(ctx, simpleasset.ImportAssetRequest{
			Title:      "Ghost",
			SourcePath: "/nonexistent/ghost.png",
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, simpleasset.ErrCopyFailed)

		after, err := svc.CountAssets(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("MixedExtensions", func(t *testing.T) {
		dir := t.TempDir()
		pngPath := filepath.Join(dir, "ok.png")
		pdfPath := filepath.Join(dir, "nope.pdf")
		require.NoError(t, os.WriteFile(pngPath, []byte("a"), 0644))
		require.NoError(t, os.WriteFile(pdfPath, []byte("b"), 0644))

		before, err := svc.CountAssets(ctx)
		require.NoError(t, err)

		_, err = svc.ImportAsset(ctx, simpleasset.ImportAssetRequest{Title: "ok", SourcePath: pngPath})
		require.NoError(t, err)

		_, err = svc.ImportAsset(ctx, simpleasset.ImportAssetRequest{Title: "nope", SourcePath: pdfPath})
		assert.ErrorIs(t, err, simpleasset.ErrUnsupportedExtension)

		after, err := svc.CountAssets(ctx)
		require.NoError(t, err)
		assert.Equal(t, before+1, after)
	})
}

func TestTagFile(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	source := writeSourcePNG(t, "sprite.png", []byte("sprite"))

	file, err := svc.ImportFile(ctx, simpleasset.ImportFileRequest{
		Title:      "Sprite",
		SourcePath: source,
	})
	require.NoError(t, err)

	tagged, err := svc.TagFile(ctx, file.ID, simpleasset.TagHasTransparency)
	require.NoError(t, err)
	assert.True(t, tagged.HasTag(simpleasset.TagHasTransparency))

	// Tagging twice stays idempotent.
	tagged, err = svc.TagFile(ctx, file.ID, simpleasset.TagHasTransparency)
	require.NoError(t, err)
	assert.Len(t, tagged.Tags, 1)

	// Tags never change the derived object key.
	assert.Equal(t, file.ObjectKey, tagged.ObjectKey)

	_, err = svc.TagFile(ctx, simpleasset.FileID(999), simpleasset.TagHasTransparency)
	assert.ErrorIs(t, err, simpleasset.ErrFileNotFound)
}

func TestEndToEndWithFilesystemBackend(t *testing.T) {
	ctx := context.Background()

	managedDir := filepath.Join(t.TempDir(), "files")
	backend, err := fsstorage.New(fsstorage.Config{BaseDir: managedDir})
	require.NoError(t, err)

	svc, err := simpleasset.New(
		simpleasset.WithRepository(memory.New()),
		simpleasset.WithBlobStore("fs", backend),
	)
	require.NoError(t, err)

	content := []byte("not really a png, but bytes are bytes")
	source := writeSourcePNG(t, "source.png", content)

	asset, err := svc.ImportAsset(ctx, simpleasset.ImportAssetRequest{
		Title:      "My Title",
		SourcePath: source,
	})
	require.NoError(t, err)

	got, err := svc.GetAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, "My Title", got.Title)

	// First import lands as 0.png in the managed directory, byte-identical
	// to the source.
	stored, err := os.ReadFile(filepath.Join(managedDir, "0.png"))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestAuditEventSink(t *testing.T) {
	ctx := context.Background()
	sink := simpleasset.NewAuditEventSink(nil)

	svc, err := simpleasset.New(
		simpleasset.WithRepository(memory.New()),
		simpleasset.WithBlobStore("memory", memorystorage.New()),
		simpleasset.WithEventSink(sink),
	)
	require.NoError(t, err)

	source := writeSourcePNG(t, "audit.png", []byte("x"))
	_, err = svc.ImportAsset(ctx, simpleasset.ImportAssetRequest{Title: "ok", SourcePath: source})
	require.NoError(t, err)

	_, err = svc.ImportAsset(ctx, simpleasset.ImportAssetRequest{Title: "fail", SourcePath: "/missing.png"})
	require.Error(t, err)

	events := sink.Events()
	require.Len(t, events, 4)

	actions := make([]string, len(events))
	for i, e := range events {
		actions[i] = e.Action
		assert.NotEqual(t, uuid.Nil, e.ID)
		assert.False(t, e.CreatedAt.IsZero())
	}
	assert.Equal(t, []string{"file_imported", "asset_created", "file_removed", "import_failed"}, actions)
}
