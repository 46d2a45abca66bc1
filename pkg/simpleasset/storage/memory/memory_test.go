package memory

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestMemoryBackend_BasicOps(t *testing.T) {
	backend := New()
	ctx := context.Background()
	key := "0.png"

	data := []byte("pixels")
	if err := backend.Upload(ctx, key, bytes.NewReader(data)); err != nil {
		t.Fatalf("upload: %v", err)
	}

	meta, err := backend.GetObjectMeta(ctx, key)
	if err != nil {
		t.Fatalf("get meta: %v", err)
	}
	if meta.Size != int64(len(data)) {
		t.Fatalf("expected size %d, got %d", len(data), meta.Size)
	}

	rc, err := backend.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if !bytes.Equal(got, data) {
		t.Fatalf("download mismatch: %q", string(got))
	}

	if err := backend.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := backend.Download(ctx, key); err == nil {
		t.Fatalf("expected error downloading deleted object")
	}
}

func TestMemoryBackend_MissingObject(t *testing.T) {
	backend := New()
	ctx := context.Background()

	if _, err := backend.Download(ctx, "9.png"); err == nil {
		t.Fatalf("expected error downloading missing object")
	}
	if err := backend.Delete(ctx, "9.png"); err == nil {
		t.Fatalf("expected error deleting missing object")
	}
	if _, err := backend.GetObjectMeta(ctx, "9.png"); err == nil {
		t.Fatalf("expected error stating missing object")
	}
}

func TestMemoryBackend_UploadOverwrites(t *testing.T) {
	backend := New()
	ctx := context.Background()
	key := "3.png"

	if err := backend.Upload(ctx, key, bytes.NewReader([]byte("first"))); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if err := backend.Upload(ctx, key, bytes.NewReader([]byte("second"))); err != nil {
		t.Fatalf("upload: %v", err)
	}

	rc, err := backend.Download(ctx, key)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	got, _ := io.ReadAll(rc)
	_ = rc.Close()
	if string(got) != "second" {
		t.Fatalf("expected overwrite, got %q", string(got))
	}
}
