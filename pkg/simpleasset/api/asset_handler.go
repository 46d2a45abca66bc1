package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/tendant/simple-asset/pkg/simpleasset"
)

// Handler handles HTTP requests for the asset catalog
type Handler struct {
	service simpleasset.Service
}

// NewHandler creates a new catalog handler
func NewHandler(service simpleasset.Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for the asset catalog
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/files/import", h.ImportFile)
	r.Get("/files", h.ListFiles)
	r.Get("/files/{id}", h.GetFile)
	r.Get("/files/{id}/download", h.DownloadFile)
	r.Post("/files/{id}/tags", h.TagFile)

	r.Post("/assets/import", h.ImportAsset)
	r.Get("/assets", h.ListAssets)
	r.Get("/assets/{id}", h.GetAsset)

	return r
}

// ImportRequest is the request body for importing a file or asset
type ImportRequest struct {
	Title              string `json:"title"`
	SourcePath         string `json:"source_path"`
	StorageBackendName string `json:"storage_backend_name,omitempty"`
}

// TagRequest is the request body for tagging a file
type TagRequest struct {
	Tags []string `json:"tags"`
}

// FileResponse is the response body for a file
type FileResponse struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	Extension      string    `json:"extension"`
	Tags           []string  `json:"tags,omitempty"`
	ObjectKey      string    `json:"object_key"`
	StorageBackend string    `json:"storage_backend"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// AssetResponse is the response body for an asset
type AssetResponse struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	FileID    uint64    `json:"file_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toFileResponse(file *simpleasset.File) FileResponse {
	tags := make([]string, len(file.Tags))
	for i, t := range file.Tags {
		tags[i] = string(t)
	}
	return FileResponse{
		ID:             uint64(file.ID),
		Title:          file.Title,
		Extension:      string(file.Extension),
		Tags:           tags,
		ObjectKey:      file.ObjectKey,
		StorageBackend: file.StorageBackendName,
		CreatedAt:      file.CreatedAt,
		UpdatedAt:      file.UpdatedAt,
	}
}

func toAssetResponse(asset *simpleasset.Asset) AssetResponse {
	return AssetResponse{
		ID:        uint64(asset.ID),
		Title:     asset.Title,
		FileID:    uint64(asset.FileID),
		CreatedAt: asset.CreatedAt,
	}
}

// ImportFile imports a file from disk into managed storage
func (h *Handler) ImportFile(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	file, err := h.service.ImportFile(r.Context(), simpleasset.ImportFileRequest{
		Title:              req.Title,
		SourcePath:         req.SourcePath,
		StorageBackendName: req.StorageBackendName,
	})
	if err != nil {
		h.renderImportError(w, r, req.SourcePath, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toFileResponse(file))
}

// ImportAsset imports a file from disk and creates an asset referencing it
func (h *Handler) ImportAsset(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	asset, err := h.service.ImportAsset(r.Context(), simpleasset.ImportAssetRequest{
		Title:              req.Title,
		SourcePath:         req.SourcePath,
		StorageBackendName: req.StorageBackendName,
	})
	if err != nil {
		h.renderImportError(w, r, req.SourcePath, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toAssetResponse(asset))
}

func (h *Handler) renderImportError(w http.ResponseWriter, r *http.Request, sourcePath string, err error) {
	switch {
	case errors.Is(err, simpleasset.ErrUnsupportedExtension):
		http.Error(w, "unsupported file extension", http.StatusUnprocessableEntity)
	case errors.Is(err, simpleasset.ErrStorageBackendNotFound):
		http.Error(w, "unknown storage backend", http.StatusBadRequest)
	case errors.Is(err, simpleasset.ErrCopyFailed):
		slog.Error("Import copy failed", "source_path", sourcePath, "err", err)
		http.Error(w, "copy to managed storage failed", http.StatusInternalServerError)
	default:
		slog.Error("Import failed", "source_path", sourcePath, "err", err)
		http.Error(w, "import failed", http.StatusInternalServerError)
	}
}

// GetFile returns a file record
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	file, err := h.service.GetFile(r.Context(), simpleasset.FileID(id))
	if err != nil {
		if errors.Is(err, simpleasset.ErrFileNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get file", "id", id, "err", err)
		http.Error(w, "failed to get file", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, toFileResponse(file))
}

// ListFiles returns all file records
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.service.ListFiles(r.Context())
	if err != nil {
		slog.Error("Failed to list files", "err", err)
		http.Error(w, "failed to list files", http.StatusInternalServerError)
		return
	}

	resp := make([]FileResponse, len(files))
	for i, file := range files {
		resp[i] = toFileResponse(file)
	}

	render.JSON(w, r, resp)
}

// DownloadFile streams the file's bytes from managed storage
func (h *Handler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	rc, file, err := h.service.DownloadFile(r.Context(), simpleasset.FileID(id))
	if err != nil {
		if errors.Is(err, simpleasset.ErrFileNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to download file", "id", id, "err", err)
		http.Error(w, "failed to download file", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+file.ObjectKey+"\"")
	if _, err := io.Copy(w, rc); err != nil {
		slog.Error("Failed to stream file", "id", id, "err", err)
	}
}

// TagFile adds system tags to a file record
func (h *Handler) TagFile(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req TagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tags := make([]simpleasset.Tag, len(req.Tags))
	for i, t := range req.Tags {
		tags[i] = simpleasset.Tag(t)
	}

	file, err := h.service.TagFile(r.Context(), simpleasset.FileID(id), tags...)
	if err != nil {
		if errors.Is(err, simpleasset.ErrFileNotFound) {
			http.Error(w, "file not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to tag file", "id", id, "err", err)
		http.Error(w, "failed to tag file", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, toFileResponse(file))
}

// GetAsset returns an asset record
func (h *Handler) GetAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	asset, err := h.service.GetAsset(r.Context(), simpleasset.AssetID(id))
	if err != nil {
		if errors.Is(err, simpleasset.ErrAssetNotFound) {
			http.Error(w, "asset not found", http.StatusNotFound)
			return
		}
		slog.Error("Failed to get asset", "id", id, "err", err)
		http.Error(w, "failed to get asset", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, toAssetResponse(asset))
}

// ListAssets returns all asset records
func (h *Handler) ListAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.ListAssets(r.Context())
	if err != nil {
		slog.Error("Failed to list assets", "err", err)
		http.Error(w, "failed to list assets", http.StatusInternalServerError)
		return
	}

	resp := make([]AssetResponse, len(assets))
	for i, asset := range assets {
		resp[i] = toAssetResponse(asset)
	}

	render.JSON(w, r, resp)
}

func parseID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
