package simpleasset

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// AuditEvent represents an event log entry for audits
type AuditEvent struct {
	ID         uuid.UUID `json:"id"`
	Action     string    `json:"action"`
	FileID     *FileID   `json:"file_id,omitempty"`
	AssetID    *AssetID  `json:"asset_id,omitempty"`
	SourcePath string    `json:"source_path,omitempty"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditEventSink records lifecycle events in memory and logs them through
// slog. It implements EventSink and never returns an error, so a misbehaving
// sink cannot fail catalog operations.
type AuditEventSink struct {
	mu     sync.Mutex
	logger *slog.Logger
	events []AuditEvent
}

// NewAuditEventSink creates an audit sink logging through the given logger.
// A nil logger falls back to slog.Default().
func NewAuditEventSink(logger *slog.Logger) *AuditEventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditEventSink{logger: logger}
}

// Events returns a copy of the recorded audit trail.
func (a *AuditEventSink) Events() []AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]AuditEvent, len(a.events))
	copy(out, a.events)
	return out
}

func (a *AuditEventSink) record(event AuditEvent) {
	event.ID = uuid.New()
	event.CreatedAt = time.Now().UTC()

	a.mu.Lock()
	a.events = append(a.events, event)
	a.mu.Unlock()
}

// FileImported records a successful import
func (a *AuditEventSink) FileImported(ctx context.Context, file *File) error {
	a.record(AuditEvent{Action: "file_imported", FileID: &file.ID})
	a.logger.Info("file imported", "file_id", file.ID, "object_key", file.ObjectKey)
	return nil
}

// FileRemoved records a compensating removal
func (a *AuditEventSink) FileRemoved(ctx context.Context, fileID FileID) error {
	a.record(AuditEvent{Action: "file_removed", FileID: &fileID})
	a.logger.Info("file record removed", "file_id", fileID)
	return nil
}

// AssetCreated records an asset creation
func (a *AuditEventSink) AssetCreated(ctx context.Context, asset *Asset) error {
	a.record(AuditEvent{Action: "asset_created", AssetID: &asset.ID, FileID: &asset.FileID})
	a.logger.Info("asset created", "asset_id", asset.ID, "file_id", asset.FileID)
	return nil
}

// ImportFailed records an abandoned import
func (a *AuditEventSink) ImportFailed(ctx context.Context, sourcePath string, err error) error {
	a.record(AuditEvent{Action: "import_failed", SourcePath: sourcePath, Error: err.Error()})
	a.logger.Warn("import failed", "source_path", sourcePath, "err", err)
	return nil
}
