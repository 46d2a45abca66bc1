package simpleasset

import "context"

// NoopEventSink is a no-operation implementation of EventSink
// Useful when you don't need event handling or for testing
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

// FileImported does nothing and returns nil
func (n *NoopEventSink) FileImported(ctx context.Context, file *File) error {
	return nil
}

// FileRemoved does nothing and returns nil
func (n *NoopEventSink) FileRemoved(ctx context.Context, fileID FileID) error {
	return nil
}

// AssetCreated does nothing and returns nil
func (n *NoopEventSink) AssetCreated(ctx context.Context, asset *Asset) error {
	return nil
}

// ImportFailed does nothing and returns nil
func (n *NoopEventSink) ImportFailed(ctx context.Context, sourcePath string, err error) error {
	return nil
}
