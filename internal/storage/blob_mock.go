package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// MockBlobStorageClient keeps archived documents in memory, for tests and local runs
type MockBlobStorageClient struct {
	mu     sync.RWMutex
	blobs  map[string][]byte
	logger *zap.Logger
	// FailUploads makes every upload return an error
	FailUploads bool
}

// NewMockBlobStorageClient creates an empty in-memory archive. logger may be nil.
func NewMockBlobStorageClient(logger *zap.Logger) *MockBlobStorageClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MockBlobStorageClient{
		blobs:  make(map[string][]byte),
		logger: logger,
	}
}

// UploadPDF stores a copy of data under the session's export folder
func (c *MockBlobStorageClient) UploadPDF(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	blobName, err := ExportBlobName(sessionID, filename)
	if err != nil {
		return "", err
	}
	if c.FailUploads {
		return "", errors.New("failed to upload PDF: archive unavailable")
	}

	c.mu.Lock()
	c.blobs[blobName] = bytes.Clone(data)
	c.mu.Unlock()

	c.logger.Debug("plan PDF archived in memory",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)
	return blobName, nil
}

// DownloadPDF returns a copy of a stored document
func (c *MockBlobStorageClient) DownloadPDF(ctx context.Context, blobName string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.blobs[blobName]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, blobName)
	}
	return bytes.Clone(data), nil
}

// ListBlobs returns the stored blob names in order
func (c *MockBlobStorageClient) ListBlobs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Sorted(maps.Keys(c.blobs))
}
