package storage

import "context"

// BlobStorage defines the archive operations used by plan export
type BlobStorage interface {
	UploadPDF(ctx context.Context, sessionID, filename string, data []byte) (string, error)
	DownloadPDF(ctx context.Context, blobName string) ([]byte, error)
}

var _ BlobStorage = (*BlobStorageClient)(nil)
var _ BlobStorage = (*MockBlobStorageClient)(nil)
