package storage

import (
	"context"
	"fmt"

	"github.com/vcscsvcscs/fitai-planner/internal/security"
)

// EncryptedBlobStorage seals documents before they reach the wrapped archive
type EncryptedBlobStorage struct {
	next      BlobStorage
	encryptor *security.Encryptor
}

var _ BlobStorage = (*EncryptedBlobStorage)(nil)

// NewEncryptedBlobStorage wraps next so blobs are stored encrypted
func NewEncryptedBlobStorage(next BlobStorage, encryptor *security.Encryptor) *EncryptedBlobStorage {
	return &EncryptedBlobStorage{
		next:      next,
		encryptor: encryptor,
	}
}

// UploadPDF encrypts data and uploads the ciphertext
func (s *EncryptedBlobStorage) UploadPDF(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	sealed, err := s.encryptor.Seal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt PDF: %w", err)
	}
	return s.next.UploadPDF(ctx, sessionID, filename, sealed)
}

// DownloadPDF downloads and decrypts a stored document
func (s *EncryptedBlobStorage) DownloadPDF(ctx context.Context, blobName string) ([]byte, error) {
	sealed, err := s.next.DownloadPDF(ctx, blobName)
	if err != nil {
		return nil, err
	}

	data, err := s.encryptor.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt PDF %s: %w", blobName, err)
	}
	return data, nil
}
