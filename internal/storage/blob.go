package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"go.uber.org/zap"
)

const (
	exportPrefix   = "exports"
	pdfContentType = "application/pdf"
)

var (
	// ErrBlobNotFound is returned when an archived document does not exist
	ErrBlobNotFound = errors.New("blob not found")
	// ErrInvalidBlobPath is returned for empty or nested path components
	ErrInvalidBlobPath = errors.New("invalid blob path component")
)

// BlobStorageClient archives exported plan documents in one Azure Blob Storage container
type BlobStorageClient struct {
	client    *azblob.Client
	container *container.Client
	name      string
	logger    *zap.Logger
}

// NewBlobStorageClient creates a shared-key client for the export container.
// An empty serviceURL targets the public endpoint of the account; pass the
// Azurite URL for local runs.
func NewBlobStorageClient(accountName, accountKey, containerName, serviceURL string, logger *zap.Logger) (*BlobStorageClient, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)
	}

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStorageClient{
		client:    client,
		container: client.ServiceClient().NewContainerClient(containerName),
		name:      containerName,
		logger:    logger,
	}, nil
}

// EnsureContainer creates the export container when it does not exist yet
func (c *BlobStorageClient) EnsureContainer(ctx context.Context) error {
	_, err := c.client.CreateContainer(ctx, c.name, nil)
	if err == nil {
		c.logger.Info("created export container", zap.String("container", c.name))
		return nil
	}
	if bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return nil
	}
	return fmt.Errorf("failed to create container %s: %w", c.name, err)
}

// UploadPDF stores a plan document under the session's export folder and returns the blob name.
// Re-exporting the same file name overwrites the previous copy.
func (c *BlobStorageClient) UploadPDF(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	blobName, err := ExportBlobName(sessionID, filename)
	if err != nil {
		return "", err
	}

	_, err = c.container.NewBlockBlobClient(blobName).UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType:        toPtr(pdfContentType),
			BlobContentDisposition: toPtr(fmt.Sprintf("attachment; filename=%q", filename)),
		},
		Metadata: map[string]*string{
			"session": toPtr(sessionID),
		},
	})
	if err != nil {
		c.logger.Error("failed to upload plan PDF",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload PDF: %w", err)
	}

	c.logger.Info("plan PDF archived",
		zap.String("container", c.name),
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	return blobName, nil
}

// DownloadPDF reads an archived plan document
func (c *BlobStorageClient) DownloadPDF(ctx context.Context, blobName string) ([]byte, error) {
	resp, err := c.container.NewBlobClient(blobName).DownloadStream(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, blobName)
		}
		return nil, fmt.Errorf("failed to download PDF: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF data: %w", err)
	}

	c.logger.Debug("plan PDF downloaded",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	return data, nil
}

// ExportBlobName builds exports/<session>/<file>, the blob path of a session's document
func ExportBlobName(sessionID, filename string) (string, error) {
	for _, part := range []string{sessionID, filename} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("%w: %q", ErrInvalidBlobPath, part)
		}
	}
	return strings.Join([]string{exportPrefix, sessionID, filename}, "/"), nil
}

func toPtr(s string) *string {
	return &s
}
