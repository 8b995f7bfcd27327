package service

import (
	"context"
	"errors"

	"github.com/vcscsvcscs/fitai-planner/internal/observability"
	"github.com/vcscsvcscs/fitai-planner/internal/pdf"
	"github.com/vcscsvcscs/fitai-planner/internal/storage"
	"go.uber.org/zap"
)

// ErrArchiveDisabled is returned when archived documents are requested but no archive is configured
var ErrArchiveDisabled = errors.New("export archive not configured")

// DocumentRenderer turns a plan document into file bytes
type DocumentRenderer interface {
	Generate(doc *pdf.PlanDocument) ([]byte, error)
}

// ExportResult is a rendered plan document ready for download
type ExportResult struct {
	FileName string
	Data     []byte
	// BlobName is set when the document was archived
	BlobName string
}

// ExportService renders plan documents and optionally archives them
type ExportService struct {
	renderer DocumentRenderer
	archive  storage.BlobStorage
	logger   *zap.Logger
}

// NewExportService creates a new ExportService. archive may be nil.
func NewExportService(renderer DocumentRenderer, archive storage.BlobStorage, logger *zap.Logger) *ExportService {
	return &ExportService{
		renderer: renderer,
		archive:  archive,
		logger:   logger,
	}
}

// Export renders the session's profile and plans. An archive failure is logged and the document is still returned.
func (s *ExportService) Export(ctx context.Context, snap SessionSnapshot) (*ExportResult, error) {
	name := ""
	if snap.Intake != nil {
		name = snap.Intake.Name
	}

	data, err := s.renderer.Generate(&pdf.PlanDocument{
		Intake: snap.Intake,
		Plans:  snap.Plans,
	})
	if err != nil {
		s.logger.Error("failed to render plan document",
			zap.Error(err),
			zap.String("session_id", snap.ID),
		)
		return nil, err
	}

	result := &ExportResult{
		FileName: pdf.FileName(name),
		Data:     data,
	}

	if s.archive != nil {
		blobName, err := s.archive.UploadPDF(ctx, snap.ID, result.FileName, data)
		if err != nil {
			s.logger.Warn("failed to archive plan document",
				zap.Error(err),
				zap.String("session_id", snap.ID),
			)
		} else {
			result.BlobName = blobName
		}
	}

	observability.RecordExport(result.BlobName != "")

	s.logger.Info("plan document exported",
		zap.String("session_id", snap.ID),
		zap.String("file_name", result.FileName),
		zap.Int("size_bytes", len(data)),
		zap.Bool("archived", result.BlobName != ""),
	)

	return result, nil
}

// Archived reads back a document archived for the session. An empty fileName
// selects the name the session's current profile exports under.
func (s *ExportService) Archived(ctx context.Context, snap SessionSnapshot, fileName string) (*ExportResult, error) {
	if s.archive == nil {
		return nil, ErrArchiveDisabled
	}

	if fileName == "" {
		name := ""
		if snap.Intake != nil {
			name = snap.Intake.Name
		}
		fileName = pdf.FileName(name)
	}

	blobName, err := storage.ExportBlobName(snap.ID, fileName)
	if err != nil {
		return nil, err
	}

	data, err := s.archive.DownloadPDF(ctx, blobName)
	if err != nil {
		if !errors.Is(err, storage.ErrBlobNotFound) {
			s.logger.Error("failed to read archived plan document",
				zap.Error(err),
				zap.String("session_id", snap.ID),
				zap.String("blob_name", blobName),
			)
		}
		return nil, err
	}

	s.logger.Info("archived plan document retrieved",
		zap.String("session_id", snap.ID),
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	return &ExportResult{
		FileName: fileName,
		Data:     data,
		BlobName: blobName,
	}, nil
}
