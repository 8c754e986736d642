package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"file-storage-api/internal/application/ports"
	domain "file-storage-api/internal/domain/file"
	"file-storage-api/internal/infrastructure/metrics"
	"file-storage-api/internal/infrastructure/mq"
)

var sizePrinter = message.NewPrinter(language.English)

type FileService struct {
	blobs          ports.BlobStore
	fileRepository domain.Repository
	events         ports.FileEvents
	mCounter       *prometheus.CounterVec
	logger         *zap.Logger

	newIDs func() (publicID, privateID string)
	now    func() time.Time
}

func NewFileService(
	blobs ports.BlobStore,
	fileRepository domain.Repository,
	events ports.FileEvents,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) ports.FileService {
	return &FileService{
		blobs:          blobs,
		fileRepository: fileRepository,
		events:         events,
		mCounter:       mCounter,
		logger:         logger,
		newIDs:         newIDPair,
		now:            time.Now,
	}
}

// Upload writes the blob first and the record second. If the record can't be
// committed the blob is removed again, so a failed upload leaves nothing
// behind unless that removal fails too.
func (fs *FileService) Upload(ctx context.Context, in ports.UploadInput) (*domain.UploadResult, error) {
	log := fs.logger.With(
		zap.String("email", in.Email),
		zap.String("label", in.Label),
		zap.String("filename", in.Filename),
	)
	log.Info("file upload started")

	if strings.TrimSpace(in.Filename) == "" {
		log.Warn("upload failed: no filename provided")
		return nil, domain.InvalidInput("File must have a filename")
	}

	publicID, privateID := fs.newIDs()
	log = log.With(zap.String("public_id", publicID))
	log.Info("generated file ids", zap.String("private_id", privateID))

	ext, contentType := Classify(in.Filename)
	if ext == "" {
		log.Warn("upload failed: no file extension")
		return nil, domain.InvalidInput("File must have an extension")
	}

	f := &domain.File{
		PublicID:         publicID,
		PrivateID:        privateID,
		Email:            in.Email,
		Label:            in.Label,
		OriginalFilename: in.Filename,
		FileExtension:    ext,
		ContentType:      contentType,
	}
	blobName := f.BlobName()

	size, err := fs.blobs.Write(ctx, blobName, in.Content)
	if err != nil {
		return nil, fmt.Errorf("save blob: %w", err)
	}
	f.FileSize = size
	f.CreatedAt = fs.now().UTC()

	log.Info("file saved to storage",
		zap.String("private_filename", blobName),
		zap.Int64("file_size", size),
	)

	if err = fs.fileRepository.CreateFile(ctx, f); err != nil {
		if derr := fs.blobs.Delete(ctx, blobName); derr != nil {
			log.Error("orphaned blob left in storage",
				zap.String("private_filename", blobName),
				zap.Error(derr),
			)
		}
		return nil, fmt.Errorf("save record: %w", err)
	}

	downloadURL := DownloadPath(publicID)
	log.Info("file upload completed successfully",
		zap.String("public_url", downloadURL),
		zap.Int64("file_size", size),
	)

	fs.mCounter.WithLabelValues(metrics.FilesUploaded).Inc()
	fs.mCounter.WithLabelValues(metrics.BytesUploaded).Add(float64(size))
	fs.publish(mq.ActionFileUploaded, f)

	return &domain.UploadResult{
		File:        f,
		DownloadURL: downloadURL,
		Message: fmt.Sprintf(
			"File '%s' uploaded successfully (%s bytes)",
			in.Filename, sizePrinter.Sprintf("%d", size),
		),
	}, nil
}

func (fs *FileService) Download(ctx context.Context, publicID string) (*domain.Download, error) {
	log := fs.logger.With(zap.String("public_id", publicID))
	log.Info("file download requested")

	f, err := fs.fetch(ctx, publicID)
	if err != nil {
		return nil, err
	}
	blobName := f.BlobName()

	st, err := fs.blobs.Stat(ctx, blobName)
	if err != nil {
		return nil, fmt.Errorf("stat blob: %w", err)
	}
	if !st.Exists {
		log.Error("download failed: file not found on disk", zap.String("private_filename", blobName))
		fs.mCounter.WithLabelValues(metrics.BlobsMissing).Inc()
		return nil, domain.NotFound("File not found on disk")
	}
	if !st.Regular {
		log.Error("download failed: path is not a file", zap.String("private_filename", blobName))
		return nil, domain.NotFound("Path is not a file")
	}

	body, err := fs.blobs.Open(ctx, blobName)
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}

	log.Info("file download started",
		zap.String("original_filename", f.OriginalFilename),
		zap.Int64("file_size", f.FileSize),
		zap.String("email", f.Email),
	)
	fs.mCounter.WithLabelValues(metrics.FilesDownloaded).Inc()

	return &domain.Download{
		File:     f,
		Body:     body,
		FileName: sanitizeFileName(f.OriginalFilename),
	}, nil
}

func (fs *FileService) GetInfo(ctx context.Context, publicID string) (*domain.Info, error) {
	log := fs.logger.With(zap.String("public_id", publicID))
	log.Info("file info requested")

	f, err := fs.fetch(ctx, publicID)
	if err != nil {
		return nil, err
	}

	// Checked on every call: the record says nothing about the blob.
	st, err := fs.blobs.Stat(ctx, f.BlobName())
	if err != nil {
		return nil, fmt.Errorf("stat blob: %w", err)
	}
	exists := st.Exists && st.Regular

	log.Info("file info retrieved successfully",
		zap.String("original_filename", f.OriginalFilename),
		zap.Bool("file_exists_on_disk", exists),
	)

	return &domain.Info{File: *f, ExistsOnDisk: exists}, nil
}

// Delete removes the blob when present and then the record. A blob that is
// already gone does not fail the deletion.
func (fs *FileService) Delete(ctx context.Context, publicID string) (*domain.DeleteResult, error) {
	log := fs.logger.With(zap.String("public_id", publicID))
	log.Info("file deletion requested")

	f, err := fs.fetch(ctx, publicID)
	if err != nil {
		return nil, err
	}
	blobName := f.BlobName()

	st, err := fs.blobs.Stat(ctx, blobName)
	if err != nil {
		return nil, fmt.Errorf("stat blob: %w", err)
	}
	if st.Exists {
		if err = fs.blobs.Delete(ctx, blobName); err != nil {
			return nil, fmt.Errorf("delete blob: %w", err)
		}
		log.Info("physical file deleted", zap.String("private_filename", blobName))
	} else {
		log.Warn("physical file not found during deletion", zap.String("private_filename", blobName))
		fs.mCounter.WithLabelValues(metrics.BlobsMissing).Inc()
	}

	if err = fs.fileRepository.DeleteFile(ctx, publicID); err != nil {
		return nil, fmt.Errorf("delete record: %w", err)
	}

	log.Info("file deletion completed successfully",
		zap.String("original_filename", f.OriginalFilename),
		zap.String("email", f.Email),
		zap.Bool("physical_file_existed", st.Exists),
	)
	fs.mCounter.WithLabelValues(metrics.FilesDeleted).Inc()
	fs.publish(mq.ActionFileDeleted, f)

	return &domain.DeleteResult{
		File:        f,
		BlobExisted: st.Exists,
		Message:     fmt.Sprintf("File '%s' deleted successfully", f.OriginalFilename),
	}, nil
}

func (fs *FileService) fetch(ctx context.Context, publicID string) (*domain.File, error) {
	f, err := fs.fileRepository.FetchByPublicID(ctx, publicID)
	if err != nil {
		return nil, fmt.Errorf("fetch record: %w", err)
	}
	if f == nil {
		fs.logger.Warn("file record not found", zap.String("public_id", publicID))
		return nil, domain.NotFound("File not found")
	}
	return f, nil
}

func (fs *FileService) publish(action string, f *domain.File) {
	fs.events.Publish(mq.Event{
		Id:       uuid.New(),
		TS:       time.Now(),
		Action:   action,
		PublicID: f.PublicID,
		Payload: mq.Payload{
			Email:            f.Email,
			Label:            f.Label,
			OriginalFilename: f.OriginalFilename,
			ContentType:      f.ContentType,
			FileSize:         f.FileSize,
		},
	})
}
