package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/shared"
)

// MediaService handles admin uploads. Model files go to the local storage
// root so the download gate can serve them; thumbnails go to MinIO when it is
// enabled, otherwise to the same storage root.
type MediaService struct {
	context.DefaultService

	storageSvc *StorageService
	minioSvc   *MinIOService

	baseURL      string
	maxModelSize int64
}

const MEDIA_SVC = "media_svc"

const defaultMaxModelSize = 1 << 30 // 1GB

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *context.Context) error {
	svc.baseURL = os.Getenv("BASE_URL")
	if svc.baseURL == "" {
		svc.baseURL = "http://localhost:8000"
	}

	svc.maxModelSize = defaultMaxModelSize
	if raw := os.Getenv("UPLOAD_MAX_BYTES"); raw != "" {
		if parsed, err := strconv.ParseInt(raw, 10, 64); err == nil && parsed > 0 {
			svc.maxModelSize = parsed
		}
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.storageSvc = svc.Service(STORAGE_SVC).(*StorageService)
	svc.minioSvc = svc.Service(MINIO_SVC).(*MinIOService)
	return nil
}

// UploadModelFile stores a printable model under uploads/ with a generated
// name. The returned URL is the storage-relative path that goes into the
// product's file_url field.
func (svc *MediaService) UploadModelFile(file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	if !svc.storageSvc.IsAllowedUpload(file.Filename) {
		return nil, shared.NewBadRequestError(nil, "Invalid model file format. Supported: STL, OBJ, FBX, BLEND, ZIP")
	}

	if file.Size > svc.maxModelSize {
		return nil, shared.NewBadRequestError(nil, fmt.Sprintf("File too large. Maximum size: %dMB", svc.maxModelSize>>20))
	}

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to read uploaded file")
	}

	sum := sha256.Sum256(data)

	id, _ := uuid.NewV7()
	ext := strings.ToLower(filepath.Ext(file.Filename))
	relPath := filepath.ToSlash(filepath.Join("uploads", id.String()+ext))

	if _, err := svc.storageSvc.WriteFile(relPath, data); err != nil {
		return nil, shared.NewInternalError(err, "Failed to store uploaded file")
	}

	log.WithFields(log.Fields{
		"file":     relPath,
		"original": file.Filename,
		"size":     file.Size,
	}).Info("Model file uploaded")

	return &dto.MediaUploadResponse{
		FileName:     filepath.Base(relPath),
		OriginalName: file.Filename,
		Size:         file.Size,
		URL:          relPath,
		Hash:         hex.EncodeToString(sum[:]),
		SizeMB:       float64(file.Size) / (1024 * 1024),
	}, nil
}

// UploadThumbnail stores a product thumbnail image and returns a URL suitable
// for the product's thumbnail field.
func (svc *MediaService) UploadThumbnail(productID string, file *multipart.FileHeader) (*dto.MediaUploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExtensions[ext] {
		return nil, shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, WEBP")
	}

	if file.Size > 5*1024*1024 {
		return nil, shared.NewBadRequestError(nil, "Thumbnail file too large. Maximum size: 5MB")
	}

	objectName := fmt.Sprintf("thumbnails/%s%s", productID, ext)

	if svc.minioSvc.Enabled() {
		src, err := file.Open()
		if err != nil {
			return nil, shared.NewInternalError(err, "Failed to open uploaded file")
		}
		defer src.Close()

		if _, err := svc.minioSvc.UploadFile(objectName, src, file.Size, file.Header.Get("Content-Type")); err != nil {
			return nil, shared.NewInternalError(err, "Failed to upload thumbnail")
		}

		fileURL, err := svc.minioSvc.GetFileURL(objectName, 24*time.Hour)
		if err != nil {
			log.WithError(err).Warn("Failed to generate presigned URL")
			fileURL = fmt.Sprintf("%s/%s/%s", svc.baseURL, svc.minioSvc.GetBucketName(), objectName)
		}

		return &dto.MediaUploadResponse{
			FileName:     filepath.Base(objectName),
			OriginalName: file.Filename,
			Size:         file.Size,
			URL:          fileURL,
			SizeMB:       float64(file.Size) / (1024 * 1024),
		}, nil
	}

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to read uploaded file")
	}

	if _, err := svc.storageSvc.WriteFile(objectName, data); err != nil {
		return nil, shared.NewInternalError(err, "Failed to store thumbnail")
	}

	return &dto.MediaUploadResponse{
		FileName:     filepath.Base(objectName),
		OriginalName: file.Filename,
		Size:         file.Size,
		URL:          objectName,
		SizeMB:       float64(file.Size) / (1024 * 1024),
	}, nil
}
