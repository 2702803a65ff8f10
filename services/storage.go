package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
)

// StorageService resolves catalog-relative file paths against the trusted
// storage root and refuses anything that escapes it or carries an extension
// outside the allow-list. Both checks run on the normalized absolute path.
type StorageService struct {
	context.DefaultService

	root string
}

const STORAGE_SVC = "storage_svc"

// downloadExtensions is what the gate will ever serve; uploadExtensions is
// what admins may stage. Everything else is rejected regardless of where
// the path resolves.
var (
	downloadExtensions = map[string]string{
		".stl": "application/sla",
		".zip": "application/zip",
	}

	uploadExtensions = map[string]bool{
		".stl":   true,
		".obj":   true,
		".fbx":   true,
		".blend": true,
		".zip":   true,
	}
)

func (svc StorageService) Id() string {
	return STORAGE_SVC
}

func (svc *StorageService) Configure(ctx *context.Context) error {
	svc.root = os.Getenv("STORAGE_ROOT")
	if svc.root == "" {
		svc.root = "storage"
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *StorageService) Start() error {
	abs, err := filepath.Abs(svc.root)
	if err != nil {
		return fmt.Errorf("failed to resolve storage root: %w", err)
	}
	svc.root = abs

	if err := os.MkdirAll(filepath.Join(svc.root, "uploads"), 0o755); err != nil {
		return fmt.Errorf("failed to create storage root: %w", err)
	}

	log.Printf("Storage root: %s", svc.root)
	return nil
}

func (svc *StorageService) Root() string {
	return svc.root
}

// Resolve joins a catalog-relative path with the storage root and asserts
// containment. The returned path is absolute and clean; any traversal
// payload (.. segments, absolute-path injection, mixed separators) fails
// the prefix check after normalization.
func (svc *StorageService) Resolve(relPath string) (string, error) {
	resolved := filepath.Join(svc.root, filepath.FromSlash(relPath))

	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("failed to normalize path: %w", err)
	}

	if abs != svc.root && !strings.HasPrefix(abs, svc.root+string(filepath.Separator)) {
		return "", fmt.Errorf("path escapes storage root")
	}

	return abs, nil
}

// ValidateDownloadPath runs both mandatory checks: containment, then the
// download extension allow-list on the same resolved path. It returns the
// absolute path and the content type to serve it with.
func (svc *StorageService) ValidateDownloadPath(relPath string) (string, string, error) {
	abs, err := svc.Resolve(relPath)
	if err != nil {
		return "", "", err
	}

	ext := strings.ToLower(filepath.Ext(abs))
	contentType, ok := downloadExtensions[ext]
	if !ok {
		return "", "", fmt.Errorf("extension %q not allowed", ext)
	}

	return abs, contentType, nil
}

func (svc *StorageService) IsAllowedUpload(filename string) bool {
	return uploadExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Exists stats the resolved path; a directory does not count as a file.
func (svc *StorageService) Exists(absPath string) bool {
	info, err := os.Stat(absPath)
	return err == nil && !info.IsDir()
}

func (svc *StorageService) ReadFile(absPath string) ([]byte, error) {
	return os.ReadFile(absPath)
}

func (svc *StorageService) WriteFile(relPath string, data []byte) (string, error) {
	abs, err := svc.Resolve(relPath)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return "", err
	}
	return abs, nil
}
