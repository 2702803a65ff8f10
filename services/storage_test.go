package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorageService(t *testing.T) *StorageService {
	t.Helper()
	return &StorageService{root: t.TempDir()}
}

func TestStorageService_Resolve(t *testing.T) {
	svc := newTestStorageService(t)

	abs, err := svc.Resolve("models/free/dragon.stl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(svc.root, "models", "free", "dragon.stl"), abs)
}

func TestStorageService_ResolveRejectsTraversal(t *testing.T) {
	svc := newTestStorageService(t)

	cases := []string{
		"../outside.stl",
		"../../etc/passwd.zip",
		"models/../../../escape.stl",
		"models/free/../../../../tmp/x.zip",
	}

	for _, rel := range cases {
		_, err := svc.Resolve(rel)
		assert.Error(t, err, "path %q must not resolve", rel)
	}
}

func TestStorageService_ResolveNeutralizesInnerDotDot(t *testing.T) {
	svc := newTestStorageService(t)

	// Dot-dot segments that stay inside the root are just normalized away.
	abs, err := svc.Resolve("models/premium/../free/cube.stl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(svc.root, "models", "free", "cube.stl"), abs)
}

func TestStorageService_ValidateDownloadPath(t *testing.T) {
	svc := newTestStorageService(t)

	abs, contentType, err := svc.ValidateDownloadPath("models/free/dragon.stl")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(svc.root, "models", "free", "dragon.stl"), abs)
	assert.Equal(t, "application/sla", contentType)

	_, contentType, err = svc.ValidateDownloadPath("models/premium/helmet.zip")
	require.NoError(t, err)
	assert.Equal(t, "application/zip", contentType)

	// Extension matching is case-insensitive.
	_, contentType, err = svc.ValidateDownloadPath("models/free/DRAGON.STL")
	require.NoError(t, err)
	assert.Equal(t, "application/sla", contentType)
}

func TestStorageService_ValidateDownloadPathRejectsExtensions(t *testing.T) {
	svc := newTestStorageService(t)

	cases := []string{
		"models/free/model.obj",
		"models/free/model.blend",
		"models/free/model.stl.exe",
		"models/free/script.sh",
		"models/free/noextension",
	}

	for _, rel := range cases {
		_, _, err := svc.ValidateDownloadPath(rel)
		assert.Error(t, err, "path %q must be rejected", rel)
	}
}

func TestStorageService_IsAllowedUpload(t *testing.T) {
	svc := newTestStorageService(t)

	assert.True(t, svc.IsAllowedUpload("dragon.stl"))
	assert.True(t, svc.IsAllowedUpload("scene.blend"))
	assert.True(t, svc.IsAllowedUpload("Pack.ZIP"))
	assert.True(t, svc.IsAllowedUpload("mesh.obj"))
	assert.True(t, svc.IsAllowedUpload("rig.fbx"))

	assert.False(t, svc.IsAllowedUpload("malware.exe"))
	assert.False(t, svc.IsAllowedUpload("readme.txt"))
	assert.False(t, svc.IsAllowedUpload("archive.tar.gz"))
}

func TestStorageService_WriteReadExists(t *testing.T) {
	svc := newTestStorageService(t)

	payload := []byte("solid cube")

	abs, err := svc.WriteFile("models/free/cube.stl", payload)
	require.NoError(t, err)
	assert.True(t, svc.Exists(abs))

	data, err := svc.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	// Directories never count as servable files.
	require.NoError(t, os.MkdirAll(filepath.Join(svc.root, "models", "dir.stl"), 0o755))
	assert.False(t, svc.Exists(filepath.Join(svc.root, "models", "dir.stl")))

	_, err = svc.WriteFile("../escape.stl", payload)
	assert.Error(t, err)
}
