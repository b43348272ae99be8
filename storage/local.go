package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalDiskUploader пишет файлы в каталог на диске. Приложение локальное
// и однопользовательское, сетевого хранилища у него нет.
type LocalDiskUploader struct {
	baseDir string
}

func NewLocalDiskUploader(baseDir string) (*LocalDiskUploader, error) {
	if strings.TrimSpace(baseDir) == "" {
		return nil, fmt.Errorf("base directory is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory %s: %w", baseDir, err)
	}
	return &LocalDiskUploader{baseDir: filepath.Clean(baseDir)}, nil
}

func (u *LocalDiskUploader) path(key string) (string, error) {
	// Ключ не должен выводить за пределы baseDir.
	cleaned := filepath.Clean("/" + key)
	full := filepath.Join(u.baseDir, cleaned)
	if !strings.HasPrefix(full, u.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return full, nil
}

func (u *LocalDiskUploader) Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	full, err := u.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", key, err)
	}

	file, err := os.Create(full)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", full, err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(full)
		return nil, fmt.Errorf("failed to write %s: %w", full, err)
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf("failed to close %s: %w", full, err)
	}

	return &UploadResult{Key: key, Location: full}, nil
}

func (u *LocalDiskUploader) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := u.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", full, err)
	}
	return nil
}

func (u *LocalDiskUploader) GetPublicURL(key string) string {
	full, err := u.path(key)
	if err != nil {
		return ""
	}
	return "file://" + full
}

var _ FileUploader = (*LocalDiskUploader)(nil)
