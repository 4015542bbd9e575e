// Package media stores uploaded images and returns durable URLs. Documents
// keep only the returned URL strings.
package media

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const maxImageSize = 5 << 20

var allowedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
}

// Uploader accepts a multipart file and returns a durable URL for it.
type Uploader interface {
	Upload(ctx context.Context, file *multipart.FileHeader) (string, error)
}

func validateImage(file *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(file.Filename))
	if extension == "" {
		return "", fmt.Errorf("image file extension is required")
	}
	if _, ok := allowedExtensions[extension]; !ok {
		return "", fmt.Errorf("unsupported image type: %s", extension)
	}
	if file.Size > maxImageSize {
		return "", fmt.Errorf("image file too large (max 5MB)")
	}
	return extension, nil
}

// DiskUploader writes files under <root>/uploads and returns paths served
// by the /uploads static route. Used when no media service is configured.
type DiskUploader struct {
	Root string
}

func NewDiskUploader(root string) *DiskUploader {
	return &DiskUploader{Root: root}
}

func (u *DiskUploader) Upload(_ context.Context, file *multipart.FileHeader) (string, error) {
	extension, err := validateImage(file)
	if err != nil {
		return "", err
	}

	filename := uuid.NewString() + extension

	dir := filepath.Join(u.Root, "uploads")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("[UPLOAD] failed to create directory %s: %v", dir, err)
		return "", err
	}

	fullPath := filepath.Join(dir, filename)

	out, err := os.Create(fullPath)
	if err != nil {
		log.Printf("[UPLOAD] failed to create file %s: %v", fullPath, err)
		return "", err
	}
	defer out.Close()

	in, err := file.Open()
	if err != nil {
		log.Printf("[UPLOAD] failed to open upload %s: %v", file.Filename, err)
		return "", err
	}
	defer in.Close()

	if _, err := io.Copy(out, in); err != nil {
		log.Printf("[UPLOAD] failed to save file %s: %v", fullPath, err)
		return "", err
	}

	return filepath.ToSlash(filepath.Join("/uploads", filename)), nil
}

// Delete removes a previously stored file. Only paths inside the uploads
// tree are touched; remote URLs are ignored.
func (u *DiskUploader) Delete(storedPath string) error {
	trimmed := strings.TrimSpace(storedPath)
	if trimmed == "" || strings.Contains(trimmed, "://") {
		return nil
	}

	cleanRel := path.Clean("/" + strings.TrimPrefix(trimmed, "/"))
	cleanRel = strings.TrimPrefix(cleanRel, "/")

	if !strings.HasPrefix(cleanRel, "uploads/") {
		return fmt.Errorf("refusing to delete non-upload path: %s", storedPath)
	}

	cleanBase := filepath.Clean(u.Root)
	targetPath := filepath.Join(cleanBase, filepath.FromSlash(cleanRel))
	cleanTarget := filepath.Clean(targetPath)
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside upload root: %s", storedPath)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}
