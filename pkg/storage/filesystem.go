package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/ucao-academy/web-academy-api/pkg/errors"
)

// UploadStore persists uploaded media on disk and maps stored files to
// public URLs. The size cap is mutable because super-admins can change the
// max_upload_size platform setting at runtime.
type UploadStore struct {
	baseDir       string
	publicBaseURL string
	allowedMIMEs  map[string]struct{}
}

// NewUploadStore ensures the base directory exists and returns a handle.
func NewUploadStore(baseDir, publicBaseURL string, allowedMIMEs []string) (*UploadStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	mimes := make(map[string]struct{}, len(allowedMIMEs))
	for _, m := range allowedMIMEs {
		mimes[strings.ToLower(strings.TrimSpace(m))] = struct{}{}
	}
	return &UploadStore{baseDir: baseDir, publicBaseURL: strings.TrimRight(publicBaseURL, "/"), allowedMIMEs: mimes}, nil
}

// Save streams the upload to disk enforcing the size cap and MIME allowlist,
// and returns the public URL of the stored file.
func (s *UploadStore) Save(r io.Reader, originalName, contentType string, size, maxSize int64) (string, error) {
	if maxSize > 0 && size > maxSize {
		return "", appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds the %d byte limit", maxSize))
	}
	if len(s.allowedMIMEs) > 0 {
		if _, ok := s.allowedMIMEs[strings.ToLower(contentType)]; !ok {
			return "", appErrors.Clone(appErrors.ErrUnsupportedMedia, fmt.Sprintf("media type %s is not allowed", contentType))
		}
	}

	name := uuid.NewString() + sanitizeExt(originalName)
	target := filepath.Join(s.baseDir, name)

	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	limit := size
	if maxSize > 0 && (limit <= 0 || limit > maxSize) {
		limit = maxSize
	}
	var src io.Reader = r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	written, err := io.Copy(file, src)
	if err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if maxSize > 0 && written > maxSize {
		_ = os.Remove(target)
		return "", appErrors.Clone(appErrors.ErrFileTooLarge, fmt.Sprintf("file exceeds the %d byte limit", maxSize))
	}

	return s.publicBaseURL + "/" + name, nil
}

// Delete removes a stored file given its public URL; unknown files are ignored.
func (s *UploadStore) Delete(publicURL string) error {
	name := path.Base(publicURL)
	if name == "." || name == "/" || name == "" {
		return nil
	}
	if err := os.Remove(filepath.Join(s.baseDir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// Dir exposes the base directory so the router can serve it statically.
func (s *UploadStore) Dir() string {
	return s.baseDir
}

func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if len(ext) > 8 {
		return ""
	}
	for _, r := range ext {
		if r != '.' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ""
		}
	}
	return ext
}
