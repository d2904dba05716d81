package services

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// StorageService implements the images bucket over local disk. Uploads get a
// uuid-based object path; PublicURL is what gets embedded into content, and
// the path is what the editor hands back to Remove when replacing an image.
type StorageService struct {
	root    string
	baseURL string
}

func NewStorageService(root, siteURL string) *StorageService {
	return &StorageService{
		root:    root,
		baseURL: strings.TrimRight(siteURL, "/"),
	}
}

// Upload stores the object and returns its path and public URL.
func (s *StorageService) Upload(originalName string, r io.Reader) (path, url string, err error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		return "", "", fmt.Errorf("unsupported image type %q", ext)
	}

	path = uuid.NewString() + ext
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return "", "", fmt.Errorf("failed to create uploads dir: %w", err)
	}

	dst, err := os.Create(filepath.Join(s.root, path))
	if err != nil {
		return "", "", fmt.Errorf("failed to create object: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(filepath.Join(s.root, path))
		return "", "", fmt.Errorf("failed to write object: %w", err)
	}

	return path, s.PublicURL(path), nil
}

// PublicURL returns the URL under which an object path is served.
func (s *StorageService) PublicURL(path string) string {
	return s.baseURL + "/uploads/" + path
}

// Remove deletes a stored object. A missing object is not an error; the
// caller treats removal as best-effort anyway.
func (s *StorageService) Remove(path string) error {
	if path == "" {
		return nil
	}
	// Reject anything trying to climb out of the bucket root.
	clean := filepath.Clean(path)
	if strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid object path %q", path)
	}
	err := os.Remove(filepath.Join(s.root, clean))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
