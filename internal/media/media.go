// Package media stores uploaded post images and removes them once they are
// no longer referenced.
package media

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize is the largest accepted image.
const MaxUploadSize = 5 * 1024 * 1024

var allowedTypes = map[string]bool{
	"image/png":  true,
	"image/jpg":  true,
	"image/jpeg": true,
}

// AllowedContentType reports whether an upload with this MIME type is accepted.
func AllowedContentType(contentType string) bool {
	mediaType := strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0])
	return allowedTypes[strings.ToLower(mediaType)]
}

// LocalStore keeps images in a directory served under /images.
type LocalStore struct {
	dir       string
	publicURL string
}

// NewLocalStore creates the image directory if needed.
func NewLocalStore(dir, publicURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &LocalStore{
		dir:       dir,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Dir returns the directory images are written to.
func (s *LocalStore) Dir() string { return s.dir }

// NewFileName returns a random file name keeping the original extension.
func (s *LocalStore) NewFileName(original string) string {
	return uuid.New().String() + strings.ToLower(filepath.Ext(original))
}

// Path returns where a file with this name is stored on disk.
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

// URL returns the public address of a stored file.
func (s *LocalStore) URL(name string) string {
	return s.publicURL + "/images/" + filepath.Base(name)
}

// resolve maps an image reference (public URL, "images/x.png" or a bare
// name) to a path inside the image directory. Only the base name is used so
// a reference can never point outside the directory.
func (s *LocalStore) resolve(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	name := filepath.Base(filepath.FromSlash(ref))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid image reference %q", ref)
	}
	return filepath.Join(s.dir, name), nil
}

// DeleteFile removes the image a post points to.
func (s *LocalStore) DeleteFile(_ context.Context, ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}
	log.Printf("Deleted image %s", path)
	return nil
}

// DeletionPublisher sends file deletion requests to a queue.
type DeletionPublisher interface {
	PublishFileDeletion(path string) error
}

// QueuedDeleter hands deletions to a background consumer instead of
// touching the disk in the request.
type QueuedDeleter struct {
	publisher DeletionPublisher
}

func NewQueuedDeleter(publisher DeletionPublisher) *QueuedDeleter {
	return &QueuedDeleter{publisher: publisher}
}

func (d *QueuedDeleter) DeleteFile(_ context.Context, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return errors.New("empty image reference")
	}
	if err := d.publisher.PublishFileDeletion(ref); err != nil {
		return fmt.Errorf("failed to queue deletion of %s: %w", ref, err)
	}
	return nil
}

// IgnoreMissing turns "file does not exist" into success. Queue consumers
// use it so a message for an already removed file is not retried.
func IgnoreMissing(err error) error {
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
