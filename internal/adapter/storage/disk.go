package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrFileTooLarge    = errors.New("file size must be less than 5MB")
	ErrInvalidFileType = errors.New("invalid file type")
)

// MaxFileSize matches the upload limit enforced by the API.
const MaxFileSize = 5 * 1024 * 1024

var allowedTypes = map[string]string{
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/gif":          ".gif",
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": ".docx",
}

// Store abstracts where uploaded field files live. The disk implementation
// stands in for the S3-backed store; callers only see opaque URLs.
type Store interface {
	Put(ctx context.Context, entryID uuid.UUID, fieldName, filename, contentType string, size int64, body io.Reader) (path, url string, err error)
	Remove(ctx context.Context, path string) error
}

// DiskStore writes files under root and serves them under urlPrefix
// (e.g. /media).
type DiskStore struct {
	root      string
	urlPrefix string
}

func NewDiskStore(root, urlPrefix string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("storage root: %w", err)
	}
	return &DiskStore{root: root, urlPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

func (s *DiskStore) Put(ctx context.Context, entryID uuid.UUID, fieldName, filename, contentType string, size int64, body io.Reader) (string, string, error) {
	if size > MaxFileSize {
		return "", "", ErrFileTooLarge
	}
	ext, ok := allowedTypes[contentType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s (allowed: JPEG, PNG, GIF, PDF, DOC, DOCX)", ErrInvalidFileType, contentType)
	}
	if e := filepath.Ext(filename); e != "" {
		ext = e
	}

	rel := filepath.Join("field-files", entryID.String(), fieldName+"-"+uuid.NewString()+ext)
	abs := filepath.Join(s.root, rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return "", "", err
	}

	out, err := os.Create(abs)
	if err != nil {
		return "", "", err
	}
	defer out.Close()

	// LimitReader guards against clients lying about size
	if _, err := io.Copy(out, io.LimitReader(body, MaxFileSize+1)); err != nil {
		os.Remove(abs)
		return "", "", err
	}
	if fi, err := out.Stat(); err == nil && fi.Size() > MaxFileSize {
		os.Remove(abs)
		return "", "", ErrFileTooLarge
	}

	return rel, s.urlPrefix + "/" + filepath.ToSlash(rel), nil
}

func (s *DiskStore) Remove(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	return os.Remove(filepath.Join(s.root, path))
}
