// Package storage keeps uploaded portrait images on local disk.
package storage

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

// PublicPrefix is the URL prefix under which stored assets are served.
const PublicPrefix = "/uploads"

// LocalAssetStore writes portraits into a directory and hands out
// "/uploads/<file>" references for them.
type LocalAssetStore struct {
	dir      string
	maxBytes int64
	now      func() time.Time
}

// NewLocalAssetStore creates dir when needed.
func NewLocalAssetStore(dir string, maxBytes int64) (*LocalAssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalAssetStore{dir: dir, maxBytes: maxBytes, now: time.Now}, nil
}

// Dir returns the directory assets are written to.
func (s *LocalAssetStore) Dir() string {
	return s.dir
}

// Save validates and stores an uploaded image, returning its reference.
func (s *LocalAssetStore) Save(field string, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", apperrors.NewValidationError("image file required", nil)
	}
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return "", apperrors.NewValidationError("image too large", map[string]any{
			"field":     field,
			"max_bytes": s.maxBytes,
		})
	}
	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		return "", apperrors.NewValidationError("only image uploads are allowed", map[string]any{"field": field})
	}

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := s.fileName(field, header.Filename)
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create asset: %w", err)
	}

	written, copyErr := io.Copy(dst, io.LimitReader(src, s.limit()+1))
	closeErr := dst.Close()
	if copyErr == nil && s.maxBytes > 0 && written > s.maxBytes {
		copyErr = apperrors.NewValidationError("image too large", map[string]any{"field": field, "max_bytes": s.maxBytes})
	}
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", err
	}
	return path.Join(PublicPrefix, name), nil
}

// Remove deletes the asset behind ref. Unknown or missing assets are ignored.
func (s *LocalAssetStore) Remove(ref string) error {
	if !strings.HasPrefix(ref, PublicPrefix+"/") {
		return nil
	}
	name := filepath.Base(ref)
	if name == "." || name == "/" {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func (s *LocalAssetStore) fileName(field, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s-%d-%d%s", field, s.now().UnixMilli(), rand.Int63n(1e9), ext)
}

func (s *LocalAssetStore) limit() int64 {
	if s.maxBytes <= 0 {
		return 1<<63 - 2
	}
	return s.maxBytes
}
