// Package storage keeps uploaded media (images, stickers, music) on local disk
// and hands back a public URL for it.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"invitation-canvas-editor/internal/errors"
)

const (
	MediaPrefix    = "/media"
	DefaultMaxSize = 20 << 20
)

var allowedKinds = []string{"image/", "audio/", "video/"}

// Object is a stored file. Key is opaque and stable; URL is publicly fetchable.
type Object struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type FileStorage struct {
	root    string
	baseURL string
	maxSize int64
}

func NewFileStorage(root, baseURL string) *FileStorage {
	return &FileStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		maxSize: DefaultMaxSize,
	}
}

func (s *FileStorage) Root() string {
	return s.root
}

func (s *FileStorage) OwnerDir(ownerID uint64) string {
	return filepath.Join(s.root, strconv.FormatUint(ownerID, 10))
}

// Path maps a key back to its file. Keys that would escape the root are rejected.
func (s *FileStorage) Path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", errors.Invalid("key", "invalid storage key")
	}
	return filepath.Join(s.root, clean), nil
}

func (s *FileStorage) URL(key string) string {
	return s.baseURL + MediaPrefix + "/" + key
}

// Save stores the content of r under a fresh key owned by ownerID.
// Only image, audio and video content is accepted.
func (s *FileStorage) Save(ctx context.Context, ownerID uint64, r io.Reader) (*Object, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return nil, errors.Invalid("file", fmt.Sprintf("file is larger than %d bytes", s.maxSize))
	}
	if len(data) == 0 {
		return nil, errors.Invalid("file", "file is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mtype := mimetype.Detect(data)
	if !allowed(mtype.String()) {
		return nil, errors.Invalid("file", fmt.Sprintf("unsupported content type %s", mtype.String()))
	}

	key := strconv.FormatUint(ownerID, 10) + "/" + uuid.NewString() + mtype.Extension()
	target, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.OwnerDir(ownerID), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir owner dir: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return nil, fmt.Errorf("write upload: %w", err)
	}

	return &Object{
		URL:         s.URL(key),
		Key:         key,
		ContentType: mtype.String(),
		Size:        int64(len(data)),
	}, nil
}

// Open returns the content stored at key.
func (s *FileStorage) Open(key string) (io.ReadCloser, error) {
	target, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(target)
	if os.IsNotExist(err) {
		return nil, errors.Missing("file", key)
	}
	return f, err
}

func allowed(contentType string) bool {
	for _, kind := range allowedKinds {
		if strings.HasPrefix(contentType, kind) {
			return true
		}
	}
	return false
}
