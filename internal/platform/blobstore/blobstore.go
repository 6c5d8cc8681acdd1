// Package blobstore stores resident photos. It defines the PhotoStore
// interface, an in-memory implementation for testing and development, and a
// filesystem implementation for deployments. Each resident has at most one
// photo; uploading again replaces the previous one.
package blobstore

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrPhotoNotFound      = errors.New("photo not found")
	ErrFileTooLarge       = errors.New("file exceeds maximum allowed size")
	ErrInvalidContentType = errors.New("content type is not allowed")
)

// MaxPhotoSize is the maximum allowed photo size in bytes (5 MB).
const MaxPhotoSize = 5 * 1024 * 1024

// AllowedContentTypes lists the image MIME types accepted for photos.
var AllowedContentTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
}

// ---------------------------------------------------------------------------
// Domain types
// ---------------------------------------------------------------------------

// PhotoMetadata describes a stored resident photo.
type PhotoMetadata struct {
	ResidentID  string    `json:"resident_id"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Hash        string    `json:"hash"`
	UploadedAt  time.Time `json:"uploaded_at"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
}

// PhotoStore defines the contract for photo storage backends.
type PhotoStore interface {
	Put(ctx context.Context, meta PhotoMetadata, content io.Reader) (*PhotoMetadata, error)
	Get(ctx context.Context, residentID string) (io.ReadCloser, *PhotoMetadata, error)
	Delete(ctx context.Context, residentID string) error
}

// readPhoto validates and buffers photo content, filling in the derived
// metadata fields. Shared by both store implementations.
func readPhoto(meta *PhotoMetadata, content io.Reader) ([]byte, error) {
	if !AllowedContentTypes[meta.ContentType] {
		return nil, ErrInvalidContentType
	}

	data, err := io.ReadAll(io.LimitReader(content, MaxPhotoSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading content: %w", err)
	}
	if int64(len(data)) > MaxPhotoSize {
		return nil, ErrFileTooLarge
	}

	h := sha256.Sum256(data)
	meta.Size = int64(len(data))
	meta.Hash = fmt.Sprintf("%x", h)
	meta.UploadedAt = time.Now().UTC()

	return data, nil
}

// ---------------------------------------------------------------------------
// In-memory implementation
// ---------------------------------------------------------------------------

type storedPhoto struct {
	metadata PhotoMetadata
	content  []byte
}

// InMemoryPhotoStore is a thread-safe, in-memory PhotoStore for testing/dev.
type InMemoryPhotoStore struct {
	mu     sync.RWMutex
	photos map[string]*storedPhoto
}

// NewInMemoryPhotoStore returns a ready-to-use InMemoryPhotoStore.
func NewInMemoryPhotoStore() *InMemoryPhotoStore {
	return &InMemoryPhotoStore{
		photos: make(map[string]*storedPhoto),
	}
}

// Put validates inputs, reads the content, computes a SHA-256 hash, and
// stores the photo in memory, replacing any previous photo for the resident.
func (s *InMemoryPhotoStore) Put(_ context.Context, meta PhotoMetadata, content io.Reader) (*PhotoMetadata, error) {
	data, err := readPhoto(&meta, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.photos[meta.ResidentID] = &storedPhoto{
		metadata: meta,
		content:  data,
	}
	s.mu.Unlock()

	out := meta // copy
	return &out, nil
}

// Get returns an io.ReadCloser over the photo content and its metadata.
func (s *InMemoryPhotoStore) Get(_ context.Context, residentID string) (io.ReadCloser, *PhotoMetadata, error) {
	s.mu.RLock()
	photo, ok := s.photos[residentID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil, ErrPhotoNotFound
	}

	meta := photo.metadata // copy
	return io.NopCloser(bytes.NewReader(photo.content)), &meta, nil
}

// Delete removes a resident's photo.
func (s *InMemoryPhotoStore) Delete(_ context.Context, residentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.photos[residentID]; !ok {
		return ErrPhotoNotFound
	}
	delete(s.photos, residentID)
	return nil
}

// ---------------------------------------------------------------------------
// Filesystem implementation
// ---------------------------------------------------------------------------

// FSPhotoStore stores photos under a base directory, one content file and
// one metadata JSON sidecar per resident.
type FSPhotoStore struct {
	baseDir string
	mu      sync.Mutex
}

// NewFSPhotoStore creates the base directory if needed and returns a store.
func NewFSPhotoStore(baseDir string) (*FSPhotoStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating photo directory: %w", err)
	}
	return &FSPhotoStore{baseDir: baseDir}, nil
}

func (s *FSPhotoStore) contentPath(residentID string) string {
	return filepath.Join(s.baseDir, sanitizeID(residentID)+".bin")
}

func (s *FSPhotoStore) metaPath(residentID string) string {
	return filepath.Join(s.baseDir, sanitizeID(residentID)+".json")
}

// sanitizeID keeps only characters safe for a file name. Resident IDs are
// UUIDs; any other rune is replaced with an underscore.
func sanitizeID(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, id)
}

// Put writes the photo content and metadata sidecar atomically enough for a
// single-writer deployment: content first, then metadata.
func (s *FSPhotoStore) Put(_ context.Context, meta PhotoMetadata, content io.Reader) (*PhotoMetadata, error) {
	data, err := readPhoto(&meta, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.contentPath(meta.ResidentID), data, 0o640); err != nil {
		return nil, fmt.Errorf("writing photo: %w", err)
	}

	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	if err := os.WriteFile(s.metaPath(meta.ResidentID), metaJSON, 0o640); err != nil {
		return nil, fmt.Errorf("writing metadata: %w", err)
	}

	out := meta // copy
	return &out, nil
}

// Get opens the stored photo and reads its metadata sidecar.
func (s *FSPhotoStore) Get(_ context.Context, residentID string) (io.ReadCloser, *PhotoMetadata, error) {
	metaJSON, err := os.ReadFile(s.metaPath(residentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrPhotoNotFound
		}
		return nil, nil, fmt.Errorf("reading metadata: %w", err)
	}

	var meta PhotoMetadata
	if err := json.Unmarshal(metaJSON, &meta); err != nil {
		return nil, nil, fmt.Errorf("decoding metadata: %w", err)
	}

	f, err := os.Open(s.contentPath(residentID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrPhotoNotFound
		}
		return nil, nil, fmt.Errorf("opening photo: %w", err)
	}

	return f, &meta, nil
}

// Delete removes the photo content and its metadata sidecar.
func (s *FSPhotoStore) Delete(_ context.Context, residentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	contentErr := os.Remove(s.contentPath(residentID))
	metaErr := os.Remove(s.metaPath(residentID))

	if os.IsNotExist(contentErr) && os.IsNotExist(metaErr) {
		return ErrPhotoNotFound
	}
	if contentErr != nil && !os.IsNotExist(contentErr) {
		return fmt.Errorf("removing photo: %w", contentErr)
	}
	if metaErr != nil && !os.IsNotExist(metaErr) {
		return fmt.Errorf("removing metadata: %w", metaErr)
	}
	return nil
}
