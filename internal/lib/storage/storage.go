// Package storage keeps uploaded files on an afero filesystem.
//
// Images are normalised on the way in: decoded, downscaled to fit the
// configured box and re-encoded as WebP. Documents and 3D models are
// stored byte for byte.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/elanurleylek/robosphere-sub000/internal/config"
	"github.com/elanurleylek/robosphere-sub000/internal/lib/utils"
	"github.com/elanurleylek/robosphere-sub000/internal/model"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrEmpty           = errors.New("empty file")
	ErrInvalidPath     = errors.New("invalid path")
	ErrNotFound        = errors.New("file not found")
)

// sniffLen is how many leading bytes http.DetectContentType looks at.
const sniffLen = 512

// Storage writes uploads below the root of fs.
type Storage struct {
	fs         afero.Fs
	publicPath string
	maxBytes   int64
	images     ImageOptions
	now        func() time.Time
}

// NewOsStorage stores files under cfg.Dir on the local disk, creating it if needed.
func NewOsStorage(cfg *config.UploadConfig) (*Storage, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), cfg.Dir), cfg), nil
}

// New stores files on fs.
func New(fs afero.Fs, cfg *config.UploadConfig) *Storage {
	return &Storage{
		fs:         fs,
		publicPath: strings.TrimRight(cfg.PublicPath, "/"),
		maxBytes:   cfg.MaxBytes,
		images: ImageOptions{
			MaxWidth:  cfg.ImageMaxWidth,
			MaxHeight: cfg.ImageMaxHeight,
			MaxPixels: cfg.ImageMaxPixels,
			Quality:   cfg.WebPQuality,
		},
		now: time.Now,
	}
}

// FS exposes the stored files for static serving.
func (s *Storage) FS() fs.FS {
	return afero.NewIOFS(s.fs)
}

// MaxBytes is the largest accepted upload.
func (s *Storage) MaxBytes() int64 {
	return s.maxBytes
}

// Save reads r fully (up to MaxBytes), classifies it and stores it.
// name is the client-supplied file name and only feeds the stored name.
func (s *Storage) Save(ctx context.Context, name string, r io.Reader) (*model.UploadResult, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return nil, ErrTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}

	kind, contentType := Classify(data, name)
	switch kind {
	case KindImage:
		data, err = ProcessImage(data, contentType, s.images)
		if err != nil {
			return nil, err
		}
		contentType = "image/webp"
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
	case KindDocument:
		// stored verbatim
	default:
		return nil, ErrUnsupportedType
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel := path.Join(s.now().UTC().Format("20060102"), uuid.NewString()+"-"+utils.SanitizeFilename(name))

	if err := s.fs.MkdirAll(path.Dir(rel), 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	if err := afero.WriteFile(s.fs, rel, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing upload: %w", err)
	}

	return &model.UploadResult{
		URL:         s.publicPath + "/" + rel,
		Path:        rel,
		ContentType: contentType,
		Size:        int64(len(data)),
	}, nil
}

// Delete removes a stored file by its relative path.
func (s *Storage) Delete(rel string) error {
	clean, err := cleanPath(rel)
	if err != nil {
		return err
	}

	info, err := s.fs.Stat(clean)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	if info.IsDir() {
		return ErrInvalidPath
	}

	return s.fs.Remove(clean)
}

// cleanPath accepts "<dir>/<file>" style relative paths and rejects
// anything that would escape the storage root.
func cleanPath(rel string) (string, error) {
	rel = strings.TrimLeft(rel, "/")
	if rel == "" || strings.Contains(rel, "\\") {
		return "", ErrInvalidPath
	}
	clean := path.Clean(rel)
	if clean == "." || clean != rel || strings.HasPrefix(clean, "..") {
		return "", ErrInvalidPath
	}
	return clean, nil
}

type Kind int

const (
	KindUnsupported Kind = iota
	KindImage
	KindDocument
)

// Classify sniffs the content type of data. The file extension is only
// consulted for STL models, which have no reliable magic number.
func Classify(data []byte, name string) (Kind, string) {
	head := data
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	ct := http.DetectContentType(head)
	base := strings.SplitN(ct, ";", 2)[0]

	switch base {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return KindImage, base
	case "application/pdf":
		return KindDocument, base
	case "application/zip":
		return KindDocument, base
	case "application/octet-stream", "text/plain":
		if strings.EqualFold(filepath.Ext(name), ".stl") && looksLikeSTL(data) {
			return KindDocument, "model/stl"
		}
	}
	return KindUnsupported, base
}

// looksLikeSTL accepts ASCII STL ("solid" header) and binary STL, whose
// size is fixed by the triangle count at offset 80.
func looksLikeSTL(data []byte) bool {
	if bytes.HasPrefix(bytes.TrimSpace(data[:min(len(data), sniffLen)]), []byte("solid")) {
		return true
	}
	if len(data) < 84 {
		return false
	}
	n := int64(data[80]) | int64(data[81])<<8 | int64(data[82])<<16 | int64(data[83])<<24
	return 84+n*50 == int64(len(data))
}
