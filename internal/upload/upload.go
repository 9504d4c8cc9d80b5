package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxFileSize is the largest accepted upload (2 MiB)
const MaxFileSize = 2 << 20

var (
	ErrInvalidFileType = errors.New("only .jpg, .jpeg and .png images are allowed")
	ErrFileTooLarge    = errors.New("file size exceeds the 2MB limit")
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// Uploader stores image files under a single directory
type Uploader struct {
	dir string
	now func() time.Time
}

// New creates an Uploader writing into dir
func New(dir string) *Uploader {
	return &Uploader{dir: dir, now: time.Now}
}

// Save validates the file and writes it under a generated name, which it returns.
// Nothing is written when validation fails.
func (u *Uploader) Save(fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", ErrInvalidFileType
	}
	declared := strings.ToLower(strings.TrimSpace(strings.Split(fh.Header.Get("Content-Type"), ";")[0]))
	if !allowedMIMETypes[declared] {
		return "", ErrInvalidFileType
	}
	if fh.Size > MaxFileSize {
		return "", ErrFileTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("failed to inspect uploaded file: %w", err)
	}
	if !detected.Is("image/jpeg") && !detected.Is("image/png") {
		return "", ErrInvalidFileType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("failed to rewind uploaded file: %w", err)
	}

	name := u.filename(ext)
	dst, err := os.OpenFile(filepath.Join(u.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}

	// Size is re-checked while copying; the header value comes from the client
	written, err := io.Copy(dst, io.LimitReader(src, MaxFileSize+1))
	closeErr := dst.Close()
	if err == nil && written > MaxFileSize {
		err = ErrFileTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(u.dir, name))
		if errors.Is(err, ErrFileTooLarge) {
			return "", err
		}
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}
	return name, nil
}

// Remove deletes a previously saved file. Missing files are ignored.
func (u *Uploader) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(filepath.Join(u.dir, filepath.Base(name)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (u *Uploader) filename(ext string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%d-%s%s", u.now().UnixMilli(), suffix, ext)
}
