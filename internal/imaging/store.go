package imaging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists image bytes in two variants per filename: the full-size
// original and its square thumbnail. Filenames never carry path separators;
// the store rejects anything that would escape its directories.
type Store interface {
	WriteOriginal(filename string, data []byte) error
	WriteThumbnail(filename string, data []byte) error
	// WriteOriginalIfAbsent writes only when no file exists yet and reports
	// whether it wrote. Re-imports of the same document stay idempotent.
	WriteOriginalIfAbsent(filename string, data []byte) (bool, error)
	WriteThumbnailIfAbsent(filename string, data []byte) (bool, error)
	ReadOriginal(filename string) ([]byte, error)
	ReadThumbnail(filename string) ([]byte, error)
	// RemoveOriginal and RemoveThumbnail are no-ops for missing files.
	RemoveOriginal(filename string) error
	RemoveThumbnail(filename string) error
	// OriginalSize and ThumbnailSize report 0 for missing files.
	OriginalSize(filename string) int64
	ThumbnailSize(filename string) int64
}

// DiskStore keeps originals/ and thumbnails/ under one root directory.
type DiskStore struct {
	originals  string
	thumbnails string
}

// NewDiskStore creates the variant directories under root.
func NewDiskStore(root string) (*DiskStore, error) {
	s := &DiskStore{
		originals:  filepath.Join(root, "originals"),
		thumbnails: filepath.Join(root, "thumbnails"),
	}
	for _, dir := range []string{s.originals, s.thumbnails} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create upload directory: %w", err)
		}
	}
	return s, nil
}

func (s *DiskStore) path(dir, filename string) (string, error) {
	if filename == "" || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(dir, filename), nil
}

func (s *DiskStore) write(dir, filename string, data []byte) error {
	p, err := s.path(dir, filename)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fmt.Errorf("write image: %w", err)
	}
	return nil
}

func (s *DiskStore) writeIfAbsent(dir, filename string, data []byte) (bool, error) {
	p, err := s.path(dir, filename)
	if err != nil {
		return false, err
	}
	f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, fmt.Errorf("write image: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		return false, fmt.Errorf("write image: %w", err)
	}
	return true, nil
}

func (s *DiskStore) read(dir, filename string) ([]byte, error) {
	p, err := s.path(dir, filename)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return data, nil
}

func (s *DiskStore) remove(dir, filename string) error {
	p, err := s.path(dir, filename)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove image: %w", err)
	}
	return nil
}

func (s *DiskStore) size(dir, filename string) int64 {
	p, err := s.path(dir, filename)
	if err != nil {
		return 0
	}
	info, err := os.Stat(p)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (s *DiskStore) WriteOriginal(filename string, data []byte) error {
	return s.write(s.originals, filename, data)
}

func (s *DiskStore) WriteThumbnail(filename string, data []byte) error {
	return s.write(s.thumbnails, filename, data)
}

func (s *DiskStore) WriteOriginalIfAbsent(filename string, data []byte) (bool, error) {
	return s.writeIfAbsent(s.originals, filename, data)
}

func (s *DiskStore) WriteThumbnailIfAbsent(filename string, data []byte) (bool, error) {
	return s.writeIfAbsent(s.thumbnails, filename, data)
}

func (s *DiskStore) ReadOriginal(filename string) ([]byte, error) {
	return s.read(s.originals, filename)
}

func (s *DiskStore) ReadThumbnail(filename string) ([]byte, error) {
	return s.read(s.thumbnails, filename)
}

func (s *DiskStore) RemoveOriginal(filename string) error {
	return s.remove(s.originals, filename)
}

func (s *DiskStore) RemoveThumbnail(filename string) error {
	return s.remove(s.thumbnails, filename)
}

func (s *DiskStore) OriginalSize(filename string) int64 {
	return s.size(s.originals, filename)
}

func (s *DiskStore) ThumbnailSize(filename string) int64 {
	return s.size(s.thumbnails, filename)
}
