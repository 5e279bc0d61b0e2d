package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrArtifactNotFound is returned for unknown report names.
var ErrArtifactNotFound = errors.New("report not found")

// Artifact describes one rendered report on disk.
type Artifact struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps rendered reports as append-only .pdf files in one directory.
// Listing is a directory scan; there is no manifest.
type Store struct {
	dir string
}

// NewStore ensures the reports directory exists.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = "reports"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create reports dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string { return s.dir }

// Write renders into a new exclusively-created file. Name collisions get a
// numeric suffix instead of overwriting an earlier report.
func (s *Store) Write(name string, render func(w io.Writer) error) (Artifact, error) {
	base := sanitizeFilename(name)

	file, finalName, err := s.createExclusive(base)
	if err != nil {
		return Artifact{}, err
	}

	if err := render(file); err != nil {
		file.Close()
		os.Remove(filepath.Join(s.dir, finalName))
		return Artifact{}, fmt.Errorf("render %s: %w", finalName, err)
	}
	if err := file.Close(); err != nil {
		return Artifact{}, fmt.Errorf("close %s: %w", finalName, err)
	}

	info, err := os.Stat(filepath.Join(s.dir, finalName))
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Name: finalName, Size: info.Size(), CreatedAt: info.ModTime()}, nil
}

func (s *Store) createExclusive(base string) (*os.File, string, error) {
	stem := strings.TrimSuffix(base, ".pdf")
	for attempt := 0; attempt < 100; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d.pdf", stem, attempt+1)
		}
		file, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return file, name, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", fmt.Errorf("create report file: %w", err)
		}
	}
	return nil, "", fmt.Errorf("too many reports named %s", base)
}

// List enumerates every .pdf in the directory, newest first.
func (s *Store) List() ([]Artifact, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan reports dir: %w", err)
	}
	out := []Artifact{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".pdf") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Artifact{Name: entry.Name(), Size: info.Size(), CreatedAt: info.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

// Path resolves a report name to its file path, rejecting anything outside
// the directory.
func (s *Store) Path(name string) (string, error) {
	clean := sanitizeFilename(name)
	if clean != name {
		return "", ErrArtifactNotFound
	}
	path := filepath.Join(s.dir, clean)
	if _, err := os.Stat(path); err != nil {
		return "", ErrArtifactNotFound
	}
	return path, nil
}

// Delete removes one report.
func (s *Store) Delete(name string) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return os.Remove(path)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if !strings.HasSuffix(name, ".pdf") {
		name += ".pdf"
	}
	return name
}
