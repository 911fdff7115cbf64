package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Store writes uploaded and engine-delivered documents under a single
// directory. Uploads are temporary by contract: every submission path
// removes its file before returning, and RemoveStaleTemp sweeps
// whatever a crash left behind.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// SaveTemp streams an upload to disk under a collision-free temp name
// and returns the full path.
func (s *Store) SaveTemp(src io.Reader, filename string) (string, error) {
	name := fmt.Sprintf("tmp_%s_%s", uuid.NewString(), sanitizeFilename(filename))
	path := filepath.Join(s.dir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	return path, nil
}

// Remove deletes a stored file. A file that is already gone is not an
// error: cleanup runs on every exit path and may race itself.
func (s *Store) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("failed to remove stored file")
	}
}

// SaveReceived persists a document pushed by the workflow engine. These
// are kept, not swept.
func (s *Store) SaveReceived(filename string, data []byte) (string, error) {
	name := "received_" + sanitizeFilename(filename)
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write received file: %w", err)
	}
	return path, nil
}

// RemoveStaleTemp deletes temp uploads older than maxAge and returns
// how many were removed.
func (s *Store) RemoveStaleTemp(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read upload dir: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "tmp_") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, entry.Name())); err == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// sanitizeFilename strips path components and anything outside a safe
// character set so a client-supplied name can never escape the dir.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 || b.String() == "." || b.String() == ".." {
		return "documento.pdf"
	}
	return b.String()
}
