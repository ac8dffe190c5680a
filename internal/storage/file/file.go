// Package file stores the record set as a single JSON document on disk.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/gofrs/flock"
	"github.com/klauspost/compress/zstd"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/storage"
)

// ZstdExt marks a document stored zstd-compressed.
const ZstdExt = ".zst"

// document is the persisted layout: { "names": [...] }.
type document struct {
	Names []*domain.Record `json:"names"`
}

// Store implements storage.RecordStore over a JSON file.
type Store struct {
	path     string
	compress bool
	lock     *flock.Flock
}

// New creates a store for path. A path ending in ".zst" is compressed.
func New(path string) *Store {
	return &Store{
		path:     path,
		compress: strings.HasSuffix(path, ZstdExt),
		lock:     flock.New(path + ".lock"),
	}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Lock takes the exclusive run lock on <path>.lock without blocking.
// Returns storage.ErrLocked if another process holds it.
func (s *Store) Lock() error {
	ok, err := s.lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	if !ok {
		return fmt.Errorf("lock %s: %w", s.path, storage.ErrLocked)
	}
	return nil
}

// Unlock releases the run lock.
func (s *Store) Unlock() error {
	return s.lock.Unlock()
}

// ReadAll loads every record. A missing file reads as empty.
func (s *Store) ReadAll(_ context.Context) ([]*domain.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Record{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	if s.compress {
		data, err = decompress(data)
		if err != nil {
			return nil, fmt.Errorf("decompress %s: %w", s.path, err)
		}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	for i, r := range doc.Names {
		if r == nil || r.Name == "" {
			return nil, fmt.Errorf("decode %s: record %d has no name: %w", s.path, i, storage.ErrInvalidInput)
		}
	}
	if doc.Names == nil {
		doc.Names = []*domain.Record{}
	}
	return doc.Names, nil
}

// WriteAll replaces the document. The new content is written to a temp file
// in the same directory and renamed over the old one.
func (s *Store) WriteAll(_ context.Context, records []*domain.Record) error {
	if records == nil {
		records = []*domain.Record{}
	}

	data, err := json.MarshalIndent(document{Names: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	if s.compress {
		data, err = compress(data)
		if err != nil {
			return fmt.Errorf("compress records: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", tmpName, err)
	}
	return nil
}

func compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	defer encoder.Close()
	return encoder.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

func decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	defer decoder.Close()
	return decoder.DecodeAll(data, nil)
}

var _ storage.RecordStore = (*Store)(nil)
