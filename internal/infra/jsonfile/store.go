package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"quiz-storefront/internal/domain"
)

// Store keeps one collection as a JSON array in a single file.
// Every call re-reads the file, so the file on disk is the only state; the mutex
// serialises read-modify-write within this process only.
type Store[T domain.Document] struct {
	path     string
	notFound error
	mu       sync.Mutex
}

// NewStore binds a store to path. The file is created on first write.
func NewStore[T domain.Document](path string, notFound error) *Store[T] {
	return &Store[T]{path: path, notFound: notFound}
}

// Path returns the backing file.
func (s *Store[T]) Path() string {
	return s.path
}

func (s *Store[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var zero T
	docs, err := s.load()
	if err != nil {
		return zero, err
	}
	for _, doc := range docs {
		if doc.DocumentID() == id {
			return doc, nil
		}
	}
	return zero, s.notFound
}

func (s *Store[T]) List(_ context.Context) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *Store[T]) Put(_ context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range docs {
		if docs[i].DocumentID() == doc.DocumentID() {
			docs[i] = doc
			replaced = true
			break
		}
	}
	if !replaced {
		docs = append(docs, doc)
	}
	return s.save(docs)
}

func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, err := s.load()
	if err != nil {
		return err
	}
	kept := docs[:0]
	for _, doc := range docs {
		if doc.DocumentID() != id {
			kept = append(kept, doc)
		}
	}
	if len(kept) == len(docs) {
		return nil
	}
	return s.save(kept)
}

func (s *Store[T]) load() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	docs := []T{}
	if len(data) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return docs, nil
}

// save writes to a temp file in the same directory and renames it over the target.
func (s *Store[T]) save(docs []T) error {
	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.path, err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
