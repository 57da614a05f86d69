package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"

	"horse.fit/ansa/internal/globaltime"
)

// MemoryStorage keeps binaries in process memory. It is used when no
// database is configured and in tests.
type MemoryStorage struct {
	mu    sync.RWMutex
	files map[string]memoryEntry
}

type memoryEntry struct {
	file File
	data []byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: make(map[string]memoryEntry)}
}

func (s *MemoryStorage) Put(_ context.Context, file File, data []byte) (File, error) {
	if s == nil {
		return File{}, fmt.Errorf("memory storage is nil")
	}
	file.ID = uuid.NewString()
	file.Size = int64(len(data))
	file.CreatedAt = globaltime.UTC()

	stored := make([]byte, len(data))
	copy(stored, data)

	s.mu.Lock()
	s.files[file.ID] = memoryEntry{file: file, data: stored}
	s.mu.Unlock()
	return file, nil
}

func (s *MemoryStorage) Get(_ context.Context, id string) (io.ReadCloser, File, error) {
	if s == nil {
		return nil, File{}, fmt.Errorf("memory storage is nil")
	}
	s.mu.RLock()
	entry, ok := s.files[strings.TrimSpace(id)]
	s.mu.RUnlock()
	if !ok {
		return nil, File{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return io.NopCloser(bytes.NewReader(entry.data)), entry.file, nil
}

// Len reports how many files are stored.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.files)
}
