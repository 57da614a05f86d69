package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"horse.fit/ansa/internal/db"
	"horse.fit/ansa/internal/globaltime"
)

// DBStorage stores binaries in Postgres through the GORM pool.
type DBStorage struct {
	pool *db.Pool
}

func NewDBStorage(pool *db.Pool) *DBStorage {
	return &DBStorage{pool: pool}
}

func (s *DBStorage) Put(ctx context.Context, file File, data []byte) (File, error) {
	if s == nil || s.pool == nil {
		return File{}, fmt.Errorf("database media storage is not initialized")
	}

	file.ID = uuid.NewString()
	file.Size = int64(len(data))
	file.CreatedAt = globaltime.UTC()

	row := &db.MediaFile{
		MediaID:     file.ID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        file.Size,
		Width:       file.Width,
		Height:      file.Height,
		Data:        data,
		CreatedAt:   file.CreatedAt,
	}
	if href := strings.TrimSpace(file.SourceHref); href != "" {
		row.SourceHref = &href
	}
	if err := s.pool.InsertMediaFile(ctx, row); err != nil {
		return File{}, err
	}
	return file, nil
}

func (s *DBStorage) Get(ctx context.Context, id string) (io.ReadCloser, File, error) {
	if s == nil || s.pool == nil {
		return nil, File{}, fmt.Errorf("database media storage is not initialized")
	}
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return nil, File{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	row, err := s.pool.GetMediaFile(ctx, strings.TrimSpace(id))
	if err != nil {
		if errors.Is(err, db.ErrMediaNotFound) {
			return nil, File{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, File{}, err
	}

	file := File{
		ID:          row.MediaID,
		Filename:    row.Filename,
		ContentType: row.ContentType,
		Size:        row.Size,
		Width:       row.Width,
		Height:      row.Height,
		CreatedAt:   row.CreatedAt,
	}
	if row.SourceHref != nil {
		file.SourceHref = *row.SourceHref
	}
	return io.NopCloser(bytes.NewReader(row.Data)), file, nil
}
