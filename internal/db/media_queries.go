package db

import (
	"context"
	"errors"
	"fmt"
)

var ErrMediaNotFound = errors.New("media file not found")

func (p *Pool) InsertMediaFile(ctx context.Context, file *MediaFile) error {
	if p == nil || p.gdb == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	if file == nil {
		return fmt.Errorf("media file is nil")
	}
	if err := p.gdb.WithContext(ctx).Create(file).Error; err != nil {
		return fmt.Errorf("insert media file: %w", err)
	}
	return nil
}

func (p *Pool) GetMediaFile(ctx context.Context, mediaID string) (*MediaFile, error) {
	if p == nil || p.gdb == nil {
		return nil, fmt.Errorf("database pool is not initialized")
	}

	var file MediaFile
	err := p.gdb.WithContext(ctx).
		Where("media_id = ?", mediaID).
		Take(&file).Error
	if err != nil {
		if IsNoRows(err) {
			return nil, ErrMediaNotFound
		}
		return nil, fmt.Errorf("query media file: %w", err)
	}
	return &file, nil
}
