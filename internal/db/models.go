package db

import "time"

// MediaFile maps ansa.media_files. Binaries are small JPEG renditions, so
// they live inline in bytea.
type MediaFile struct {
	MediaID     string    `gorm:"column:media_id;type:uuid;primaryKey"`
	Filename    string    `gorm:"column:filename;type:text;not null;default:''"`
	ContentType string    `gorm:"column:content_type;type:text;not null"`
	SourceHref  *string   `gorm:"column:source_href;type:text"`
	Size        int64     `gorm:"column:size;type:bigint;not null"`
	Width       *int      `gorm:"column:width;type:integer"`
	Height      *int      `gorm:"column:height;type:integer"`
	Data        []byte    `gorm:"column:data;type:bytea;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;type:timestamptz;not null;default:now()"`
}

func (MediaFile) TableName() string { return "ansa.media_files" }

func autoMigrateModels() []any {
	return []any{
		&MediaFile{},
	}
}
