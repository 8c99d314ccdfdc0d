package retsmodel

import "time"

// MetadataSnapshot records a metadata archive written to Path.
type MetadataSnapshot struct {
	ID        int       `json:"id"`
	UUID      string    `json:"uuid" gorm:"uniqueIndex;size:64"`
	Host      string    `json:"host"`
	Type      string    `json:"type" gorm:"index"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (MetadataSnapshot) TableName() string {
	return "metadata_snapshots"
}
