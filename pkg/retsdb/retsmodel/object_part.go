package retsmodel

import "time"

// ObjectPart is a GetObject attachment written to disk.
type ObjectPart struct {
	ID          int       `json:"id"`
	UUID        string    `json:"uuid" gorm:"uniqueIndex;size:64"`
	Resource    string    `json:"resource"`
	ContentID   string    `json:"content_id" gorm:"index"`
	ObjectID    string    `json:"object_id"`
	ContentType string    `json:"content_type"`
	Path        string    `json:"path"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (ObjectPart) TableName() string {
	return "object_parts"
}
