package models

import "time"

// FileUpload describes a file attached to an item. The bytes live in file
// storage under StorageKey, never under the original Filename.
type FileUpload struct {
	ID         int64     `json:"id"`
	ItemID     int64     `json:"item_id"`
	Filename   string    `json:"filename"`
	StorageKey string    `json:"path"`
	Size       int64     `json:"size"`
	CreatedAt  time.Time `json:"uploaded_at"`
}
