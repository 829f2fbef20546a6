// Package models defines server-side data models persisted in the database
// and returned by the HTTP API.
package models

import "time"

// Checklist is the root of a checklist subtree.
//
// PublicToken is empty until the checklist is first published and never
// changes afterwards. OwnerID is a weak reference to a User and is not
// validated.
type Checklist struct {
	ID          int64       `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	PublicToken string      `json:"public_id"`
	IsPublic    bool        `json:"is_public"`
	OwnerID     *int64      `json:"owner_id"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Categories  []*Category `json:"categories"`
}

// Category groups items of a checklist. Position keeps insertion order.
type Category struct {
	ID          int64   `json:"id"`
	ChecklistID int64   `json:"-"`
	Name        string  `json:"name"`
	Position    int     `json:"-"`
	Items       []*Item `json:"items"`
}

// Item is a single checklist entry with optional file attachments.
type Item struct {
	ID         int64         `json:"id"`
	CategoryID int64         `json:"-"`
	Name       string        `json:"name"`
	Position   int           `json:"-"`
	Uploads    []*FileUpload `json:"uploads"`
}
