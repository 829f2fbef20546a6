package models

// ChecklistDraft is the input of Create and Replace: a checklist header with
// its nested categories and items. Uploads are never part of a draft.
type ChecklistDraft struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	OwnerID     *int64          `json:"owner_id,omitempty"`
	Categories  []CategoryDraft `json:"categories"`
}

type CategoryDraft struct {
	Name  string      `json:"name"`
	Items []ItemDraft `json:"items"`
}

type ItemDraft struct {
	Name string `json:"name"`
}

// DraftOf returns the structure of c as a draft, dropping ids and uploads.
func DraftOf(c *Checklist) ChecklistDraft {
	d := ChecklistDraft{
		Title:       c.Title,
		Description: c.Description,
		OwnerID:     c.OwnerID,
		Categories:  make([]CategoryDraft, 0, len(c.Categories)),
	}
	for _, cat := range c.Categories {
		cd := CategoryDraft{Name: cat.Name, Items: make([]ItemDraft, 0, len(cat.Items))}
		for _, it := range cat.Items {
			cd.Items = append(cd.Items, ItemDraft{Name: it.Name})
		}
		d.Categories = append(d.Categories, cd)
	}
	return d
}
