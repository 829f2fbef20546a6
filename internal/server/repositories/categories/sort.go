package categories

import (
	"cmp"
	"slices"

	"github.com/termblocks/checklist/internal/server/models"
)

// sortByPosition orders categories by position, then id.
func sortByPosition(cs []*models.Category) {
	slices.SortStableFunc(cs, func(a, b *models.Category) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.ID, b.ID))
	})
}
