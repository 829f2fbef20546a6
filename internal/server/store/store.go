// Package store composes the entity repositories into whole-subtree reads,
// ordered subtree inserts and explicit cascade deletes.
//
// Every method takes the handle to operate on, so callers decide whether the
// work runs inside a transaction. Multi-entity writes must be given the tx
// handle from RepositoryManager.InTx.
package store

import (
	"context"

	"github.com/termblocks/checklist/internal/dbx"
	"github.com/termblocks/checklist/internal/server/models"
	"github.com/termblocks/checklist/internal/server/repositories/repomanager"
)

type Store struct {
	rm repomanager.RepositoryManager
}

func New(rm repomanager.RepositoryManager) *Store {
	return &Store{rm: rm}
}

// LoadTree returns the checklist with its categories, items and uploads.
func (s *Store) LoadTree(ctx context.Context, db dbx.DBTX, id int64) (*models.Checklist, error) {
	c, err := s.rm.Checklists(db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachChildren(ctx, db, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadTreeByToken is LoadTree keyed by public token. It does not look at
// the is_public flag.
func (s *Store) LoadTreeByToken(ctx context.Context, db dbx.DBTX, token string) (*models.Checklist, error) {
	c, err := s.rm.Checklists(db).GetByPublicToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.attachChildren(ctx, db, c); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadTrees returns every checklist, optionally only those of one owner,
// each with its full subtree.
func (s *Store) LoadTrees(ctx context.Context, db dbx.DBTX, ownerID *int64) ([]*models.Checklist, error) {
	list, err := s.rm.Checklists(db).List(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if err := s.attachChildren(ctx, db, c); err != nil {
			return nil, err
		}
	}
	if list == nil {
		list = []*models.Checklist{}
	}
	return list, nil
}

func (s *Store) attachChildren(ctx context.Context, db dbx.DBTX, c *models.Checklist) error {
	cats, err := s.rm.Categories(db).ListByChecklist(ctx, c.ID)
	if err != nil {
		return err
	}

	catIDs := make([]int64, 0, len(cats))
	byCategory := make(map[int64]*models.Category, len(cats))
	for _, cat := range cats {
		cat.Items = []*models.Item{}
		catIDs = append(catIDs, cat.ID)
		byCategory[cat.ID] = cat
	}

	its, err := s.rm.Items(db).ListByCategories(ctx, catIDs)
	if err != nil {
		return err
	}

	itemIDs := make([]int64, 0, len(its))
	byItem := make(map[int64]*models.Item, len(its))
	for _, it := range its {
		it.Uploads = []*models.FileUpload{}
		itemIDs = append(itemIDs, it.ID)
		byItem[it.ID] = it
		if cat, ok := byCategory[it.CategoryID]; ok {
			cat.Items = append(cat.Items, it)
		}
	}

	ups, err := s.rm.Uploads(db).ListByItems(ctx, itemIDs)
	if err != nil {
		return err
	}
	for _, u := range ups {
		if it, ok := byItem[u.ItemID]; ok {
			it.Uploads = append(it.Uploads, u)
		}
	}

	c.Categories = cats
	if c.Categories == nil {
		c.Categories = []*models.Category{}
	}
	return nil
}

// CreateTree inserts a new private checklist built from draft.
func (s *Store) CreateTree(ctx context.Context, db dbx.DBTX, draft models.ChecklistDraft) (*models.Checklist, error) {
	c := &models.Checklist{
		Title:       draft.Title,
		Description: draft.Description,
		OwnerID:     draft.OwnerID,
	}
	if err := s.rm.Checklists(db).Create(ctx, c); err != nil {
		return nil, err
	}

	cats, err := s.InsertCategories(ctx, db, c.ID, draft.Categories)
	if err != nil {
		return nil, err
	}
	c.Categories = cats
	return c, nil
}

// InsertCategories appends the drafted categories and their items to a
// checklist, keeping the draft order.
func (s *Store) InsertCategories(ctx context.Context, db dbx.DBTX, checklistID int64, drafts []models.CategoryDraft) ([]*models.Category, error) {
	catRepo := s.rm.Categories(db)
	itemRepo := s.rm.Items(db)

	result := make([]*models.Category, 0, len(drafts))
	for i, d := range drafts {
		cat := &models.Category{ChecklistID: checklistID, Name: d.Name, Position: i}
		if err := catRepo.Create(ctx, cat); err != nil {
			return nil, err
		}

		cat.Items = make([]*models.Item, 0, len(d.Items))
		for j, itd := range d.Items {
			it := &models.Item{CategoryID: cat.ID, Name: itd.Name, Position: j}
			if err := itemRepo.Create(ctx, it); err != nil {
				return nil, err
			}
			it.Uploads = []*models.FileUpload{}
			cat.Items = append(cat.Items, it)
		}
		result = append(result, cat)
	}
	return result, nil
}

// DeleteChildren removes every category, item and upload record of a
// checklist, leaves first. It returns the storage keys of the removed
// uploads; the blobs themselves are left to the caller.
func (s *Store) DeleteChildren(ctx context.Context, db dbx.DBTX, checklistID int64) ([]string, error) {
	cats, err := s.rm.Categories(db).ListByChecklist(ctx, checklistID)
	if err != nil {
		return nil, err
	}
	catIDs := make([]int64, 0, len(cats))
	for _, c := range cats {
		catIDs = append(catIDs, c.ID)
	}

	its, err := s.rm.Items(db).ListByCategories(ctx, catIDs)
	if err != nil {
		return nil, err
	}
	itemIDs := make([]int64, 0, len(its))
	for _, it := range its {
		itemIDs = append(itemIDs, it.ID)
	}

	ups, err := s.rm.Uploads(db).ListByItems(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(ups))
	for _, u := range ups {
		keys = append(keys, u.StorageKey)
	}

	if _, err := s.rm.Uploads(db).DeleteByItems(ctx, itemIDs); err != nil {
		return nil, err
	}
	if _, err := s.rm.Items(db).DeleteByCategories(ctx, catIDs); err != nil {
		return nil, err
	}
	if _, err := s.rm.Categories(db).DeleteByChecklist(ctx, checklistID); err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteChecklist removes a checklist and its whole subtree and returns the
// storage keys of the removed uploads.
func (s *Store) DeleteChecklist(ctx context.Context, db dbx.DBTX, id int64) ([]string, error) {
	if _, err := s.rm.Checklists(db).GetByID(ctx, id); err != nil {
		return nil, err
	}
	keys, err := s.DeleteChildren(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := s.rm.Checklists(db).Delete(ctx, id); err != nil {
		return nil, err
	}
	return keys, nil
}

// ChecklistOfUpload walks upload → item → category → checklist. A missing
// link is reported with the not-found error of the missing kind.
func (s *Store) ChecklistOfUpload(ctx context.Context, db dbx.DBTX, u *models.FileUpload) (*models.Checklist, error) {
	it, err := s.rm.Items(db).GetByID(ctx, u.ItemID)
	if err != nil {
		return nil, err
	}
	cat, err := s.rm.Categories(db).GetByID(ctx, it.CategoryID)
	if err != nil {
		return nil, err
	}
	return s.rm.Checklists(db).GetByID(ctx, cat.ChecklistID)
}
