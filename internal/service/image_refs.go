package service

import (
	"github.com/globalaidnetwork/internal/db"
	"gorm.io/gorm"
)

const invalidImageMessage = "Select a valid image."

// missingImageIDs returns the subset of ids with no image row.
func missingImageIDs(gdb *gorm.DB, ids []uint) (map[uint]bool, error) {
	missing := make(map[uint]bool, len(ids))
	if len(ids) == 0 {
		return missing, nil
	}

	var found []uint
	if err := gdb.Model(&db.Image{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}

	present := make(map[uint]bool, len(found))
	for _, id := range found {
		present[id] = true
	}
	for _, id := range ids {
		if !present[id] {
			missing[id] = true
		}
	}
	return missing, nil
}
