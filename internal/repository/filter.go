package repository

import "gorm.io/gorm"

func applyFindFilter(tx *gorm.DB, filter FindFilter) *gorm.DB {
	if filter.UserID != "" {
		tx = tx.Where("user_id=?", filter.UserID)
	}

	if filter.Zone != "" {
		tx = tx.Where("zone=?", filter.Zone)
	}

	if !filter.StartTime.IsZero() {
		tx = tx.Where("found_at >= ?", filter.StartTime)
	}

	if !filter.EndTime.IsZero() {
		tx = tx.Where("found_at < ?", filter.EndTime)
	}

	return tx
}
