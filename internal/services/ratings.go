package services

import (
	"fmt"

	"naebak/internal/db"
	"naebak/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RateDeputy upserts the citizen's star rating for a deputy and recomputes the
// profile aggregates in the same transaction.
func RateDeputy(userID uint, deputyProfileID uint, score int) error {
	if score < 1 || score > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", score)
	}

	return db.DB.Transaction(func(tx *gorm.DB) error {
		rating := models.DeputyRating{
			UserID:   userID,
			DeputyID: deputyProfileID,
			Score:    score,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "deputy_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"score", "updated_at"}),
		}).Create(&rating).Error; err != nil {
			return err
		}

		// Recompute from the rating rows; cheaper than getting the +/- delta
		// right for both insert and update paths.
		var agg struct {
			Sum   int
			Count int
		}
		if err := tx.Model(&models.DeputyRating{}).
			Select("COALESCE(SUM(score),0) as sum, COUNT(*) as count").
			Where("deputy_id = ?", deputyProfileID).
			Scan(&agg).Error; err != nil {
			return err
		}
		return tx.Model(&models.DeputyProfile{}).
			Where("id = ?", deputyProfileID).
			Updates(map[string]interface{}{
				"rating_sum":   agg.Sum,
				"rating_count": agg.Count,
			}).Error
	})
}
