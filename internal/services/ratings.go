package services

import (
	"context"
	"errors"

	"github.com/ratewise-dev/ratewise/internal/models"
	"github.com/ratewise-dev/ratewise/internal/validation"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingOutcome int

const (
	RatingCreated RatingOutcome = iota + 1
	RatingModified
)

// RatingLedger enforces at-most-one-rating-per-user-per-store and computes
// live aggregates. Averages are never persisted, so they cannot go stale.
type RatingLedger struct {
	db *gorm.DB
}

func NewRatingLedger(gdb *gorm.DB) *RatingLedger {
	return &RatingLedger{db: gdb}
}

// SubmitOrUpdate records value for (userID, storeID), replacing any previous
// value. The find-then-write runs in one transaction; the ON CONFLICT clause
// turns a raced insert into an update instead of an error, with the unique
// index on (user_id, store_id) as the final backstop.
func (l *RatingLedger) SubmitOrUpdate(ctx context.Context, userID, storeID uint, value int) (RatingOutcome, error) {
	if value < 1 || value > 5 {
		return 0, &validation.Error{Message: "Invalid store ID or rating (must be 1-5)."}
	}

	var outcome RatingOutcome

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var store models.Store

		if err := tx.Select("id").First(&store, storeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStoreNotFound
			}
			return err
		}

		var existing models.Rating

		err := tx.Where("user_id = ? AND store_id = ?", userID, storeID).First(&existing).Error

		if err == nil {
			outcome = RatingModified
			return tx.Model(&existing).Update("value", value).Error
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		outcome = RatingCreated
		rating := models.Rating{UserID: userID, StoreID: storeID, Value: value}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&rating).Error
	})

	if err != nil {
		return 0, err
	}

	return outcome, nil
}

// Average returns the arithmetic mean of a store's live ratings. The second
// return is false when the store has no ratings yet.
func (l *RatingLedger) Average(ctx context.Context, storeID uint) (float64, bool, error) {
	var avg *float64

	err := l.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("AVG(value)").
		Where("store_id = ?", storeID).
		Scan(&avg).Error

	if err != nil {
		return 0, false, err
	}

	if avg == nil {
		return 0, false, nil
	}

	return *avg, true, nil
}

type Rater struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Rating  int    `json:"rating"`
}

// RatersFor lists every user who rated the store, with their score.
func (l *RatingLedger) RatersFor(ctx context.Context, storeID uint) ([]Rater, error) {
	var raters []Rater

	err := l.db.WithContext(ctx).
		Table("ratings").
		Select("users.name, users.email, users.address, ratings.value AS rating").
		Joins("JOIN users ON users.id = ratings.user_id").
		Where("ratings.store_id = ? AND ratings.deleted_at IS NULL", storeID).
		Scan(&raters).Error

	if err != nil {
		return nil, err
	}

	return raters, nil
}
