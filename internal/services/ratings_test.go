package services

import (
	"context"
	"testing"

	"github.com/ratewise-dev/ratewise/internal/models"
	"github.com/ratewise-dev/ratewise/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUserAndStore(t *testing.T, gdb *gorm.DB) (models.User, models.Store) {
	t.Helper()

	owner := models.User{
		Name:         "Store Owner For Ratings Test",
		Email:        "owner@ratings.example",
		PasswordHash: "x",
		Role:         models.RoleStoreOwner,
	}
	require.NoError(t, gdb.Create(&owner).Error)

	store := models.Store{
		Name:    "Rated Store",
		Email:   owner.Email,
		Address: "12 Main Street",
		OwnerID: owner.ID,
	}
	require.NoError(t, gdb.Create(&store).Error)

	rater := models.User{
		Name:         "Normal User Who Rates Stores",
		Email:        "rater@ratings.example",
		PasswordHash: "x",
		Address:      "34 Side Street",
		Role:         models.RoleNormalUser,
	}
	require.NoError(t, gdb.Create(&rater).Error)

	return rater, store
}

func TestSubmitOrUpdateIsIdempotentPerKey(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewRatingLedger(gdb)
	rater, store := seedUserAndStore(t, gdb)

	outcome, err := ledger.SubmitOrUpdate(context.Background(), rater.ID, store.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, RatingCreated, outcome)

	for _, value := range []int{1, 5, 2} {
		outcome, err = ledger.SubmitOrUpdate(context.Background(), rater.ID, store.ID, value)
		require.NoError(t, err)
		assert.Equal(t, RatingModified, outcome)
	}

	var rows []models.Rating
	require.NoError(t, gdb.Where("user_id = ? AND store_id = ?", rater.ID, store.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Value)
}

func TestSubmitOrUpdateRacedInsertBecomesUpdate(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewRatingLedger(gdb)
	rater, store := seedUserAndStore(t, gdb)

	// Slip a conflicting rating in after the existence check has come back
	// empty, so the insert can only land via the conflict clause.
	injected := false
	err := gdb.Callback().Create().Before("gorm:create").Register("race_rating_insert", func(tx *gorm.DB) {
		if injected || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "ratings" {
			return
		}
		injected = true

		rival := models.Rating{UserID: rater.ID, StoreID: store.ID, Value: 5}
		if err := tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error; err != nil {
			_ = tx.AddError(err)
		}
	})
	require.NoError(t, err)
	defer func() {
		require.NoError(t, gdb.Callback().Create().Remove("race_rating_insert"))
	}()

	outcome, err := ledger.SubmitOrUpdate(context.Background(), rater.ID, store.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, RatingCreated, outcome)

	// One row, holding the later write.
	var rows []models.Rating
	require.NoError(t, gdb.Where("user_id = ? AND store_id = ?", rater.ID, store.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Value)
}

func TestSubmitOrUpdateRejectsOutOfRange(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewRatingLedger(gdb)
	rater, store := seedUserAndStore(t, gdb)

	var vErr *validation.Error

	for _, value := range []int{0, 6, -1} {
		_, err := ledger.SubmitOrUpdate(context.Background(), rater.ID, store.ID, value)
		require.ErrorAs(t, err, &vErr, "value %d", value)
	}

	var count int64
	require.NoError(t, gdb.Model(&models.Rating{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitOrUpdateUnknownStore(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewRatingLedger(gdb)
	rater, _ := seedUserAndStore(t, gdb)

	_, err := ledger.SubmitOrUpdate(context.Background(), rater.ID, 9999, 3)
	require.ErrorIs(t, err, ErrStoreNotFound)
}

func TestAverage(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewRatingLedger(gdb)
	rater, store := seedUserAndStore(t, gdb)

	_, hasRatings, err := ledger.Average(context.Background(), store.ID)
	require.NoError(t, err)
	assert.False(t, hasRatings)

	second := models.User{
		Name:         "Second Normal User Account",
		Email:        "second@ratings.example",
		PasswordHash: "x",
		Role:         models.RoleNormalUser,
	}
	require.NoError(t, gdb.Create(&second).Error)

	_, err = ledger.SubmitOrUpdate(context.Background(), rater.ID, store.ID, 4)
	require.NoError(t, err)
	_, err = ledger.SubmitOrUpdate(context.Background(), second.ID, store.ID, 2)
	require.NoError(t, err)

	avg, hasRatings, err := ledger.Average(context.Background(), store.ID)
	require.NoError(t, err)
	assert.True(t, hasRatings)
	assert.InDelta(t, 3.0, avg, 0.0001)

	// Replacing a rating shifts the live average, never a cached one.
	_, err = ledger.SubmitOrUpdate(context.Background(), rater.ID, store.ID, 2)
	require.NoError(t, err)

	avg, _, err = ledger.Average(context.Background(), store.ID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, avg, 0.0001)
}

func TestRatersFor(t *testing.T) {
	gdb := newTestDB(t)
	ledger := NewRatingLedger(gdb)
	rater, store := seedUserAndStore(t, gdb)

	_, err := ledger.SubmitOrUpdate(context.Background(), rater.ID, store.ID, 5)
	require.NoError(t, err)

	raters, err := ledger.RatersFor(context.Background(), store.ID)
	require.NoError(t, err)
	require.Len(t, raters, 1)
	assert.Equal(t, rater.Name, raters[0].Name)
	assert.Equal(t, rater.Email, raters[0].Email)
	assert.Equal(t, 5, raters[0].Rating)
}
