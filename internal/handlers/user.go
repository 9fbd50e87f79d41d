package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ratewise-dev/ratewise/internal/models"
	"github.com/ratewise-dev/ratewise/internal/query"
	"github.com/ratewise-dev/ratewise/internal/services"
	"github.com/ratewise-dev/ratewise/internal/utils"
	"github.com/ratewise-dev/ratewise/internal/validation"
	"gorm.io/gorm"
)

type SubmitRatingRequest struct {
	StoreID uint `json:"storeId"`
	Rating  int  `json:"rating"`
}

type UserHandler struct {
	DB      *gorm.DB
	Query   *query.Builder
	Ratings *services.RatingLedger
}

func NewUserHandler(gdb *gorm.DB) *UserHandler {
	return &UserHandler{
		DB:      gdb,
		Query:   query.NewBuilder(gdb),
		Ratings: services.NewRatingLedger(gdb),
	}
}

// BrowseStores lists stores for a normal user, with each row carrying the
// overall average and the caller's own rating when one exists.
func (h *UserHandler) BrowseStores(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized, no token."})
		return
	}

	params := query.ParseListParams(ctx.Request.URL.Query(), "search")

	stores, total, err := h.Query.BrowseStores(ctx.Request.Context(), userID, params)

	if err != nil {
		log.Printf("Failed to browse stores: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching stores."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"stores": stores, "total": total})
}

// SubmitRating submits or replaces the caller's rating for a store.
// 201 on first submission, 200 when an existing rating was modified.
func (h *UserHandler) SubmitRating(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized, no token."})
		return
	}

	var req SubmitRatingRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.StoreID == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid store ID or rating (must be 1-5)."})
		return
	}

	outcome, err := h.Ratings.SubmitOrUpdate(ctx.Request.Context(), userID, req.StoreID, req.Rating)

	if err != nil {
		var vErr *validation.Error

		switch {
		case errors.As(err, &vErr):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		case errors.Is(err, services.ErrStoreNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Store not found."})
		default:
			log.Printf("Failed to submit rating: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error submitting rating."})
		}
		return
	}

	if outcome == services.RatingModified {
		ctx.JSON(http.StatusOK, gin.H{"message": "Rating modified successfully."})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Rating submitted successfully."})
}

// Dashboard shows a store owner their store name, its live average rating
// and everyone who rated it.
func (h *UserHandler) Dashboard(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized, no token."})
		return
	}

	var store models.Store

	err = h.DB.WithContext(ctx.Request.Context()).Where("owner_id = ?", userID).First(&store).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "No store found associated with this user."})
			return
		}
		log.Printf("Failed to fetch owned store: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching store dashboard data."})
		return
	}

	avg, hasRatings, err := h.Ratings.Average(ctx.Request.Context(), store.ID)

	if err != nil {
		log.Printf("Failed to compute average rating: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching store dashboard data."})
		return
	}

	averageRating := "N/A"

	if hasRatings {
		averageRating = strconv.FormatFloat(avg, 'f', 2, 64)
	}

	raters, err := h.Ratings.RatersFor(ctx.Request.Context(), store.ID)

	if err != nil {
		log.Printf("Failed to fetch raters: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching store dashboard data."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"storeName":     store.Name,
		"averageRating": averageRating,
		"userRatings":   raters,
	})
}
