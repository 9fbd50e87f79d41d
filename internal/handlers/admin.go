package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ratewise-dev/ratewise/internal/models"
	"github.com/ratewise-dev/ratewise/internal/query"
	"github.com/ratewise-dev/ratewise/internal/services"
	"github.com/ratewise-dev/ratewise/internal/validation"
	"gorm.io/gorm"
)

type AddUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

type AddStoreRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

type AdminHandler struct {
	DB          *gorm.DB
	Provisioner *services.AccountProvisioner
	Query       *query.Builder
}

func NewAdminHandler(gdb *gorm.DB) *AdminHandler {
	return &AdminHandler{
		DB:          gdb,
		Provisioner: services.NewAccountProvisioner(gdb),
		Query:       query.NewBuilder(gdb),
	}
}

func (h *AdminHandler) Stats(ctx *gin.Context) {
	var totalUsers, totalStores, totalRatings int64

	gdb := h.DB.WithContext(ctx.Request.Context())

	if err := gdb.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		log.Printf("Failed to count users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admin stats."})
		return
	}

	if err := gdb.Model(&models.Store{}).Count(&totalStores).Error; err != nil {
		log.Printf("Failed to count stores: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admin stats."})
		return
	}

	if err := gdb.Model(&models.Rating{}).Count(&totalRatings).Error; err != nil {
		log.Printf("Failed to count ratings: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching admin stats."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"totalUsers":   totalUsers,
		"totalStores":  totalStores,
		"totalRatings": totalRatings,
	})
}

// AddUser provisions an administrator or normal-user account. Store-owner
// creation is rejected by the provisioner; those go through AddStore.
func (h *AdminHandler) AddUser(ctx *gin.Context) {
	var req AddUserRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	role := models.Role(req.Role)

	_, err := h.Provisioner.AddPlainUser(ctx.Request.Context(), req.Name, req.Email, req.Password, req.Address, role)

	if err != nil {
		var vErr *validation.Error

		switch {
		case errors.As(err, &vErr):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		case errors.Is(err, services.ErrDuplicateEmail):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "User already exists."})
		default:
			log.Printf("Failed to add user: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during user creation."})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("User added successfully with role %s.", role)})
}

// AddStore provisions a store together with its owner account in one
// transaction.
func (h *AdminHandler) AddStore(ctx *gin.Context) {
	var req AddStoreRequest

	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	storeID, err := h.Provisioner.CreateOwnerAndStore(ctx.Request.Context(), req.Name, req.Email, req.Address, req.Password)

	if err != nil {
		var vErr *validation.Error

		switch {
		case errors.As(err, &vErr):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": vErr.Message})
		case errors.Is(err, services.ErrDuplicateEmail):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "A store with this email already exists."})
		default:
			log.Printf("Failed to create store: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Server error during store creation."})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message":  "Store and Store Owner created successfully.",
		"store_id": storeID,
	})
}

func (h *AdminHandler) ListUsers(ctx *gin.Context) {
	params := query.ParseListParams(ctx.Request.URL.Query(), "filter")

	users, total, err := h.Query.ListUsers(ctx.Request.Context(), params)

	if err != nil {
		log.Printf("Failed to list users: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching users."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"users": users, "total": total})
}

func (h *AdminHandler) ListStores(ctx *gin.Context) {
	params := query.ParseListParams(ctx.Request.URL.Query(), "filter")

	stores, total, err := h.Query.ListStores(ctx.Request.Context(), params)

	if err != nil {
		log.Printf("Failed to list stores: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching stores."})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"stores": stores, "total": total})
}
