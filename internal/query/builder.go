// Package query turns untrusted filter/sort/page parameters into bounded,
// counted list queries. Sort keys are allow-listed per entity and filter text
// is only ever bound as a parameter, never spliced into SQL.
package query

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/ratewise-dev/ratewise/internal/models"
	"gorm.io/gorm"
)

const DefaultPageSize = 10

type ListParams struct {
	Filter    string
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// ParseListParams reads the shared list-query parameters. filterKey names the
// free-text parameter, which differs per endpoint ("filter" on the admin
// lists, "search" on the store browser). Bad page/limit input degrades to the
// defaults instead of erroring.
func ParseListParams(values url.Values, filterKey string) ListParams {
	page, err := strconv.Atoi(values.Get("page"))

	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(values.Get("limit"))

	if err != nil || limit < 1 {
		limit = DefaultPageSize
	}

	return ListParams{
		Filter:    values.Get(filterKey),
		SortBy:    values.Get("sortBy"),
		SortOrder: values.Get("sortOrder"),
		Page:      page,
		Limit:     limit,
	}
}

func (p ListParams) offset() int {
	return (p.Page - 1) * p.Limit
}

// orderClause resolves the sort key against the entity's allow-list. Unknown
// keys silently fall back to the default column, ascending.
func orderClause(allowed map[string]string, defaultColumn, sortBy, sortOrder string) string {
	column, ok := allowed[sortBy]

	if !ok {
		return defaultColumn + " ASC"
	}

	direction := "ASC"

	if strings.ToUpper(sortOrder) == "DESC" {
		direction = "DESC"
	}

	return column + " " + direction
}

func likePattern(filter string) string {
	return "%" + strings.ToLower(filter) + "%"
}

type Builder struct {
	db *gorm.DB
}

func NewBuilder(gdb *gorm.DB) *Builder {
	return &Builder{db: gdb}
}

type UserRow struct {
	ID          uint        `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Address     string      `json:"address"`
	Role        models.Role `json:"role"`
	StoreName   *string     `json:"store_name"`
	StoreRating *float64    `json:"store_rating"`
}

var userSortColumns = map[string]string{
	"name":         "users.name",
	"email":        "users.email",
	"address":      "users.address",
	"role":         "users.role",
	"store_rating": "store_rating",
}

// ListUsers serves the admin user list. Store-owner rows carry their store's
// name and its live average rating via a correlated subquery.
func (b *Builder) ListUsers(ctx context.Context, p ListParams) ([]UserRow, int64, error) {
	pattern := likePattern(p.Filter)

	filtered := func() *gorm.DB {
		return b.db.WithContext(ctx).
			Table("users").
			Where("users.deleted_at IS NULL").
			Where(
				"LOWER(users.name) LIKE ? OR LOWER(users.email) LIKE ? OR LOWER(users.address) LIKE ? OR LOWER(users.role) LIKE ?",
				pattern, pattern, pattern, pattern,
			)
	}

	var total int64

	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []UserRow{}

	err := filtered().
		Select(`users.id, users.name, users.email, users.address, users.role,
			stores.name AS store_name,
			(SELECT AVG(ratings.value) FROM ratings
				WHERE ratings.store_id = stores.id AND ratings.deleted_at IS NULL) AS store_rating`).
		Joins("LEFT JOIN stores ON stores.owner_id = users.id AND stores.deleted_at IS NULL").
		Order(orderClause(userSortColumns, "users.name", p.SortBy, p.SortOrder)).
		Limit(p.Limit).
		Offset(p.offset()).
		Scan(&rows).Error

	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

type StoreRow struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Address       string   `json:"address"`
	OverallRating *float64 `json:"overall_rating"`
}

var storeSortColumns = map[string]string{
	"name":           "stores.name",
	"email":          "stores.email",
	"address":        "stores.address",
	"overall_rating": "overall_rating",
}

// ListStores serves the admin store list with each store's live average.
func (b *Builder) ListStores(ctx context.Context, p ListParams) ([]StoreRow, int64, error) {
	pattern := likePattern(p.Filter)

	filtered := func() *gorm.DB {
		return b.db.WithContext(ctx).
			Table("stores").
			Where("stores.deleted_at IS NULL").
			Where(
				"LOWER(stores.name) LIKE ? OR LOWER(stores.email) LIKE ? OR LOWER(stores.address) LIKE ?",
				pattern, pattern, pattern,
			)
	}

	var total int64

	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []StoreRow{}

	err := filtered().
		Select(`stores.id, stores.name, stores.email, stores.address,
			(SELECT AVG(ratings.value) FROM ratings
				WHERE ratings.store_id = stores.id AND ratings.deleted_at IS NULL) AS overall_rating`).
		Order(orderClause(storeSortColumns, "stores.name", p.SortBy, p.SortOrder)).
		Limit(p.Limit).
		Offset(p.offset()).
		Scan(&rows).Error

	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

type BrowseRow struct {
	ID                  uint     `json:"id"`
	Name                string   `json:"name"`
	Address             string   `json:"address"`
	OverallRating       *float64 `json:"overall_rating"`
	UserSubmittedRating *int     `json:"user_submitted_rating"`
}

var browseSortColumns = map[string]string{
	"name":    "stores.name",
	"address": "stores.address",
}

// BrowseStores serves the normal-user store browser. Each row carries the
// requesting user's own rating alongside the overall average; the own-rating
// lookup is a correlated read keyed by (userID, store id), not a mutation.
func (b *Builder) BrowseStores(ctx context.Context, userID uint, p ListParams) ([]BrowseRow, int64, error) {
	pattern := likePattern(p.Filter)

	filtered := func() *gorm.DB {
		return b.db.WithContext(ctx).
			Table("stores").
			Where("stores.deleted_at IS NULL").
			Where("LOWER(stores.name) LIKE ? OR LOWER(stores.address) LIKE ?", pattern, pattern)
	}

	var total int64

	if err := filtered().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	rows := []BrowseRow{}

	err := filtered().
		Select(`stores.id, stores.name, stores.address,
			(SELECT AVG(ratings.value) FROM ratings
				WHERE ratings.store_id = stores.id AND ratings.deleted_at IS NULL) AS overall_rating,
			(SELECT ratings.value FROM ratings
				WHERE ratings.store_id = stores.id AND ratings.user_id = ? AND ratings.deleted_at IS NULL) AS user_submitted_rating`,
			userID).
		Order(orderClause(browseSortColumns, "stores.name", p.SortBy, p.SortOrder)).
		Limit(p.Limit).
		Offset(p.offset()).
		Scan(&rows).Error

	if err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
