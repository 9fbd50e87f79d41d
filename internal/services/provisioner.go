package services

import (
	"context"
	"errors"

	"github.com/ratewise-dev/ratewise/internal/models"
	"github.com/ratewise-dev/ratewise/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultOwnerPassword is substituted when an admin creates a store without
// supplying one. It has to pass the same policy as a caller-provided password.
const DefaultOwnerPassword = "DefaultPass!1"

// AccountProvisioner creates accounts on behalf of administrators. Store
// owners only ever come into existence together with their store.
type AccountProvisioner struct {
	db *gorm.DB
}

func NewAccountProvisioner(gdb *gorm.DB) *AccountProvisioner {
	return &AccountProvisioner{db: gdb}
}

// CreateOwnerAndStore inserts the owning user (role store_owner) and the
// store as one transaction. If anything fails after the uniqueness check,
// neither row survives. A unique-index violation raced in by a concurrent
// insert is remapped to the same ErrDuplicateEmail as the pre-check.
func (p *AccountProvisioner) CreateOwnerAndStore(ctx context.Context, name, email, address, password string) (uint, error) {
	if err := validation.StoreFields(name, email, address); err != nil {
		return 0, err
	}

	if password == "" {
		password = DefaultOwnerPassword
	}

	if err := validation.Password(password); err != nil {
		return 0, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return 0, err
	}

	var storeID uint

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User

		err := tx.Select("id").Where("email = ?", email).First(&existing).Error

		if err == nil {
			return ErrDuplicateEmail
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		owner := models.User{
			Name:         name,
			Email:        email,
			PasswordHash: string(passwordHash),
			Address:      address,
			Role:         models.RoleStoreOwner,
		}

		if err := tx.Create(&owner).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return err
		}

		store := models.Store{
			Name:    name,
			Email:   email,
			Address: address,
			OwnerID: owner.ID,
		}

		if err := tx.Create(&store).Error; err != nil {
			return err
		}

		storeID = store.ID
		return nil
	})

	if err != nil {
		return 0, err
	}

	return storeID, nil
}

// AddPlainUser inserts a single administrator or normal-user account.
// Store-owner accounts are rejected here; they go through
// CreateOwnerAndStore so the store invariant holds.
func (p *AccountProvisioner) AddPlainUser(ctx context.Context, name, email, password, address string, role models.Role) (uint, error) {
	if err := validation.RoleValue(role); err != nil {
		return 0, err
	}

	if role == models.RoleStoreOwner {
		return 0, &validation.Error{Message: "Store Owners must be added via the Store creation endpoint."}
	}

	if err := validation.UserFields(name, email, password, address); err != nil {
		return 0, err
	}

	if err := validation.Password(password); err != nil {
		return 0, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return 0, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(passwordHash),
		Address:      address,
		Role:         role,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.User

		err := tx.Select("id").Where("email = ?", email).First(&existing).Error

		if err == nil {
			return ErrDuplicateEmail
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateEmail
			}
			return err
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}
