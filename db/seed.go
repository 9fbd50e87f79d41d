package db

import (
	"errors"
	"log"
	"os"

	"github.com/ratewise-dev/ratewise/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedAdmin makes sure a fresh deployment has an administrator account.
// Idempotent: it only inserts when the configured email is absent.
func SeedAdmin(gdb *gorm.DB) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@ratewise.local"
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "ChangeMeNow!1"
	}

	var existing models.User

	err := gdb.Where("email = ?", email).First(&existing).Error

	if err == nil {
		return nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	if err != nil {
		return err
	}

	admin := models.User{
		Name:         "System Administrator Account",
		Email:        email,
		PasswordHash: string(passwordHash),
		Role:         models.RoleAdministrator,
	}

	if err := gdb.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("Seeded administrator account %s", email)
	return nil
}
