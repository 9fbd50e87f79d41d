package db

import (
	"time"

	"github.com/ratewise-dev/ratewise/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = time.Hour
)

// ConnectDatabase opens the shared pool. TranslateError is on so unique-index
// violations surface as gorm.ErrDuplicatedKey regardless of driver.
func ConnectDatabase(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})

	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()

	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	return gdb, nil
}

func MigrateDatabase(gdb *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Store{},
		&models.Rating{},
	}

	migrator := gdb.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := gdb.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
