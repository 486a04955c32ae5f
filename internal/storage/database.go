package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
)

const (
	// DriverNameSQLite is the only driver the token store ships with.
	DriverNameSQLite = "sqlite"

	sqliteFileDataSourceNamePattern = "file:%s?_foreign_keys=on"
	databaseDirectoryPermissions    = 0o700

	errorMessageMissingDatabaseDriverName = "storage: missing database driver name"
	errorMessageUnsupportedDatabaseDriver = "storage: unsupported database driver"
	errorMessageMissingDataSourceName     = "storage: missing database data source name"
	errorMessageOpenDatabase              = "storage: open database"
	errorMessageOpenSQLiteDatabase        = "storage: open sqlite database"
	errorMessageCreateDatabaseDirectory   = "storage: create database directory"
)

var (
	// ErrMissingDatabaseDriverName is returned when no driver is configured.
	ErrMissingDatabaseDriverName = errors.New(errorMessageMissingDatabaseDriverName)
	// ErrUnsupportedDatabaseDriver is returned for any driver other than SQLite.
	ErrUnsupportedDatabaseDriver = errors.New(errorMessageUnsupportedDatabaseDriver)
	// ErrMissingDataSourceName is returned when the database file or DSN is empty.
	ErrMissingDataSourceName = errors.New(errorMessageMissingDataSourceName)
)

type databaseOpener func(Config) (*gorm.DB, error)

var databaseOpeners = map[string]databaseOpener{
	DriverNameSQLite: openSQLiteDatabase,
}

// Config names the driver and data source of the local token database.
type Config struct {
	DriverName     string
	DataSourceName string
}

// FileConfig returns a SQLite configuration for a database file, creating its directory when needed.
func FileConfig(databasePath string) (Config, error) {
	trimmedPath := strings.TrimSpace(databasePath)
	if trimmedPath == "" {
		return Config{}, ErrMissingDataSourceName
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(trimmedPath), databaseDirectoryPermissions); mkdirErr != nil {
		return Config{}, fmt.Errorf("%s: %w", errorMessageCreateDatabaseDirectory, mkdirErr)
	}
	return Config{
		DriverName:     DriverNameSQLite,
		DataSourceName: fmt.Sprintf(sqliteFileDataSourceNamePattern, trimmedPath),
	}, nil
}

// OpenDatabase trims the configuration and opens it with the matching driver.
func OpenDatabase(configuration Config) (*gorm.DB, error) {
	trimmedDriverName := strings.TrimSpace(configuration.DriverName)
	if trimmedDriverName == "" {
		return nil, ErrMissingDatabaseDriverName
	}

	opener, driverSupported := databaseOpeners[trimmedDriverName]
	if !driverSupported {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDatabaseDriver, trimmedDriverName)
	}

	database, openErr := opener(Config{
		DriverName:     trimmedDriverName,
		DataSourceName: strings.TrimSpace(configuration.DataSourceName),
	})
	if openErr != nil {
		return nil, fmt.Errorf("%s: %w", errorMessageOpenDatabase, openErr)
	}

	return database, nil
}

func openSQLiteDatabase(configuration Config) (*gorm.DB, error) {
	if configuration.DataSourceName == "" {
		return nil, ErrMissingDataSourceName
	}

	database, openErr := gorm.Open(sqlite.Open(configuration.DataSourceName), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if openErr != nil {
		return nil, fmt.Errorf("%s: %w", errorMessageOpenSQLiteDatabase, openErr)
	}

	return database, nil
}

// AutoMigrate creates or updates the stored value table.
func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(&model.StoredValue{})
}

// NewID returns a random UUID string.
func NewID() string {
	return uuid.NewString()
}
