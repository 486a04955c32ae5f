package testutil

import (
	"fmt"
	"log"
	"strings"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MarkoPoloResearchLab/sitedash/internal/storage"
)

const (
	tokenDatabaseNamePrefix          = "sitedash-token-db"
	inMemoryTokenDatabasePattern     = "file:%s?mode=memory&cache=shared&_foreign_keys=on"
	errorMessageOpenTokenDatabase    = "open token database: %v"
	errorMessageMigrateTokenDatabase = "migrate token database: %v"
)

// SQLiteTestDatabase describes an in-memory token database private to one test.
type SQLiteTestDatabase struct {
	configuration storage.Config
}

// testLogSink forwards gorm output to the test log so it only shows up for failing or verbose runs.
type testLogSink struct {
	testingT testing.TB
}

func (sink testLogSink) Write(data []byte) (int, error) {
	if line := strings.TrimSpace(string(data)); line != "" {
		sink.testingT.Log(line)
	}
	return len(data), nil
}

// NewSQLiteTestDatabase returns a configuration for a shared-cache in-memory database with a unique name.
func NewSQLiteTestDatabase(testingT testing.TB) SQLiteTestDatabase {
	testingT.Helper()
	databaseName := fmt.Sprintf("%s-%s", tokenDatabaseNamePrefix, storage.NewID())
	return SQLiteTestDatabase{
		configuration: storage.Config{
			DriverName:     storage.DriverNameSQLite,
			DataSourceName: fmt.Sprintf(inMemoryTokenDatabasePattern, databaseName),
		},
	}
}

// Configuration returns the storage configuration of the test database.
func (database SQLiteTestDatabase) Configuration() storage.Config {
	return database.configuration
}

// DataSourceName returns the SQLite data source name of the test database.
func (database SQLiteTestDatabase) DataSourceName() string {
	return database.configuration.DataSourceName
}

// OpenMigrated opens the test database, creates the stored value table and closes the
// connection when the test ends.
func (database SQLiteTestDatabase) OpenMigrated(testingT testing.TB) *gorm.DB {
	testingT.Helper()
	opened, openErr := storage.OpenDatabase(database.configuration)
	if openErr != nil {
		testingT.Fatalf(errorMessageOpenTokenDatabase, openErr)
	}
	if migrateErr := storage.AutoMigrate(opened); migrateErr != nil {
		testingT.Fatalf(errorMessageMigrateTokenDatabase, migrateErr)
	}
	if sqlDatabase, sqlErr := opened.DB(); sqlErr == nil {
		testingT.Cleanup(func() {
			_ = sqlDatabase.Close()
		})
	}
	return ConfigureDatabaseLogger(testingT, opened)
}

// ConfigureDatabaseLogger returns a session that routes errors to the test log and ignores missing rows,
// since an absent token is a normal state for the token store.
func ConfigureDatabaseLogger(testingT testing.TB, database *gorm.DB) *gorm.DB {
	testingT.Helper()
	if database == nil {
		testingT.Fatalf("configure database logger: nil database")
	}
	gormLogger := logger.New(
		log.New(testLogSink{testingT: testingT}, "", 0),
		logger.Config{
			IgnoreRecordNotFoundError: true,
			LogLevel:                  logger.Error,
		},
	)
	return database.Session(&gorm.Session{Logger: gormLogger})
}
