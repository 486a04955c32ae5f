package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testTokenOpenerFailureMessage = "token database unavailable"
	testPaddedDataSourceName      = "  file:token.db  "
	testTrimmedDataSourceName     = "file:token.db"
	testBlockingFileName          = "occupied"
)

func replaceDatabaseOpeners(testingT *testing.T, opener databaseOpener) {
	testingT.Helper()
	originalOpeners := databaseOpeners
	testingT.Cleanup(func() {
		databaseOpeners = originalOpeners
	})
	databaseOpeners = map[string]databaseOpener{DriverNameSQLite: opener}
}

func TestOpenDatabaseWrapsTokenOpenerError(testingT *testing.T) {
	openerErr := errors.New(testTokenOpenerFailureMessage)
	replaceDatabaseOpeners(testingT, func(Config) (*gorm.DB, error) {
		return nil, openerErr
	})

	_, openErr := OpenDatabase(Config{DriverName: DriverNameSQLite, DataSourceName: testTrimmedDataSourceName})
	require.ErrorIs(testingT, openErr, openerErr)
	require.Contains(testingT, openErr.Error(), errorMessageOpenDatabase)
}

func TestOpenDatabasePassesTrimmedConfigurationToOpener(testingT *testing.T) {
	var received Config
	replaceDatabaseOpeners(testingT, func(configuration Config) (*gorm.DB, error) {
		received = configuration
		return &gorm.DB{}, nil
	})

	_, openErr := OpenDatabase(Config{DriverName: " " + DriverNameSQLite + " ", DataSourceName: testPaddedDataSourceName})
	require.NoError(testingT, openErr)
	require.Equal(testingT, Config{DriverName: DriverNameSQLite, DataSourceName: testTrimmedDataSourceName}, received)
}

func TestOpenSQLiteDatabaseRequiresDataSource(testingT *testing.T) {
	_, openErr := openSQLiteDatabase(Config{DriverName: DriverNameSQLite})
	require.ErrorIs(testingT, openErr, ErrMissingDataSourceName)
}

func TestFileConfigReportsDirectoryError(testingT *testing.T) {
	blockingPath := filepath.Join(testingT.TempDir(), testBlockingFileName)
	require.NoError(testingT, os.WriteFile(blockingPath, []byte("x"), 0o600))

	_, configErr := FileConfig(filepath.Join(blockingPath, "nested", "token.db"))
	require.Error(testingT, configErr)
	require.Contains(testingT, configErr.Error(), errorMessageCreateDatabaseDirectory)
}
