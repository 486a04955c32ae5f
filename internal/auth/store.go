package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
)

const (
	// AccessTokenKey names the keyed store entry holding the bearer token.
	AccessTokenKey = "access_token"

	storedValueKeyColumn       = "key"
	storedValueValueColumn     = "value"
	storedValueUpdatedAtColumn = "updated_at"

	errorMessageMissingDatabase = "auth: token store requires a database"
	errorMessageLoadToken       = "auth: load token"
	errorMessageSaveToken       = "auth: save token"
	errorMessageClearToken      = "auth: clear token"
)

// ErrMissingDatabase indicates a database token store was constructed without a database.
var ErrMissingDatabase = errors.New(errorMessageMissingDatabase)

// TokenStore persists the single bearer token of the current user.
type TokenStore interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// MemoryTokenStore keeps the token in process memory.
type MemoryTokenStore struct {
	mutex sync.RWMutex
	token string
}

// NewMemoryTokenStore returns a store seeded with token, which may be empty.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

// Token returns the stored token or an empty string.
func (store *MemoryTokenStore) Token(context.Context) (string, error) {
	store.mutex.RLock()
	defer store.mutex.RUnlock()
	return store.token, nil
}

// SetToken replaces the stored token.
func (store *MemoryTokenStore) SetToken(_ context.Context, token string) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.token = token
	return nil
}

// ClearToken removes the stored token.
func (store *MemoryTokenStore) ClearToken(context.Context) error {
	store.mutex.Lock()
	defer store.mutex.Unlock()
	store.token = ""
	return nil
}

// DatabaseTokenStore keeps the token as a keyed row of the local database.
type DatabaseTokenStore struct {
	database *gorm.DB
	key      string
}

// NewDatabaseTokenStore builds a store over an already migrated database.
func NewDatabaseTokenStore(database *gorm.DB) (*DatabaseTokenStore, error) {
	if database == nil {
		return nil, ErrMissingDatabase
	}
	return &DatabaseTokenStore{database: database, key: AccessTokenKey}, nil
}

// Token returns the stored token, or an empty string when none was saved.
func (store *DatabaseTokenStore) Token(ctx context.Context) (string, error) {
	var storedValue model.StoredValue
	queryErr := store.database.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: storedValueKeyColumn}, Value: store.key}).
		Take(&storedValue).Error
	if errors.Is(queryErr, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if queryErr != nil {
		return "", fmt.Errorf("%s: %w", errorMessageLoadToken, queryErr)
	}
	return storedValue.Value, nil
}

// SetToken saves token, replacing any previous value.
func (store *DatabaseTokenStore) SetToken(ctx context.Context, token string) error {
	storedValue := model.StoredValue{Key: store.key, Value: token}
	upsertErr := store.database.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: storedValueKeyColumn}},
			DoUpdates: clause.AssignmentColumns([]string{storedValueValueColumn, storedValueUpdatedAtColumn}),
		}).
		Create(&storedValue).Error
	if upsertErr != nil {
		return fmt.Errorf("%s: %w", errorMessageSaveToken, upsertErr)
	}
	return nil
}

// ClearToken deletes the stored token. Clearing an empty store succeeds.
func (store *DatabaseTokenStore) ClearToken(ctx context.Context) error {
	deleteErr := store.database.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: storedValueKeyColumn}, Value: store.key}).
		Delete(&model.StoredValue{}).Error
	if deleteErr != nil {
		return fmt.Errorf("%s: %w", errorMessageClearToken, deleteErr)
	}
	return nil
}
