package auth_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/MarkoPoloResearchLab/sitedash/internal/auth"
	"github.com/MarkoPoloResearchLab/sitedash/internal/model"
	"github.com/MarkoPoloResearchLab/sitedash/internal/testutil"
)

const (
	testFirstToken  = "first.token.value"
	testSecondToken = "second.token.value"
)

func newDatabaseTokenStore(testingT *testing.T) *auth.DatabaseTokenStore {
	testingT.Helper()
	database := testutil.NewSQLiteTestDatabase(testingT).OpenMigrated(testingT)

	store, storeErr := auth.NewDatabaseTokenStore(database)
	require.NoError(testingT, storeErr)
	return store
}

func TestTokenStoresRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		store func(*testing.T) auth.TokenStore
	}{
		{
			name: "memory",
			store: func(*testing.T) auth.TokenStore {
				return auth.NewMemoryTokenStore("")
			},
		},
		{
			name: "database",
			store: func(testingT *testing.T) auth.TokenStore {
				return newDatabaseTokenStore(testingT)
			},
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(testingT *testing.T) {
			store := testCase.store(testingT)
			ctx := context.Background()

			emptyToken, emptyErr := store.Token(ctx)
			require.NoError(testingT, emptyErr)
			require.Empty(testingT, emptyToken)

			require.NoError(testingT, store.SetToken(ctx, testFirstToken))
			storedToken, storedErr := store.Token(ctx)
			require.NoError(testingT, storedErr)
			require.Equal(testingT, testFirstToken, storedToken)

			require.NoError(testingT, store.SetToken(ctx, testSecondToken))
			replacedToken, replacedErr := store.Token(ctx)
			require.NoError(testingT, replacedErr)
			require.Equal(testingT, testSecondToken, replacedToken)

			require.NoError(testingT, store.ClearToken(ctx))
			clearedToken, clearedErr := store.Token(ctx)
			require.NoError(testingT, clearedErr)
			require.Empty(testingT, clearedToken)

			require.NoError(testingT, store.ClearToken(ctx))
		})
	}
}

func TestDatabaseTokenStoreKeepsSingleRow(t *testing.T) {
	database := testutil.NewSQLiteTestDatabase(t).OpenMigrated(t)

	store, storeErr := auth.NewDatabaseTokenStore(database)
	require.NoError(t, storeErr)

	ctx := context.Background()
	require.NoError(t, store.SetToken(ctx, testFirstToken))
	require.NoError(t, store.SetToken(ctx, testSecondToken))

	var rowCount int64
	require.NoError(t, database.Model(&model.StoredValue{}).Count(&rowCount).Error)
	require.EqualValues(t, 1, rowCount)

	var storedValue model.StoredValue
	require.NoError(t, database.First(&storedValue).Error)
	require.Equal(t, auth.AccessTokenKey, storedValue.Key)
	require.Equal(t, testSecondToken, storedValue.Value)
}

func TestNewDatabaseTokenStoreRequiresDatabase(t *testing.T) {
	_, storeErr := auth.NewDatabaseTokenStore(nil)
	require.ErrorIs(t, storeErr, auth.ErrMissingDatabase)
}

func TestMemoryTokenStoreConcurrentAccess(t *testing.T) {
	store := auth.NewMemoryTokenStore(testFirstToken)
	ctx := context.Background()

	var waitGroup sync.WaitGroup
	for index := 0; index < 16; index++ {
		waitGroup.Add(2)
		go func() {
			defer waitGroup.Done()
			_ = store.SetToken(ctx, testSecondToken)
		}()
		go func() {
			defer waitGroup.Done()
			_, _ = store.Token(ctx)
		}()
	}
	waitGroup.Wait()

	finalToken, tokenErr := store.Token(ctx)
	require.NoError(t, tokenErr)
	require.Equal(t, testSecondToken, finalToken)
}
