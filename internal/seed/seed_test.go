package seed

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	accountdomain "github.com/smallbiznis/tradebeat/internal/account/domain"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&accountdomain.Account{}))
	return db
}

func TestEnsureDefaultAccountDerivesSlugFromName(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureDefaultAccount(db))

	var account accountdomain.Account
	require.NoError(t, db.First(&account).Error)
	assert.Equal(t, "Main", account.Name)
	assert.Equal(t, "main", account.Slug)
	assert.NotZero(t, account.ID)
}

func TestEnsureDefaultAccountIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, EnsureDefaultAccountWithID(db, 42))
	require.NoError(t, EnsureDefaultAccountWithID(db, 43))
	require.NoError(t, EnsureDefaultAccount(db))

	var count int64
	require.NoError(t, db.Model(&accountdomain.Account{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var account accountdomain.Account
	require.NoError(t, db.First(&account).Error)
	assert.Equal(t, int64(42), int64(account.ID))
}

func TestEnsureDefaultAccountWithIDRejectsZero(t *testing.T) {
	db := openTestDB(t)
	assert.Error(t, EnsureDefaultAccountWithID(db, 0))
}

func TestEnsureDefaultAccountRequiresDB(t *testing.T) {
	assert.Error(t, EnsureDefaultAccount(nil))
	assert.Error(t, EnsureDefaultAccountWithID(nil, 42))
}
