package vault

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"memorybank/models"
	"memorybank/pkg/apperr"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.SetupJoinTable(&models.Memory{}, "Tags", &models.MemoryTag{}))
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Memory{}, &models.MemoryMedia{}, &models.Tag{}, &models.MemoryTag{}, &models.SharedMemory{}))
	return db
}

func seedMemory(t *testing.T, db *gorm.DB, ownerID uint, private bool) *models.Memory {
	t.Helper()
	m := models.Memory{UserID: ownerID, Title: "beach day", Content: "sand everywhere", IsPrivate: private}
	require.NoError(t, db.Create(&m).Error)
	return &m
}

// seedUsers creates accounts with ids 1..n.
func seedUsers(t *testing.T, db *gorm.DB, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		u := models.User{Email: fmt.Sprintf("user%d@example.com", i), HashedPassword: []byte("x")}
		require.NoError(t, db.Create(&u).Error)
	}
}

func TestShareRequiresOwnership(t *testing.T) {
	db := openTestDB(t)
	mem := seedMemory(t, db, 1, true)
	svc := &Service{DB: db}

	_, err := svc.Share(mem.ID, 2, 3)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)
}

func TestShareWithSelfRejected(t *testing.T) {
	db := openTestDB(t)
	mem := seedMemory(t, db, 1, true)
	svc := &Service{DB: db}

	_, err := svc.Share(mem.ID, 1, 1)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestShareUnknownMemory(t *testing.T) {
	db := openTestDB(t)
	svc := &Service{DB: db}

	_, err := svc.Share(99, 1, 2)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestShareUnknownRecipient(t *testing.T) {
	db := openTestDB(t)
	seedUsers(t, db, 1)
	mem := seedMemory(t, db, 1, true)
	svc := &Service{DB: db}

	_, err := svc.Share(mem.ID, 1, 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	// No dangling row may be left behind.
	var count int64
	require.NoError(t, db.Model(&models.SharedMemory{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestShareDuplicateActiveBlocked(t *testing.T) {
	db := openTestDB(t)
	seedUsers(t, db, 3)
	mem := seedMemory(t, db, 1, true)
	svc := &Service{DB: db}

	share, err := svc.Share(mem.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, models.PermissionView, share.Permission)
	assert.Nil(t, share.RevokedAt)

	_, err = svc.Share(mem.ID, 1, 2)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// A different recipient is a different pair.
	_, err = svc.Share(mem.ID, 1, 3)
	require.NoError(t, err)
}

func TestRevokedShareDoesNotBlockResharing(t *testing.T) {
	db := openTestDB(t)
	seedUsers(t, db, 2)
	mem := seedMemory(t, db, 1, true)
	svc := &Service{DB: db}

	share, err := svc.Share(mem.ID, 1, 2)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(share.ID, 1))

	// Revoking keeps the row for history.
	var old models.SharedMemory
	require.NoError(t, db.First(&old, share.ID).Error)
	assert.NotNil(t, old.RevokedAt)

	again, err := svc.Share(mem.ID, 1, 2)
	require.NoError(t, err)
	assert.NotEqual(t, share.ID, again.ID)
}

func TestRevokeRules(t *testing.T) {
	db := openTestDB(t)
	seedUsers(t, db, 2)
	mem := seedMemory(t, db, 1, true)
	svc := &Service{DB: db}

	share, err := svc.Share(mem.ID, 1, 2)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Revoke(share.ID, 2), apperr.ErrAuthorization)
	assert.ErrorIs(t, svc.Revoke(99, 1), apperr.ErrNotFound)

	require.NoError(t, svc.Revoke(share.ID, 1))
	assert.ErrorIs(t, svc.Revoke(share.ID, 1), apperr.ErrConflict)
}

func TestCanViewShareOverridesPrivacy(t *testing.T) {
	db := openTestDB(t)
	seedUsers(t, db, 2)
	mem := seedMemory(t, db, 1, true) // private
	svc := &Service{DB: db}

	owner, err := svc.CanView(mem, 1)
	require.NoError(t, err)
	assert.True(t, owner)

	stranger, err := svc.CanView(mem, 2)
	require.NoError(t, err)
	assert.False(t, stranger)

	share, err := svc.Share(mem.ID, 1, 2)
	require.NoError(t, err)

	shared, err := svc.CanView(mem, 2)
	require.NoError(t, err)
	assert.True(t, shared, "active share grants access regardless of is_private")

	require.NoError(t, svc.Revoke(share.ID, 1))
	revoked, err := svc.CanView(mem, 2)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestSharedWithAndBy(t *testing.T) {
	db := openTestDB(t)
	seedUsers(t, db, 2)
	m1 := seedMemory(t, db, 1, true)
	m2 := seedMemory(t, db, 1, false)
	svc := &Service{DB: db}

	_, err := svc.Share(m1.ID, 1, 2)
	require.NoError(t, err)
	s2, err := svc.Share(m2.ID, 1, 2)
	require.NoError(t, err)
	require.NoError(t, svc.Revoke(s2.ID, 1))

	withTwo, err := svc.SharedWith(2)
	require.NoError(t, err)
	require.Len(t, withTwo, 1)
	assert.Equal(t, m1.ID, withTwo[0].MemoryID)
	assert.Equal(t, "beach day", withTwo[0].Memory.Title)

	byOne, err := svc.SharedBy(1)
	require.NoError(t, err)
	require.Len(t, byOne, 1)
	assert.Equal(t, m1.ID, byOne[0].MemoryID)
}
