package family

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
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.FamilyConnection{}))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()
	u := models.User{Email: email, HashedPassword: []byte("x")}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestRequestSelfInviteRejected(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "a@example.com")
	svc := &Service{DB: db}

	_, err := svc.Request(1, "a@example.com", "")
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRequestUnknownEmail(t *testing.T) {
	db := openTestDB(t)
	seedUser(t, db, "a@example.com")
	svc := &Service{DB: db}

	_, err := svc.Request(1, "nobody@example.com", "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRequestCreatesPendingWithDefaultLabel(t *testing.T) {
	db := openTestDB(t)
	a := seedUser(t, db, "a@example.com")
	seedUser(t, db, "b@example.com")
	svc := &Service{DB: db}

	conn, err := svc.Request(a, " B@Example.COM ", "")
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionPending, conn.Status)
	assert.Equal(t, DefaultLabel, conn.RelationshipLabel)
}

func TestRequestDuplicateBlockedInBothDirections(t *testing.T) {
	db := openTestDB(t)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	svc := &Service{DB: db}

	_, err := svc.Request(a, "b@example.com", "Sister")
	require.NoError(t, err)

	_, err = svc.Request(a, "b@example.com", "")
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// The reverse direction is the same unordered pair.
	_, err = svc.Request(b, "a@example.com", "")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestAcceptOnlyByRecipient(t *testing.T) {
	db := openTestDB(t)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	svc := &Service{DB: db}

	conn, err := svc.Request(a, "b@example.com", "Brother")
	require.NoError(t, err)

	_, err = svc.Accept(a, conn.ID)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	accepted, err := svc.Accept(b, conn.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionAccepted, accepted.Status)

	// A resolved request cannot be resolved again.
	_, err = svc.Accept(b, conn.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// And a second invite between the now-connected pair is a conflict.
	_, err = svc.Request(b, "a@example.com", "")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDeclineAllowsReRequest(t *testing.T) {
	db := openTestDB(t)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	svc := &Service{DB: db}

	conn, err := svc.Request(a, "b@example.com", "")
	require.NoError(t, err)
	_, err = svc.Decline(b, conn.ID)
	require.NoError(t, err)

	// Declined rows do not block a fresh invite, in either direction.
	again, err := svc.Request(b, "a@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, models.ConnectionPending, again.Status)
}

func TestCancelOnlyByRequesterWhilePending(t *testing.T) {
	db := openTestDB(t)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	svc := &Service{DB: db}

	conn, err := svc.Request(a, "b@example.com", "")
	require.NoError(t, err)

	err = svc.Delete(b, conn.ID)
	assert.ErrorIs(t, err, apperr.ErrAuthorization)

	require.NoError(t, svc.Delete(a, conn.ID))
	err = svc.Delete(a, conn.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveAcceptedByEitherParty(t *testing.T) {
	db := openTestDB(t)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	svc := &Service{DB: db}

	conn, err := svc.Request(a, "b@example.com", "")
	require.NoError(t, err)
	_, err = svc.Accept(b, conn.ID)
	require.NoError(t, err)

	// Recipient removes it.
	require.NoError(t, svc.Delete(b, conn.ID))

	// And the pair is free to reconnect afterwards.
	again, err := svc.Request(b, "a@example.com", "")
	require.NoError(t, err)
	_, err = svc.Accept(a, again.ID)
	require.NoError(t, err)

	// Requester removes the new one.
	require.NoError(t, svc.Delete(b, again.ID))
}

func TestDeclinedRowsAreNotRemovable(t *testing.T) {
	db := openTestDB(t)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	svc := &Service{DB: db}

	conn, err := svc.Request(a, "b@example.com", "")
	require.NoError(t, err)
	_, err = svc.Decline(b, conn.ID)
	require.NoError(t, err)

	err = svc.Delete(a, conn.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestConnectedIDs(t *testing.T) {
	db := openTestDB(t)
	a := seedUser(t, db, "a@example.com")
	b := seedUser(t, db, "b@example.com")
	c := seedUser(t, db, "c@example.com")
	svc := &Service{DB: db}

	ab, err := svc.Request(a, "b@example.com", "")
	require.NoError(t, err)
	_, err = svc.Accept(b, ab.ID)
	require.NoError(t, err)

	// Pending requests do not count as connections.
	_, err = svc.Request(c, "a@example.com", "")
	require.NoError(t, err)

	ids, err := svc.ConnectedIDs(a)
	require.NoError(t, err)
	assert.Equal(t, []uint{b}, ids)
}
