// internal/services/inventory_service_test.go
package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecorecettes/pantry-api/internal/apperrors"
	"github.com/ecorecettes/pantry-api/internal/config"
)

func newMockedDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return gdb, mock
}

func newMockedService(t *testing.T) (*InventoryService, sqlmock.Sqlmock) {
	t.Helper()

	gdb, mock := newMockedDB(t)
	cfg := &config.Config{
		Inventory: config.InventoryConfig{
			ExpiringSoonDays: 3,
			PurgeAfterDays:   30,
			RecentDays:       7,
			RecentLimit:      5,
		},
	}

	return NewInventoryService(gdb, nil, cfg), mock
}

func TestGetByIDNotFound(t *testing.T) {
	s, mock := newMockedService(t)
	userID := uuid.New()
	productID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1 AND user_id = $2`)).
		WithArgs(productID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetByID(context.Background(), userID, productID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDScopesToUser(t *testing.T) {
	s, mock := newMockedService(t)
	userID := uuid.New()
	productID := uuid.New()

	// The query always carries both the product and the user id, so another
	// user's product comes back as not found.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1 AND user_id = $2`)).
		WithArgs(productID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(productID, userID, "Camembert"))

	product, err := s.GetByID(context.Background(), userID, productID)
	require.NoError(t, err)
	assert.Equal(t, "Camembert", product.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindExpiredOrdersMostRecentFirst(t *testing.T) {
	s, mock := newMockedService(t)
	userID := uuid.New()

	yesterday := time.Now().Add(-24 * time.Hour)
	lastWeek := time.Now().Add(-7 * 24 * time.Hour)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE user_id = $1 AND expiry_date < $2 ORDER BY expiry_date desc`)).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "expiry_date"}).
			AddRow(uuid.New(), userID, "sour milk", yesterday).
			AddRow(uuid.New(), userID, "old ham", lastWeek))

	products, err := s.FindExpired(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "sour milk", products[0].Name)
	assert.Equal(t, "old ham", products[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByBarcodeNone(t *testing.T) {
	s, mock := newMockedService(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE user_id = $1 AND barcode = $2`)).
		WithArgs(userID, "3017620422003", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.FindByBarcode(context.Background(), userID, "3017620422003")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByBarcodeRequiresCode(t *testing.T) {
	s, _ := newMockedService(t)

	_, err := s.FindByBarcode(context.Background(), uuid.New(), "   ")
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateEmptyPayloadNeverTouchesStore(t *testing.T) {
	s, mock := newMockedService(t)

	_, err := s.Update(context.Background(), uuid.New(), uuid.New(), &UpdateProductRequest{})
	assert.True(t, apperrors.IsValidation(err))

	// No queries were expected and none may have run.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRemovesOwnedProduct(t *testing.T) {
	s, mock := newMockedService(t)
	userID := uuid.New()
	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1 AND user_id = $2`)).
		WithArgs(productID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(productID, userID, "Camembert"))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products" WHERE "products"."id" = $1`)).
		WithArgs(productID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Delete(context.Background(), userID, productID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeOlderThanDeletesVictims(t *testing.T) {
	s, mock := newMockedService(t)
	userID := uuid.New()
	victimID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE user_id = $1 AND expiry_date < $2`)).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(victimID, userID, "forgotten leftovers"))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products" WHERE id = $1`)).
		WithArgs(victimID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	deleted, err := s.PurgeOlderThan(context.Background(), userID, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeOlderThanSkipsFailedDeletes(t *testing.T) {
	s, mock := newMockedService(t)
	mock.MatchExpectationsInOrder(false)
	userID := uuid.New()
	okID := uuid.New()
	failID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE user_id = $1 AND expiry_date < $2`)).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name"}).
			AddRow(okID, userID, "old ham").
			AddRow(failID, userID, "sour milk"))

	mock.ExpectBegin()
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products" WHERE id = $1`)).
		WithArgs(okID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products" WHERE id = $1`)).
		WithArgs(failID).
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectCommit()
	mock.ExpectRollback()

	// One delete fails: the batch keeps going and reports the successes.
	deleted, err := s.PurgeOlderThan(context.Background(), userID, 30)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPurgeOlderThanNothingToDo(t *testing.T) {
	s, mock := newMockedService(t)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE user_id = $1 AND expiry_date < $2`)).
		WithArgs(userID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	deleted, err := s.PurgeOlderThan(context.Background(), userID, 30)
	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUnknownProduct(t *testing.T) {
	s, mock := newMockedService(t)
	userID := uuid.New()
	productID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1 AND user_id = $2`)).
		WithArgs(productID, userID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := s.Delete(context.Background(), userID, productID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
