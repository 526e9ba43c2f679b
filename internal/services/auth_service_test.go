// internal/services/auth_service_test.go
package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/ecorecettes/pantry-api/internal/apperrors"
	"github.com/ecorecettes/pantry-api/internal/config"
)

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	gdb, mock := newMockedDB(t)
	cfg := &config.Config{
		JWT: config.JWTConfig{AccessTokenTTL: 24, RefreshTokenTTL: 168},
	}
	s := NewAuthService(gdb, cfg)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE email = $1`)).
		WithArgs("marie@example.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).
			AddRow(uuid.New(), "marie@example.com"))

	_, err := s.Register(&RegisterRequest{
		Email:    "marie@example.com",
		Password: "Potager2024",
	})

	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
