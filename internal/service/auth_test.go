package service

import (
	"context"
	"testing"
	"time"

	"musafir/internal/database"
	apperrors "musafir/internal/errors"
	"musafir/internal/models"
	"musafir/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newMockAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	wrapped := &database.DB{DB: db}
	svc := NewAuthService(repository.NewUserRepository(wrapped), nil, AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	return svc, mock
}

var userColumns = []string{
	"id", "name", "email", "phone", "password_hash", "role", "is_active",
	"created_at", "last_login_at",
}

func userRow(t *testing.T, password string, active bool) *sqlmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return sqlmock.NewRows(userColumns).AddRow(
		int64(7), "Asha", "asha@example.com", "", string(hash),
		models.RoleUser, active, time.Now(), nil,
	)
}

func TestLoginIssuesToken(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, "hunter2", true))
	mock.ExpectExec("UPDATE users SET last_login_at").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    " Asha@Example.com ",
		Password: "hunter2",
	})
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, int64(7), resp.User.ID)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(7), claims["user_id"])
	assert.Equal(t, models.RoleUser, claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, "hunter2", true))

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "asha@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "ghost@example.com",
		Password: "whatever",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginDeactivatedAccount(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, "hunter2", false))

	_, err := svc.Login(context.Background(), &models.LoginRequest{
		Email:    "asha@example.com",
		Password: "hunter2",
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

// The server boots without Redis; the OTP flow must refuse cleanly instead of
// dereferencing the nil cache client.
func TestOTPFlowWithoutCacheIsUnavailable(t *testing.T) {
	svc, _ := newMockAuthService(t)

	err := svc.SendOTP(context.Background(), &models.SendOTPRequest{Email: "asha@example.com"})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	err = svc.VerifyOTP(context.Background(), &models.VerifyOTPRequest{Email: "asha@example.com", Code: "123456"})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	err = svc.ResetPassword(context.Background(), &models.ResetPasswordRequest{
		Email: "asha@example.com", Code: "123456", NewPassword: "new-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, mock := newMockAuthService(t)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("asha@example.com").
		WillReturnRows(userRow(t, "hunter2", true))

	_, err := svc.Register(context.Background(), &models.RegisterRequest{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "hunter2",
	})
	assert.True(t, apperrors.IsValidation(err))
}
