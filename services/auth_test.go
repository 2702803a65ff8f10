package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/printvault/printvault_api/dto"
	"github.com/printvault/printvault_api/services/repositories"
	"github.com/printvault/printvault_api/shared"
)

func newTestJWTService() *JWTService {
	return &JWTService{
		AccessTokenDuration: time.Hour,
		jwtSecretKey:        "test-secret",
	}
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()

	db := newTestDB(t)
	return &AuthService{
		jwtSvc:   newTestJWTService(),
		emailSvc: &EmailService{},
		userRepo: repositories.NewUserRepository(db),
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestJWTService()

	pair, err := svc.GenerateTokenPair("user-42")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, int64(3600), pair.ExpiresIn)

	userID, err := svc.VerifyJWTToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestJWTService_RejectsWrongKey(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.ToJWT("user-42")
	require.NoError(t, err)

	other := &JWTService{AccessTokenDuration: time.Hour, jwtSecretKey: "different-secret"}
	_, err = other.VerifyJWTToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	svc := &JWTService{AccessTokenDuration: -time.Minute, jwtSecretKey: "test-secret"}

	token, err := svc.ToJWT("user-42")
	require.NoError(t, err)

	_, err = svc.VerifyJWTToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExtractTokenFromHeader(t *testing.T) {
	svc := newTestJWTService()

	token, err := svc.ExtractTokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	_, err = svc.ExtractTokenFromHeader("")
	assert.Error(t, err)

	_, err = svc.ExtractTokenFromHeader("Basic abc")
	assert.Error(t, err)
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Register(dto.RegisterRequest{
		Email:    "maker@example.com",
		Name:     "Jane Maker",
		Password: "SecurePass123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.UserID)
	assert.Equal(t, "maker@example.com", resp.Email)

	login, err := svc.Login(dto.LoginRequest{
		Email:    "maker@example.com",
		Password: "SecurePass123",
	}, "127.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, login.AccessToken)
	assert.Equal(t, shared.RoleUser, login.User.Role)

	userID, err := svc.jwtSvc.VerifyJWTToken(login.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, userID)
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(t)

	req := dto.RegisterRequest{
		Email:    "maker@example.com",
		Name:     "Jane Maker",
		Password: "SecurePass123",
	}

	_, err := svc.Register(req)
	require.NoError(t, err)

	_, err = svc.Register(req)
	require.Error(t, err)
	assert.Equal(t, 409, statusOf(t, err))
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.Register(dto.RegisterRequest{
		Email:    "maker@example.com",
		Name:     "Jane Maker",
		Password: "SecurePass123",
	})
	require.NoError(t, err)

	_, err = svc.Login(dto.LoginRequest{
		Email:    "maker@example.com",
		Password: "WrongPass123",
	}, "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, 401, statusOf(t, err))

	_, err = svc.Login(dto.LoginRequest{
		Email:    "ghost@example.com",
		Password: "SecurePass123",
	}, "127.0.0.1")
	require.Error(t, err)
	assert.Equal(t, 401, statusOf(t, err))
}

func TestAuthService_AdminDeleteUserCannotSelfDelete(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Register(dto.RegisterRequest{
		Email:    "admin@example.com",
		Name:     "Admin",
		Password: "SecurePass123",
	})
	require.NoError(t, err)

	err = svc.AdminDeleteUser(resp.UserID, resp.UserID)
	require.Error(t, err)
	assert.Equal(t, 400, statusOf(t, err))
}

func TestAuthService_AdminUpdateUserRole(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.Register(dto.RegisterRequest{
		Email:    "maker@example.com",
		Name:     "Jane Maker",
		Password: "SecurePass123",
	})
	require.NoError(t, err)

	info, err := svc.AdminUpdateUserRole(resp.UserID, shared.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, shared.RoleAdmin, info.Role)

	_, err = svc.AdminUpdateUserRole("no-such-user", shared.RoleAdmin)
	require.Error(t, err)
	assert.Equal(t, 404, statusOf(t, err))
}
