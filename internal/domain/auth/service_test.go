package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/bikeshare/pkg/errors"
)

func TestService_IssueAndValidate(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret", Issuer: "bikeshare-accounts"}, newTestLogger())

	token, err := svc.IssueToken(42, RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.True(t, claims.IsAdmin())
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestService_RejectsBadTokens(t *testing.T) {
	svc := NewService(Config{Secret: "test-secret"}, newTestLogger())
	other := NewService(Config{Secret: "other-secret"}, newTestLogger())

	_, err := svc.ValidateToken(context.Background(), "  ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	forged, err := other.IssueToken(1, RoleAdmin, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), forged)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	expired, err := svc.IssueToken(1, RoleUser, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), expired)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{UserID: 1, Role: "USER"})
	signed, err := noExp.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), signed)
	require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}

func TestService_IssuerMismatch(t *testing.T) {
	svc := NewService(Config{Secret: "s", Issuer: "accounts"}, newTestLogger())
	foreign := NewService(Config{Secret: "s", Issuer: "someone-else"}, newTestLogger())
	token, err := foreign.IssueToken(3, RoleUser, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(context.Background(), token)
	require.Error(t, err)
}

func TestService_UnknownRoleIsUser(t *testing.T) {
	svc := NewService(Config{Secret: "s"}, newTestLogger())
	token, err := svc.IssueToken(5, Role("superuser"), time.Hour)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, RoleUser, claims.Role)
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
