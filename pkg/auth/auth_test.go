package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Lank-karim/test-gestion-Biblioth-que/pkg/auth"
)

func TestToken_RoundTrip(t *testing.T) {
	t.Parallel()
	cfg := auth.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}

	token, err := auth.NewToken(cfg, "Admin", "admin@library.fr")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := auth.ParseToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, "Admin", claims.Name)
	require.Equal(t, "admin@library.fr", claims.Email)
	require.Equal(t, "admin@library.fr", claims.Subject)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()
	token, err := auth.NewToken(auth.Config{JWTSecret: "secret-a", TokenTTL: time.Hour}, "Admin", "admin@library.fr")
	require.NoError(t, err)

	_, err = auth.ParseToken(auth.Config{JWTSecret: "secret-b"}, token)
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()
	cfg := auth.Config{JWTSecret: "test-secret", TokenTTL: -time.Minute}
	token, err := auth.NewToken(cfg, "Admin", "admin@library.fr")
	require.NoError(t, err)

	_, err = auth.ParseToken(cfg, token)
	require.Error(t, err)
}

func TestPassword_HashAndCheck(t *testing.T) {
	t.Parallel()
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.True(t, auth.CheckPassword(hash, "s3cret"))
	require.False(t, auth.CheckPassword(hash, "wrong"))
}
