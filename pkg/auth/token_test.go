package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/inkvault/inkvault-backend/pkg/config"
	"github.com/inkvault/inkvault-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "inkvault-test"}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	userID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), userID, enums.UserRoleReader, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.Equal(t, userID, claims.UserID)
	require.Equal(t, enums.UserRoleReader, claims.Role)
	require.Equal(t, cfg.Issuer, claims.Issuer)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()

	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), uuid.New(), enums.UserRoleReader, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := MintAccessToken(testJWTConfig(), time.Now(), uuid.New(), enums.UserRoleAdmin, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccessToken(config.JWTConfig{Secret: "other", Issuer: "inkvault-test"}, token)
	require.Error(t, err)
}

func TestMintValidation(t *testing.T) {
	cfg := testJWTConfig()

	if _, err := MintAccessToken(cfg, time.Now(), uuid.Nil, enums.UserRoleReader, time.Hour); err == nil {
		t.Fatal("expected error for nil user id")
	}
	if _, err := MintAccessToken(cfg, time.Now(), uuid.New(), enums.UserRole("ghost"), time.Hour); err == nil {
		t.Fatal("expected error for invalid role")
	}
	if _, err := MintAccessToken(config.JWTConfig{Issuer: "x"}, time.Now(), uuid.New(), enums.UserRoleReader, time.Hour); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
