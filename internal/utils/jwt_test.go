package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/foodhub/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	secret := "test-secret"
	subjectID := uuid.New()

	tokenString, err := GenerateToken(secret, subjectID, "diner@example.com", models.RoleUser, time.Minute)
	require.NoError(t, err)

	claims, err := ParseToken(secret, tokenString)
	require.NoError(t, err)
	assert.Equal(t, "diner@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)

	parsedID, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, subjectID, parsedID)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	tokenString, err := GenerateToken("right-secret", uuid.New(), "diner@example.com", models.RoleUser, time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("wrong-secret", tokenString)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	tokenString, err := GenerateToken("test-secret", uuid.New(), "diner@example.com", models.RoleUser, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken("test-secret", tokenString)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	_, err := ParseToken("test-secret", "not.a.token")
	assert.Error(t, err)
}
