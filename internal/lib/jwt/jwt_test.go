package jwt

import (
	"testing"
	"time"

	"lightbox/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestNewToken_RoundTrip(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "ph@example.com", IsAdmin: true}

	token, err := NewToken(user, testSecret, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestParseToken_Errors(t *testing.T) {
	user := models.User{ID: uuid.New(), Email: "ph@example.com"}

	expired, err := NewToken(user, testSecret, -time.Minute)
	require.NoError(t, err)

	valid, err := NewToken(user, testSecret, time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "expired", token: expired, secret: testSecret},
		{name: "wrong secret", token: valid, secret: "other"},
		{name: "garbage", token: "not.a.token", secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
