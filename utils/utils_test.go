package utils

import (
	"encoding/json"
	"testing"
	"time"

	"hrms/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	user := &models.User{Model: gorm.Model{ID: 42}, TokenVersion: 3}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, 3, claims.TokenVersion)
	assert.Equal(t, "hrms", claims.Issuer)
}

func TestJWTRejectsForeignAndExpiredTokens(t *testing.T) {
	user := &models.User{Model: gorm.Model{ID: 1}, TokenVersion: 1}

	foreign, err := NewJWTManager("other", time.Hour).GenerateToken(user)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).ParseToken(foreign)
	assert.Error(t, err)

	expired, err := NewJWTManager("secret", -time.Minute).GenerateToken(user)
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).ParseToken(expired)
	assert.Error(t, err)

	_, err = NewJWTManager("secret", time.Hour).ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, h.Compare(hash, "hunter22"))
	assert.False(t, h.Compare(hash, "hunter23"))
}

func TestValidateStruct(t *testing.T) {
	type input struct {
		Name  string `validate:"required"`
		Email string `validate:"omitempty,email"`
		Score int    `validate:"gte=0,lte=5"`
	}

	assert.NoError(t, ValidateStruct(input{Name: "x", Score: 3}))

	err := ValidateStruct(input{Email: "nope", Score: 9})
	require.Error(t, err)
	assert.Equal(t, "name is required, email must be a valid email, score must be less than or equal to 5", err.Error())
}

func TestDateUnmarshal(t *testing.T) {
	var payload struct {
		Day   *Date `json:"day"`
		Stamp *Date `json:"stamp"`
		Empty *Date `json:"empty"`
		None  *Date `json:"none"`
	}
	raw := `{"day":"2026-03-01","stamp":"2026-03-01T10:30:00Z","empty":"","none":null}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), *payload.Day.Ptr())
	assert.Equal(t, 10, payload.Stamp.Ptr().Hour())
	assert.Nil(t, payload.Empty.Ptr())
	assert.Nil(t, payload.None.Ptr())

	var bad struct {
		Day Date `json:"day"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"day":"03/01/2026"}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`{"day":20260301}`), &bad))
}

func TestParseUint(t *testing.T) {
	assert.EqualValues(t, 12, ParseUint("12"))
	assert.EqualValues(t, 0, ParseUint("abc"))
	assert.EqualValues(t, 0, ParseUint("-3"))
}
