package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	user := User{Password: "secret123"}
	require.NoError(t, user.HashPassword())

	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, user.CheckPassword("secret123"))
	assert.Error(t, user.CheckPassword("wrong"))
}

func TestHashPasswordEmptyIsNoop(t *testing.T) {
	user := User{}
	require.NoError(t, user.HashPassword())
	assert.Empty(t, user.PasswordHash)
}

func TestPasswordChangeRequired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name     string
		user     User
		required bool
	}{
		{"plain account", User{}, false},
		{"flagged", User{MustChangePassword: true}, true},
		{"valid temporary password", User{TemporaryPasswordExpiry: &future}, false},
		{"expired temporary password", User{TemporaryPasswordExpiry: &past}, true},
		{"flagged and valid temporary", User{MustChangePassword: true, TemporaryPasswordExpiry: &future}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.required, tt.user.PasswordChangeRequired())
		})
	}
}
