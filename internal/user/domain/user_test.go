package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	u, err := NewUser("u1", "  Ann@Example.COM ", "hash", Profile{Name: " Ann ", Address: "1 Main St"})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)
	assert.Equal(t, "Ann", u.Name)
	assert.Equal(t, "active", u.Status())
}

func TestNewUserValidation(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		hash    string
		profile Profile
	}{
		{"bad email", "not-an-email", "h", Profile{Name: "A"}},
		{"display name form", "Ann <ann@example.com>", "h", Profile{Name: "A"}},
		{"empty email", "  ", "h", Profile{Name: "A"}},
		{"missing domain", "ann@", "h", Profile{Name: "A"}},
		{"long email", strings.Repeat("a", 250) + "@example.com", "h", Profile{Name: "A"}},
		{"missing hash", "a@example.com", "", Profile{Name: "A"}},
		{"missing name", "a@example.com", "h", Profile{Name: " "}},
		{"long name", "a@example.com", "h", Profile{Name: strings.Repeat("n", 101)}},
		{"long address", "a@example.com", "h", Profile{Name: "A", Address: strings.Repeat("a", 256)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser("u1", tt.email, tt.hash, tt.profile)
			assert.ErrorIs(t, err, ErrInvalidUser)
		})
	}
}

func TestSetBanned(t *testing.T) {
	u := &User{}
	assert.True(t, u.SetBanned(true))
	assert.Equal(t, "banned", u.Status())
	assert.False(t, u.SetBanned(true))
	assert.True(t, u.SetBanned(false))
}
