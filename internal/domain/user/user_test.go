package user

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

var u0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewUser(t *testing.T) {
	u, err := NewUser(" Alice ", "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name())
	assert.Equal(t, "alice@example.com", u.Email())
	assert.Equal(t, int64(1), u.Version())

	_, err = NewUser("", "alice@example.com")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = NewUser("Alice", "not-an-email")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = NewUser("Alice", "")
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestPatch(t *testing.T) {
	u := Reconstruct(1, "Alice", "alice@example.com", 1, u0, u0)

	name := "Alicia"
	require.NoError(t, u.Patch(&name, nil))
	assert.Equal(t, "Alicia", u.Name())
	assert.Equal(t, "alice@example.com", u.Email())

	email := "alicia@example.com"
	require.NoError(t, u.Patch(nil, &email))
	assert.Equal(t, "alicia@example.com", u.Email())

	bad := "nope"
	assert.Error(t, u.Patch(nil, &bad))
	assert.Equal(t, "alicia@example.com", u.Email())
}

func TestNotFoundFor(t *testing.T) {
	err := NotFoundFor(9)
	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.Equal(t, "User not found: 9", err.Error())
}
