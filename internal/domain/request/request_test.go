package request

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
)

func TestNewItemRequest(t *testing.T) {
	created := time.Date(2026, 6, 1, 15, 0, 0, 0, time.FixedZone("UTC+3", 3*3600))

	r, err := NewItemRequest(4, "  a ladder for the weekend ", created)
	require.NoError(t, err)
	assert.Equal(t, int64(4), r.RequesterID())
	assert.Equal(t, "a ladder for the weekend", r.Description())
	assert.Equal(t, time.UTC, r.Created().Location())
	assert.True(t, created.Equal(r.Created()))
	assert.Zero(t, r.ID())

	r.AssignID(9)
	assert.Equal(t, int64(9), r.ID())
}

func TestNewItemRequest_Invalid(t *testing.T) {
	_, err := NewItemRequest(4, "   ", time.Now())
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	_, err = NewItemRequest(0, "ladder", time.Now())
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestNotFoundFor(t *testing.T) {
	err := NotFoundFor(12)
	assert.True(t, errors.Is(err, ErrRequestNotFound))
	assert.Equal(t, "Item request not found: 12", err.Error())
}
