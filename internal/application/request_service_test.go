package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	requestDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/request"
	userDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/user"
)

func TestCreateRequest(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice")

	r, err := e.requests.CreateRequest(e.ctx, alice, CreateItemRequestRequest{Description: "A ladder"})
	require.NoError(t, err)
	assert.NotZero(t, r.ID)
	assert.Equal(t, "A ladder", r.Description)
	assert.True(t, t0.Equal(r.Created))
	assert.Equal(t, []RequestItemDTO{}, r.Items)

	_, err = e.requests.CreateRequest(e.ctx, 404, CreateItemRequestRequest{Description: "A tent"})
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound)

	_, err = e.requests.CreateRequest(e.ctx, alice, CreateItemRequestRequest{Description: "  "})
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestRequests_AnsweredByItems(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	ladder, err := e.requests.CreateRequest(e.ctx, alice, CreateItemRequestRequest{Description: "A ladder"})
	require.NoError(t, err)
	e.clock.now = t0.Add(time.Hour)
	tent, err := e.requests.CreateRequest(e.ctx, alice, CreateItemRequestRequest{Description: "A tent"})
	require.NoError(t, err)

	available := true
	answer, err := e.items.CreateItem(e.ctx, bob, CreateItemRequest{
		Name: "Ladder", Description: "Three metres", Available: &available, RequestID: &ladder.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, answer.RequestID)
	assert.Equal(t, ladder.ID, *answer.RequestID)

	missing := int64(999)
	_, err = e.items.CreateItem(e.ctx, bob, CreateItemRequest{
		Name: "Tent", Description: "For two", Available: &available, RequestID: &missing,
	})
	assert.ErrorIs(t, err, requestDomain.ErrRequestNotFound)

	own, err := e.requests.ListOwnRequests(e.ctx, alice)
	require.NoError(t, err)
	require.Len(t, own, 2)
	assert.Equal(t, ladder.ID, own[0].ID, "oldest first")
	assert.Equal(t, tent.ID, own[1].ID)
	require.Len(t, own[0].Items, 1)
	assert.Equal(t, RequestItemDTO{
		ID: answer.ID, Name: "Ladder", Description: "Three metres", Available: true, OwnerID: bob, RequestID: ladder.ID,
	}, own[0].Items[0])
	assert.Empty(t, own[1].Items)

	mine, err := e.requests.ListOwnRequests(e.ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, mine)

	others, err := e.requests.ListOtherRequests(e.ctx, bob, 0, 10)
	require.NoError(t, err)
	assert.Len(t, others, 2)
	others, err = e.requests.ListOtherRequests(e.ctx, alice, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, others, "own requests are not listed")

	got, err := e.requests.GetRequest(e.ctx, bob, ladder.ID)
	require.NoError(t, err)
	assert.Equal(t, "A ladder", got.Description)
	assert.Len(t, got.Items, 1)
}

func TestRequests_Errors(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice")

	_, err := e.requests.GetRequest(e.ctx, alice, 42)
	assert.ErrorIs(t, err, requestDomain.ErrRequestNotFound)

	r, err := e.requests.CreateRequest(e.ctx, alice, CreateItemRequestRequest{Description: "A ladder"})
	require.NoError(t, err)
	_, err = e.requests.GetRequest(e.ctx, 404, r.ID)
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound, "the actor is checked before the request")

	_, err = e.requests.ListOwnRequests(e.ctx, 404)
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound)

	_, err = e.requests.ListOtherRequests(e.ctx, alice, -1, 10)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	_, err = e.requests.ListOtherRequests(e.ctx, alice, 0, 0)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestListOtherRequests_LossyPaging(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")

	var created []int64
	for i := 0; i < 5; i++ {
		e.clock.now = t0.Add(time.Duration(i) * time.Minute)
		r, err := e.requests.CreateRequest(e.ctx, alice, CreateItemRequestRequest{Description: "Request"})
		require.NoError(t, err)
		created = append(created, r.ID)
	}

	page, err := e.requests.ListOtherRequests(e.ctx, bob, 3, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, created[2], page[0].ID)
	assert.Equal(t, created[3], page[1].ID)
}
