package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShareIt-Platform/service-sharing/internal/common/domain"
	bookingDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/booking"
	itemDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/item"
	userDomain "github.com/ShareIt-Platform/service-sharing/internal/domain/user"
)

func TestGetItem_NearestBookingsForOwnerOnly(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	drill := e.item(t, owner, "Drill", true)

	last := e.book(t, booker, drill, t0.Add(-48*time.Hour), t0.Add(-24*time.Hour))
	rejectedPast := e.book(t, booker, drill, t0.Add(-2*time.Hour), t0.Add(-time.Hour))
	rejectedSoon := e.book(t, booker, drill, t0.Add(time.Hour), t0.Add(2*time.Hour))
	next := e.book(t, booker, drill, t0.Add(24*time.Hour), t0.Add(48*time.Hour))
	for _, id := range []int64{rejectedPast, rejectedSoon} {
		_, err := e.bookings.DecideBooking(e.ctx, id, owner, false)
		require.NoError(t, err)
	}

	asOwner, err := e.items.GetItem(e.ctx, owner, drill)
	require.NoError(t, err)
	require.NotNil(t, asOwner.LastBooking)
	require.NotNil(t, asOwner.NextBooking)
	assert.Equal(t, &bookingDomain.ShortBooking{ID: last, BookerID: booker}, asOwner.LastBooking)
	assert.Equal(t, &bookingDomain.ShortBooking{ID: next, BookerID: booker}, asOwner.NextBooking)
	assert.NotNil(t, asOwner.Comments)

	asBooker, err := e.items.GetItem(e.ctx, booker, drill)
	require.NoError(t, err)
	assert.Nil(t, asBooker.LastBooking)
	assert.Nil(t, asBooker.NextBooking)

	_, err = e.items.GetItem(e.ctx, owner, 999)
	assert.ErrorIs(t, err, itemDomain.ErrItemNotFound)
}

func TestListOwnerItems(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	a := e.item(t, owner, "A", true)
	b := e.item(t, owner, "B", true)
	c := e.item(t, owner, "C", true)
	e.book(t, booker, b, t0.Add(time.Hour), t0.Add(2*time.Hour))

	items, err := e.items.ListOwnerItems(e.ctx, owner, 0, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []int64{a, b, c}, []int64{items[0].ID, items[1].ID, items[2].ID})
	assert.NotNil(t, items[1].NextBooking)
	assert.Nil(t, items[0].NextBooking)

	page, err := e.items.ListOwnerItems(e.ctx, owner, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, c, page[0].ID)

	_, err = e.items.ListOwnerItems(e.ctx, owner, -1, 2)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
}

func TestUpdateAndDeleteItem_OwnerOnly(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner")
	other := e.user(t, "other")
	drill := e.item(t, owner, "Drill", true)

	name := "Hammer drill"
	_, err := e.items.UpdateItem(e.ctx, other, drill, UpdateItemRequest{Name: &name})
	assert.ErrorIs(t, err, itemDomain.ErrItemAccessDenied)
	assert.Equal(t, domain.KindForbidden, domain.KindOf(err))

	off := false
	updated, err := e.items.UpdateItem(e.ctx, owner, drill, UpdateItemRequest{Name: &name, Available: &off})
	require.NoError(t, err)
	assert.Equal(t, "Hammer drill", updated.Name)
	assert.False(t, updated.Available)
	assert.Equal(t, "Drill for rent", updated.Description)

	booker := e.user(t, "booker")
	_, err = e.bookings.RequestBooking(e.ctx, booker, CreateBookingRequest{ItemID: drill, Start: t0.Add(time.Hour), End: t0.Add(2 * time.Hour)})
	assert.ErrorIs(t, err, bookingDomain.ErrItemUnavailable)

	assert.ErrorIs(t, e.items.DeleteItem(e.ctx, other, drill), itemDomain.ErrItemAccessDenied)
	require.NoError(t, e.items.DeleteItem(e.ctx, owner, drill))
	_, err = e.items.GetItem(e.ctx, owner, drill)
	assert.ErrorIs(t, err, itemDomain.ErrItemNotFound)
}

func TestDeleteItem_KeepsBookingHistory(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	drill := e.item(t, owner, "Drill", true)
	id := e.book(t, booker, drill, t0.Add(time.Hour), t0.Add(2*time.Hour))
	_, err := e.bookings.DecideBooking(e.ctx, id, owner, false)
	require.NoError(t, err)

	err = e.items.DeleteItem(e.ctx, owner, drill)
	assert.ErrorIs(t, err, itemDomain.ErrItemHasBookings)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	got, err := e.bookings.GetBooking(e.ctx, id, booker)
	require.NoError(t, err)
	assert.Equal(t, "REJECTED", got.Status)
}

func TestCreateItem_UnknownOwner(t *testing.T) {
	e := newEnv(t)
	on := true
	_, err := e.items.CreateItem(e.ctx, 42, CreateItemRequest{Name: "X", Description: "Y", Available: &on})
	assert.ErrorIs(t, err, userDomain.ErrUserNotFound)
}

func TestSearchItems(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner")
	drill := e.item(t, owner, "Cordless Drill", true)
	e.item(t, owner, "Old drill", false)
	e.item(t, owner, "Saw", true)

	found, err := e.items.SearchItems(e.ctx, "DRILL", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, drill, found[0].ID)

	blank, err := e.items.SearchItems(e.ctx, "   ", 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, blank)
	assert.Empty(t, blank)
}

func TestAddComment(t *testing.T) {
	e := newEnv(t)
	owner := e.user(t, "owner")
	booker := e.user(t, "booker")
	drill := e.item(t, owner, "Drill", true)

	_, err := e.items.AddComment(e.ctx, booker, drill, CreateCommentRequest{Text: "Great"})
	require.ErrorIs(t, err, bookingDomain.ErrNoEligibleBooking)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))

	id := e.book(t, booker, drill, t0.Add(time.Hour), t0.Add(2*time.Hour))
	_, err = e.bookings.DecideBooking(e.ctx, id, owner, true)
	require.NoError(t, err)

	_, err = e.items.AddComment(e.ctx, booker, drill, CreateCommentRequest{Text: "Great"})
	assert.ErrorIs(t, err, bookingDomain.ErrNoEligibleBooking, "booking has not ended yet")

	e.clock.now = t0.Add(3 * time.Hour)
	c, err := e.items.AddComment(e.ctx, booker, drill, CreateCommentRequest{Text: "Great"})
	require.NoError(t, err)
	assert.Equal(t, "Great", c.Text)
	assert.Equal(t, "booker", c.AuthorName)
	assert.True(t, c.Created.Equal(e.clock.now))

	_, err = e.items.AddComment(e.ctx, booker, 999, CreateCommentRequest{Text: "Elsewhere"})
	assert.ErrorIs(t, err, itemDomain.ErrItemNotFound)

	it, err := e.items.GetItem(e.ctx, booker, drill)
	require.NoError(t, err)
	require.Len(t, it.Comments, 1)
	assert.Equal(t, "Great", it.Comments[0].Text)
}
