package database

import (
	"context"
	"testing"
	"time"

	"lendit/internal/apperr"
	"lendit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	booker := seedUser(t, db, "booker@example.com", "Booker")
	item := seedItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour).Truncate(time.Second)
	end := start.Add(2 * time.Hour)
	booking := seedBooking(t, db, item.ID, booker.ID, start, end, models.StatusWaiting)

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusWaiting, got.Status)
	assert.Equal(t, int64(1), got.Version)
	assert.True(t, got.Start.Equal(start))
	assert.True(t, got.End.Equal(end))

	// Denormalized fields come from the joins.
	assert.Equal(t, "Drill", got.ItemName)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.Equal(t, "Booker", got.BookerName)
}

func TestGetBookingNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	_, err := db.GetBooking(context.Background(), 42)
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateBookingStatusIfWaiting(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	booker := seedUser(t, db, "booker@example.com", "Booker")
	item := seedItem(t, db, owner.ID, "Drill", true)

	start := time.Now().Add(time.Hour)
	booking := seedBooking(t, db, item.ID, booker.ID, start, start.Add(time.Hour), models.StatusWaiting)

	require.NoError(t, db.UpdateBookingStatusIfWaiting(ctx, booking.ID, models.StatusApproved))

	got, err := db.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, int64(2), got.Version)

	// A second decision loses the conditional update.
	err = db.UpdateBookingStatusIfWaiting(ctx, booking.ID, models.StatusRejected)
	assert.ErrorIs(t, err, ErrNotWaiting)

	// So does a decision on a missing booking.
	err = db.UpdateBookingStatusIfWaiting(ctx, 999, models.StatusApproved)
	assert.ErrorIs(t, err, ErrNotWaiting)
}

// seedStateFixture creates one booking per listing state for a single
// booker on a single owner's items.
func seedStateFixture(t *testing.T, db *DB) (ownerID, bookerID int64, byState map[models.BookingState]*models.Booking) {
	t.Helper()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	booker := seedUser(t, db, "booker@example.com", "Booker")
	item := seedItem(t, db, owner.ID, "Drill", true)

	now := time.Now()
	byState = map[models.BookingState]*models.Booking{
		models.StatePast:     seedBooking(t, db, item.ID, booker.ID, now.Add(-4*time.Hour), now.Add(-3*time.Hour), models.StatusApproved),
		models.StateCurrent:  seedBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved),
		models.StateFuture:   seedBooking(t, db, item.ID, booker.ID, now.Add(2*time.Hour), now.Add(3*time.Hour), models.StatusApproved),
		models.StateWaiting:  seedBooking(t, db, item.ID, booker.ID, now.Add(4*time.Hour), now.Add(5*time.Hour), models.StatusWaiting),
		models.StateRejected: seedBooking(t, db, item.ID, booker.ID, now.Add(6*time.Hour), now.Add(7*time.Hour), models.StatusRejected),
	}
	return owner.ID, booker.ID, byState
}

func TestListBookingsByBookerStates(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	_, bookerID, byState := seedStateFixture(t, db)
	now := time.Now()

	t.Run("All", func(t *testing.T) {
		bookings, err := db.ListBookingsByBooker(ctx, bookerID, models.StateAll, now, 10, 0)
		require.NoError(t, err)
		require.Len(t, bookings, 5)
		// Newest start first.
		assert.Equal(t, byState[models.StateRejected].ID, bookings[0].ID)
		assert.Equal(t, byState[models.StatePast].ID, bookings[4].ID)
	})

	for state, want := range map[models.BookingState]*models.Booking{
		models.StateCurrent:  byState[models.StateCurrent],
		models.StatePast:     byState[models.StatePast],
		models.StateWaiting:  byState[models.StateWaiting],
		models.StateRejected: byState[models.StateRejected],
	} {
		t.Run(string(state), func(t *testing.T) {
			bookings, err := db.ListBookingsByBooker(ctx, bookerID, state, now, 10, 0)
			require.NoError(t, err)
			require.Len(t, bookings, 1)
			assert.Equal(t, want.ID, bookings[0].ID)
		})
	}

	t.Run("FutureIsTemporal", func(t *testing.T) {
		// FUTURE matches on start time, not status: the waiting and
		// rejected bookings start in the future too.
		bookings, err := db.ListBookingsByBooker(ctx, bookerID, models.StateFuture, now, 10, 0)
		require.NoError(t, err)
		require.Len(t, bookings, 3)
		assert.Equal(t, byState[models.StateRejected].ID, bookings[0].ID)
		assert.Equal(t, byState[models.StateWaiting].ID, bookings[1].ID)
		assert.Equal(t, byState[models.StateFuture].ID, bookings[2].ID)
	})

	t.Run("Pagination", func(t *testing.T) {
		bookings, err := db.ListBookingsByBooker(ctx, bookerID, models.StateAll, now, 2, 1)
		require.NoError(t, err)
		require.Len(t, bookings, 2)
		assert.Equal(t, byState[models.StateWaiting].ID, bookings[0].ID)
		assert.Equal(t, byState[models.StateFuture].ID, bookings[1].ID)
	})
}

func TestListBookingsByOwner(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	ownerID, _, byState := seedStateFixture(t, db)
	now := time.Now()

	bookings, err := db.ListBookingsByOwner(ctx, ownerID, models.StateAll, now, 10, 0)
	require.NoError(t, err)
	assert.Len(t, bookings, 5)

	bookings, err = db.ListBookingsByOwner(ctx, ownerID, models.StateWaiting, now, 10, 0)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, byState[models.StateWaiting].ID, bookings[0].ID)

	// A user who owns nothing sees nothing.
	stranger := seedUser(t, db, "stranger@example.com", "Stranger")
	bookings, err = db.ListBookingsByOwner(ctx, stranger.ID, models.StateAll, now, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, bookings)
}

func TestLastAndNextBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	booker := seedUser(t, db, "booker@example.com", "Booker")
	item := seedItem(t, db, owner.ID, "Drill", true)
	now := time.Now()

	t.Run("Empty", func(t *testing.T) {
		last, err := db.LastBooking(ctx, item.ID, now)
		require.NoError(t, err)
		assert.Nil(t, last)

		next, err := db.NextBooking(ctx, item.ID, now)
		require.NoError(t, err)
		assert.Nil(t, next)
	})

	older := seedBooking(t, db, item.ID, booker.ID, now.Add(-4*time.Hour), now.Add(-3*time.Hour), models.StatusApproved)
	recent := seedBooking(t, db, item.ID, booker.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)
	upcoming := seedBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusApproved)
	later := seedBooking(t, db, item.ID, booker.ID, now.Add(3*time.Hour), now.Add(4*time.Hour), models.StatusApproved)
	_ = older
	_ = later

	// Waiting bookings never show up in last/next.
	seedBooking(t, db, item.ID, booker.ID, now.Add(-30*time.Minute), now.Add(30*time.Minute), models.StatusWaiting)

	last, err := db.LastBooking(ctx, item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, recent.ID, last.ID)

	next, err := db.NextBooking(ctx, item.ID, now)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, upcoming.ID, next.ID)
}

func TestApprovedBookingsByItems(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	booker := seedUser(t, db, "booker@example.com", "Booker")
	drill := seedItem(t, db, owner.ID, "Drill", true)
	saw := seedItem(t, db, owner.ID, "Saw", true)
	now := time.Now()

	second := seedBooking(t, db, drill.ID, booker.ID, now.Add(2*time.Hour), now.Add(3*time.Hour), models.StatusApproved)
	first := seedBooking(t, db, drill.ID, booker.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)
	seedBooking(t, db, drill.ID, booker.ID, now.Add(5*time.Hour), now.Add(6*time.Hour), models.StatusWaiting)

	grouped, err := db.ApprovedBookingsByItems(ctx, []int64{drill.ID, saw.ID})
	require.NoError(t, err)
	require.Len(t, grouped[drill.ID], 2)
	assert.Empty(t, grouped[saw.ID])

	// Ascending by start within a group.
	assert.Equal(t, first.ID, grouped[drill.ID][0].ID)
	assert.Equal(t, second.ID, grouped[drill.ID][1].ID)

	t.Run("EmptyInput", func(t *testing.T) {
		grouped, err := db.ApprovedBookingsByItems(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, grouped)
	})
}

func TestHasFinishedBooking(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	booker := seedUser(t, db, "booker@example.com", "Booker")
	item := seedItem(t, db, owner.ID, "Drill", true)
	now := time.Now()

	ok, err := db.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	// An approved booking still running does not count.
	seedBooking(t, db, item.ID, booker.ID, now.Add(-time.Hour), now.Add(time.Hour), models.StatusApproved)
	ok, err = db.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	// A rejected booking that ended does not count either.
	seedBooking(t, db, item.ID, booker.ID, now.Add(-4*time.Hour), now.Add(-3*time.Hour), models.StatusRejected)
	ok, err = db.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.False(t, ok)

	seedBooking(t, db, item.ID, booker.ID, now.Add(-2*time.Hour), now.Add(-time.Hour), models.StatusApproved)
	ok, err = db.HasFinishedBooking(ctx, item.ID, booker.ID, now)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestAllBookings(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	booker := seedUser(t, db, "booker@example.com", "Booker")
	item := seedItem(t, db, owner.ID, "Drill", true)
	now := time.Now()

	late := seedBooking(t, db, item.ID, booker.ID, now.Add(3*time.Hour), now.Add(4*time.Hour), models.StatusWaiting)
	early := seedBooking(t, db, item.ID, booker.ID, now.Add(time.Hour), now.Add(2*time.Hour), models.StatusApproved)

	bookings, err := db.AllBookings(ctx)
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, early.ID, bookings[0].ID)
	assert.Equal(t, late.ID, bookings[1].ID)
}
