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

func seedRequest(t *testing.T, db *DB, requestorID int64, description string) *models.ItemRequest {
	t.Helper()
	request := &models.ItemRequest{Description: description, RequestorID: requestorID}
	require.NoError(t, db.CreateRequest(context.Background(), request))
	return request
}

func TestCreateAndGetRequest(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	requestor := seedUser(t, db, "requestor@example.com", "Requestor")
	request := seedRequest(t, db, requestor.ID, "Need a drill")

	got, err := db.GetRequest(ctx, request.ID)
	require.NoError(t, err)
	assert.Equal(t, "Need a drill", got.Description)
	assert.Equal(t, requestor.ID, got.RequestorID)

	t.Run("NotFound", func(t *testing.T) {
		_, err := db.GetRequest(ctx, 999)
		assert.True(t, apperr.IsNotFound(err))
	})
}

func TestRequestsByRequestor(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	requestor := seedUser(t, db, "requestor@example.com", "Requestor")
	other := seedUser(t, db, "other@example.com", "Other")

	first := seedRequest(t, db, requestor.ID, "Need a drill")
	time.Sleep(2 * time.Millisecond)
	second := seedRequest(t, db, requestor.ID, "Need a saw")
	seedRequest(t, db, other.ID, "Need a ladder")

	requests, err := db.RequestsByRequestor(ctx, requestor.ID)
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, second.ID, requests[0].ID)
	assert.Equal(t, first.ID, requests[1].ID)
}

func TestOtherRequests(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	requestor := seedUser(t, db, "requestor@example.com", "Requestor")
	other := seedUser(t, db, "other@example.com", "Other")

	seedRequest(t, db, requestor.ID, "Need a drill")
	foreign := seedRequest(t, db, other.ID, "Need a ladder")

	requests, err := db.OtherRequests(ctx, requestor.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, requests, 1)
	assert.Equal(t, foreign.ID, requests[0].ID)

	t.Run("Pagination", func(t *testing.T) {
		requests, err := db.OtherRequests(ctx, requestor.ID, 10, 1)
		require.NoError(t, err)
		assert.Empty(t, requests)
	})
}
