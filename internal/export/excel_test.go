package export

import (
	"context"
	"testing"
	"time"

	"lendit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteSnapshot(t *testing.T) {
	writer := NewExcelWriter(t.TempDir())

	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	bookings := []*models.Booking{
		{ID: 1, ItemName: "Drill", BookerName: "Booker", Start: start, End: start.Add(2 * time.Hour), Status: models.StatusApproved},
		{ID: 2, ItemName: "Saw", BookerName: "Booker", Start: start.Add(24 * time.Hour), End: start.Add(26 * time.Hour), Status: models.StatusWaiting},
	}

	path, err := writer.WriteSnapshot(context.Background(), bookings)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Item", "Booker", "Start", "End", "Status", "Created"}, rows[0][:7])
	assert.Equal(t, "Drill", rows[1][1])
	assert.Equal(t, "APPROVED", rows[1][5])
	assert.Equal(t, "Saw", rows[2][1])
}

func TestWriteSnapshotEmpty(t *testing.T) {
	writer := NewExcelWriter(t.TempDir())

	path, err := writer.WriteSnapshot(context.Background(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bookings")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestWriteSnapshotCanceled(t *testing.T) {
	writer := NewExcelWriter(t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := writer.WriteSnapshot(ctx, []*models.Booking{{ID: 1}})
	assert.Error(t, err)
}
