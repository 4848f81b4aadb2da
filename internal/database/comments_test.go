package database

import (
	"context"
	"testing"
	"time"

	"lendit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedComment(t *testing.T, db *DB, itemID, authorID int64, text string) *models.Comment {
	t.Helper()
	comment := &models.Comment{Text: text, ItemID: itemID, AuthorID: authorID}
	require.NoError(t, db.CreateComment(context.Background(), comment))
	return comment
}

func TestCommentsByItem(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	author := seedUser(t, db, "author@example.com", "Author")
	item := seedItem(t, db, owner.ID, "Drill", true)

	first := seedComment(t, db, item.ID, author.ID, "solid tool")
	time.Sleep(2 * time.Millisecond)
	second := seedComment(t, db, item.ID, author.ID, "battery died fast")

	comments, err := db.CommentsByItem(ctx, item.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)

	// Newest first, author name resolved from the join.
	assert.Equal(t, second.ID, comments[0].ID)
	assert.Equal(t, first.ID, comments[1].ID)
	assert.Equal(t, "Author", comments[0].AuthorName)
}

func TestCommentsByItems(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	ctx := context.Background()
	owner := seedUser(t, db, "owner@example.com", "Owner")
	author := seedUser(t, db, "author@example.com", "Author")
	drill := seedItem(t, db, owner.ID, "Drill", true)
	saw := seedItem(t, db, owner.ID, "Saw", true)

	seedComment(t, db, drill.ID, author.ID, "solid tool")
	seedComment(t, db, drill.ID, author.ID, "would rent again")
	seedComment(t, db, saw.ID, author.ID, "a bit dull")

	grouped, err := db.CommentsByItems(ctx, []int64{drill.ID, saw.ID})
	require.NoError(t, err)
	assert.Len(t, grouped[drill.ID], 2)
	assert.Len(t, grouped[saw.ID], 1)

	t.Run("EmptyInput", func(t *testing.T) {
		grouped, err := db.CommentsByItems(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, grouped)
	})
}
