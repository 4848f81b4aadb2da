package database

import (
	"context"
	"fmt"
	"time"

	"lendit/internal/models"
)

const commentSelect = `
    SELECT c.id, c.text, c.item_id, c.author_id, u.name, c.created_at
    FROM comments c
    JOIN users u ON u.id = c.author_id`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	err := row.Scan(&c.ID, &c.Text, &c.ItemID, &c.AuthorID, &c.AuthorName, &c.Created)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (text, item_id, author_id, created_at) VALUES (?, ?, ?, ?)`
	now := time.Now()
	result, err := db.ExecContext(ctx, query, comment.Text, comment.ItemID, comment.AuthorID, now)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.Created = now
	return nil
}

// CommentsByItem returns an item's comments, newest first.
func (db *DB) CommentsByItem(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := commentSelect + ` WHERE c.item_id = ? ORDER BY c.created_at DESC`
	return db.queryComments(ctx, query, itemID)
}

// CommentsByItems fetches comments for a set of items in one query, grouped
// by item id, newest first within a group.
func (db *DB) CommentsByItems(ctx context.Context, itemIDs []int64) (map[int64][]models.Comment, error) {
	grouped := make(map[int64][]models.Comment)
	if len(itemIDs) == 0 {
		return grouped, nil
	}

	query := commentSelect + ` WHERE c.item_id IN (` + placeholders(len(itemIDs)) + `) ORDER BY c.item_id, c.created_at DESC`
	args := make([]any, len(itemIDs))
	for i, id := range itemIDs {
		args[i] = id
	}

	comments, err := db.queryComments(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	for _, c := range comments {
		grouped[c.ItemID] = append(grouped[c.ItemID], c)
	}
	return grouped, nil
}

func (db *DB) queryComments(ctx context.Context, query string, args ...any) ([]models.Comment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}
