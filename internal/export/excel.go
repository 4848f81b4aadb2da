package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lendit/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Bookings"

// ExcelWriter writes booking snapshots as XLSX files into a directory.
type ExcelWriter struct {
	dir string
}

func NewExcelWriter(dir string) *ExcelWriter {
	return &ExcelWriter{dir: dir}
}

// WriteSnapshot dumps all bookings into a timestamped workbook and returns
// the file path.
func (w *ExcelWriter) WriteSnapshot(ctx context.Context, bookings []*models.Booking) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return "", fmt.Errorf("failed to delete default sheet: %w", err)
	}

	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status", "Created"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, b := range bookings {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		values := []any{
			b.ID,
			b.ItemName,
			b.BookerName,
			b.Start.Format(time.RFC3339),
			b.End.Format(time.RFC3339),
			b.Status,
			b.CreatedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return "", fmt.Errorf("failed to write booking row: %w", err)
			}
		}
	}

	path := filepath.Join(w.dir, fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save export file: %w", err)
	}
	return path, nil
}
