// internal/export/export.go

// Package export writes bill history workbooks.
package export

import (
	"fmt"
	"time"

	"franchise-pos/internal/common/errors"
	"franchise-pos/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName       = "Bills"
	timestampLayout = "2006-01-02 15:04:05"
)

var Columns = []string{
	"Bill ID",
	"Timestamp",
	"Franchise ID",
	"Item Name",
	"Quantity",
	"Unit Price",
	"Line Subtotal",
	"Bill Total",
	"Payment Method",
}

// Workbook holds a rendered export.
type Workbook struct {
	Content  []byte
	RowCount int
}

// BillsWorkbook renders one sheet with one row per bill line item. Times are
// written in loc, UTC when nil.
func BillsWorkbook(bills []models.Bill, loc *time.Location) (*Workbook, error) {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, errors.NewExportFailedError(err)
	}

	header := make([]interface{}, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, errors.NewExportFailedError(err)
	}

	row := 2
	for _, b := range bills {
		for _, it := range b.Items {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, errors.NewExportFailedError(err)
			}
			values := []interface{}{
				b.ID,
				b.CreatedAt.In(loc).Format(timestampLayout),
				b.FranchiseID,
				it.ItemName,
				it.Qty,
				it.Price.InexactFloat64(),
				it.Subtotal().InexactFloat64(),
				b.Total.InexactFloat64(),
				string(b.ModePayment),
			}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return nil, errors.NewExportFailedError(err)
			}
			row++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.NewExportFailedError(err)
	}
	return &Workbook{Content: buf.Bytes(), RowCount: row - 2}, nil
}

// FileName builds the export file name for a franchise and export time.
func FileName(prefix, franchiseID string, at time.Time) string {
	if prefix == "" {
		prefix = "bills"
	}
	return fmt.Sprintf("%s-%s-%s.xlsx", prefix, franchiseID, at.Format("20060102-150405"))
}
