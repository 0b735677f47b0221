package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lunaqr/lunaqr/internal/render"
)

const (
	sheetName = "QR Codes"

	// Fixed two-column width hint: URL column, image-data column.
	urlColWidth   = 60.0
	imageColWidth = 120.0
)

// XLSXSink writes export rows into an XLSX workbook held in memory. Create
// one sink per export; Bytes returns the finished workbook.
type XLSXSink struct {
	data []byte
}

// NewXLSXSink returns an empty sink.
func NewXLSXSink() *XLSXSink {
	return &XLSXSink{}
}

// WriteRows builds the workbook: a header row, then one row per entry. Rows
// whose image data exceeds the cell character limit are refused here as a
// final guard; the encoder should have shrunk or rejected them already.
func (s *XLSXSink) WriteRows(rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetColWidth(sheetName, "A", "A", urlColWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(sheetName, "B", "B", imageColWidth); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", "URL"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, "B1", "Image"); err != nil {
		return err
	}

	for i, row := range rows {
		if len(row.ImageData) > render.CellCharLimit {
			return fmt.Errorf("row %d: %w", i, render.ErrPayloadTooLarge)
		}
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", i+2), row.URL); err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, fmt.Sprintf("B%d", i+2), row.ImageData); err != nil {
			return err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.data = buf.Bytes()
	return nil
}

// Bytes returns the finished workbook, or nil before WriteRows succeeds.
func (s *XLSXSink) Bytes() []byte {
	return s.data
}
