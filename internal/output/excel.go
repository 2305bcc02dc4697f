// internal/output/excel.go
package output

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/valpere/SubScrapexter/internal/scraper"
	"github.com/valpere/SubScrapexter/internal/utils"
)

// DefaultExcelSheetName is the sheet that holds the channel rows
const DefaultExcelSheetName = "Channels"

// DefaultExcelMaxCellLength is the maximum characters in a single Excel cell
const DefaultExcelMaxCellLength = 32767

var excelColumnWidths = map[string]float64{
	"A": 32, // ChannelName
	"B": 48, // ChannelLink
	"C": 60, // ChannelImage
	"D": 16, // SubscriberCount
	"E": 16, // SubsCountRaw
	"F": 80, // ChannelDescription
}

// ExcelWriter writes channels to a single-sheet workbook
type ExcelWriter struct {
	filename  string
	file      *atomicFile
	workbook  *excelize.File
	sheetName string
}

// NewExcelWriter creates a new Excel writer
func NewExcelWriter(filename string) (*ExcelWriter, error) {
	file, err := createAtomic(filename)
	if err != nil {
		return nil, err
	}

	workbook := excelize.NewFile()
	if err := workbook.SetSheetName("Sheet1", DefaultExcelSheetName); err != nil {
		workbook.Close()
		file.Discard()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	return &ExcelWriter{
		filename:  filename,
		file:      file,
		workbook:  workbook,
		sheetName: DefaultExcelSheetName,
	}, nil
}

// Write writes the styled header and one row per channel
func (w *ExcelWriter) Write(records []scraper.ChannelRecord) error {
	if err := w.writeSheet(records); err != nil {
		return w.file.fail(err)
	}
	if err := w.workbook.Write(w.file); err != nil {
		return w.file.fail(fmt.Errorf("failed to write workbook: %w", err))
	}
	return nil
}

func (w *ExcelWriter) writeSheet(records []scraper.ChannelRecord) error {
	header := make([]interface{}, len(Columns))
	for i, col := range Columns {
		header[i] = col
	}
	if err := w.workbook.SetSheetRow(w.sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	style, err := w.workbook.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C00000"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := w.workbook.SetCellStyle(w.sheetName, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, rec := range records {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := excelRow(rec)
		if err := w.workbook.SetSheetRow(w.sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	for col, width := range excelColumnWidths {
		if err := w.workbook.SetColWidth(w.sheetName, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	if err := w.workbook.SetPanes(w.sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	lastCell, _ := excelize.CoordinatesToCellName(len(Columns), len(records)+1)
	if err := w.workbook.AutoFilter(w.sheetName, "A1:"+lastCell, nil); err != nil {
		return fmt.Errorf("failed to set auto filter: %w", err)
	}
	return nil
}

// excelRow stores raw counts as numbers so they sort numerically
func excelRow(r scraper.ChannelRecord) []interface{} {
	row := make([]interface{}, 0, len(Columns))
	for i, value := range recordRow(r) {
		value = utils.TruncateRunes(value, DefaultExcelMaxCellLength)
		if i == 4 && scraper.IsPlainCount(value) {
			if n, err := strconv.ParseInt(value, 10, 64); err == nil {
				row = append(row, n)
				continue
			}
		}
		row = append(row, value)
	}
	return row
}

// Close commits the workbook file
func (w *ExcelWriter) Close() error {
	if w.workbook != nil {
		w.workbook.Close()
		w.workbook = nil
	}
	return w.file.Close()
}
