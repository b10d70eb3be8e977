package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// maxSheetName is the Excel limit on sheet name length.
const maxSheetName = 31

// sheetWriter writes rows sheet by sheet into one workbook.
type sheetWriter struct {
	file         *excelize.File
	currentSheet string
	currentRow   int
	boldStyle    int
}

func newSheetWriter() (*sheetWriter, error) {
	f := excelize.NewFile()
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	return &sheetWriter{file: f, boldStyle: style}, nil
}

// addSheet starts a new sheet. The first call renames the default sheet.
func (w *sheetWriter) addSheet(name string) error {
	if len(name) > maxSheetName {
		name = name[:maxSheetName]
	}

	if w.currentSheet == "" {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}

	w.currentSheet = name
	w.currentRow = 1
	return nil
}

func (w *sheetWriter) writeRow(values []any, bold bool) error {
	if w.currentSheet == "" {
		return fmt.Errorf("no active sheet")
	}
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.currentRow)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.currentSheet, cell, val); err != nil {
			return err
		}
	}
	if bold && len(values) > 0 {
		start, _ := excelize.CoordinatesToCellName(1, w.currentRow)
		end, _ := excelize.CoordinatesToCellName(len(values), w.currentRow)
		if err := w.file.SetCellStyle(w.currentSheet, start, end, w.boldStyle); err != nil {
			return err
		}
	}
	w.currentRow++
	return nil
}

func (w *sheetWriter) save(out io.Writer) error {
	_, err := w.file.WriteTo(out)
	return err
}

func (w *sheetWriter) close() error {
	return w.file.Close()
}
