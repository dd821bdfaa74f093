package reader

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
)

// Format is the caller-declared file format of an upload.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// FormatFromFilename maps a filename extension to a Format.
func FormatFromFilename(name string) (Format, bool) {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".xlsx"):
		return FormatXLSX, true
	case strings.HasSuffix(lower, ".xls"):
		return FormatXLS, true
	case strings.HasSuffix(lower, ".csv"):
		return FormatCSV, true
	case strings.HasSuffix(lower, ".pdf"):
		return FormatPDF, true
	}
	return "", false
}

// Read parses fileBytes as the declared format and returns the grid.
// It is platform-agnostic; interpreting the rows is the adapters' job.
func Read(fileBytes []byte, format Format) (*grid.RawGrid, error) {
	var (
		g   *grid.RawGrid
		err error
	)
	switch format {
	case FormatXLSX:
		g, err = readXLSX(fileBytes)
	case FormatXLS:
		g, err = readXLS(fileBytes)
	case FormatCSV:
		g, err = readCSV(fileBytes)
	case FormatPDF:
		g, err = readPDF(fileBytes)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", canonical.ErrUnreadableFile, err)
	}
	if g.NumRows() == 0 {
		return nil, canonical.ErrEmptyFile
	}
	return g, nil
}

func readXLSX(data []byte) (*grid.RawGrid, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets found")
	}
	sheet := sheets[0]

	strRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	rows := make([][]grid.Cell, 0, len(strRows))
	for ri, strRow := range strRows {
		row := make([]grid.Cell, 0, len(strRow))
		for ci, text := range strRow {
			row = append(row, typedCell(f, sheet, ri, ci, text))
		}
		rows = append(rows, row)
	}
	return grid.New(rows), nil
}

// typedCell keeps the original cell typing from the workbook so numeric
// columns survive extraction without a round-trip through text.
func typedCell(f *excelize.File, sheet string, row, col int, text string) grid.Cell {
	if strings.TrimSpace(text) == "" {
		return grid.BlankCell()
	}
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return grid.StringCell(text)
	}
	ct, err := f.GetCellType(sheet, axis)
	if err == nil && (ct == excelize.CellTypeNumber || ct == excelize.CellTypeUnset) {
		if v, perr := strconv.ParseFloat(strings.ReplaceAll(text, ",", ""), 64); perr == nil {
			return grid.NumberCell(v, text)
		}
	}
	return grid.StringCell(text)
}

// readXLS goes through a temp file because the legacy reader only opens
// paths, same as the bank statement parsers did.
func readXLS(data []byte) (*grid.RawGrid, error) {
	tmpFile, err := os.CreateTemp("", "upload-*.xls")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return nil, err
	}
	tmpFile.Close()

	book, err := xls.OpenFile(tmpFile.Name())
	if err != nil {
		return nil, err
	}
	sheet, err := book.GetSheet(0)
	if err != nil || sheet == nil {
		return nil, fmt.Errorf("no sheets found")
	}

	rows := [][]grid.Cell{}
	for _, xlsRow := range sheet.GetRows() {
		row := []grid.Cell{}
		for _, col := range xlsRow.GetCols() {
			row = append(row, sniffCell(col.GetString()))
		}
		rows = append(rows, row)
	}
	return grid.New(rows), nil
}

func readCSV(data []byte) (*grid.RawGrid, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rows := [][]grid.Cell{}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row := make([]grid.Cell, 0, len(record))
		for _, field := range record {
			row = append(row, sniffCell(field))
		}
		rows = append(rows, row)
	}
	return grid.New(rows), nil
}

// sniffCell types a text value for formats that carry no cell typing of
// their own (CSV, legacy XLS, PDF table extraction).
func sniffCell(text string) grid.Cell {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return grid.BlankCell()
	}
	if v, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", ""), 64); err == nil {
		return grid.NumberCell(v, text)
	}
	return grid.StringCell(text)
}
