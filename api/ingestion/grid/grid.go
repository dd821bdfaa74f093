package grid

import (
	"strings"
	"time"
)

// CellKind tags the original type of a spreadsheet cell so adapters can
// reject lossy coercions instead of silently passing strings through.
type CellKind int

const (
	KindBlank CellKind = iota
	KindString
	KindNumber
	KindDate
)

// Cell is one spreadsheet cell. Text always carries the raw rendered value;
// Number/Date are only meaningful for their matching kind.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
	Date   time.Time
}

func BlankCell() Cell {
	return Cell{Kind: KindBlank}
}

func StringCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return BlankCell()
	}
	return Cell{Kind: KindString, Text: s}
}

func NumberCell(v float64, text string) Cell {
	return Cell{Kind: KindNumber, Number: v, Text: text}
}

func DateCell(t time.Time, text string) Cell {
	return Cell{Kind: KindDate, Date: t, Text: text}
}

func (c Cell) IsBlank() bool {
	return c.Kind == KindBlank || strings.TrimSpace(c.Text) == ""
}

// TrimmedText returns the cell text with surrounding whitespace and embedded
// newlines collapsed, the way vendor files bury labels inside merged cells.
func (c Cell) TrimmedText() string {
	return strings.TrimSpace(strings.ReplaceAll(c.Text, "\n", " "))
}

// RawGrid is the in-memory representation of one uploaded file: an ordered
// sequence of rows of typed cells. Built once by the reader and treated as
// read-only by everything downstream.
type RawGrid struct {
	Rows [][]Cell
}

func New(rows [][]Cell) *RawGrid {
	return &RawGrid{Rows: rows}
}

func (g *RawGrid) NumRows() int {
	return len(g.Rows)
}

// Cell returns the cell at (row, col), or a blank cell when the position is
// outside the ragged row widths vendor exports produce.
func (g *RawGrid) Cell(row, col int) Cell {
	if row < 0 || row >= len(g.Rows) {
		return BlankCell()
	}
	r := g.Rows[row]
	if col < 0 || col >= len(r) {
		return BlankCell()
	}
	return r[col]
}

func (g *RawGrid) RowWidth(row int) int {
	if row < 0 || row >= len(g.Rows) {
		return 0
	}
	return len(g.Rows[row])
}

func (g *RawGrid) IsBlankRow(row int) bool {
	if row < 0 || row >= len(g.Rows) {
		return true
	}
	for _, c := range g.Rows[row] {
		if !c.IsBlank() {
			return false
		}
	}
	return true
}

// RowText returns the trimmed text of every cell in a row.
func (g *RawGrid) RowText(row int) []string {
	if row < 0 || row >= len(g.Rows) {
		return nil
	}
	out := make([]string, len(g.Rows[row]))
	for i, c := range g.Rows[row] {
		out[i] = c.TrimmedText()
	}
	return out
}

// RowContains reports whether any cell in the row contains the given label,
// case-insensitively.
func (g *RawGrid) RowContains(row int, label string) bool {
	needle := strings.ToLower(label)
	for _, c := range g.Rows[row] {
		if strings.Contains(strings.ToLower(c.TrimmedText()), needle) {
			return true
		}
	}
	return false
}
