package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringCellBlanksWhitespace(t *testing.T) {
	assert.Equal(t, KindBlank, StringCell("   ").Kind)
	assert.Equal(t, KindBlank, StringCell("").Kind)
	assert.Equal(t, KindString, StringCell("abc").Kind)
}

func TestTrimmedTextCollapsesNewlines(t *testing.T) {
	c := StringCell("Purchase Order\nNumber : PO123 ")
	assert.Equal(t, "Purchase Order Number : PO123", c.TrimmedText())
}

func TestCellOutOfRangeIsBlank(t *testing.T) {
	g := New([][]Cell{
		{StringCell("a"), StringCell("b")},
		{StringCell("c")},
	})

	assert.Equal(t, "b", g.Cell(0, 1).Text)
	// Ragged row: column 1 of row 1 does not exist.
	assert.True(t, g.Cell(1, 1).IsBlank())
	assert.True(t, g.Cell(5, 0).IsBlank())
	assert.True(t, g.Cell(-1, 0).IsBlank())
}

func TestIsBlankRow(t *testing.T) {
	g := New([][]Cell{
		{StringCell("a")},
		{BlankCell(), StringCell("   ")},
		{},
	})

	assert.False(t, g.IsBlankRow(0))
	assert.True(t, g.IsBlankRow(1))
	assert.True(t, g.IsBlankRow(2))
	assert.True(t, g.IsBlankRow(99))
}

func TestRowContains(t *testing.T) {
	g := New([][]Cell{
		{StringCell("Item Code"), StringCell("Product Description"), NumberCell(5, "5")},
	})

	assert.True(t, g.RowContains(0, "item code"))
	assert.True(t, g.RowContains(0, "DESCRIPTION"))
	assert.False(t, g.RowContains(0, "hsn"))
}

func TestTypedCells(t *testing.T) {
	now := time.Date(2025, 3, 25, 0, 0, 0, 0, time.UTC)
	n := NumberCell(42.5, "42.50")
	d := DateCell(now, "25-03-2025")

	assert.Equal(t, KindNumber, n.Kind)
	assert.Equal(t, 42.5, n.Number)
	assert.Equal(t, KindDate, d.Kind)
	assert.Equal(t, now, d.Date)
	assert.False(t, n.IsBlank())
}
