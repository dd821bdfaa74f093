package platforms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLabelValueInlineColon(t *testing.T) {
	g := gridFromRows([][]string{
		{"PO No : JCNPO170325083233"},
	})
	assert.Equal(t, "JCNPO170325083233", FindLabelValue(g, "PO No"))
}

func TestFindLabelValueRightCell(t *testing.T) {
	g := gridFromRows([][]string{
		{"PO Number", "", "PO-2024-1187"},
	})
	assert.Equal(t, "PO-2024-1187", FindLabelValue(g, "PO Number"))
}

func TestFindLabelValueCellBelow(t *testing.T) {
	g := gridFromRows([][]string{
		{"Vendor Name"},
		{"Sunrise Foods"},
	})
	assert.Equal(t, "Sunrise Foods", FindLabelValue(g, "Vendor Name"))
}

func TestFindLabelValueMergedCellNewline(t *testing.T) {
	// Merged cells render with embedded newlines; TrimmedText collapses them
	// so the label and value read as one line.
	g := gridFromRows([][]string{
		{"Purchase Order\nNumber : ZPO-5512"},
	})
	assert.Equal(t, "ZPO-5512", FindLabelValue(g, "Purchase Order Number"))
}

func TestFindLabelValueMissing(t *testing.T) {
	g := gridFromRows([][]string{{"some", "other", "cells"}})
	assert.Equal(t, "", FindLabelValue(g, "PO Number"))
}

func TestFindGSTINsDistinctInOrder(t *testing.T) {
	g := gridFromRows([][]string{
		{"Delivered To: warehouse, GSTIN 06AABCT1234A1Z5"},
		{"GSTIN 06AABCT1234A1Z5"},
		{"Vendor GSTIN: 27AAFCD5862R1Z5"},
	})
	assert.Equal(t, []string{"06AABCT1234A1Z5", "27AAFCD5862R1Z5"}, FindGSTINs(g))
}

func TestPANFromGSTIN(t *testing.T) {
	assert.Equal(t, "AAFCD5862R", PANFromGSTIN("27AAFCD5862R1Z5"))
	assert.Equal(t, "", PANFromGSTIN("short"))
	assert.Equal(t, "", PANFromGSTIN("2712345678901Z5"))
}

func TestParseDateLayouts(t *testing.T) {
	cases := map[string]string{
		"25-03-2025":       "2025-03-25",
		"25/03/2025":       "2025-03-25",
		"2025-03-25":       "2025-03-25",
		"25-Mar-2025":      "2025-03-25",
		"25 Mar 2025":      "2025-03-25",
		"Mar 25, 2025":     "2025-03-25",
		"25.03.2025":       "2025-03-25",
		"5/3/2025":         "2025-03-05",
		"25-03-25":         "2025-03-25",
		"25-03-2025 14:02": "2025-03-25",
	}
	for in, want := range cases {
		got := ParseDate(in)
		require.NotNil(t, got, in)
		assert.Equal(t, want, got.Format("2006-01-02"), in)
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	assert.Nil(t, ParseDate(""))
	assert.Nil(t, ParseDate("   "))
	assert.Nil(t, ParseDate("not a date"))
	assert.Nil(t, ParseDate("99-99-9999"))
}
