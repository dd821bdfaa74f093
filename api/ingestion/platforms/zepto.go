package platforms

import (
	"strings"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// Zepto exports are flat CSVs: no prose header block, every row repeats the
// PO number in a "PO No." column. The header scan therefore reads the first
// data row under that column instead of scanning merged cells.
func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformZepto,
		TaxModel: canonical.TaxComposite,
		Columns: []ColumnSpec{
			{Field: FieldItemCode, Labels: []string{"sku"}, Type: TypeString, Required: true},
			{Field: FieldDescription, Labels: []string{"sku desc"}, Type: TypeString, Required: true},
			{Field: FieldHSN, Labels: []string{"hsn"}, Type: TypeString},
			{Field: FieldUPC, Labels: []string{"ean"}, Type: TypeString},
			{Field: FieldQuantity, Labels: []string{"qty"}, Type: TypeNumeric, Required: true},
			{Field: FieldUnitCost, Labels: []string{"unit base cost"}, Type: TypeNumeric},
			{Field: FieldCGSTRate, Labels: []string{"cgst %"}, Type: TypeNumeric},
			{Field: FieldSGSTRate, Labels: []string{"sgst %"}, Type: TypeNumeric},
			{Field: FieldIGSTRate, Labels: []string{"igst %"}, Type: TypeNumeric},
			{Field: FieldCessRate, Labels: []string{"cess %"}, Type: TypeNumeric},
			{Field: FieldMRP, Labels: []string{"mrp"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"total amount"}, Type: TypeNumeric},
		},
		ScanHeader: scanZeptoHeader,
	}))
}

func scanZeptoHeader(g *grid.RawGrid, h *canonical.Header) {
	col := -1
	headerRow := -1
	for r := 0; r < g.NumRows() && col < 0; r++ {
		for c := 0; c < g.RowWidth(r); c++ {
			text := strings.ToLower(g.Cell(r, c).TrimmedText())
			if text == "po no." || text == "po no" || text == "po number" {
				col, headerRow = c, r
				break
			}
		}
	}
	if col < 0 {
		return
	}
	for r := headerRow + 1; r < g.NumRows(); r++ {
		if v := g.Cell(r, col).TrimmedText(); v != "" {
			h.PONumber = v
			break
		}
	}
	// PO date rides along as a column too when present.
	for c := 0; c < g.RowWidth(headerRow); c++ {
		text := strings.ToLower(g.Cell(headerRow, c).TrimmedText())
		if strings.Contains(text, "po date") || strings.Contains(text, "created at") {
			for r := headerRow + 1; r < g.NumRows(); r++ {
				if t := ParseDate(g.Cell(r, c).TrimmedText()); t != nil {
					h.PODate = t
					break
				}
			}
			break
		}
	}
}
