package platforms

import (
	"strings"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"

	"github.com/shopspring/decimal"
)

// TotalsTolerance is the epsilon used when comparing a footer-stated total
// against the sum of extracted lines. Extracted lines win either way; a
// disagreement beyond tolerance only raises a TotalsMismatch warning.
var TotalsTolerance = decimal.New(1, -2)

// layoutAdapter drives a declarative Layout over a RawGrid. All ten
// platform adapters are instances of this; per-platform behavior lives in
// the Layout, not in code paths.
type layoutAdapter struct {
	layout Layout
}

func NewAdapter(l Layout) Adapter {
	if l.MinHeaderMatches == 0 {
		l.MinHeaderMatches = 3
	}
	return &layoutAdapter{layout: l}
}

func (a *layoutAdapter) Platform() canonical.PlatformID { return a.layout.Platform }
func (a *layoutAdapter) TaxModel() canonical.TaxModel   { return a.layout.TaxModel }

func (a *layoutAdapter) Extract(g *grid.RawGrid) (*canonical.PO, []canonical.Warning, error) {
	po := &canonical.PO{
		Header: canonical.Header{
			Platform: a.layout.Platform,
			TaxModel: a.layout.TaxModel,
			Status:   canonical.StatusOpen,
		},
	}
	if a.layout.ScanHeader != nil {
		a.layout.ScanHeader(g, &po.Header)
	}

	headerRow, cols, err := a.locateColumns(g)
	if err != nil {
		return nil, nil, err
	}

	var warnings []canonical.Warning
	end := g.NumRows()
	lines := []canonical.Line{}
	for r := headerRow + 1; r < g.NumRows(); r++ {
		if g.IsBlankRow(r) {
			end = r
			break
		}
		if a.isFooterRow(g, r) {
			end = r
			break
		}
		ln, err := a.parseLine(g, r, cols)
		if err != nil {
			return nil, nil, err
		}
		if ln == nil {
			continue
		}
		lines = append(lines, *ln)
	}
	if len(lines) == 0 {
		return nil, nil, canonical.NoLineItems()
	}

	// Line numbers follow physical order regardless of any numbering the
	// source file carries.
	for i := range lines {
		lines[i].LineNumber = i + 1
	}
	po.Lines = lines
	canonical.ComputeAggregates(po)

	if stated, row, ok := a.findStatedTotal(g, end); ok {
		if stated.Sub(po.Header.GrandTotal).Abs().GreaterThan(TotalsTolerance) {
			warnings = append(warnings, canonical.Warning{
				Code: canonical.WarnTotalsMismatch,
				Message: "footer states total " + stated.StringFixed(2) +
					" but extracted lines sum to " + po.Header.GrandTotal.StringFixed(2),
				Row: row + 1,
			})
		}
	}
	return po, warnings, nil
}

// locateColumns scans for the row where the declared column labels appear
// and maps each matched ColumnSpec to its column index. Unmapped columns in
// the file are ignored; missing required columns fail extraction.
func (a *layoutAdapter) locateColumns(g *grid.RawGrid) (int, map[Field]int, error) {
	bestRow, bestCount := -1, 0
	var bestCols map[Field]int

	for r := 0; r < g.NumRows(); r++ {
		cols := map[Field]int{}
		for c := 0; c < g.RowWidth(r); c++ {
			text := strings.ToLower(g.Cell(r, c).TrimmedText())
			if text == "" {
				continue
			}
			for _, spec := range a.layout.Columns {
				if _, taken := cols[spec.Field]; taken {
					continue
				}
				for _, label := range spec.Labels {
					if strings.Contains(text, strings.ToLower(label)) {
						cols[spec.Field] = c
						break
					}
				}
			}
		}
		if len(cols) > bestCount {
			bestRow, bestCount, bestCols = r, len(cols), cols
		}
	}

	if bestCount < a.layout.MinHeaderMatches {
		// No plausible column header anywhere; report the first required
		// column so the caller knows what the file was expected to carry.
		for _, spec := range a.layout.Columns {
			if spec.Required {
				return 0, nil, canonical.MissingColumn(spec.Labels[0])
			}
		}
		return 0, nil, canonical.NoLineItems()
	}
	for _, spec := range a.layout.Columns {
		if !spec.Required {
			continue
		}
		if _, ok := bestCols[spec.Field]; !ok {
			return 0, nil, canonical.MissingColumn(spec.Labels[0])
		}
	}
	return bestRow, bestCols, nil
}

func (a *layoutAdapter) isFooterRow(g *grid.RawGrid, r int) bool {
	// Footer markers appear in the leading cells of summary rows.
	for c := 0; c < g.RowWidth(r) && c < 4; c++ {
		text := strings.ToLower(g.Cell(r, c).TrimmedText())
		for _, marker := range a.layout.FooterMarkers {
			if text != "" && strings.Contains(text, strings.ToLower(marker)) {
				return true
			}
		}
	}
	return false
}

func (a *layoutAdapter) parseLine(g *grid.RawGrid, r int, cols map[Field]int) (*canonical.Line, error) {
	cell := func(f Field) (grid.Cell, bool) {
		c, ok := cols[f]
		if !ok {
			return grid.BlankCell(), false
		}
		return g.Cell(r, c), true
	}
	text := func(f Field) string {
		c, _ := cell(f)
		return c.TrimmedText()
	}

	code := text(FieldItemCode)
	desc := text(FieldDescription)
	if code == "" && desc == "" {
		return nil, nil
	}
	// Summary text occasionally lands in the item column; skip it rather
	// than producing a junk line.
	lowered := strings.ToLower(code + " " + desc)
	if strings.Contains(lowered, "total") || strings.Contains(lowered, "terms") {
		return nil, nil
	}

	ln := canonical.Line{
		ItemCode:        code,
		ItemDescription: desc,
		HSNCode:         text(FieldHSN),
		ProductUPC:      text(FieldUPC),
	}

	qty, err := a.optionalDecimal(g, r, cols, FieldQuantity)
	if err != nil {
		return nil, err
	}
	// A row without a quantity is prose (addresses, remarks, footer text
	// that slipped past the markers), not a line item.
	if qty == nil {
		return nil, nil
	}
	ln.Quantity = *qty

	for _, assign := range []struct {
		field Field
		dst   **decimal.Decimal
	}{
		{FieldMRP, &ln.MRP},
		{FieldUnitCost, &ln.UnitBaseCost},
		{FieldTaxable, &ln.TaxableValue},
		{FieldCGSTRate, &ln.CGSTRate},
		{FieldCGSTAmount, &ln.CGSTAmount},
		{FieldSGSTRate, &ln.SGSTRate},
		{FieldSGSTAmount, &ln.SGSTAmount},
		{FieldIGSTRate, &ln.IGSTRate},
		{FieldIGSTAmount, &ln.IGSTAmount},
		{FieldGSTRate, &ln.GSTRate},
		{FieldGSTAmount, &ln.GSTAmount},
		{FieldCessRate, &ln.CessRate},
		{FieldCessAmount, &ln.CessAmount},
	} {
		v, err := a.optionalDecimal(g, r, cols, assign.field)
		if err != nil {
			return nil, err
		}
		*assign.dst = v
	}

	totalTax, err := a.optionalDecimal(g, r, cols, FieldTotalTax)
	if err != nil {
		return nil, err
	}
	lineTotal, err := a.optionalDecimal(g, r, cols, FieldLineTotal)
	if err != nil {
		return nil, err
	}

	deriveLineAmounts(&ln, a.layout.TaxModel, totalTax, lineTotal)
	return &ln, nil
}

func (a *layoutAdapter) optionalDecimal(g *grid.RawGrid, r int, cols map[Field]int, f Field) (*decimal.Decimal, error) {
	c, ok := cols[f]
	if !ok {
		return nil, nil
	}
	cl := g.Cell(r, c)
	if cl.IsBlank() {
		return nil, nil
	}
	v, ok := parseDecimal(cl)
	if !ok {
		return nil, canonical.UnparseableCell(r+1, c+1, string(TypeNumeric))
	}
	return &v, nil
}

// findStatedTotal looks below the line block for a footer cell carrying the
// document's own grand total.
func (a *layoutAdapter) findStatedTotal(g *grid.RawGrid, from int) (decimal.Decimal, int, bool) {
	for r := from; r < g.NumRows(); r++ {
		for c := 0; c < g.RowWidth(r); c++ {
			text := strings.ToLower(g.Cell(r, c).TrimmedText())
			if text == "" {
				continue
			}
			for _, label := range a.layout.StatedTotalLabels {
				if !strings.Contains(text, strings.ToLower(label)) {
					continue
				}
				// Inline "Net Amount: 1000.00" first, then the cells to the
				// right of the label.
				if idx := strings.LastIndexByte(text, ':'); idx >= 0 {
					if v, ok := parseDecimalText(text[idx+1:]); ok {
						return v, r, true
					}
				}
				for k := c + 1; k < g.RowWidth(r); k++ {
					if v, ok := parseDecimal(g.Cell(r, k)); ok {
						return v, r, true
					}
				}
			}
		}
	}
	return decimal.Zero, 0, false
}

// deriveLineAmounts fills the computed fields the source file omits, using
// the tax model to decide which components apply.
func deriveLineAmounts(ln *canonical.Line, model canonical.TaxModel, totalTax, lineTotal *decimal.Decimal) {
	if ln.TaxableValue == nil && ln.UnitBaseCost != nil {
		v := ln.UnitBaseCost.Mul(ln.Quantity)
		ln.TaxableValue = &v
	}

	// Component amounts from rates where the file gives only percentages.
	if ln.TaxableValue != nil {
		fillAmount(ln.TaxableValue, ln.CGSTRate, &ln.CGSTAmount)
		fillAmount(ln.TaxableValue, ln.SGSTRate, &ln.SGSTAmount)
		fillAmount(ln.TaxableValue, ln.IGSTRate, &ln.IGSTAmount)
		fillAmount(ln.TaxableValue, ln.GSTRate, &ln.GSTAmount)
		fillAmount(ln.TaxableValue, ln.CessRate, &ln.CessAmount)
	}

	if totalTax != nil {
		ln.TotalTaxAmount = *totalTax
	} else {
		sum := decimal.Zero
		for _, amt := range taxComponents(ln, model) {
			if amt != nil {
				sum = sum.Add(*amt)
			}
		}
		ln.TotalTaxAmount = sum
	}

	switch {
	case lineTotal != nil:
		ln.LineTotal = *lineTotal
	case ln.TaxableValue != nil:
		ln.LineTotal = ln.TaxableValue.Add(ln.TotalTaxAmount)
	default:
		ln.LineTotal = ln.TotalTaxAmount
	}
}

func fillAmount(taxable, rate *decimal.Decimal, amount **decimal.Decimal) {
	if rate == nil || *amount != nil {
		return
	}
	v := taxable.Mul(*rate).Div(decimal.NewFromInt(100))
	*amount = &v
}

// taxComponents returns the amounts that participate in the line's total
// tax under the given model; components outside the model stay untouched.
func taxComponents(ln *canonical.Line, model canonical.TaxModel) []*decimal.Decimal {
	switch model {
	case canonical.TaxCGSTSGST:
		return []*decimal.Decimal{ln.CGSTAmount, ln.SGSTAmount, ln.CessAmount}
	case canonical.TaxIGST:
		return []*decimal.Decimal{ln.IGSTAmount, ln.CessAmount}
	case canonical.TaxFlatGST:
		return []*decimal.Decimal{ln.GSTAmount, ln.CessAmount}
	default: // COMPOSITE: whichever components the row populates
		return []*decimal.Decimal{ln.CGSTAmount, ln.SGSTAmount, ln.IGSTAmount, ln.GSTAmount, ln.CessAmount}
	}
}

func parseDecimal(c grid.Cell) (decimal.Decimal, bool) {
	if c.Kind == grid.KindNumber {
		return decimal.NewFromFloat(c.Number), true
	}
	if c.Kind == grid.KindString {
		return parseDecimalText(c.Text)
	}
	return decimal.Zero, false
}

func parseDecimalText(s string) (decimal.Decimal, bool) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}
