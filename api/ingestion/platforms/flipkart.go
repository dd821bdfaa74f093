package platforms

import (
	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// Flipkart grocery POs put the header in labeled key/value pairs ("PO#",
// "SUPPLIER NAME", "ORDER DATE") above an "S. no." line table. Tax shows up
// as a single undifferentiated rate and amount per line.
func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformFlipkart,
		TaxModel: canonical.TaxFlatGST,
		Columns: []ColumnSpec{
			{Field: FieldSerial, Labels: []string{"s. no.", "s.no"}, Type: TypeNumeric},
			{Field: FieldHSN, Labels: []string{"hsn/sa code", "hsn"}, Type: TypeString},
			{Field: FieldItemCode, Labels: []string{"fsn/isbn", "fsn"}, Type: TypeString, Required: true},
			{Field: FieldQuantity, Labels: []string{"quantity"}, Type: TypeNumeric, Required: true},
			{Field: FieldDescription, Labels: []string{"title"}, Type: TypeString, Required: true},
			{Field: FieldUPC, Labels: []string{"ean"}, Type: TypeString},
			{Field: FieldMRP, Labels: []string{"supplier mrp", "mrp"}, Type: TypeNumeric},
			{Field: FieldUnitCost, Labels: []string{"supplier price", "unit price"}, Type: TypeNumeric},
			{Field: FieldTaxable, Labels: []string{"taxable value"}, Type: TypeNumeric},
			{Field: FieldGSTRate, Labels: []string{"tax rate", "gst rate"}, Type: TypeNumeric},
			{Field: FieldTotalTax, Labels: []string{"tax amount"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"total amount", "total"}, Type: TypeNumeric},
		},
		FooterMarkers:     []string{"total quantity", "important notification", "please mention po number"},
		StatedTotalLabels: []string{"total amount"},
		ScanHeader:        scanFlipkartHeader,
	}))
}

func scanFlipkartHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindLabelValue(g, "PO#")
	if h.PONumber == "" {
		h.PONumber = FindLabelValue(g, "PURCHASE ORDER #")
	}
	h.PODate = ParseDate(FindLabelValue(g, "ORDER DATE"))
	h.ExpiryDate = ParseDate(FindLabelValue(g, "PO Expiry"))
	h.PaymentTerms = FindLabelValue(g, "CREDIT TERM")
	h.VendorName = FindLabelValue(g, "SUPPLIER NAME")
	// "Billed by" block carries the supplier GSTIN, "BILLED TO ADDRESS" the
	// buyer's; they appear in that order.
	if gstins := FindGSTINs(g); len(gstins) > 0 {
		h.VendorGSTIN = gstins[0]
		h.VendorPAN = PANFromGSTIN(h.VendorGSTIN)
		if len(gstins) > 1 {
			h.BuyerGSTIN = gstins[1]
			h.BuyerPAN = PANFromGSTIN(h.BuyerGSTIN)
		}
	}
}
