package platforms

import (
	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// Zomato Hyperpure POs bury each header field inside a merged cell with the
// label and value separated by a newline ("Purchase Order Number\nZHPGJ26-
// PO-2009516"); the label scan handles that because cell text collapses
// newlines before matching.
func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformZomato,
		TaxModel: canonical.TaxFlatGST,
		Columns: []ColumnSpec{
			{Field: FieldItemCode, Labels: []string{"product number", "product no"}, Type: TypeString, Required: true},
			{Field: FieldDescription, Labels: []string{"product name"}, Type: TypeString, Required: true},
			{Field: FieldHSN, Labels: []string{"hsn"}, Type: TypeString},
			{Field: FieldQuantity, Labels: []string{"quantity", "qty"}, Type: TypeNumeric, Required: true},
			{Field: FieldUnitCost, Labels: []string{"price per unit", "unit price"}, Type: TypeNumeric},
			{Field: FieldGSTRate, Labels: []string{"gst rate", "gst %"}, Type: TypeNumeric},
			{Field: FieldTotalTax, Labels: []string{"tax amount"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"line total", "total amount"}, Type: TypeNumeric},
		},
		FooterMarkers:     []string{"total", "terms"},
		StatedTotalLabels: []string{"grand total", "total amount"},
		ScanHeader:        scanZomatoHeader,
	}))
}

func scanZomatoHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindLabelValue(g, "Purchase Order Number")
	h.PODate = ParseDate(FindLabelValue(g, "Purchase Order Date"))
	h.DeliveryDate = ParseDate(FindLabelValue(g, "Expected Delivery Date"))
	h.VendorCode = FindLabelValue(g, "Vendor Id")
	// Bill-from block first (Hyperpure), bill-to second (the outlet).
	if gstins := FindGSTINs(g); len(gstins) > 0 {
		h.BuyerGSTIN = gstins[0]
		h.BuyerPAN = PANFromGSTIN(h.BuyerGSTIN)
		if len(gstins) > 1 {
			h.VendorGSTIN = gstins[1]
			h.VendorPAN = PANFromGSTIN(h.VendorGSTIN)
		}
	}
}
