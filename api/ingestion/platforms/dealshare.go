package platforms

import (
	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// Dealshare quotes MRP tax-inclusive and a flat GST rate per line; the
// buying price is the pre-tax unit cost.
func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformDealshare,
		TaxModel: canonical.TaxFlatGST,
		Columns: []ColumnSpec{
			{Field: FieldItemCode, Labels: []string{"sku"}, Type: TypeString, Required: true},
			{Field: FieldDescription, Labels: []string{"product name"}, Type: TypeString, Required: true},
			{Field: FieldGSTRate, Labels: []string{"gst"}, Type: TypeNumeric},
			{Field: FieldCessRate, Labels: []string{"cess"}, Type: TypeNumeric},
			{Field: FieldHSN, Labels: []string{"hsn"}, Type: TypeString},
			{Field: FieldQuantity, Labels: []string{"quantity", "qty"}, Type: TypeNumeric, Required: true},
			{Field: FieldMRP, Labels: []string{"mrp"}, Type: TypeNumeric},
			{Field: FieldUnitCost, Labels: []string{"buying price"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"gross amount"}, Type: TypeNumeric},
		},
		FooterMarkers:     []string{"total sku", "total"},
		StatedTotalLabels: []string{"gross amount", "total"},
		ScanHeader:        scanDealshareHeader,
	}))
}

func scanDealshareHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindLabelValue(g, "PO Number")
	h.PODate = ParseDate(FindLabelValue(g, "PO Date"))
	h.ExpiryDate = ParseDate(FindLabelValue(g, "PO Expiry date"))
	h.VendorName = FindLabelValue(g, "Vendor Name")
	h.VendorGSTIN = FindLabelValue(g, "GSTIN No")
	if h.VendorGSTIN == "" {
		if gstins := FindGSTINs(g); len(gstins) > 0 {
			h.VendorGSTIN = gstins[0]
		}
	}
	h.VendorPAN = PANFromGSTIN(h.VendorGSTIN)
}
