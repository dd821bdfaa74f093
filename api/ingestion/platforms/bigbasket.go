package platforms

import (
	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// BigBasket files carry the widest tax spread of any platform: SGST, CGST,
// IGST, flat GST and cess columns side by side, populated per line as
// applicable.
func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformBigBasket,
		TaxModel: canonical.TaxComposite,
		Columns: []ColumnSpec{
			{Field: FieldSerial, Labels: []string{"s.no"}, Type: TypeNumeric},
			{Field: FieldHSN, Labels: []string{"hsn code"}, Type: TypeString},
			{Field: FieldItemCode, Labels: []string{"sku code"}, Type: TypeString, Required: true},
			{Field: FieldDescription, Labels: []string{"description"}, Type: TypeString, Required: true},
			{Field: FieldUPC, Labels: []string{"ean upc", "ean"}, Type: TypeString},
			{Field: FieldQuantity, Labels: []string{"quantity"}, Type: TypeNumeric, Required: true},
			{Field: FieldUnitCost, Labels: []string{"basic cost"}, Type: TypeNumeric},
			{Field: FieldSGSTRate, Labels: []string{"sgst%", "sgst %"}, Type: TypeNumeric},
			{Field: FieldSGSTAmount, Labels: []string{"sgst amount"}, Type: TypeNumeric},
			{Field: FieldCGSTRate, Labels: []string{"cgst%", "cgst %"}, Type: TypeNumeric},
			{Field: FieldCGSTAmount, Labels: []string{"cgst amount"}, Type: TypeNumeric},
			{Field: FieldIGSTRate, Labels: []string{"igst%", "igst %"}, Type: TypeNumeric},
			{Field: FieldIGSTAmount, Labels: []string{"igst amount"}, Type: TypeNumeric},
			{Field: FieldGSTRate, Labels: []string{"gst%", "gst %"}, Type: TypeNumeric},
			{Field: FieldGSTAmount, Labels: []string{"gst amount"}, Type: TypeNumeric},
			{Field: FieldCessRate, Labels: []string{"cess%", "cess %"}, Type: TypeNumeric},
			{Field: FieldCessAmount, Labels: []string{"cess value"}, Type: TypeNumeric},
			{Field: FieldMRP, Labels: []string{"mrp"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"total value"}, Type: TypeNumeric},
		},
		MinHeaderMatches:  4,
		FooterMarkers:     []string{"grand total", "total"},
		StatedTotalLabels: []string{"grand total"},
		ScanHeader:        scanBigBasketHeader,
	}))
}

func scanBigBasketHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindLabelValue(g, "PO Number")
	h.PODate = ParseDate(FindLabelValue(g, "PO Date"))
	h.ExpiryDate = ParseDate(FindLabelValue(g, "PO Expiry date"))
	h.DeliveryDate = ParseDate(FindLabelValue(g, "Delivery Date"))
	h.VendorName = FindLabelValue(g, "Vendor Name")
	h.VendorGSTIN = FindLabelValue(g, "GSTIN No")
	if h.VendorGSTIN == "" {
		if gstins := FindGSTINs(g); len(gstins) > 0 {
			h.VendorGSTIN = gstins[0]
		}
	}
	h.VendorPAN = PANFromGSTIN(h.VendorGSTIN)
}
