package platforms

import (
	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// JioMart POs follow the Reliance Retail article layout with the intra/
// inter-state split decided per shipping location, so CGST/SGST and IGST
// columns coexist.
func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformJioMart,
		TaxModel: canonical.TaxComposite,
		Columns: []ColumnSpec{
			{Field: FieldSerial, Labels: []string{"s.no", "sr no"}, Type: TypeNumeric},
			{Field: FieldItemCode, Labels: []string{"article code", "sku"}, Type: TypeString, Required: true},
			{Field: FieldDescription, Labels: []string{"article description", "description"}, Type: TypeString, Required: true},
			{Field: FieldHSN, Labels: []string{"hsn"}, Type: TypeString},
			{Field: FieldUPC, Labels: []string{"ean"}, Type: TypeString},
			{Field: FieldQuantity, Labels: []string{"quantity", "qty"}, Type: TypeNumeric, Required: true},
			{Field: FieldMRP, Labels: []string{"mrp"}, Type: TypeNumeric},
			{Field: FieldUnitCost, Labels: []string{"base cost", "unit cost"}, Type: TypeNumeric},
			{Field: FieldTaxable, Labels: []string{"taxable value"}, Type: TypeNumeric},
			{Field: FieldCGSTRate, Labels: []string{"cgst"}, Type: TypeNumeric},
			{Field: FieldSGSTRate, Labels: []string{"sgst"}, Type: TypeNumeric},
			{Field: FieldIGSTRate, Labels: []string{"igst"}, Type: TypeNumeric},
			{Field: FieldCessRate, Labels: []string{"cess"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"total amount", "total value"}, Type: TypeNumeric},
		},
		FooterMarkers:     []string{"total", "terms"},
		StatedTotalLabels: []string{"total amount"},
		ScanHeader:        scanJioMartHeader,
	}))
}

func scanJioMartHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindLabelValue(g, "PO No")
	if h.PONumber == "" {
		h.PONumber = FindLabelValue(g, "PO Number")
	}
	h.PODate = ParseDate(FindLabelValue(g, "PO Date"))
	h.DeliveryDate = ParseDate(FindLabelValue(g, "Delivery Date"))
	h.ExpiryDate = ParseDate(FindLabelValue(g, "Valid Till"))
	h.PaymentTerms = FindLabelValue(g, "Payment Terms")
	h.VendorCode = FindLabelValue(g, "Supplier Code")
	h.VendorName = FindLabelValue(g, "Supplier Name")
	if gstins := FindGSTINs(g); len(gstins) > 0 {
		h.BuyerGSTIN = gstins[0]
		h.BuyerPAN = PANFromGSTIN(h.BuyerGSTIN)
		if len(gstins) > 1 {
			h.VendorGSTIN = gstins[1]
			h.VendorPAN = PANFromGSTIN(h.VendorGSTIN)
		}
	}
}
