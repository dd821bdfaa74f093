package platforms

import (
	"regexp"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// Swiggy Instamart files label everything with a trailing " :" and populate
// either the CGST/SGST pair or IGST per line depending on the warehouse
// state, so the composite tax model applies.
var swiggyPoNumberRe = regexp.MustCompile(`\b(?:JCNPO|SOTY-)[A-Z0-9-]+\b`)

func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformSwiggy,
		TaxModel: canonical.TaxComposite,
		Columns: []ColumnSpec{
			{Field: FieldSerial, Labels: []string{"s.no", "sl no"}, Type: TypeNumeric},
			{Field: FieldItemCode, Labels: []string{"item code"}, Type: TypeString, Required: true},
			{Field: FieldDescription, Labels: []string{"item desc", "item description"}, Type: TypeString, Required: true},
			{Field: FieldHSN, Labels: []string{"hsn"}, Type: TypeString},
			{Field: FieldQuantity, Labels: []string{"qty", "quantity"}, Type: TypeNumeric, Required: true},
			{Field: FieldMRP, Labels: []string{"mrp"}, Type: TypeNumeric},
			{Field: FieldUnitCost, Labels: []string{"unit base cost", "unit cost"}, Type: TypeNumeric},
			{Field: FieldTaxable, Labels: []string{"taxable value"}, Type: TypeNumeric},
			{Field: FieldCGSTRate, Labels: []string{"cgst %", "cgst rate"}, Type: TypeNumeric},
			{Field: FieldCGSTAmount, Labels: []string{"cgst amt", "cgst amount"}, Type: TypeNumeric},
			{Field: FieldSGSTRate, Labels: []string{"sgst %", "sgst rate"}, Type: TypeNumeric},
			{Field: FieldSGSTAmount, Labels: []string{"sgst amt", "sgst amount"}, Type: TypeNumeric},
			{Field: FieldIGSTRate, Labels: []string{"igst %", "igst rate"}, Type: TypeNumeric},
			{Field: FieldIGSTAmount, Labels: []string{"igst amt", "igst amount"}, Type: TypeNumeric},
			{Field: FieldCessRate, Labels: []string{"cess"}, Type: TypeNumeric},
			{Field: FieldTotalTax, Labels: []string{"tax amount"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"po line value", "line total", "total value"}, Type: TypeNumeric},
		},
		FooterMarkers:     []string{"total", "terms"},
		StatedTotalLabels: []string{"po amount", "grand total"},
		ScanHeader:        scanSwiggyHeader,
	}))
}

func scanSwiggyHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindLabelValue(g, "PO No")
	if h.PONumber == "" {
		h.PONumber = FindByPattern(g, swiggyPoNumberRe)
	}
	h.PODate = ParseDate(FindLabelValue(g, "PO Date"))
	h.DeliveryDate = ParseDate(FindLabelValue(g, "Expected Delivery Date"))
	h.ExpiryDate = ParseDate(FindLabelValue(g, "PO Expiry Date"))
	h.PaymentTerms = FindLabelValue(g, "Payment Terms")
	h.VendorName = FindLabelValue(g, "Vendor Name")
	if gstins := FindGSTINs(g); len(gstins) > 0 {
		h.VendorGSTIN = gstins[0]
		h.VendorPAN = PANFromGSTIN(h.VendorGSTIN)
		if len(gstins) > 1 {
			h.BuyerGSTIN = gstins[1]
			h.BuyerPAN = PANFromGSTIN(h.BuyerGSTIN)
		}
	}
}
