package platforms

import (
	"regexp"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// Blinkit POs are issued per warehouse, so a file mixes intra- and
// inter-state lines: CGST/SGST and IGST columns coexist and each row
// populates whichever split applies. PO numbers are 13-digit numerics that
// sometimes appear without any label.
var blinkitPoNumberRe = regexp.MustCompile(`\b\d{13}\b`)

func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformBlinkit,
		TaxModel: canonical.TaxComposite,
		Columns: []ColumnSpec{
			{Field: FieldSerial, Labels: []string{"s.no", "sr no", "#"}, Type: TypeNumeric},
			{Field: FieldItemCode, Labels: []string{"item code"}, Type: TypeString, Required: true},
			{Field: FieldHSN, Labels: []string{"hsn code", "hsn"}, Type: TypeString},
			{Field: FieldUPC, Labels: []string{"product upc", "upc"}, Type: TypeString},
			{Field: FieldDescription, Labels: []string{"product description", "description"}, Type: TypeString, Required: true},
			{Field: FieldQuantity, Labels: []string{"units ordered", "quantity", "qty"}, Type: TypeNumeric, Required: true},
			{Field: FieldMRP, Labels: []string{"mrp"}, Type: TypeNumeric},
			{Field: FieldUnitCost, Labels: []string{"basic cost price", "basic cost"}, Type: TypeNumeric},
			{Field: FieldCGSTRate, Labels: []string{"cgst"}, Type: TypeNumeric},
			{Field: FieldSGSTRate, Labels: []string{"sgst"}, Type: TypeNumeric},
			{Field: FieldIGSTRate, Labels: []string{"igst"}, Type: TypeNumeric},
			{Field: FieldCessRate, Labels: []string{"cess"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"total amount", "landing rate"}, Type: TypeNumeric},
		},
		FooterMarkers:     []string{"total quantity", "total items", "total weight", "net amount", "terms and conditions"},
		StatedTotalLabels: []string{"net amount", "total amount"},
		ScanHeader:        scanBlinkitHeader,
	}))
}

func scanBlinkitHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindLabelValue(g, "PO Number")
	if h.PONumber == "" {
		h.PONumber = FindByPattern(g, blinkitPoNumberRe)
	}
	h.PODate = ParseDate(FindLabelValue(g, "PO Date"))
	h.ExpiryDate = ParseDate(FindLabelValue(g, "PO Expiry date"))
	if h.ExpiryDate == nil {
		h.ExpiryDate = ParseDate(FindLabelValue(g, "Expiry"))
	}
	h.DeliveryDate = ParseDate(FindLabelValue(g, "Delivery Date"))
	h.PaymentTerms = FindLabelValue(g, "Payment Terms")
	h.BuyerName = FindLabelValue(g, "Issued To")
	h.VendorName = FindLabelValue(g, "Vendor Name")
	if h.VendorName == "" {
		h.VendorName = FindLabelValue(g, "Vendor")
	}
	// Buyer GSTIN appears first in the delivered-to block, vendor's below it.
	if gstins := FindGSTINs(g); len(gstins) > 0 {
		h.BuyerGSTIN = gstins[0]
		h.BuyerPAN = PANFromGSTIN(h.BuyerGSTIN)
		if len(gstins) > 1 {
			h.VendorGSTIN = gstins[1]
			h.VendorPAN = PANFromGSTIN(h.VendorGSTIN)
		}
	}
}
