package platforms

import (
	"regexp"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// CityMall prints "Purchase Order PO-<n>" in the top-right corner rather
// than a labeled field, and ships inter-state, so lines carry IGST + cess.
var citymallPoNumberRe = regexp.MustCompile(`\bPO-[A-Z0-9-]+\b`)

func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformCityMall,
		TaxModel: canonical.TaxIGST,
		Columns: []ColumnSpec{
			{Field: FieldSerial, Labels: []string{"s.no", "sr no", "s no"}, Type: TypeNumeric},
			{Field: FieldItemCode, Labels: []string{"article id", "sku"}, Type: TypeString, Required: true},
			{Field: FieldDescription, Labels: []string{"article name", "product name"}, Type: TypeString, Required: true},
			{Field: FieldHSN, Labels: []string{"hsn"}, Type: TypeString},
			{Field: FieldQuantity, Labels: []string{"quantity", "qty"}, Type: TypeNumeric, Required: true},
			{Field: FieldMRP, Labels: []string{"mrp"}, Type: TypeNumeric},
			{Field: FieldUnitCost, Labels: []string{"buying price", "base cost"}, Type: TypeNumeric},
			{Field: FieldIGSTRate, Labels: []string{"igst"}, Type: TypeNumeric},
			{Field: FieldCessRate, Labels: []string{"cess"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"total amount", "gross amount"}, Type: TypeNumeric},
		},
		FooterMarkers:     []string{"total"},
		StatedTotalLabels: []string{"total amount"},
		ScanHeader:        scanCityMallHeader,
	}))
}

func scanCityMallHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindByPattern(g, citymallPoNumberRe)
	if h.PONumber == "" {
		h.PONumber = FindLabelValue(g, "PO Number")
	}
	h.PODate = ParseDate(FindLabelValue(g, "Purchase Order Date"))
	if h.PODate == nil {
		h.PODate = ParseDate(FindLabelValue(g, "PO Date"))
	}
	h.ExpiryDate = ParseDate(FindLabelValue(g, "Expiry Date"))
	if h.ExpiryDate == nil {
		h.ExpiryDate = ParseDate(FindLabelValue(g, "Valid Until"))
	}
	h.BuyerName = FindLabelValue(g, "Issued To")
	h.VendorCode = FindLabelValue(g, "Vendor Code")
	if gstins := FindGSTINs(g); len(gstins) > 0 {
		h.BuyerGSTIN = gstins[0]
		h.BuyerPAN = PANFromGSTIN(h.BuyerGSTIN)
		if len(gstins) > 1 {
			h.VendorGSTIN = gstins[1]
			h.VendorPAN = PANFromGSTIN(h.VendorGSTIN)
		}
	}
}
