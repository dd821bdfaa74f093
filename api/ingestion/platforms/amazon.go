package platforms

import (
	"regexp"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// Amazon vendor-central POs use 8-character alphanumeric PO numbers and key
// the line table on the ASIN column. Tax appears as one flat rate.
var amazonPoNumberRe = regexp.MustCompile(`\b[0-9][A-Z0-9]{7}\b`)

func init() {
	Register(NewAdapter(Layout{
		Platform: canonical.PlatformAmazon,
		TaxModel: canonical.TaxFlatGST,
		Columns: []ColumnSpec{
			{Field: FieldItemCode, Labels: []string{"asin"}, Type: TypeString, Required: true},
			{Field: FieldUPC, Labels: []string{"external id", "ean"}, Type: TypeString},
			{Field: FieldDescription, Labels: []string{"title", "product", "description"}, Type: TypeString},
			{Field: FieldHSN, Labels: []string{"hsn"}, Type: TypeString},
			{Field: FieldQuantity, Labels: []string{"quantity requested", "quantity"}, Type: TypeNumeric, Required: true},
			{Field: FieldUnitCost, Labels: []string{"unit cost", "unit price"}, Type: TypeNumeric},
			{Field: FieldGSTRate, Labels: []string{"tax rate", "gst"}, Type: TypeNumeric},
			{Field: FieldLineTotal, Labels: []string{"total cost", "total amount"}, Type: TypeNumeric},
		},
		FooterMarkers:     []string{"total"},
		StatedTotalLabels: []string{"total cost"},
		ScanHeader:        scanAmazonHeader,
	}))
}

func scanAmazonHeader(g *grid.RawGrid, h *canonical.Header) {
	h.PONumber = FindLabelValue(g, "PO Number")
	if h.PONumber == "" {
		if v := FindLabelValue(g, "Purchase Order"); amazonPoNumberRe.MatchString(v) {
			h.PONumber = amazonPoNumberRe.FindString(v)
		}
	}
	if h.PONumber == "" {
		h.PONumber = FindByPattern(g, amazonPoNumberRe)
	}
	h.PODate = ParseDate(FindLabelValue(g, "Ordered On"))
	if h.PODate == nil {
		h.PODate = ParseDate(FindLabelValue(g, "Order Date"))
	}
	h.DeliveryDate = ParseDate(FindLabelValue(g, "Delivery window"))
	h.PaymentTerms = FindLabelValue(g, "Payment terms")
	h.VendorCode = FindLabelValue(g, "Vendor")
	h.BuyerName = FindLabelValue(g, "Purchasing entity")
	if h.BuyerName == "" {
		h.BuyerName = FindLabelValue(g, "Ship to location")
	}
}
