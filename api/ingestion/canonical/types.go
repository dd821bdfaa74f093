package canonical

import (
	"time"

	"github.com/shopspring/decimal"
)

// PlatformID identifies one of the supported e-commerce platforms. The set
// is closed; adapters register themselves against these ids.
type PlatformID string

const (
	PlatformFlipkart  PlatformID = "flipkart"
	PlatformZepto     PlatformID = "zepto"
	PlatformBlinkit   PlatformID = "blinkit"
	PlatformSwiggy    PlatformID = "swiggy"
	PlatformBigBasket PlatformID = "bigbasket"
	PlatformZomato    PlatformID = "zomato"
	PlatformCityMall  PlatformID = "citymall"
	PlatformDealshare PlatformID = "dealshare"
	PlatformAmazon    PlatformID = "amazon"
	PlatformJioMart   PlatformID = "jiomart"
)

// TaxModel tags which GST components a platform's documents carry.
type TaxModel string

const (
	// TaxCGSTSGST: intra-state split into central + state components.
	TaxCGSTSGST TaxModel = "CGST_SGST"
	// TaxIGST: inter-state, single integrated component (plus cess).
	TaxIGST TaxModel = "IGST"
	// TaxFlatGST: the file carries a single undifferentiated GST rate/amount.
	TaxFlatGST TaxModel = "FLAT_GST"
	// TaxComposite: the file carries CGST/SGST and IGST columns and populates
	// whichever applies per line.
	TaxComposite TaxModel = "COMPOSITE"
)

const StatusOpen = "Open"

// Header is the platform-agnostic PO header all adapters converge on.
// Aggregate fields are computed from the lines, never trusted from footers.
type Header struct {
	Platform     PlatformID `json:"platform"`
	PONumber     string     `json:"po_number"`
	PODate       *time.Time `json:"po_date,omitempty"`
	ExpiryDate   *time.Time `json:"expiry_date,omitempty"`
	DeliveryDate *time.Time `json:"delivery_date,omitempty"`
	PaymentTerms string     `json:"payment_terms,omitempty"`

	VendorCode  string `json:"vendor_code,omitempty"`
	VendorName  string `json:"vendor_name,omitempty"`
	VendorGSTIN string `json:"vendor_gstin,omitempty"`
	VendorPAN   string `json:"vendor_pan,omitempty"`
	BuyerName   string `json:"buyer_name,omitempty"`
	BuyerGSTIN  string `json:"buyer_gstin,omitempty"`
	BuyerPAN    string `json:"buyer_pan,omitempty"`

	TotalItems        int             `json:"total_items"`
	TotalQuantity     decimal.Decimal `json:"total_quantity"`
	TotalTaxableValue decimal.Decimal `json:"total_taxable_value"`
	TotalTaxAmount    decimal.Decimal `json:"total_tax_amount"`
	GrandTotal        decimal.Decimal `json:"grand_total"`
	UniqueHSNCodes    []string        `json:"unique_hsn_codes,omitempty"`

	Status   string   `json:"status"`
	TaxModel TaxModel `json:"tax_model"`
}

// Line is one canonical line item. Tax components that do not apply under
// the header's tax model stay nil; nil means "not applicable", which is not
// the same thing as a zero tax amount.
type Line struct {
	LineNumber      int    `json:"line_number"`
	ItemCode        string `json:"item_code"`
	ItemDescription string `json:"item_description,omitempty"`
	HSNCode         string `json:"hsn_code,omitempty"`
	ProductUPC      string `json:"product_upc,omitempty"`

	Quantity     decimal.Decimal  `json:"quantity"`
	MRP          *decimal.Decimal `json:"mrp,omitempty"`
	UnitBaseCost *decimal.Decimal `json:"unit_base_cost,omitempty"`
	TaxableValue *decimal.Decimal `json:"taxable_value,omitempty"`

	CGSTRate   *decimal.Decimal `json:"cgst_rate,omitempty"`
	CGSTAmount *decimal.Decimal `json:"cgst_amount,omitempty"`
	SGSTRate   *decimal.Decimal `json:"sgst_rate,omitempty"`
	SGSTAmount *decimal.Decimal `json:"sgst_amount,omitempty"`
	IGSTRate   *decimal.Decimal `json:"igst_rate,omitempty"`
	IGSTAmount *decimal.Decimal `json:"igst_amount,omitempty"`
	GSTRate    *decimal.Decimal `json:"gst_rate,omitempty"`
	GSTAmount  *decimal.Decimal `json:"gst_amount,omitempty"`
	CessRate   *decimal.Decimal `json:"cess_rate,omitempty"`
	CessAmount *decimal.Decimal `json:"cess_amount,omitempty"`

	TotalTaxAmount decimal.Decimal `json:"total_tax_amount"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// PO is the canonical extraction result: one header plus its ordered lines.
type PO struct {
	Header Header `json:"header"`
	Lines  []Line `json:"lines"`
}

// Warning is a non-fatal extraction finding surfaced for human review.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Row     int    `json:"row,omitempty"`
}

const (
	WarnTotalsMismatch = "TOTALS_MISMATCH"
	// WarnDuplicateUpload flags a previewed file whose fingerprint is
	// already recorded. The preview itself stays inspectable; only the
	// commit rejects it.
	WarnDuplicateUpload = "DUPLICATE_UPLOAD"
)

// PreviewResult wraps an extracted PO with extraction metadata.
type PreviewResult struct {
	Platform PlatformID    `json:"platform"`
	PO       *PO           `json:"po"`
	Warnings []Warning     `json:"warnings,omitempty"`
	Duration time.Duration `json:"-"`
}
