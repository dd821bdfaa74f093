package platforms

import (
	"sort"
	"sync"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
)

// Field names a canonical line-item field a spreadsheet column can map to.
type Field string

const (
	FieldSerial      Field = "serial"
	FieldItemCode    Field = "item_code"
	FieldDescription Field = "item_description"
	FieldHSN         Field = "hsn_code"
	FieldUPC         Field = "product_upc"
	FieldQuantity    Field = "quantity"
	FieldMRP         Field = "mrp"
	FieldUnitCost    Field = "unit_base_cost"
	FieldTaxable     Field = "taxable_value"
	FieldCGSTRate    Field = "cgst_rate"
	FieldCGSTAmount  Field = "cgst_amount"
	FieldSGSTRate    Field = "sgst_rate"
	FieldSGSTAmount  Field = "sgst_amount"
	FieldIGSTRate    Field = "igst_rate"
	FieldIGSTAmount  Field = "igst_amount"
	FieldGSTRate     Field = "gst_rate"
	FieldGSTAmount   Field = "gst_amount"
	FieldCessRate    Field = "cess_rate"
	FieldCessAmount  Field = "cess_amount"
	FieldTotalTax    Field = "total_tax_amount"
	FieldLineTotal   Field = "line_total"
)

// CellType is the declared expected type of a mapped column. Coercion
// mismatches fail extraction instead of passing through untyped.
type CellType string

const (
	TypeString  CellType = "string"
	TypeNumeric CellType = "numeric"
)

// ColumnSpec maps one expected spreadsheet column onto a canonical field.
// Labels are matched case-insensitively as substrings against the cells of
// the candidate column-header row; the first label is the display name used
// in MissingColumn errors.
type ColumnSpec struct {
	Field    Field
	Labels   []string
	Type     CellType
	Required bool
}

// Layout is the per-platform declarative description of a PO document:
// which columns exist, how the line block starts and ends, which tax
// components the platform files carry, and how to pull the header block out
// of the merged prose rows above the table. Static, one per platform.
type Layout struct {
	Platform canonical.PlatformID
	TaxModel canonical.TaxModel
	Columns  []ColumnSpec

	// FooterMarkers end the line block when one appears in a row's leading
	// cells ("Total", "Net amount", "Terms and Conditions", ...).
	FooterMarkers []string
	// StatedTotalLabels name footer cells whose numeric value the document
	// claims as the PO total; disagreement with the line sum is a warning.
	StatedTotalLabels []string
	// MinHeaderMatches is how many column labels must hit on a single row
	// for it to be accepted as the column-header row (default 3).
	MinHeaderMatches int

	// ScanHeader extracts platform-specific header fields (PO number,
	// dates, vendor identity) from the rows above the line table.
	ScanHeader func(g *grid.RawGrid, h *canonical.Header)
}

// Adapter is the capability every platform implements.
type Adapter interface {
	Platform() canonical.PlatformID
	TaxModel() canonical.TaxModel
	Extract(g *grid.RawGrid) (*canonical.PO, []canonical.Warning, error)
}

var (
	regMu    sync.RWMutex
	registry = map[canonical.PlatformID]Adapter{}
)

func Register(a Adapter) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[a.Platform()] = a
}

func Lookup(id canonical.PlatformID) (Adapter, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	a, ok := registry[id]
	return a, ok
}

func IDs() []canonical.PlatformID {
	regMu.RLock()
	defer regMu.RUnlock()
	ids := make([]canonical.PlatformID, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Info describes a registered platform for the catalog endpoint.
type Info struct {
	ID       canonical.PlatformID `json:"id"`
	TaxModel canonical.TaxModel   `json:"tax_model"`
}

func Describe() []Info {
	ids := IDs()
	out := make([]Info, 0, len(ids))
	for _, id := range ids {
		a, _ := Lookup(id)
		out = append(out, Info{ID: id, TaxModel: a.TaxModel()})
	}
	return out
}
