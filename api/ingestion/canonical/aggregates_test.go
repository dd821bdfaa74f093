package canonical

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func samplePO() *PO {
	return &PO{
		Header: Header{
			Platform: PlatformBlinkit,
			PONumber: "PO123",
			TaxModel: TaxIGST,
			Status:   StatusOpen,
		},
		Lines: []Line{
			{
				LineNumber:     1,
				ItemCode:       "SKU-1",
				HSNCode:        "1905",
				Quantity:       dec("10"),
				TaxableValue:   decPtr("100.00"),
				TotalTaxAmount: dec("18.00"),
				LineTotal:      dec("118.00"),
			},
			{
				LineNumber:     2,
				ItemCode:       "SKU-2",
				HSNCode:        "2106",
				Quantity:       dec("5"),
				TaxableValue:   decPtr("50.00"),
				TotalTaxAmount: dec("2.50"),
				LineTotal:      dec("52.50"),
			},
			{
				LineNumber:     3,
				ItemCode:       "SKU-3",
				HSNCode:        "1905",
				Quantity:       dec("2"),
				TaxableValue:   decPtr("40.00"),
				TotalTaxAmount: dec("7.20"),
				LineTotal:      dec("47.20"),
			},
		},
	}
}

func TestComputeAggregates(t *testing.T) {
	po := samplePO()
	ComputeAggregates(po)

	h := po.Header
	assert.Equal(t, 3, h.TotalItems)
	assert.True(t, h.TotalQuantity.Equal(dec("17")), "quantity %s", h.TotalQuantity)
	assert.True(t, h.TotalTaxableValue.Equal(dec("190.00")), "taxable %s", h.TotalTaxableValue)
	assert.True(t, h.TotalTaxAmount.Equal(dec("27.70")), "tax %s", h.TotalTaxAmount)
	assert.True(t, h.GrandTotal.Equal(dec("217.70")), "grand total %s", h.GrandTotal)
	assert.Equal(t, []string{"1905", "2106"}, h.UniqueHSNCodes)
}

func TestComputeAggregatesOverwritesStaleTotals(t *testing.T) {
	po := samplePO()
	po.Header.TotalItems = 99
	po.Header.GrandTotal = dec("9999")
	po.Header.UniqueHSNCodes = []string{"junk"}

	ComputeAggregates(po)

	assert.Equal(t, 3, po.Header.TotalItems)
	assert.True(t, po.Header.GrandTotal.Equal(dec("217.70")))
	assert.Equal(t, []string{"1905", "2106"}, po.Header.UniqueHSNCodes)
}

func TestValidateAcceptsConsistentPO(t *testing.T) {
	po := samplePO()
	ComputeAggregates(po)
	require.NoError(t, Validate(po, dec("0.01")))
}

func TestValidateRejectsMissingPONumber(t *testing.T) {
	po := samplePO()
	ComputeAggregates(po)
	po.Header.PONumber = ""

	err := Validate(po, dec("0.01"))
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "po_number", valErr.Field)
}

func TestValidateRejectsEmptyLines(t *testing.T) {
	po := samplePO()
	po.Lines = nil
	ComputeAggregates(po)
	po.Header.PONumber = "PO123"

	err := Validate(po, dec("0.01"))
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "lines", valErr.Field)
}

func TestValidateRejectsNonContiguousLineNumbers(t *testing.T) {
	po := samplePO()
	ComputeAggregates(po)
	po.Lines[1].LineNumber = 5

	err := Validate(po, dec("0.01"))
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "line_number", valErr.Field)
	assert.Equal(t, 2, valErr.Line)
}

func TestValidateRejectsNegativeQuantity(t *testing.T) {
	po := samplePO()
	po.Lines[2].Quantity = dec("-1")
	ComputeAggregates(po)

	err := Validate(po, dec("0.01"))
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "quantity", valErr.Field)
	assert.Equal(t, 3, valErr.Line)
}

func TestValidateRejectsDriftedAggregates(t *testing.T) {
	po := samplePO()
	ComputeAggregates(po)
	po.Header.GrandTotal = po.Header.GrandTotal.Add(dec("0.50"))

	err := Validate(po, dec("0.01"))
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "grand_total", valErr.Field)
}

func TestValidateToleratesEpsilonDrift(t *testing.T) {
	po := samplePO()
	ComputeAggregates(po)
	po.Header.GrandTotal = po.Header.GrandTotal.Add(dec("0.01"))

	assert.NoError(t, Validate(po, dec("0.01")))
}
