package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/reader"
)

var zeptoCSV = []byte(`PO No.,PO Date,SKU,SKU Desc,HSN,EAN,Qty,Unit Base Cost,CGST %,SGST %,IGST %,CESS %,MRP,Total Amount
PO-88421,12/04/2025,ZP-1,Instant Coffee 50g,2101,8906000000001,24,120,2.5,2.5,,,180,3024
PO-88421,12/04/2025,ZP-2,Green Tea 25 bags,0902,8906000000002,12,90,2.5,2.5,,,140,1134
`)

func TestRunBytesEndToEnd(t *testing.T) {
	result, err := RunBytes(canonical.PlatformZepto, zeptoCSV, reader.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, canonical.PlatformZepto, result.Platform)
	assert.Equal(t, "PO-88421", result.PO.Header.PONumber)
	assert.Len(t, result.PO.Lines, 2)
	assert.Equal(t, 1, result.PO.Lines[0].LineNumber)
	assert.Equal(t, 2, result.PO.Lines[1].LineNumber)
}

func TestRunBytesIsDeterministic(t *testing.T) {
	first, err := RunBytes(canonical.PlatformZepto, zeptoCSV, reader.FormatCSV)
	require.NoError(t, err)
	second, err := RunBytes(canonical.PlatformZepto, zeptoCSV, reader.FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, first.PO.Header.PONumber, second.PO.Header.PONumber)
	assert.True(t, first.PO.Header.GrandTotal.Equal(second.PO.Header.GrandTotal))
	assert.Equal(t, first.Warnings, second.Warnings)
}

func TestRunUnknownPlatform(t *testing.T) {
	_, err := RunBytes(canonical.PlatformID("meesho"), zeptoCSV, reader.FormatCSV)

	var unknown *ErrUnknownPlatform
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, canonical.PlatformID("meesho"), unknown.Platform)
}

func TestRunBytesUnreadableFile(t *testing.T) {
	_, err := RunBytes(canonical.PlatformZepto, []byte("garbage"), reader.FormatXLSX)
	assert.ErrorIs(t, err, canonical.ErrUnreadableFile)
}
