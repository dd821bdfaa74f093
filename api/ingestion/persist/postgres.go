// Package persist writes canonical POs into the per-platform header and
// lines tables.
package persist

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"PlatformOrderSaas/api/ingestion/canonical"
)

// Store persists POs. Each platform gets its own <platform>_po_header /
// <platform>_po_lines pair; the schemas are identical, only the names
// differ, which keeps per-platform reporting queries trivial.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool exposes the underlying pool so the coordinator can open the commit
// transaction that spans PO insert + fingerprint record.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// InsertPO writes the header and all lines inside the caller's transaction.
// Lines go through one batch; any failure aborts the whole transaction so
// a PO is never half-persisted.
func (s *Store) InsertPO(ctx context.Context, tx pgx.Tx, po *canonical.PO, uploadedBy string) (int64, error) {
	headerTable, linesTable, err := TableNames(po.Header.Platform)
	if err != nil {
		return 0, err
	}

	var headerID int64
	h := po.Header
	err = tx.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (
			po_number, po_date, expiry_date, delivery_date, payment_terms,
			vendor_code, vendor_name, vendor_gstin, vendor_pan,
			buyer_name, buyer_gstin, buyer_pan,
			total_items, total_quantity, total_taxable_value, total_tax_amount,
			grand_total, unique_hsn_codes, status, tax_model, uploaded_by, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,NOW())
		RETURNING id`, headerTable),
		h.PONumber, h.PODate, h.ExpiryDate, h.DeliveryDate, h.PaymentTerms,
		h.VendorCode, h.VendorName, h.VendorGSTIN, h.VendorPAN,
		h.BuyerName, h.BuyerGSTIN, h.BuyerPAN,
		h.TotalItems, h.TotalQuantity, h.TotalTaxableValue, h.TotalTaxAmount,
		h.GrandTotal, h.UniqueHSNCodes, h.Status, string(h.TaxModel), uploadedBy,
	).Scan(&headerID)
	if err != nil {
		return 0, fmt.Errorf("inserting %s header: %w", po.Header.Platform, err)
	}

	batch := &pgx.Batch{}
	insertLine := fmt.Sprintf(`
		INSERT INTO %s (
			header_id, line_number, item_code, item_description, hsn_code, product_upc,
			quantity, mrp, unit_base_cost, taxable_value,
			cgst_rate, cgst_amount, sgst_rate, sgst_amount,
			igst_rate, igst_amount, gst_rate, gst_amount,
			cess_rate, cess_amount, total_tax_amount, line_total
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`, linesTable)
	for _, ln := range po.Lines {
		batch.Queue(insertLine,
			headerID, ln.LineNumber, ln.ItemCode, ln.ItemDescription, ln.HSNCode, ln.ProductUPC,
			ln.Quantity, ln.MRP, ln.UnitBaseCost, ln.TaxableValue,
			ln.CGSTRate, ln.CGSTAmount, ln.SGSTRate, ln.SGSTAmount,
			ln.IGSTRate, ln.IGSTAmount, ln.GSTRate, ln.GSTAmount,
			ln.CessRate, ln.CessAmount, ln.TotalTaxAmount, ln.LineTotal)
	}

	br := tx.SendBatch(ctx, batch)
	for range po.Lines {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return 0, fmt.Errorf("inserting %s lines: %w", po.Header.Platform, err)
		}
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("closing %s line batch: %w", po.Header.Platform, err)
	}

	log.Printf("[INFO] persisted %s PO %s: header id %d, %d lines",
		po.Header.Platform, h.PONumber, headerID, len(po.Lines))
	return headerID, nil
}
