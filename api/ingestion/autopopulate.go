package ingestion

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"PlatformOrderSaas/api/constants"
	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/persist"
)

// MatchResult is the outcome of an auto-populate search.
type MatchResult struct {
	Found   bool                   `json:"found"`
	Source  string                 `json:"source,omitempty"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// Matcher pre-fills entry forms from already-persisted records. Read-only;
// runs on the plain sql.DB handle rather than the ingestion pool.
type Matcher struct {
	db *sql.DB
}

func NewMatcher(db *sql.DB) *Matcher {
	return &Matcher{db: db}
}

// Search looks for a persisted record matching identifier. Exact matches on
// key codes (PO number, SKU) beat substring hits on names; within each tier
// the most recently created record wins.
func (m *Matcher) Search(ctx context.Context, uploadType, identifier, platform string) (*MatchResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return &MatchResult{Found: false, Message: "identifier is required"}, nil
	}

	switch uploadType {
	case "po":
		return m.searchPO(ctx, identifier, platform)
	case "inventory":
		return m.searchAux(ctx, identifier, platform, "inventory", "sku", "item_name")
	case "secondary-sales":
		return m.searchAux(ctx, identifier, platform, "secondary_sales", "sku", "product_name")
	}
	return &MatchResult{Found: false, Message: fmt.Sprintf("unknown upload type %q", uploadType)}, nil
}

func (m *Matcher) platformIDs(platform string) []canonical.PlatformID {
	if platform != "" {
		return []canonical.PlatformID{canonical.PlatformID(platform)}
	}
	return []canonical.PlatformID{
		canonical.PlatformFlipkart, canonical.PlatformZepto, canonical.PlatformBlinkit,
		canonical.PlatformSwiggy, canonical.PlatformBigBasket, canonical.PlatformZomato,
		canonical.PlatformCityMall, canonical.PlatformDealshare, canonical.PlatformAmazon,
		canonical.PlatformJioMart,
	}
}

func (m *Matcher) searchPO(ctx context.Context, identifier, platform string) (*MatchResult, error) {
	// Tier 1: exact PO number on any header table.
	for _, id := range m.platformIDs(platform) {
		headerTable, linesTable, err := persist.TableNames(id)
		if err != nil {
			continue
		}
		data, err := m.headerByPONumber(ctx, headerTable, identifier, false)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return &MatchResult{Found: true, Source: headerTable, Data: data}, nil
		}
		// Tier 2: exact item code on the lines table.
		data, err = m.headerByLineMatch(ctx, headerTable, linesTable,
			"LOWER(l.item_code) = LOWER($1)", identifier)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return &MatchResult{Found: true, Source: linesTable, Data: data}, nil
		}
	}
	// Tier 3: substring on PO number or item description.
	for _, id := range m.platformIDs(platform) {
		headerTable, linesTable, err := persist.TableNames(id)
		if err != nil {
			continue
		}
		data, err := m.headerByPONumber(ctx, headerTable, identifier, true)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return &MatchResult{Found: true, Source: headerTable, Data: data}, nil
		}
		data, err = m.headerByLineMatch(ctx, headerTable, linesTable,
			"l.item_description ILIKE '%' || $1 || '%'", identifier)
		if err != nil {
			return nil, err
		}
		if data != nil {
			return &MatchResult{Found: true, Source: linesTable, Data: data}, nil
		}
	}
	return &MatchResult{Found: false, Message: constants.ErrAutoPopulateMiss}, nil
}

func (m *Matcher) headerByPONumber(ctx context.Context, headerTable, identifier string, substring bool) (map[string]interface{}, error) {
	cond := "LOWER(po_number) = LOWER($1)"
	if substring {
		cond = "po_number ILIKE '%' || $1 || '%'"
	}
	row := m.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, po_number, vendor_name, total_items, total_quantity, grand_total, status
		FROM %s WHERE %s
		ORDER BY id DESC LIMIT 1`, headerTable, cond), identifier)

	var (
		id                       int64
		poNumber, vendor, status string
		totalItems               int
		totalQty, grandTotal     string
	)
	err := row.Scan(&id, &poNumber, &vendor, &totalItems, &totalQty, &grandTotal, &status)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		// Tables only exist once the platform has had a commit; treat a
		// missing relation the same as no rows.
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, err
	}
	return map[string]interface{}{
		"header_id":      id,
		"po_number":      poNumber,
		"vendor_name":    vendor,
		"total_items":    totalItems,
		"total_quantity": totalQty,
		"grand_total":    grandTotal,
		"status":         status,
	}, nil
}

func (m *Matcher) headerByLineMatch(ctx context.Context, headerTable, linesTable, cond, identifier string) (map[string]interface{}, error) {
	row := m.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT h.id, h.po_number, l.item_code, l.item_description, l.hsn_code, l.quantity
		FROM %s l JOIN %s h ON h.id = l.header_id
		WHERE %s
		ORDER BY l.id DESC LIMIT 1`, linesTable, headerTable, cond), identifier)

	var (
		headerID              int64
		poNumber, code        string
		description, hsn, qty string
	)
	err := row.Scan(&headerID, &poNumber, &code, &description, &hsn, &qty)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if isUndefinedTable(err) {
			return nil, nil
		}
		return nil, err
	}
	return map[string]interface{}{
		"header_id":        headerID,
		"po_number":        poNumber,
		"item_code":        code,
		"item_description": description,
		"hsn_code":         hsn,
		"quantity":         qty,
	}, nil
}

// searchAux looks up inventory and secondary-sales records. Those tables
// are maintained by the platforms' separate loader jobs, not by this
// service's preview/commit pipeline; missing tables just mean no data yet.
func (m *Matcher) searchAux(ctx context.Context, identifier, platform, suffix, codeCol, nameCol string) (*MatchResult, error) {
	for _, tier := range []string{
		fmt.Sprintf("LOWER(%s) = LOWER($1)", codeCol),
		fmt.Sprintf("%s ILIKE '%%' || $1 || '%%'", nameCol),
	} {
		for _, id := range m.platformIDs(platform) {
			table := fmt.Sprintf("%s_%s", id, suffix)
			row := m.db.QueryRowContext(ctx, fmt.Sprintf(`
				SELECT %s, %s FROM %s WHERE %s
				ORDER BY id DESC LIMIT 1`, codeCol, nameCol, table, tier), identifier)

			var code, name string
			err := row.Scan(&code, &name)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				if isUndefinedTable(err) {
					continue
				}
				return nil, err
			}
			return &MatchResult{
				Found:  true,
				Source: table,
				Data:   map[string]interface{}{codeCol: code, nameCol: name},
			}, nil
		}
	}
	return &MatchResult{Found: false, Message: constants.ErrAutoPopulateMiss}, nil
}

func isUndefinedTable(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "42P01"
}
