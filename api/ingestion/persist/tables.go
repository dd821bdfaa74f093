package persist

import (
	"fmt"

	"PlatformOrderSaas/api/ingestion/canonical"
)

// TableNames maps a platform id onto its header and lines table names. The
// platform set is closed, so an unknown id is a programming error surfaced
// as an explicit failure rather than an SQL injection vector: table names
// are never built from request input directly.
func TableNames(id canonical.PlatformID) (header, lines string, err error) {
	switch id {
	case canonical.PlatformFlipkart:
		return "flipkart_po_header", "flipkart_po_lines", nil
	case canonical.PlatformZepto:
		return "zepto_po_header", "zepto_po_lines", nil
	case canonical.PlatformBlinkit:
		return "blinkit_po_header", "blinkit_po_lines", nil
	case canonical.PlatformSwiggy:
		return "swiggy_po_header", "swiggy_po_lines", nil
	case canonical.PlatformBigBasket:
		return "bigbasket_po_header", "bigbasket_po_lines", nil
	case canonical.PlatformZomato:
		return "zomato_po_header", "zomato_po_lines", nil
	case canonical.PlatformCityMall:
		return "citymall_po_header", "citymall_po_lines", nil
	case canonical.PlatformDealshare:
		return "dealshare_po_header", "dealshare_po_lines", nil
	case canonical.PlatformAmazon:
		return "amazon_po_header", "amazon_po_lines", nil
	case canonical.PlatformJioMart:
		return "jiomart_po_header", "jiomart_po_lines", nil
	}
	return "", "", fmt.Errorf("no tables for platform %q", id)
}
