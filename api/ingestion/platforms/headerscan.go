package platforms

import (
	"regexp"
	"strings"
	"time"

	"PlatformOrderSaas/api/ingestion/grid"
)

// Header blocks above the line table are merged-cell prose, not columns.
// These helpers pull labeled values out of that prose; each platform's
// ScanHeader composes them with its own labels.

var (
	gstinRe = regexp.MustCompile(`\b[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z]\b`)
	panRe   = regexp.MustCompile(`\b[A-Z]{5}[0-9]{4}[A-Z]\b`)
)

// FindLabelValue locates the first cell containing the label and returns the
// associated value: the text after a colon in the same cell, else the next
// non-blank cell to the right, else the cell directly below. Empty string
// when the label never appears.
func FindLabelValue(g *grid.RawGrid, label string) string {
	needle := strings.ToLower(label)
	maxRows := g.NumRows()
	if maxRows > 40 {
		maxRows = 40
	}
	for r := 0; r < maxRows; r++ {
		for c := 0; c < g.RowWidth(r); c++ {
			text := g.Cell(r, c).TrimmedText()
			if text == "" || !strings.Contains(strings.ToLower(text), needle) {
				continue
			}
			if idx := strings.Index(strings.ToLower(text), needle); idx >= 0 {
				rest := text[idx+len(needle):]
				rest = strings.TrimLeft(rest, " :.-")
				if rest != "" {
					return strings.TrimSpace(rest)
				}
			}
			for k := c + 1; k < g.RowWidth(r); k++ {
				if v := g.Cell(r, k).TrimmedText(); v != "" {
					return strings.TrimPrefix(strings.TrimSpace(v), ":")
				}
			}
			if v := g.Cell(r+1, c).TrimmedText(); v != "" {
				return v
			}
		}
	}
	return ""
}

// FindByPattern returns the first regex match across the top of the grid.
func FindByPattern(g *grid.RawGrid, re *regexp.Regexp) string {
	maxRows := g.NumRows()
	if maxRows > 40 {
		maxRows = 40
	}
	for r := 0; r < maxRows; r++ {
		for c := 0; c < g.RowWidth(r); c++ {
			if m := re.FindString(g.Cell(r, c).TrimmedText()); m != "" {
				return m
			}
		}
	}
	return ""
}

// FindGSTINs returns the distinct GSTINs in the header block in order of
// appearance. Vendor files usually carry the buyer's first, then the
// vendor's; callers decide the assignment.
func FindGSTINs(g *grid.RawGrid) []string {
	seen := map[string]struct{}{}
	out := []string{}
	maxRows := g.NumRows()
	if maxRows > 40 {
		maxRows = 40
	}
	for r := 0; r < maxRows; r++ {
		for c := 0; c < g.RowWidth(r); c++ {
			for _, m := range gstinRe.FindAllString(g.Cell(r, c).TrimmedText(), -1) {
				if _, dup := seen[m]; dup {
					continue
				}
				seen[m] = struct{}{}
				out = append(out, m)
			}
		}
	}
	return out
}

// PANFromGSTIN slices the PAN embedded in a GSTIN (characters 3..12).
func PANFromGSTIN(gstin string) string {
	if len(gstin) < 12 {
		return ""
	}
	pan := gstin[2:12]
	if !panRe.MatchString(pan) {
		return ""
	}
	return pan
}

var dateLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"02-Jan-2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"02.01.2006",
	"2/1/2006",
	"2-1-2006",
	"02-01-06",
	"02/01/06",
}

// ParseDate tries the date layouts vendor exports actually use, day-first
// where ambiguous. Returns nil when nothing matches.
func ParseDate(s string) *time.Time {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	// Drop a trailing time component ("25-03-2025 14:02" or "...T14:02:00").
	if idx := strings.IndexAny(trimmed, " T"); idx > 0 && len(trimmed) > idx+1 {
		if head := trimmed[:idx]; strings.ContainsAny(head, "-/.") {
			if t := parseDateOnly(head); t != nil {
				return t
			}
		}
	}
	return parseDateOnly(trimmed)
}

func parseDateOnly(s string) *time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
