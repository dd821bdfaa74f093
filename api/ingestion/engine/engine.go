// Package engine dispatches parsed grids to the registered platform
// adapter and wraps the outcome with extraction metadata.
package engine

import (
	"fmt"
	"log"
	"time"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/grid"
	"PlatformOrderSaas/api/ingestion/platforms"
	"PlatformOrderSaas/api/ingestion/reader"
)

// ErrUnknownPlatform is returned when no adapter is registered for the
// requested platform id.
type ErrUnknownPlatform struct {
	Platform canonical.PlatformID
}

func (e *ErrUnknownPlatform) Error() string {
	return fmt.Sprintf("unsupported platform: %s", e.Platform)
}

// Run extracts a canonical PO from an already-parsed grid. Extraction is
// deterministic: the same grid and platform always produce the same result.
func Run(platform canonical.PlatformID, g *grid.RawGrid) (*canonical.PreviewResult, error) {
	adapter, ok := platforms.Lookup(platform)
	if !ok {
		return nil, &ErrUnknownPlatform{Platform: platform}
	}

	start := time.Now()
	po, warnings, err := adapter.Extract(g)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	log.Printf("[INFO] extracted %s PO %s: %d lines, %d warnings in %s",
		platform, po.Header.PONumber, len(po.Lines), len(warnings), elapsed)

	return &canonical.PreviewResult{
		Platform: platform,
		PO:       po,
		Warnings: warnings,
		Duration: elapsed,
	}, nil
}

// RunBytes reads raw file bytes in the declared format and extracts in one
// step.
func RunBytes(platform canonical.PlatformID, fileBytes []byte, format reader.Format) (*canonical.PreviewResult, error) {
	g, err := reader.Read(fileBytes, format)
	if err != nil {
		return nil, err
	}
	return Run(platform, g)
}
