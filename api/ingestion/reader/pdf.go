package reader

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"PlatformOrderSaas/api/ingestion/grid"
)

// PDF purchase orders are converted to a row grid by an external table
// extraction service; this process only understands the JSON rows it
// returns. The converter URL comes from PDF_PARSER_URL.
func readPDF(data []byte) (*grid.RawGrid, error) {
	parserURL := os.Getenv("PDF_PARSER_URL")
	if parserURL == "" {
		return nil, fmt.Errorf("PDF_PARSER_URL not configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("pdf", "upload.pdf")
	if err != nil {
		return nil, err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: 60 * time.Second}
	req, err := http.NewRequest(http.MethodPost, parserURL, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pdf parser request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pdf parser returned status %d: %s", resp.StatusCode, string(msg))
	}

	var parsed struct {
		Success bool       `json:"success"`
		Rows    [][]string `json:"rows"`
		Error   string     `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("invalid pdf parser response: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("pdf parser failed: %s", parsed.Error)
	}

	rows := make([][]grid.Cell, 0, len(parsed.Rows))
	for _, strRow := range parsed.Rows {
		row := make([]grid.Cell, 0, len(strRow))
		for _, text := range strRow {
			row = append(row, sniffCell(text))
		}
		rows = append(rows, row)
	}
	return grid.New(rows), nil
}
