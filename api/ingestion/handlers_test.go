package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/coordinator"
	"PlatformOrderSaas/api/ingestion/dedup"
	"PlatformOrderSaas/internal/session"
)

var zeptoCSV = []byte(`PO No.,SKU,SKU Desc,HSN,Qty,Unit Base Cost,CGST %,SGST %,MRP,Total Amount
PO-88421,ZP-1,Instant Coffee 50g,2101,24,120,2.5,2.5,180,3024
PO-88421,ZP-2,Green Tea 25 bags,0902,12,90,2.5,2.5,140,1134
`)

type stubChecker struct {
	err error
}

func (s *stubChecker) Check(ctx context.Context, hash string, scope dedup.Scope) error {
	return s.err
}

type stubCommitter struct {
	err      error
	headerID int64
}

func (s *stubCommitter) CommitPO(ctx context.Context, ps *session.PreviewSession) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.headerID, nil
}

func newTestRouter(checker *stubChecker, committer *stubCommitter) (*mux.Router, *session.Manager) {
	sessions := session.NewManager(0)
	coord := coordinator.New(checker, committer, sessions, decimal.New(1, -2))
	h := NewHandlers(coord, nil, nil, sessions, nil)

	r := mux.NewRouter()
	r.HandleFunc("/ingestion/po/preview", h.PreviewPO).Methods(http.MethodPost)
	r.HandleFunc("/ingestion/po/commit", h.CommitPO).Methods(http.MethodPost)
	r.HandleFunc("/ingestion/po/session/{token}", h.GetSession).Methods(http.MethodGet)
	r.HandleFunc("/ingestion/po/session/{token}", h.DiscardSession).Methods(http.MethodDelete)
	r.HandleFunc("/ingestion/platforms", h.ListPlatforms).Methods(http.MethodGet)
	r.HandleFunc("/ingestion/health", h.Health).Methods(http.MethodGet)
	return r, sessions
}

func previewRequest(t *testing.T, platform string, fileBytes []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("file", "po.csv")
	require.NoError(t, err)
	_, err = fw.Write(fileBytes)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("platform", platform))
	require.NoError(t, w.WriteField("business_unit", "north"))
	require.NoError(t, w.WriteField("period_type", "monthly"))
	require.NoError(t, w.WriteField("uploaded_by", "ops@example.com"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/ingestion/po/preview", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestPreviewEndpoint(t *testing.T) {
	r, _ := newTestRouter(&stubChecker{}, &stubCommitter{headerID: 1})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, previewRequest(t, "zepto", zeptoCSV))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["preview_token"])
	assert.Equal(t, string(session.StatePreviewReady), resp["state"])

	header := resp["header"].(map[string]interface{})
	assert.Equal(t, "PO-88421", header["po_number"])
	assert.Len(t, resp["lines"], 2)
}

func TestPreviewEndpointUnsupportedPlatform(t *testing.T) {
	r, _ := newTestRouter(&stubChecker{}, &stubCommitter{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, previewRequest(t, "meesho", zeptoCSV))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeJSON(t, rec)["success"])
}

func TestPreviewEndpointDuplicateWarnsThenCommitConflicts(t *testing.T) {
	dupErr := &dedup.DuplicateUploadError{Existing: dedup.UploadRecord{FileHash: "x"}}
	r, _ := newTestRouter(&stubChecker{err: dupErr}, &stubCommitter{err: dupErr})

	// The duplicate is previewable; the response carries the warning.
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, previewRequest(t, "zepto", zeptoCSV))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON(t, rec)

	warnings, ok := resp["warnings"].([]interface{})
	require.True(t, ok, "warnings missing: %v", resp)
	require.NotEmpty(t, warnings)
	first := warnings[0].(map[string]interface{})
	assert.Equal(t, canonical.WarnDuplicateUpload, first["code"])

	// Committing the same session is where the duplicate becomes fatal.
	token := resp["preview_token"].(string)
	body, _ := json.Marshal(map[string]string{"preview_token": token})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingestion/po/commit", bytes.NewReader(body)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestPreviewEndpointUnparseableFile(t *testing.T) {
	r, _ := newTestRouter(&stubChecker{}, &stubCommitter{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, previewRequest(t, "zepto", []byte("not,a,po\n1,2,3\n")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCommitEndpoint(t *testing.T) {
	r, _ := newTestRouter(&stubChecker{}, &stubCommitter{headerID: 42})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, previewRequest(t, "zepto", zeptoCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeJSON(t, rec)["preview_token"].(string)

	body, _ := json.Marshal(map[string]string{"preview_token": token})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingestion/po/commit", bytes.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decodeJSON(t, rec)
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(42), resp["header_id"])
	assert.Equal(t, string(session.StateCommitted), resp["state"])
}

func TestCommitEndpointUnknownToken(t *testing.T) {
	r, _ := newTestRouter(&stubChecker{}, &stubCommitter{})

	body, _ := json.Marshal(map[string]string{"preview_token": "nope"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingestion/po/commit", bytes.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommitEndpointMissingToken(t *testing.T) {
	r, _ := newTestRouter(&stubChecker{}, &stubCommitter{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/ingestion/po/commit", bytes.NewReader([]byte(`{}`))))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	r, _ := newTestRouter(&stubChecker{}, &stubCommitter{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, previewRequest(t, "zepto", zeptoCSV))
	token := decodeJSON(t, rec)["preview_token"].(string)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ingestion/po/session/"+token, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, "PO-88421", resp["po_number"])
	assert.Equal(t, float64(2), resp["line_count"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/ingestion/po/session/"+token, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, string(session.StateDiscarded), decodeJSON(t, rec)["state"])

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ingestion/po/session/"+token, nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListPlatformsEndpoint(t *testing.T) {
	r, _ := newTestRouter(&stubChecker{}, &stubCommitter{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ingestion/platforms", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Len(t, resp["platforms"], 10)
}

func TestHealthEndpoint(t *testing.T) {
	r, sessions := newTestRouter(&stubChecker{}, &stubCommitter{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, previewRequest(t, "zepto", zeptoCSV))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, sessions.Count())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ingestion/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeJSON(t, rec)
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, float64(1), resp["active_sessions"])
}
