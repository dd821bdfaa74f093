// Package ingestion is the HTTP surface of the purchase-order ingestion
// service: preview, commit, session inspection, auto-populate and the
// upload log.
package ingestion

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"PlatformOrderSaas/api"
	"PlatformOrderSaas/api/constants"
	"PlatformOrderSaas/api/utils"
	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/coordinator"
	"PlatformOrderSaas/api/ingestion/dedup"
	"PlatformOrderSaas/api/ingestion/engine"
	"PlatformOrderSaas/api/ingestion/platforms"
	"PlatformOrderSaas/api/ingestion/reader"
	"PlatformOrderSaas/internal/filestore"
	"PlatformOrderSaas/internal/session"
)

type Handlers struct {
	coord    *coordinator.Coordinator
	guard    *dedup.Guard
	matcher  *Matcher
	sessions *session.Manager
	archive  *filestore.Archiver
}

func NewHandlers(coord *coordinator.Coordinator, guard *dedup.Guard, matcher *Matcher, sessions *session.Manager, archive *filestore.Archiver) *Handlers {
	return &Handlers{coord: coord, guard: guard, matcher: matcher, sessions: sessions, archive: archive}
}

// PreviewPO handles POST /ingestion/po/preview: multipart file plus the
// dedup scope fields. Returns the canonical structure, warnings and the
// session token the commit call must present.
func (h *Handlers) PreviewPO(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingFile)
		return
	}
	defer file.Close()

	fileBytes, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
		return
	}
	if int64(len(fileBytes)) > maxUploadBytes {
		api.RespondWithError(w, http.StatusRequestEntityTooLarge, constants.ErrFileTooLarge)
		return
	}

	platform := canonical.PlatformID(strings.ToLower(strings.TrimSpace(r.FormValue("platform"))))
	if _, ok := platforms.Lookup(platform); !ok {
		api.RespondWithError(w, http.StatusBadRequest, "unsupported platform: "+string(platform))
		return
	}

	format := reader.Format(strings.ToLower(strings.TrimSpace(r.FormValue("format"))))
	if format == "" {
		var ok bool
		format, ok = reader.FormatFromFilename(header.Filename)
		if !ok {
			api.RespondWithError(w, http.StatusBadRequest, "cannot determine file format from filename; pass an explicit format field")
			return
		}
	}

	req := coordinator.PreviewRequest{
		FileBytes: fileBytes,
		Filename:  header.Filename,
		Format:    format,
		Platform:  platform,
		Scope: dedup.Scope{
			Platform:     string(platform),
			BusinessUnit: strings.TrimSpace(r.FormValue("business_unit")),
			PeriodType:   strings.TrimSpace(r.FormValue("period_type")),
		},
		UploadType: "po",
		UploadedBy: strings.TrimSpace(r.FormValue("uploaded_by")),
	}

	s, err := h.coord.Preview(r.Context(), req)
	if err != nil {
		status, msg := classifyPreviewError(err)
		api.RespondWithError(w, status, msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":       true,
		"preview_token": s.Token,
		"state":         s.State,
		"expires_at":    s.ExpiresAt,
		"header":        s.PO.Header,
		"lines":         s.PO.Lines,
		"warnings":      s.Warnings,
	})
}

// CommitPO handles POST /ingestion/po/commit. The po field, when present,
// replaces the extracted structure with the user's edits.
func (h *Handlers) CommitPO(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PreviewToken string        `json:"preview_token"`
		PO           *canonical.PO `json:"po"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return
	}
	if req.PreviewToken == "" {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrMissingToken)
		return
	}

	// Snapshot the session before commit so the file bytes' hash and name
	// are still available for archival after the session is settled.
	snap, _ := h.sessions.Get(req.PreviewToken)

	headerID, err := h.coord.Commit(r.Context(), req.PreviewToken, req.PO)
	if err != nil {
		status, msg := classifyCommitError(err)
		api.RespondWithError(w, status, msg)
		return
	}

	if h.archive != nil && snap != nil {
		go h.archive.ArchiveUpload(string(snap.Platform), snap.FileHash, snap.Filename, snap.FileBytes)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"header_id": headerID,
		"state":     session.StateCommitted,
	})
}

// GetSession handles GET /ingestion/po/session/{token}.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	s, err := h.coord.Session(token)
	if err != nil {
		api.RespondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":    true,
		"state":      s.State,
		"platform":   s.Platform,
		"po_number":  s.PO.Header.PONumber,
		"line_count": len(s.PO.Lines),
		"warnings":   s.Warnings,
		"expires_at": s.ExpiresAt,
	})
}

// DiscardSession handles DELETE /ingestion/po/session/{token}.
func (h *Handlers) DiscardSession(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	if err := h.coord.Discard(token); err != nil {
		status := http.StatusNotFound
		if errors.Is(err, session.ErrWrongState) {
			status = http.StatusConflict
		}
		api.RespondWithError(w, status, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"state":   session.StateDiscarded,
	})
}

// AutoPopulate handles POST /ingestion/auto-populate.
func (h *Handlers) AutoPopulate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UploadType string `json:"uploadType"`
		Identifier string `json:"identifier"`
		Platform   string `json:"platform"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrInvalidJSON)
		return
	}

	result, err := h.matcher.Search(r.Context(), req.UploadType, req.Identifier, strings.ToLower(req.Platform))
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, "auto-populate query failed: "+err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ListPlatforms handles GET /ingestion/platforms.
func (h *Handlers) ListPlatforms(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   true,
		"platforms": platforms.Describe(),
	})
}

// ListUploads handles GET /ingestion/uploads.
func (h *Handlers) ListUploads(w http.ResponseWriter, r *http.Request) {
	p, err := utils.ExtractPagination(r)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	records, err := h.guard.ListUploads(r.Context(), strings.ToLower(r.URL.Query().Get("platform")), p.Limit, p.Offset)
	if err != nil {
		api.RespondWithError(w, http.StatusInternalServerError, "failed to list uploads: "+err.Error())
		return
	}
	api.RespondWithPayload(w, true, "", records)
}

// Health handles GET /ingestion/health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":          true,
		"status":           "ok",
		"active_sessions":  h.sessions.Count(),
		"platforms_loaded": len(platforms.IDs()),
	})
}

// Duplicates never surface here: preview carries them as warnings and the
// 409 belongs to the commit path.
func classifyPreviewError(err error) (int, string) {
	var extr *canonical.ExtractionError
	if errors.As(err, &extr) {
		return http.StatusBadRequest, err.Error()
	}
	var valErr *canonical.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, err.Error()
	}
	var unknown *engine.ErrUnknownPlatform
	if errors.As(err, &unknown) {
		return http.StatusBadRequest, err.Error()
	}
	if errors.Is(err, canonical.ErrUnreadableFile) || errors.Is(err, canonical.ErrEmptyFile) {
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}

func classifyCommitError(err error) (int, string) {
	var dup *dedup.DuplicateUploadError
	if errors.As(err, &dup) {
		return http.StatusConflict, err.Error()
	}
	if errors.Is(err, session.ErrNotFound) {
		return http.StatusNotFound, err.Error()
	}
	if errors.Is(err, session.ErrWrongState) {
		return http.StatusConflict, err.Error()
	}
	var valErr *canonical.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, err.Error()
}
