// Package coordinator drives the upload lifecycle: preview extracts and
// parks the result in a session, commit persists it atomically together
// with the upload fingerprint.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/dedup"
	"PlatformOrderSaas/api/ingestion/engine"
	"PlatformOrderSaas/api/ingestion/reader"
	"PlatformOrderSaas/internal/session"
)

// DupChecker is the read-only duplicate probe used at preview time.
type DupChecker interface {
	Check(ctx context.Context, hash string, scope dedup.Scope) error
}

// Committer persists a PO and its upload fingerprint as one atomic unit.
type Committer interface {
	CommitPO(ctx context.Context, s *session.PreviewSession) (int64, error)
}

// PreviewRequest is one upload presented for extraction.
type PreviewRequest struct {
	FileBytes  []byte
	Filename   string
	Format     reader.Format
	Platform   canonical.PlatformID
	Scope      dedup.Scope
	UploadType string
	UploadedBy string
}

// Coordinator owns the state machine from Received to a terminal state.
type Coordinator struct {
	checker   DupChecker
	committer Committer
	sessions  *session.Manager
	epsilon   decimal.Decimal
}

func New(checker DupChecker, committer Committer, sessions *session.Manager, epsilon decimal.Decimal) *Coordinator {
	return &Coordinator{
		checker:   checker,
		committer: committer,
		sessions:  sessions,
		epsilon:   epsilon,
	}
}

// Preview runs the full read/extract/validate pipeline and parks the result
// in a PreviewReady session. Nothing durable happens here: the dedup check
// is read-only and a rejected or never-committed preview leaves no trace,
// so the same file can always be previewed again. A known fingerprint only
// warns at this stage; the in-transaction record is what rejects a
// duplicate, at commit.
func (c *Coordinator) Preview(ctx context.Context, req PreviewRequest) (*session.PreviewSession, error) {
	hash := dedup.Fingerprint(req.FileBytes)
	var dupWarning *canonical.Warning
	if err := c.checker.Check(ctx, hash, req.Scope); err != nil {
		var dup *dedup.DuplicateUploadError
		if !errors.As(err, &dup) {
			log.Printf("[ERROR] duplicate check failed for %s (%s): %v", req.Filename, req.Platform, err)
			return nil, err
		}
		log.Printf("[INFO] known fingerprint previewed for %s (%s): %v", req.Filename, req.Platform, err)
		dupWarning = &canonical.Warning{
			Code:    canonical.WarnDuplicateUpload,
			Message: dup.Error(),
		}
	}

	result, err := engine.RunBytes(req.Platform, req.FileBytes, req.Format)
	if err != nil {
		log.Printf("[ERROR] extraction failed for %s (%s): %v", req.Filename, req.Platform, err)
		return nil, err
	}
	if err := canonical.Validate(result.PO, c.epsilon); err != nil {
		log.Printf("[ERROR] extracted PO failed validation for %s: %v", req.Filename, err)
		return nil, err
	}

	warnings := result.Warnings
	if dupWarning != nil {
		warnings = append(warnings, *dupWarning)
	}
	s := c.sessions.Create(session.PreviewSession{
		Platform:   req.Platform,
		PO:         result.PO,
		Warnings:   warnings,
		FileHash:   hash,
		FileBytes:  req.FileBytes,
		FileSize:   int64(len(req.FileBytes)),
		UploadType: req.UploadType,
		Scope:      req.Scope,
		UploadedBy: req.UploadedBy,
		Filename:   req.Filename,
	})
	log.Printf("[INFO] preview session %s ready: %s PO %s, %d lines",
		s.Token, s.Platform, s.PO.Header.PONumber, len(s.PO.Lines))
	return s, nil
}

// Commit persists the previewed PO. edited, when non-nil, replaces the
// extracted PO after its aggregates are recomputed and revalidated, so a
// reviewer can fix quantities or drop lines before committing. On failure
// the session returns to PreviewReady and commit can be retried; only a
// duplicate fingerprint terminates it.
func (c *Coordinator) Commit(ctx context.Context, token string, edited *canonical.PO) (int64, error) {
	s, err := c.sessions.BeginCommit(token)
	if err != nil {
		return 0, err
	}

	if edited != nil {
		edited.Header.Platform = s.Platform
		edited.Header.TaxModel = s.PO.Header.TaxModel
		if edited.Header.Status == "" {
			edited.Header.Status = canonical.StatusOpen
		}
		canonical.ComputeAggregates(edited)
		if err := canonical.Validate(edited, c.epsilon); err != nil {
			c.sessions.FinishCommit(token, session.StatePreviewReady)
			return 0, fmt.Errorf("edited preview is invalid: %w", err)
		}
		s.PO = edited
	}

	headerID, err := c.committer.CommitPO(ctx, s)
	if err != nil {
		var dup *dedup.DuplicateUploadError
		if errors.As(err, &dup) {
			c.sessions.FinishCommit(token, session.StateRejectedDuplicate)
		} else {
			c.sessions.FinishCommit(token, session.StatePreviewReady)
		}
		log.Printf("[ERROR] commit failed for session %s: %v", token, err)
		return 0, err
	}

	c.sessions.FinishCommit(token, session.StateCommitted)
	log.Printf("[INFO] session %s committed: %s PO %s as header %d",
		token, s.Platform, s.PO.Header.PONumber, headerID)
	return headerID, nil
}

// Session exposes a live preview session for the inspection endpoint.
func (c *Coordinator) Session(token string) (*session.PreviewSession, error) {
	return c.sessions.Get(token)
}

// Discard drops a pending preview without persisting anything.
func (c *Coordinator) Discard(token string) error {
	return c.sessions.Discard(token)
}
