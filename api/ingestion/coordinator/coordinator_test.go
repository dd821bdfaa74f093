package coordinator

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PlatformOrderSaas/api/ingestion/canonical"
	"PlatformOrderSaas/api/ingestion/dedup"
	"PlatformOrderSaas/api/ingestion/reader"
	"PlatformOrderSaas/internal/session"
)

var epsilon = decimal.New(1, -2)

var zeptoCSV = []byte(`PO No.,SKU,SKU Desc,HSN,Qty,Unit Base Cost,CGST %,SGST %,MRP,Total Amount
PO-88421,ZP-1,Instant Coffee 50g,2101,24,120,2.5,2.5,180,3024
PO-88421,ZP-2,Green Tea 25 bags,0902,12,90,2.5,2.5,140,1134
`)

type fakeChecker struct {
	err error
}

func (f *fakeChecker) Check(ctx context.Context, hash string, scope dedup.Scope) error {
	return f.err
}

type fakeCommitter struct {
	err      error
	headerID int64
	calls    int
	lastPO   *canonical.PO
}

func (f *fakeCommitter) CommitPO(ctx context.Context, s *session.PreviewSession) (int64, error) {
	f.calls++
	f.lastPO = s.PO
	if f.err != nil {
		return 0, f.err
	}
	return f.headerID, nil
}

func newCoordinator(checker *fakeChecker, committer *fakeCommitter) (*Coordinator, *session.Manager) {
	sessions := session.NewManager(0)
	return New(checker, committer, sessions, epsilon), sessions
}

func previewReq() PreviewRequest {
	return PreviewRequest{
		FileBytes:  zeptoCSV,
		Filename:   "po.csv",
		Format:     reader.FormatCSV,
		Platform:   canonical.PlatformZepto,
		Scope:      dedup.Scope{Platform: "zepto", BusinessUnit: "north", PeriodType: "monthly"},
		UploadType: "po",
		UploadedBy: "ops@example.com",
	}
}

func TestPreviewCreatesSession(t *testing.T) {
	coord, sessions := newCoordinator(&fakeChecker{}, &fakeCommitter{headerID: 1})

	s, err := coord.Preview(context.Background(), previewReq())
	require.NoError(t, err)

	assert.Equal(t, session.StatePreviewReady, s.State)
	assert.Equal(t, "PO-88421", s.PO.Header.PONumber)
	assert.Equal(t, dedup.Fingerprint(zeptoCSV), s.FileHash)
	assert.Equal(t, int64(len(zeptoCSV)), s.FileSize)
	assert.Equal(t, zeptoCSV, s.FileBytes)
	assert.Equal(t, 1, sessions.Count())
}

func TestPreviewSurvivesKnownDuplicate(t *testing.T) {
	dupErr := &dedup.DuplicateUploadError{Existing: dedup.UploadRecord{FileHash: "x", Platform: "zepto"}}
	coord, sessions := newCoordinator(&fakeChecker{err: dupErr}, &fakeCommitter{})

	// A known fingerprint still previews; the duplicate surfaces as a
	// warning and only the commit gets rejected.
	s, err := coord.Preview(context.Background(), previewReq())
	require.NoError(t, err)
	assert.Equal(t, session.StatePreviewReady, s.State)
	assert.Equal(t, "PO-88421", s.PO.Header.PONumber)
	assert.Equal(t, 1, sessions.Count())

	var codes []string
	for _, w := range s.Warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, canonical.WarnDuplicateUpload)
}

func TestPreviewFailsWhenDuplicateCheckErrors(t *testing.T) {
	coord, sessions := newCoordinator(&fakeChecker{err: errors.New("connection refused")}, &fakeCommitter{})

	_, err := coord.Preview(context.Background(), previewReq())
	require.Error(t, err)
	assert.Equal(t, 0, sessions.Count())
}

func TestPreviewPropagatesExtractionFailure(t *testing.T) {
	coord, _ := newCoordinator(&fakeChecker{}, &fakeCommitter{})

	req := previewReq()
	req.FileBytes = []byte("not,a,zepto,file\n1,2,3,4\n")

	_, err := coord.Preview(context.Background(), req)
	var extr *canonical.ExtractionError
	assert.ErrorAs(t, err, &extr)
}

func TestCommitHappyPath(t *testing.T) {
	committer := &fakeCommitter{headerID: 42}
	coord, sessions := newCoordinator(&fakeChecker{}, committer)

	s, err := coord.Preview(context.Background(), previewReq())
	require.NoError(t, err)

	headerID, err := coord.Commit(context.Background(), s.Token, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), headerID)
	assert.Equal(t, 1, committer.calls)

	// Committed sessions are gone; a second commit cannot happen.
	_, err = coord.Commit(context.Background(), s.Token, nil)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 0, sessions.Count())
}

func TestCommitUnknownToken(t *testing.T) {
	coord, _ := newCoordinator(&fakeChecker{}, &fakeCommitter{})
	_, err := coord.Commit(context.Background(), "missing", nil)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestCommitFailureReturnsSessionToPreviewReady(t *testing.T) {
	committer := &fakeCommitter{err: errors.New("connection reset")}
	coord, _ := newCoordinator(&fakeChecker{}, committer)

	s, err := coord.Preview(context.Background(), previewReq())
	require.NoError(t, err)

	_, err = coord.Commit(context.Background(), s.Token, nil)
	require.Error(t, err)

	// The session survives for a retry.
	got, err := coord.Session(s.Token)
	require.NoError(t, err)
	assert.Equal(t, session.StatePreviewReady, got.State)

	committer.err = nil
	committer.headerID = 7
	headerID, err := coord.Commit(context.Background(), s.Token, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), headerID)
}

func TestCommitDuplicateTerminatesSession(t *testing.T) {
	committer := &fakeCommitter{err: &dedup.DuplicateUploadError{Existing: dedup.UploadRecord{FileHash: "x"}}}
	coord, sessions := newCoordinator(&fakeChecker{}, committer)

	s, err := coord.Preview(context.Background(), previewReq())
	require.NoError(t, err)

	_, err = coord.Commit(context.Background(), s.Token, nil)
	var dup *dedup.DuplicateUploadError
	require.ErrorAs(t, err, &dup)

	// RejectedDuplicate is terminal: no retry with the same token.
	_, err = coord.Commit(context.Background(), s.Token, nil)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, 0, sessions.Count())
}

func TestCommitWithEditedPO(t *testing.T) {
	committer := &fakeCommitter{headerID: 9}
	coord, _ := newCoordinator(&fakeChecker{}, committer)

	s, err := coord.Preview(context.Background(), previewReq())
	require.NoError(t, err)

	edited := *s.PO
	edited.Lines = append([]canonical.Line{}, s.PO.Lines...)
	edited.Lines[0].Quantity = decimal.NewFromInt(30)
	// Stale aggregates and platform are recomputed/forced server-side.
	edited.Header.Platform = canonical.PlatformAmazon
	edited.Header.TotalQuantity = decimal.Zero

	_, err = coord.Commit(context.Background(), s.Token, &edited)
	require.NoError(t, err)

	require.NotNil(t, committer.lastPO)
	assert.Equal(t, canonical.PlatformZepto, committer.lastPO.Header.Platform)
	assert.True(t, committer.lastPO.Header.TotalQuantity.Equal(decimal.NewFromInt(42)),
		"quantity %s", committer.lastPO.Header.TotalQuantity)
}

func TestCommitRejectsInvalidEditedPO(t *testing.T) {
	committer := &fakeCommitter{headerID: 9}
	coord, _ := newCoordinator(&fakeChecker{}, committer)

	s, err := coord.Preview(context.Background(), previewReq())
	require.NoError(t, err)

	edited := *s.PO
	edited.Header.PONumber = ""

	_, err = coord.Commit(context.Background(), s.Token, &edited)
	var valErr *canonical.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, 0, committer.calls)

	// The extraction result is still committable afterwards.
	got, err := coord.Session(s.Token)
	require.NoError(t, err)
	assert.Equal(t, session.StatePreviewReady, got.State)
}

func TestDiscardDropsSession(t *testing.T) {
	coord, sessions := newCoordinator(&fakeChecker{}, &fakeCommitter{})

	s, err := coord.Preview(context.Background(), previewReq())
	require.NoError(t, err)

	require.NoError(t, coord.Discard(s.Token))
	assert.Equal(t, 0, sessions.Count())
	assert.ErrorIs(t, coord.Discard(s.Token), session.ErrNotFound)
}
