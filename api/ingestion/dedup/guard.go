// Package dedup guards against re-ingesting a file that was already
// committed for the same platform, business unit and period.
package dedup

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Fingerprint computes the SHA-256 hex digest of the raw upload bytes.
// Identical bytes always fingerprint identically regardless of filename.
func Fingerprint(fileBytes []byte) string {
	sum := sha256.Sum256(fileBytes)
	return hex.EncodeToString(sum[:])
}

// Scope is the dedup key beyond the content hash: the same bytes may be
// legitimately ingested again under a different platform, business unit or
// period type.
type Scope struct {
	Platform     string
	BusinessUnit string
	PeriodType   string
}

// UploadRecord is one row of the upload tracking table.
type UploadRecord struct {
	FileHash     string    `json:"file_hash"`
	Platform     string    `json:"platform"`
	BusinessUnit string    `json:"business_unit"`
	PeriodType   string    `json:"period_type"`
	UploadType   string    `json:"upload_type"`
	FileSize     int64     `json:"file_size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// DuplicateUploadError reports an upload whose fingerprint was already
// recorded in the same scope.
type DuplicateUploadError struct {
	Existing UploadRecord
}

func (e *DuplicateUploadError) Error() string {
	return fmt.Sprintf("duplicate upload: file with hash %s was already uploaded for %s/%s/%s at %s",
		e.Existing.FileHash, e.Existing.Platform, e.Existing.BusinessUnit,
		e.Existing.PeriodType, e.Existing.UploadedAt.Format(time.RFC3339))
}

// Guard checks and records upload fingerprints. Check never writes;
// fingerprints become durable only through Record inside a commit
// transaction, so previewed-but-discarded uploads can be retried freely.
type Guard struct {
	pool *pgxpool.Pool
}

func NewGuard(pool *pgxpool.Pool) *Guard {
	return &Guard{pool: pool}
}

// Check returns a DuplicateUploadError when the (hash, scope) pair is
// already recorded, nil when the upload is fresh.
func (g *Guard) Check(ctx context.Context, hash string, scope Scope) error {
	var rec UploadRecord
	err := g.pool.QueryRow(ctx, `
		SELECT file_hash, platform, business_unit, period_type, upload_type, file_size, uploaded_at
		FROM file_upload_tracking
		WHERE file_hash = $1 AND platform = $2 AND business_unit = $3 AND period_type = $4`,
		hash, scope.Platform, scope.BusinessUnit, scope.PeriodType,
	).Scan(&rec.FileHash, &rec.Platform, &rec.BusinessUnit, &rec.PeriodType,
		&rec.UploadType, &rec.FileSize, &rec.UploadedAt)
	if err == pgx.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("dedup check failed: %w", err)
	}
	return &DuplicateUploadError{Existing: rec}
}

// Record inserts the fingerprint inside the caller's commit transaction so
// the fingerprint and the PO rows land or vanish together. The unique index
// on (file_hash, platform, business_unit, period_type) settles the race
// when two commits of the same bytes run concurrently: the loser's insert
// fails, aborting its transaction.
func (g *Guard) Record(ctx context.Context, tx pgx.Tx, hash string, scope Scope, uploadType string, fileSize int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO file_upload_tracking
			(file_hash, platform, business_unit, period_type, upload_type, file_size, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
		hash, scope.Platform, scope.BusinessUnit, scope.PeriodType, uploadType, fileSize)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23505" {
			return &DuplicateUploadError{Existing: UploadRecord{
				FileHash:     hash,
				Platform:     scope.Platform,
				BusinessUnit: scope.BusinessUnit,
				PeriodType:   scope.PeriodType,
				UploadType:   uploadType,
			}}
		}
		return fmt.Errorf("recording upload fingerprint failed: %w", err)
	}
	return nil
}

// ListUploads returns a page of upload records, newest first, for the
// upload history endpoint.
func (g *Guard) ListUploads(ctx context.Context, platform string, limit, offset int) ([]UploadRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := g.pool.Query(ctx, `
		SELECT file_hash, platform, business_unit, period_type, upload_type, file_size, uploaded_at
		FROM file_upload_tracking
		WHERE ($1 = '' OR platform = $1)
		ORDER BY uploaded_at DESC
		LIMIT $2 OFFSET $3`, platform, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []UploadRecord{}
	for rows.Next() {
		var rec UploadRecord
		if err := rows.Scan(&rec.FileHash, &rec.Platform, &rec.BusinessUnit, &rec.PeriodType,
			&rec.UploadType, &rec.FileSize, &rec.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
