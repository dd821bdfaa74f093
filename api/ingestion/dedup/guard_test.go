package dedup

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintIsContentOnly(t *testing.T) {
	a := Fingerprint([]byte("same bytes"))
	b := Fingerprint([]byte("same bytes"))
	c := Fingerprint([]byte("other bytes"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	// SHA-256 hex digest.
	assert.Len(t, a, 64)
}

func TestFingerprintEmptyInput(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Fingerprint(nil))
}

func TestDuplicateUploadErrorMessage(t *testing.T) {
	err := &DuplicateUploadError{Existing: UploadRecord{
		FileHash:     "abc",
		Platform:     "zepto",
		BusinessUnit: "north",
		PeriodType:   "monthly",
		UploadedAt:   time.Date(2025, 4, 12, 10, 0, 0, 0, time.UTC),
	}}
	msg := err.Error()
	assert.Contains(t, msg, "abc")
	assert.Contains(t, msg, "zepto/north/monthly")
	assert.Contains(t, msg, "2025-04-12")
}
