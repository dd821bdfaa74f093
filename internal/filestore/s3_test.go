package filestore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKey(t *testing.T) {
	assert.Equal(t, "uploads/zepto/abc123.csv", buildKey("zepto", "abc123", "po march.csv"))
	assert.Equal(t, "uploads/blinkit/ff00.xlsx", buildKey("blinkit", "ff00", "PO.XLSX"))
	assert.Equal(t, "uploads/unknown/ff00.bin", buildKey("", "ff00", "noextension"))
}

func TestSanitizePathSegment(t *testing.T) {
	assert.Equal(t, "big_basket", sanitizePathSegment("big basket"))
	assert.Equal(t, "a_b_c", sanitizePathSegment("a/b\\c"))
	assert.Equal(t, "unknown", sanitizePathSegment("   "))
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/octet-stream", detectContentType(nil))
	assert.Equal(t, "application/pdf", detectContentType([]byte("%PDF-1.4 junk")))
}

func TestNewArchiverFromEnvDisabledWithoutBucket(t *testing.T) {
	t.Setenv("UPLOAD_ARCHIVE_BUCKET", "")
	assert.Nil(t, NewArchiverFromEnv())
}

func TestNewArchiverFromEnvDefaultsRegion(t *testing.T) {
	t.Setenv("UPLOAD_ARCHIVE_BUCKET", "po-archive")
	t.Setenv("UPLOAD_ARCHIVE_REGION", "")
	a := NewArchiverFromEnv()
	if assert.NotNil(t, a) {
		assert.Equal(t, "po-archive", a.bucket)
		assert.Equal(t, archiveDefaultRegion, a.region)
	}
}
