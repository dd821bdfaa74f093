package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRequiresIdentifier(t *testing.T) {
	m := NewMatcher(nil)
	res, err := m.Search(context.Background(), "po", "   ", "")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, "identifier is required", res.Message)
}

func TestSearchUnknownUploadType(t *testing.T) {
	m := NewMatcher(nil)
	res, err := m.Search(context.Background(), "returns", "X123", "")
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Contains(t, res.Message, "unknown upload type")
}
