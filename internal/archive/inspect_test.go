// internal/archive/inspect_test.go
package archive

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/valpere/SubScrapexter/internal/errors"
)

func TestInspect_Fixture(t *testing.T) {
	report, err := Inspect(fixturePath)
	require.NoError(t, err)

	assert.Equal(t, fixturePath, report.Path)
	assert.Equal(t, "Subscriptions - YouTube", report.Subject)
	assert.Equal(t, "https://www.youtube.com/feed/channels", report.SnapshotLocation)
	assert.Equal(t, "Subscriptions - YouTube", report.PageTitle)

	assert.Equal(t, 4, report.TotalParts)
	assert.Equal(t, 3, report.ProfileImages)
	assert.Equal(t, 5, report.Renderers)
	assert.Equal(t, 3, report.ChannelLinks)
	assert.Positive(t, report.HTMLBytes)
	assert.True(t, report.LooksLikeSubscriptions())

	require.NotEmpty(t, report.Parts)
	assert.Equal(t, PartSummary{ContentType: "image/jpeg", Count: 3}, report.Parts[0])
	assert.Contains(t, report.Parts, PartSummary{ContentType: "text/html", Count: 1})
}

func TestInspectBytes_PlainPage(t *testing.T) {
	raw := []byte("Content-Type: text/html\r\n\r\n<html><head><title>Home</title></head><body><p>nothing here</p></body></html>\r\n")

	report, err := InspectBytes(raw)
	require.NoError(t, err)

	assert.Equal(t, "Home", report.PageTitle)
	assert.Equal(t, 1, report.TotalParts)
	assert.Zero(t, report.Renderers)
	assert.False(t, report.LooksLikeSubscriptions())
}

func TestInspect_MissingFile(t *testing.T) {
	_, err := Inspect(filepath.Join(t.TempDir(), "none.mhtml"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInput))
}

func TestSummarizeParts_Ordering(t *testing.T) {
	parts := summarizeParts(map[string]int{"text/css": 2, "image/png": 2, "text/html": 1, "image/jpeg": 5})
	assert.Equal(t, []PartSummary{
		{ContentType: "image/jpeg", Count: 5},
		{ContentType: "image/png", Count: 2},
		{ContentType: "text/css", Count: 2},
		{ContentType: "text/html", Count: 1},
	}, parts)
}
