// internal/scraper/engine_test.go
package scraper

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/valpere/SubScrapexter/internal/errors"
)

const fixturePath = "../archive/testdata/subscriptions.mhtml"

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	engine, err := NewEngine(opts)
	require.NoError(t, err)
	return engine
}

func TestNewEngine_Defaults(t *testing.T) {
	engine := newTestEngine(t, Options{})
	opts := engine.Options()
	assert.Equal(t, QualityComprehensive, opts.Quality)
	assert.Equal(t, "utf-8", opts.Encoding)
	assert.Equal(t, 1, opts.Workers)
	assert.Equal(t, DefaultDescriptionMaxLength, opts.DescriptionMaxLength)
	assert.NotNil(t, opts.Logger)
}

func TestNewEngine_InvalidQuality(t *testing.T) {
	_, err := NewEngine(Options{Quality: "thorough"})
	assert.ErrorIs(t, err, ErrInvalidQuality)
}

func TestEngine_Extract_Fixture(t *testing.T) {
	engine := newTestEngine(t, Options{Quality: QualityComprehensive})

	result, err := engine.Extract(context.Background(), fixturePath)
	require.NoError(t, err)
	require.False(t, result.Empty())

	assert.Equal(t, fixturePath, result.Source)
	assert.Equal(t, []ChannelRecord{
		{
			Name:               "Linus Tech Tips",
			Link:               "https://www.youtube.com/@LinusTechTips",
			Handle:             "LinusTechTips",
			ImageURL:           "https://yt3.googleusercontent.com/ltt=s176-c-k-c0x00ffffff-no-rj-mo",
			SubscriberCount:    "16.2M",
			SubscriberCountRaw: "16200000",
			Description:        `Linus Tech Tips is a passionate team of "professionally curious" experts.`,
		},
		{
			Name:               "Marques Brownlee (@mkbhd)",
			Link:               "https://www.youtube.com/@mkbhd",
			Handle:             "mkbhd",
			ImageURL:           "https://yt3.googleusercontent.com/mkbhd=s176-c-k-c0x00ffffff-no-rj-mo",
			SubscriberCount:    "19.6M",
			SubscriberCountRaw: "19600000",
			Description:        "Quality Tech videos & more. Since 2009.",
		},
		{
			Name:     "Tom Scott Archive",
			Link:     "https://www.youtube.com/@tom_scott-archive",
			Handle:   "tom_scott-archive",
			ImageURL: "https://yt3.googleusercontent.com/tom=s176-c-k-c0x00ffffff-no-rj-mo",
		},
	}, result.Channels)

	stats := result.Stats
	assert.Equal(t, 5, stats.Sections)
	assert.Equal(t, 1, stats.MissingIdentity)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Zero(t, stats.FailedFragments)
	assert.Equal(t, 4, stats.CatalogImages)
	assert.Equal(t, 1, stats.InlineImages)
	assert.Equal(t, 2, stats.BackfilledImages)
	assert.Zero(t, stats.LinkDuplicates)
}

func TestEngine_Extract_FixtureFast(t *testing.T) {
	engine := newTestEngine(t, Options{Quality: QualityFast})

	result, err := engine.Extract(context.Background(), fixturePath)
	require.NoError(t, err)
	require.Len(t, result.Channels, 3)

	assert.Equal(t, []string{"Linus Tech Tips", "Marques Brownlee (@mkbhd)", "Tom Scott Archive"}, names(result.Channels))
	for _, ch := range result.Channels {
		assert.Empty(t, ch.Description, ch.Name)
	}
	assert.NotEmpty(t, result.Channels[0].ImageURL, "inline image is kept in fast mode")
	assert.Empty(t, result.Channels[1].ImageURL)
	assert.Empty(t, result.Channels[2].ImageURL)
	assert.Zero(t, result.Stats.BackfilledImages)
}

func TestEngine_ParallelMatchesSequential(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 60; i++ {
		// every third section repeats an earlier handle
		handle := fmt.Sprintf("chan%02d", i)
		if i%3 == 2 {
			handle = fmt.Sprintf("chan%02d", i-2)
		}
		fmt.Fprintf(&b, `<ytd-channel-renderer><a href="https://www.youtube.com/@%s" title="Name %d @%s">`+
			`<span>%d.%dK subscribers</span></a></ytd-channel-renderer>`+"\n", handle, i, handle, i, i%10)
		if i%4 == 0 {
			fmt.Fprintf(&b, `Content-Location: https://yt3.googleusercontent.com/p%d=s176-c`+"\n", i)
		}
	}
	text := b.String()

	sequential, err := newTestEngine(t, Options{Workers: 1}).ExtractText(context.Background(), text)
	require.NoError(t, err)
	parallel, err := newTestEngine(t, Options{Workers: 8}).ExtractText(context.Background(), text)
	require.NoError(t, err)

	assert.Len(t, sequential.Channels, 40)
	assert.Equal(t, sequential.Channels, parallel.Channels)
	assert.Equal(t, sequential.Stats.Duplicates, parallel.Stats.Duplicates)
	assert.Equal(t, 20, parallel.Stats.Duplicates)

	for _, ch := range parallel.Channels {
		assert.NotContains(t, ch.Name, "Name 2 ", "duplicate section must not win")
	}
}

func TestEngine_FirstSeenWins(t *testing.T) {
	text := `<ytd-channel-renderer><a href="https://www.youtube.com/@dup" title="First @dup"></a></ytd-channel-renderer>` +
		`<ytd-channel-renderer><a href="https://www.youtube.com/@dup" title="Second @dup"><span>5K subscribers</span></a></ytd-channel-renderer>` +
		`<ytd-channel-renderer><a href="https://www.youtube.com/@other"></a></ytd-channel-renderer>`

	result, err := newTestEngine(t, Options{}).ExtractText(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, result.Channels, 2)
	assert.Equal(t, "First @dup", result.Channels[0].Name)
	assert.Empty(t, result.Channels[0].SubscriberCount)
	assert.Equal(t, "Other", result.Channels[1].Name)
}

func TestEngine_TwoSectionRoundTrip(t *testing.T) {
	text := "Content-Location: https://yt3.googleusercontent.com/spare=s176-c\n" +
		`<ytd-channel-renderer><a href="https://www.youtube.com/@full_channel">` +
		`<img src="https://yt3.googleusercontent.com/full=s176-c">` +
		`<yt-formatted-string class="ytd-channel-name">Full Channel</yt-formatted-string>` +
		`<span id="video-count">2.5K subscribers</span>` +
		`<yt-formatted-string id="description">Everything about Go. Weekly.</yt-formatted-string>` +
		`</a></ytd-channel-renderer>` +
		`<ytd-channel-renderer><a href="https://www.youtube.com/@zz_minimal"></a></ytd-channel-renderer>`

	comprehensive, err := newTestEngine(t, Options{Quality: QualityComprehensive}).ExtractText(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, comprehensive.Channels, 2)

	full, minimal := comprehensive.Channels[0], comprehensive.Channels[1]
	assert.Equal(t, "Full Channel", full.Name)
	assert.Equal(t, "2500", full.SubscriberCountRaw)
	assert.Equal(t, "Everything about Go. Weekly.", full.Description)
	assert.Equal(t, "https://yt3.googleusercontent.com/full=s176-c", full.ImageURL)

	assert.Equal(t, "Zz Minimal", minimal.Name)
	assert.Empty(t, minimal.SubscriberCount)
	assert.Empty(t, minimal.SubscriberCountRaw)
	assert.Equal(t, "https://yt3.googleusercontent.com/spare=s176-c", minimal.ImageURL)

	fast, err := newTestEngine(t, Options{Quality: QualityFast}).ExtractText(context.Background(), text)
	require.NoError(t, err)
	require.Len(t, fast.Channels, 2)
	assert.Empty(t, fast.Channels[0].Description)
	assert.Empty(t, fast.Channels[1].ImageURL)
	assert.Equal(t, "Zz Minimal", fast.Channels[1].Name)
}

func TestEngine_NoSections(t *testing.T) {
	result, err := newTestEngine(t, Options{}).ExtractText(context.Background(), "<html><body>empty</body></html>")
	require.NoError(t, err)
	assert.True(t, result.Empty())
	assert.NotNil(t, result.Channels)
	assert.Zero(t, result.Stats.Sections)
}

func TestEngine_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	text := `<ytd-channel-renderer><a href="https://www.youtube.com/@a"></a></ytd-channel-renderer>`
	for _, workers := range []int{1, 4} {
		_, err := newTestEngine(t, Options{Workers: workers}).ExtractText(ctx, text)
		assert.ErrorIs(t, err, context.Canceled, "workers=%d", workers)
	}
}

func TestEngine_Extract_MissingFile(t *testing.T) {
	_, err := newTestEngine(t, Options{}).Extract(context.Background(), filepath.Join(t.TempDir(), "missing.mhtml"))
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInput))
}

func TestEngine_MergeFailedFragmentStillClaimsHandle(t *testing.T) {
	engine := newTestEngine(t, Options{})
	failure := fmt.Errorf("%w: boom", ErrFragmentFailed)
	outcomes := []outcome{
		{},
		{found: true, record: ChannelRecord{Name: "Broken", Link: "l1", Handle: "h1"}, err: failure},
		{found: true, record: ChannelRecord{Name: "Later", Link: "l1", Handle: "h1"}},
		{found: true, record: ChannelRecord{Name: "Fine", Link: "l2", Handle: "h2", ImageURL: "img"}},
	}

	var stats Stats
	state := NewRunState()
	records := engine.merge(outcomes, state, &stats)

	require.Len(t, records, 1)
	assert.Equal(t, "Fine", records[0].Name)
	assert.Equal(t, 1, stats.MissingIdentity)
	assert.Equal(t, 1, stats.FailedFragments)
	assert.Equal(t, 1, stats.Duplicates)
	assert.Equal(t, 1, stats.InlineImages)
	assert.True(t, state.ImageUsed("img"))
}
