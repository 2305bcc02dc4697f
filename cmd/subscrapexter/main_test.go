// cmd/subscrapexter/main_test.go
package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valpere/SubScrapexter/internal/config"
	apperrors "github.com/valpere/SubScrapexter/internal/errors"
)

const fixturePath = "../../internal/archive/testdata/subscriptions.mhtml"

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func TestExtract_CSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "channels.csv")

	res := runCLI(t, "extract", fixturePath, "-o", out)
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Extraction Results")
	assert.Contains(t, res.stdout, "Total channels")
	assert.Contains(t, res.stdout, out)
	assert.NotContains(t, res.stdout, "First 3 Channels")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\r\n"), "\r\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "ChannelName,ChannelLink,ChannelImage,SubscriberCount,SubsCountRaw,ChannelDescription", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Linus Tech Tips,https://www.youtube.com/@LinusTechTips,"))
}

func TestExtract_VerboseJSONWithMetrics(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "exports", "today")
	metricsFile := filepath.Join(dir, "run.prom")

	res := runCLI(t, "extract", fixturePath,
		"-o", "channels.json",
		"--output-dir", outDir,
		"--workers", "4",
		"--metrics-file", metricsFile,
		"-v")
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Run Statistics")
	assert.Contains(t, res.stdout, "First 3 Channels")
	assert.Contains(t, res.stdout, "Marques Brownlee (@mkbhd)")
	assert.Contains(t, res.stderr, "DEBUG")

	data, err := os.ReadFile(filepath.Join(outDir, "channels.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"total_channels": 3`)
	assert.Contains(t, string(data), `"extractor_version": "`+version+`"`)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "subscrapexter_extractor_channels_extracted 3")
	assert.Contains(t, string(prom), `subscrapexter_extractor_runs_total{status="success"} 1`)
}

func TestExtract_NoChannels(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "empty.mhtml")
	require.NoError(t, os.WriteFile(input, []byte("<html><body>No subscriptions here</body></html>"), 0o644))
	out := filepath.Join(dir, "channels.csv")
	metricsFile := filepath.Join(dir, "run.prom")

	res := runCLI(t, "extract", input, "-o", out, "--metrics-file", metricsFile)
	assert.Equal(t, apperrors.ExitNoChannels, res.code)
	assert.Contains(t, res.stderr, "No Channels Found")
	assert.Contains(t, res.stderr, "Troubleshooting tips")

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), `subscrapexter_extractor_runs_total{status="empty"} 1`)
}

func TestExtract_ExitCodes(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing input", []string{"extract", filepath.Join(dir, "missing.mhtml"), "-o", filepath.Join(dir, "a.csv")}, apperrors.ExitInput},
		{"bad format", []string{"extract", fixturePath, "-o", filepath.Join(dir, "b.csv"), "-f", "pdf"}, apperrors.ExitConfig},
		{"bad quality", []string{"extract", fixturePath, "--quality", "thorough"}, apperrors.ExitConfig},
		{"unknown flag", []string{"extract", fixturePath, "--bogus"}, apperrors.ExitConfig},
		{"missing argument", []string{"extract"}, apperrors.ExitConfig},
		{"missing config file", []string{"extract", fixturePath, "-c", filepath.Join(dir, "none.yaml")}, apperrors.ExitConfig},
		{"missing output parent", []string{"extract", fixturePath, "-o", filepath.Join(dir, "no", "such", "c.csv")}, apperrors.ExitOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCLI(t, tt.args...)
			assert.Equal(t, tt.code, res.code, res.stderr)
		})
	}
}

func TestExtract_VerboseShowsTechnicalDetails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.mhtml")

	quiet := runCLI(t, "extract", missing)
	assert.NotContains(t, quiet.stderr, "Technical details")

	loud := runCLI(t, "extract", missing, "--verbose")
	assert.Contains(t, loud.stderr, "Technical details")
}

// resolveConfig parses extract flags without running the command
func resolveConfig(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	a := newApp(io.Discard, io.Discard)
	cmd, rest, err := a.rootCommand().Find(append([]string{"extract"}, args...))
	require.NoError(t, err)
	require.NoError(t, cmd.ParseFlags(rest))
	return a.loadConfig(cmd, extractFlags)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := resolveConfig(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subscrapexter.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
extractor:
  quality: fast
  workers: 3
output:
  file: from-file.json
logging:
  level: debug
`), 0o644))

	t.Setenv("SUBSCRAPEXTER_EXTRACTOR_WORKERS", "5")
	t.Setenv("SUBSCRAPEXTER_OUTPUT_FILE", "from-env.yaml")

	cfg, err := resolveConfig(t, "-c", path, "-o", "from-flag.xml")
	require.NoError(t, err)

	assert.Equal(t, "fast", cfg.Extractor.Quality, "file beats defaults")
	assert.Equal(t, 5, cfg.Extractor.Workers, "env beats file")
	assert.Equal(t, "from-flag.xml", cfg.Output.File, "flag beats env")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "utf-8", cfg.Extractor.Encoding)
}

func TestLoadConfig_InvalidEnv(t *testing.T) {
	t.Setenv("SUBSCRAPEXTER_EXTRACTOR_QUALITY", "thorough")

	_, err := resolveConfig(t)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrConfig))
}

func TestInspect(t *testing.T) {
	res := runCLI(t, "inspect", fixturePath)
	require.Equal(t, 0, res.code, res.stderr)

	assert.Contains(t, res.stdout, "Channel renderers")
	assert.Contains(t, res.stdout, "Subscriptions - YouTube")
	assert.Contains(t, res.stdout, "text/html")
	assert.Contains(t, res.stdout, "looks like a YouTube subscriptions page")

	res = runCLI(t, "inspect", filepath.Join(t.TempDir(), "missing.mhtml"))
	assert.Equal(t, apperrors.ExitInput, res.code)
}

func TestTemplate(t *testing.T) {
	res := runCLI(t, "template")
	require.Equal(t, 0, res.code, res.stderr)

	cfg, err := config.LoadFromBytes([]byte(res.stdout))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestVersion(t *testing.T) {
	version = "test-version"
	buildTime = "2025-06-23"
	gitCommit = "abc123"
	t.Cleanup(func() {
		version, buildTime, gitCommit = "1.1.0", "unknown", "unknown"
	})

	for _, args := range [][]string{{"version"}, {"--version"}} {
		res := runCLI(t, args...)
		require.Equal(t, 0, res.code, res.stderr)
		assert.Contains(t, res.stdout, "test-version")
		assert.Contains(t, res.stdout, "2025-06-23")
		assert.Contains(t, res.stdout, "abc123")
	}
}

func TestHelp(t *testing.T) {
	res := runCLI(t, "--help")
	require.Equal(t, 0, res.code)

	for _, cmd := range []string{"extract", "inspect", "template", "version"} {
		assert.Contains(t, res.stdout, cmd)
	}
}
