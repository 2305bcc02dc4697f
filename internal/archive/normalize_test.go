// internal/archive/normalize_test.go
package archive

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/valpere/SubScrapexter/internal/errors"
	"github.com/valpere/SubScrapexter/internal/pipeline"
)

const fixturePath = "testdata/subscriptions.mhtml"

func TestUnescapeRulesAreValid(t *testing.T) {
	assert.NoError(t, pipeline.ValidateTransformRules(unescapeRules))
}

func TestUnescape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"equals sign", `href=3D"x"`, `href="x"`},
		{"soft line break", "Linus Tech=\n Tips", "Linus Tech Tips"},
		{"soft break after equals escape", "class=\n=3D\"a\"", `class="a"`},
		{"space comma quote dot", "a=20b=2Cc=22d=2E", `a b,c"d.`},
		{"bullet", "@mkbhd =E2=80=A2 1M", "@mkbhd • 1M"},
		{"ampersand", "Tech &amp; more", "Tech & more"},
		{"double escaped ampersand", "&amp;quot;", `"`},
		{"entities", "&quot;curious&quot; &lt;b&gt;", `"curious" <b>`},
		{"plain text untouched", "Subscriptions", "Subscriptions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Unescape(tt.input))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("utf-8 passes through", func(t *testing.T) {
		text, used := Decode([]byte("Café"), "utf-8")
		assert.Equal(t, "Café", text)
		assert.Equal(t, "utf-8", used)
	})

	t.Run("empty name means utf-8", func(t *testing.T) {
		_, used := Decode([]byte("abc"), "")
		assert.Equal(t, "utf-8", used)
	})

	t.Run("invalid utf-8 bytes are dropped", func(t *testing.T) {
		text, used := Decode([]byte{'a', 0xff, 'b'}, "utf-8")
		assert.Equal(t, "ab", text)
		assert.Equal(t, "utf-8", used)
	})

	t.Run("latin-1 decodes every byte", func(t *testing.T) {
		text, used := Decode([]byte{'C', 'a', 'f', 0xe9, 0x81}, "iso-8859-1")
		assert.Equal(t, "Café\u0081", text)
		assert.Equal(t, FallbackEncoding, used)
	})

	t.Run("unknown encoding falls back to latin-1", func(t *testing.T) {
		text, used := Decode([]byte{'C', 'a', 'f', 0xe9}, "no-such-charset")
		assert.Equal(t, "Café", text)
		assert.Equal(t, FallbackEncoding, used)
	})

	t.Run("line endings are folded", func(t *testing.T) {
		text, _ := Decode([]byte("a=\r\nb\rc\r\n"), "utf-8")
		assert.Equal(t, "a=\nb\nc\n", text)
	})
}

func TestNormalize_CRLFSoftBreaks(t *testing.T) {
	raw := []byte("<a href=3D\"https://www.youtube.com/=\r\n@handle\">")
	assert.Equal(t, `<a href="https://www.youtube.com/@handle">`, Normalize(raw, "utf-8"))
}

func TestLoad(t *testing.T) {
	doc, err := Load(fixturePath, "")
	require.NoError(t, err)

	assert.Equal(t, fixturePath, doc.Path)
	assert.Equal(t, "utf-8", doc.Encoding)
	assert.Positive(t, doc.Size)

	assert.Contains(t, doc.Text, `href="https://www.youtube.com/@LinusTechTips"`)
	assert.Contains(t, doc.Text, `src="https://yt3.googleusercontent.com/ltt=s176-c-k-c0x00ffffff-no-rj-mo"`)
	assert.Contains(t, doc.Text, "@mkbhd • 19.6M subscribers")
	assert.Contains(t, doc.Text, "Quality Tech videos & more. Since 2009.")
	assert.Contains(t, doc.Text, `team of "professionally curious" experts.`)
	assert.NotContains(t, doc.Text, "=3D")
	assert.NotContains(t, doc.Text, "\r")
}

func TestReadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(dir, "missing.mhtml"))
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInput))
		assert.Contains(t, err.Error(), "input file not found")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := ReadFile(dir)
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.ErrInput))
		assert.Contains(t, err.Error(), "not a file")
	})

	t.Run("load propagates input error", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.mhtml"), "utf-8")
		assert.True(t, apperrors.Is(err, apperrors.ErrInput))
	})
}

func TestLoad_Latin1File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin1.mhtml")
	content := append([]byte("<title>Abonnements "), 0xe0, ' ', 'l', 'a', ' ', 'u', 'n', 'e')
	content = append(content, []byte("</title>\n")...)
	require.NoError(t, os.WriteFile(path, content, 0o644))

	doc, err := Load(path, "latin1")
	require.NoError(t, err)
	assert.Equal(t, FallbackEncoding, doc.Encoding)
	assert.Contains(t, doc.Text, "Abonnements à la une")
}
