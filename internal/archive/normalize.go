// internal/archive/normalize.go

// Package archive reads saved MHTML web archives and turns them into plain
// text suitable for pattern scanning.
package archive

import (
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"

	apperrors "github.com/valpere/SubScrapexter/internal/errors"
	"github.com/valpere/SubScrapexter/internal/pipeline"
)

// DefaultEncoding is the primary encoding tried when none is configured.
const DefaultEncoding = "utf-8"

// FallbackEncoding is used when the primary encoding cannot decode the input.
const FallbackEncoding = "iso-8859-1"

// unescapeRules undoes quoted-printable artifacts and HTML escaping. Order matters.
var unescapeRules = pipeline.TransformList{
	pipeline.Replace("=3D", "="),
	pipeline.Replace("=\n", ""),
	pipeline.Replace("=20", " "),
	pipeline.Replace("=2C", ","),
	pipeline.Replace("=22", `"`),
	pipeline.Replace("=2E", "."),
	pipeline.Replace("=E2=80=A2", "•"),
	pipeline.Replace("&amp;", "&"),
	{Type: pipeline.TransformHTMLUnescape},
}

// Document is a decoded and normalized archive.
type Document struct {
	Path     string
	Size     int64
	Encoding string
	Text     string
}

// Load reads path and normalizes its content.
func Load(path, encodingName string) (*Document, error) {
	raw, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	text, used := Decode(raw, encodingName)
	return &Document{
		Path:     path,
		Size:     int64(len(raw)),
		Encoding: used,
		Text:     Unescape(text),
	}, nil
}

// ReadFile reads the whole archive. Missing, non-regular and unreadable
// files are reported as input errors.
func ReadFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Input(err, "input file not found: %s", path)
		}
		return nil, apperrors.Input(err, "cannot access input file: %s", path)
	}
	if !info.Mode().IsRegular() {
		return nil, apperrors.Input(nil, "input path is not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.Input(err, "failed to read input file: %s", path)
	}
	return data, nil
}

// Normalize decodes raw bytes and unescapes the result.
func Normalize(raw []byte, encodingName string) string {
	text, _ := Decode(raw, encodingName)
	return Unescape(text)
}

// Decode converts raw bytes to text using the named encoding, falling back to
// ISO-8859-1 when the name is unknown or the decoder fails. UTF-8 input drops
// invalid byte sequences. Line endings are folded to LF. The returned name is
// the encoding actually used.
func Decode(raw []byte, encodingName string) (string, string) {
	if encodingName == "" {
		encodingName = DefaultEncoding
	}

	text, used, ok := decodeWith(raw, encodingName)
	if !ok {
		text, used, _ = decodeWith(raw, FallbackEncoding)
	}
	return foldLineEndings(text), used
}

func decodeWith(raw []byte, name string) (string, string, bool) {
	enc, err := htmlindex.Get(name)
	if err != nil {
		return "", "", false
	}
	canonical, err := htmlindex.Name(enc)
	if err != nil {
		canonical = strings.ToLower(name)
	}

	if canonical == "utf-8" {
		s := string(raw)
		if !utf8.ValidString(s) {
			s = strings.ToValidUTF8(s, "")
		}
		return s, canonical, true
	}

	// htmlindex maps iso-8859-1 to windows-1252, which leaves five bytes
	// undefined; use the real Latin-1 table so decoding cannot fail.
	if strings.EqualFold(name, FallbackEncoding) || strings.EqualFold(name, "latin1") {
		enc, canonical = charmap.ISO8859_1, FallbackEncoding
	}

	out, err := decodeBytes(enc, raw)
	if err != nil {
		return "", "", false
	}
	return strings.ToValidUTF8(out, ""), canonical, true
}

func decodeBytes(enc encoding.Encoding, raw []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func foldLineEndings(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Unescape undoes the quoted-printable and entity escaping found in saved
// archives: a fixed table of literal replacements followed by HTML entity
// unescaping.
func Unescape(text string) string {
	return unescapeRules.MustApply(text)
}
