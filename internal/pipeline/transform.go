// internal/pipeline/transform.go
package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/valpere/SubScrapexter/internal/utils"
)

// Transform rule types
const (
	TransformTrim            = "trim"
	TransformNormalizeSpaces = "normalize_spaces"
	TransformLowercase       = "lowercase"
	TransformUppercase       = "uppercase"
	TransformTitle           = "title"
	TransformWordTitle       = "word_title"
	TransformReplace         = "replace"
	TransformRegex           = "regex"
	TransformHTMLUnescape    = "html_unescape"
	TransformTruncate        = "truncate"
)

// TransformRule defines a single transformation rule
type TransformRule struct {
	Type        string                 `yaml:"type" json:"type"`
	Pattern     string                 `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Replacement string                 `yaml:"replacement,omitempty" json:"replacement,omitempty"`
	Params      map[string]interface{} `yaml:"params,omitempty" json:"params,omitempty"`
}

// TransformList represents a list of transformation rules that can be applied sequentially
type TransformList []TransformRule

// Replace builds a literal substring replacement rule
func Replace(old, new string) TransformRule {
	return TransformRule{Type: TransformReplace, Params: map[string]interface{}{"old": old, "new": new}}
}

// Truncate builds a rule that keeps at most n runes
func Truncate(n int) TransformRule {
	return TransformRule{Type: TransformTruncate, Params: map[string]interface{}{"length": n}}
}

// Apply applies all transformation rules in sequence to the input string
func (tl TransformList) Apply(ctx context.Context, input string) (string, error) {
	result := input
	for i, rule := range tl {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		var err error
		result, err = rule.Apply(ctx, result)
		if err != nil {
			return "", fmt.Errorf("transform rule %d failed: %w", i, err)
		}
	}
	return result, nil
}

// MustApply applies the list and panics on error. Only use it with lists
// that cannot fail, i.e. ones passing ValidateTransformRules.
func (tl TransformList) MustApply(input string) string {
	out, err := tl.Apply(context.Background(), input)
	if err != nil {
		panic(err)
	}
	return out
}

// Apply applies a single transformation rule to the input string
func (tr TransformRule) Apply(ctx context.Context, input string) (string, error) {
	switch tr.Type {
	case TransformTrim:
		return strings.TrimSpace(input), nil

	case TransformNormalizeSpaces:
		return utils.CollapseWhitespace(strings.TrimSpace(input)), nil

	case TransformLowercase:
		return strings.ToLower(input), nil

	case TransformUppercase:
		return strings.ToUpper(input), nil

	case TransformTitle:
		return cases.Title(language.Und).String(input), nil

	case TransformWordTitle:
		return wordTitle(input), nil

	case TransformHTMLUnescape:
		return html.UnescapeString(input), nil

	case TransformRegex:
		if tr.Pattern == "" {
			return "", fmt.Errorf("regex pattern is required")
		}
		re, err := regexp.Compile(tr.Pattern)
		if err != nil {
			return "", fmt.Errorf("invalid regex pattern: %w", err)
		}
		return re.ReplaceAllString(input, tr.Replacement), nil

	case TransformReplace:
		if tr.Params == nil || tr.Params["old"] == nil || tr.Params["new"] == nil {
			return "", fmt.Errorf("replace requires old and new parameters")
		}
		old := fmt.Sprintf("%v", tr.Params["old"])
		new := fmt.Sprintf("%v", tr.Params["new"])
		return strings.ReplaceAll(input, old, new), nil

	case TransformTruncate:
		n, err := intParam(tr.Params, "length")
		if err != nil {
			return "", fmt.Errorf("truncate: %w", err)
		}
		return utils.TruncateRunes(input, n), nil

	default:
		return "", fmt.Errorf("unknown transform type: %s", tr.Type)
	}
}

// wordTitle upper-cases every letter that follows a non-letter and
// lower-cases the rest, so digits and punctuation start a new word.
func wordTitle(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				r = unicode.ToLower(r)
			} else {
				r = unicode.ToTitle(r)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

func intParam(params map[string]interface{}, key string) (int, error) {
	if params == nil || params[key] == nil {
		return 0, fmt.Errorf("%s parameter is required", key)
	}
	switch v := params[key].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer: %w", key, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer, got %T", key, v)
	}
}

// ValidateTransformRules checks that every rule is well-formed
func ValidateTransformRules(rules TransformList) error {
	for i, rule := range rules {
		switch rule.Type {
		case TransformTrim, TransformNormalizeSpaces, TransformLowercase,
			TransformUppercase, TransformTitle, TransformWordTitle, TransformHTMLUnescape:
		case TransformRegex:
			if rule.Pattern == "" {
				return fmt.Errorf("rule %d: regex pattern is required", i)
			}
			if _, err := regexp.Compile(rule.Pattern); err != nil {
				return fmt.Errorf("rule %d: invalid regex pattern: %w", i, err)
			}
		case TransformReplace:
			if rule.Params == nil || rule.Params["old"] == nil || rule.Params["new"] == nil {
				return fmt.Errorf("rule %d: replace requires old and new parameters", i)
			}
		case TransformTruncate:
			if _, err := intParam(rule.Params, "length"); err != nil {
				return fmt.Errorf("rule %d: %w", i, err)
			}
		default:
			return fmt.Errorf("rule %d: unknown transform type: %s", i, rule.Type)
		}
	}
	return nil
}
