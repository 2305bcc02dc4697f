// internal/errors/service.go - Error taxonomy and CLI rendering
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Error kinds. Wrap them with fmt.Errorf("...: %w", kind) or the helpers below
// and test with errors.Is.
var (
	ErrInput      = stderrors.New("input error")
	ErrConfig     = stderrors.New("configuration error")
	ErrOutput     = stderrors.New("output error")
	ErrNoChannels = stderrors.New("no channels found")
)

// Exit codes
const (
	ExitOK         = 0
	ExitGeneral    = 1
	ExitInput      = 2
	ExitConfig     = 3
	ExitOutput     = 5
	ExitNoChannels = 9
)

// kindError attaches a kind to an underlying cause so both match errors.Is.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.cause == nil {
		return e.msg
	}
	return fmt.Sprintf("%s: %v", e.msg, e.cause)
}

func (e *kindError) Unwrap() []error {
	if e.cause == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.cause}
}

func wrap(kind error, cause error, format string, args ...interface{}) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...), cause: cause}
}

// Input wraps cause as an input failure
func Input(cause error, format string, args ...interface{}) error {
	return wrap(ErrInput, cause, format, args...)
}

// Config wraps cause as a configuration failure
func Config(cause error, format string, args ...interface{}) error {
	return wrap(ErrConfig, cause, format, args...)
}

// Output wraps cause as a serialization failure
func Output(cause error, format string, args ...interface{}) error {
	return wrap(ErrOutput, cause, format, args...)
}

// Is is a convenience re-export of the standard errors.Is
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// Service converts errors into user-facing messages and exit codes
type Service struct {
	messageHandler *MessageHandler
}

// MessageHandler converts technical errors to user-friendly messages
type MessageHandler struct {
	showTechnical bool
}

// NewService creates a new error service
func NewService() *Service {
	return &Service{
		messageHandler: &MessageHandler{showTechnical: false},
	}
}

// WithVerbose enables technical error details
func (s *Service) WithVerbose(verbose bool) *Service {
	s.messageHandler.showTechnical = verbose
	return s
}

// GetUserFriendlyError converts technical errors to user-friendly messages
func (s *Service) GetUserFriendlyError(err error) (title, message string, suggestions []string) {
	if err == nil {
		return "", "", nil
	}

	switch {
	case stderrors.Is(err, ErrNoChannels):
		return "No Channels Found",
			"No channels were found in the MHTML file.",
			[]string{
				"Ensure the file is a complete MHTML/Web Archive from YouTube",
				"Check that your subscriptions are visible on YouTube",
				"Try re-exporting the file with a different browser",
			}

	case stderrors.Is(err, ErrInput):
		return "Input File Error",
			"The input file could not be read.",
			[]string{
				"Check that the path points to an existing file",
				"Verify you have permission to read the file",
				"Try a different --encoding if the file is not UTF-8",
			}

	case stderrors.Is(err, ErrConfig):
		errStr := strings.ToLower(err.Error())
		if strings.Contains(errStr, "yaml") {
			return "Configuration Error",
				"The configuration file has invalid YAML syntax.",
				[]string{
					"Check YAML indentation (use spaces, not tabs)",
					"Ensure proper quoting of string values",
					"Run 'subscrapexter template' to see a valid configuration",
				}
		}
		return "Configuration Error",
			"The configuration is invalid.",
			[]string{
				"Check the --quality and --format values",
				"Run 'subscrapexter template' to see a valid configuration",
			}

	case stderrors.Is(err, ErrOutput):
		return "Output Error",
			"The results could not be written.",
			[]string{
				"Check that the output directory is writable",
				"Make sure there is enough free disk space",
				"Choose a different --output path",
			}
	}

	return "Unexpected Error",
		"An unexpected error occurred during the operation.",
		[]string{
			"Try running the command again with --verbose",
			"Check your configuration file",
		}
}

// GetExitCode returns appropriate exit code for error
func (s *Service) GetExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case stderrors.Is(err, ErrNoChannels):
		return ExitNoChannels
	case stderrors.Is(err, ErrInput):
		return ExitInput
	case stderrors.Is(err, ErrConfig):
		return ExitConfig
	case stderrors.Is(err, ErrOutput):
		return ExitOutput
	default:
		return ExitGeneral
	}
}

// FormatErrorForCLI formats error for command-line display
func (s *Service) FormatErrorForCLI(err error) string {
	title, message, suggestions := s.GetUserFriendlyError(err)

	var b strings.Builder
	fmt.Fprintf(&b, "❌ %s\n%s\n", title, message)

	if s.messageHandler.showTechnical {
		fmt.Fprintf(&b, "\nTechnical details: %s\n", err.Error())
	}

	if len(suggestions) > 0 {
		b.WriteString("\n💡 Troubleshooting tips:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, suggestion)
		}
	}

	return b.String()
}
