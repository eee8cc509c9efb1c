package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/tui/theme"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr.
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err and returns it unchanged.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	prefix := theme.RenderStatus("error", theme.IconError)

	kerr, _ := errors.AsKakapo(err)
	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(h.Out, "%s Configuration not found. Run 'kakapo config schema' to see the format.\n", prefix)

	case errors.ErrCodeConfigInvalid, errors.ErrCodeConfigValidation:
		fmt.Fprintf(h.Out, "%s %s\n", prefix, kerr.Message)
		fmt.Fprintf(h.Out, "Check it with 'kakapo config validate'.\n")

	case errors.ErrCodeFetchFailed:
		fmt.Fprintf(h.Out, "%s Could not fetch the sound catalog from %v\n", prefix, kerr.Details["url"])
		fmt.Fprintf(h.Out, "Check catalog.url in kakapo.yml or your network connection.\n")

	case errors.ErrCodeInitPending:
		fmt.Fprintf(h.Out, "%s A catalog fetch is already running. Try again when it finishes.\n", prefix)

	case errors.ErrCodeSoundNotFound:
		fmt.Fprintf(h.Out, "%s Sound '%v' is not in the collection\n", prefix, kerr.Details["id"])
		fmt.Fprintf(h.Out, "Run 'kakapo list' to see available sounds.\n")

	case errors.ErrCodeStorageFailed, errors.ErrCodeStorageUnsupported:
		fmt.Fprintf(h.Out, "%s Storage error: %s\n", prefix, kerr.Message)

	case errors.ErrCodeDaemonUnavailable:
		fmt.Fprintf(h.Out, "%s The kakapo daemon is not responding. Start it with 'kakapo serve'.\n", prefix)

	default:
		fmt.Fprintf(h.Out, "%s Error: %v\n", prefix, err)
	}

	if h.Verbose && kerr != nil {
		fmt.Fprintf(h.Out, "\nError details:\n%s\n", kerr.ToJSON())
	}
	return err
}
