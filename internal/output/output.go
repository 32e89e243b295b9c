package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/gubarz/regionfold/internal/folding"
)

// ============================================================================
// Clipboard Interface
// ============================================================================

// Clipboard defines the interface for clipboard operations
type Clipboard interface {
	Copy(text string) error
}

// systemClipboard implements Clipboard with the platform clipboard
type systemClipboard struct{}

// Copy copies text to the system clipboard
func (c *systemClipboard) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("no clipboard utility available")
	}
	return clipboard.WriteAll(text)
}

// ============================================================================
// Results
// ============================================================================

// Result is the set of ranges computed for one document
type Result struct {
	Path   string          `json:"path,omitempty"`
	Ranges []folding.Range `json:"ranges"`
}

// ============================================================================
// Writer
// ============================================================================

// Mode represents how results are emitted
type Mode string

const (
	ModePrint Mode = "print"
	ModeJSON  Mode = "json"
	ModeCopy  Mode = "copy"
	ModeView  Mode = "view"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModePrint, ModeJSON, ModeCopy, ModeView:
		return m, nil
	case "":
		return ModePrint, nil
	default:
		return "", fmt.Errorf("unsupported output mode: %s (supported: print, json, copy, view)", s)
	}
}

// Writer emits results to stdout or the clipboard
type Writer struct {
	out       io.Writer
	clipboard Clipboard
}

// NewWriter creates a writer on stdout
func NewWriter() *Writer {
	return &Writer{
		out:       os.Stdout,
		clipboard: &systemClipboard{},
	}
}

// WithClipboard sets a custom clipboard implementation (useful for testing)
func (w *Writer) WithClipboard(c Clipboard) *Writer {
	w.clipboard = c
	return w
}

// WithOutput sets the destination for print and json modes
func (w *Writer) WithOutput(out io.Writer) *Writer {
	w.out = out
	return w
}

// Write emits results in the given mode. ModeView is handled by the viewer
// and is rejected here.
func (w *Writer) Write(results []Result, mode Mode) error {
	switch mode {
	case ModeJSON:
		enc := json.NewEncoder(w.out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case ModeCopy:
		return w.clipboard.Copy(FormatText(results))
	case ModeView:
		return fmt.Errorf("view mode needs a terminal viewer")
	default: // print
		_, err := io.WriteString(w.out, FormatText(results))
		return err
	}
}

// FormatText renders one range per line as "start-end", prefixed with
// "path:" when more than one document is present
func FormatText(results []Result) string {
	var b strings.Builder
	withPath := len(results) > 1
	for _, r := range results {
		for _, rng := range r.Ranges {
			if withPath {
				b.WriteString(r.Path)
				b.WriteByte(':')
			}
			fmt.Fprintf(&b, "%d-%d\n", rng.StartLine, rng.EndLine)
		}
	}
	return b.String()
}
