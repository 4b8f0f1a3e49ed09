package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Veraticus/audience-scope/internal/common"
)

// Output selects how results are written.
type Output string

// Supported outputs.
const (
	OutputText Output = "text"
	OutputJSON Output = "json"
)

// ParseOutput validates an output name. An empty name means text.
func ParseOutput(s string) (Output, error) {
	switch Output(strings.ToLower(strings.TrimSpace(s))) {
	case "", OutputText:
		return OutputText, nil
	case OutputJSON:
		return OutputJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown output %q (want text or json)", common.ErrInvalidInput, s)
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

// Write renders v as JSON for OutputJSON, or writes text otherwise.
func Write(w io.Writer, out Output, text string, v any) error {
	if out == OutputJSON {
		return WriteJSON(w, v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
