// Package ui turns command results into output. Results are the types in
// pkg/ui/display plus auditor.Explanation; each Format has its own renderer
// package.
package ui

import (
	"io"
	"os"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/ui/json"
	"github.com/arthur-debert/assetaudit/pkg/ui/junit"
	"github.com/arthur-debert/assetaudit/pkg/ui/terminal"
	"github.com/arthur-debert/assetaudit/pkg/ui/text"
)

// Renderer writes results, errors and one-line messages.
type Renderer interface {
	RenderResult(result interface{}) error
	RenderError(err error) error
	RenderMessage(msg string) error
}

// Resolve replaces FormatAuto with the concrete format for output: files
// are probed with DetectFormat, any other writer gets FormatTerminal.
func Resolve(format Format, output io.Writer) Format {
	if format != FormatAuto {
		return format
	}
	if file, ok := output.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatTerminal
}

// NewRenderer creates the renderer for format writing to output.
func NewRenderer(format Format, output io.Writer) (Renderer, error) {
	switch Resolve(format, output) {
	case FormatTerminal:
		return terminal.New(output), nil
	case FormatText:
		return text.New(output), nil
	case FormatJSON:
		return json.New(output), nil
	case FormatJUnit:
		return junit.New(output), nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "unknown format: %v", format)
}
