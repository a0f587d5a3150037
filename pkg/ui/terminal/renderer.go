// Package terminal provides rich terminal output with colors and styling
package terminal

import (
	"io"

	"github.com/arthur-debert/assetaudit/pkg/ui/styles"
	"github.com/arthur-debert/assetaudit/pkg/ui/text"
)

// Renderer is the text renderer with the lipgloss style sheet applied.
type Renderer struct {
	*text.Renderer
}

// New creates a new terminal renderer
func New(w io.Writer) *Renderer {
	return &Renderer{Renderer: text.NewStyled(w, styles.Render)}
}
