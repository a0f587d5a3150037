package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how results are rendered
type Format int

const (
	// FormatAuto picks FormatTerminal or FormatText from the output
	FormatAuto Format = iota
	// FormatTerminal renders rich terminal output with colors and styling
	FormatTerminal
	// FormatText renders plain text output without any styling
	FormatText
	// FormatJSON renders machine-readable JSON output
	FormatJSON
	// FormatJUnit renders scan results as a JUnit XML report for CI
	FormatJUnit
)

var formatNames = []string{"auto", "term", "text", "json", "junit"}

var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
	"xml":      FormatJUnit,
}

func (f Format) String() string {
	if int(f) < 0 || int(f) >= len(formatNames) {
		return "unknown"
	}
	return formatNames[f]
}

// FormatNames lists the canonical format names.
func FormatNames() []string {
	return append([]string(nil), formatNames...)
}

// ParseFormat parses a format name or alias, case-insensitively
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(s)
	for i, name := range formatNames {
		if s == name {
			return Format(i), nil
		}
	}
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	return FormatAuto, fmt.Errorf("unknown format: %s", s)
}

// Interactive reports whether output in this format may carry terminal
// decorations such as progress bars.
func (f Format) Interactive() bool {
	return f == FormatAuto || f == FormatTerminal
}

// IsTerminal reports whether file is an interactive terminal.
func IsTerminal(file *os.File) bool {
	return isatty.IsTerminal(file.Fd()) || isatty.IsCygwinTerminal(file.Fd())
}

// DetectFormat picks FormatTerminal for color terminals and FormatText for
// everything else, including NO_COLOR.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" || !IsTerminal(output) {
		return FormatText
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}
