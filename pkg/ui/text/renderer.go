// Package text provides plain text output without any styling. The
// terminal renderer reuses it with a styling function.
package text

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/auditor"
	"github.com/arthur-debert/assetaudit/pkg/compare"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/arthur-debert/assetaudit/pkg/ui/display"
	"github.com/charmbracelet/lipgloss"
)

// Paint applies the named style to s.
type Paint func(style, s string) string

func plain(_ string, s string) string { return s }

const (
	markOK   = "✓"
	markFail = "✗"
	indent   = "  "
)

// Renderer writes results as text.
type Renderer struct {
	out   io.Writer
	paint Paint
}

// New creates a plain text renderer
func New(w io.Writer) *Renderer {
	return &Renderer{out: w, paint: plain}
}

// NewStyled creates a text renderer that styles its output with paint.
func NewStyled(w io.Writer, paint Paint) *Renderer {
	return &Renderer{out: w, paint: paint}
}

// RenderResult renders a result as text
func (r *Renderer) RenderResult(result interface{}) error {
	var b strings.Builder
	switch v := result.(type) {
	case *display.ScanReport:
		r.scan(&b, v)
	case *display.RuleList:
		r.ruleList(&b, v)
	case *display.RuleSaved:
		fmt.Fprintf(&b, "Rule %s %s.\n", r.paint("RuleName", v.Rule.Name), v.Action)
		r.ruleLine(&b, v.Rule, v.ReferencePath)
	case *display.PropertyList:
		fmt.Fprintf(&b, "%s\n", r.paint("Header", v.Kind.String()+" properties"))
		for _, n := range v.Names {
			fmt.Fprintf(&b, "%s%s\n", indent, n)
		}
	case *display.FixReport:
		r.fix(&b, v)
	case *auditor.Explanation:
		r.explain(&b, v)
	default:
		fmt.Fprintf(&b, "%+v\n", result)
	}
	_, err := io.WriteString(r.out, b.String())
	return err
}

// RenderError renders an error as text
func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.out, "%s %v\n", r.paint("Error", "Error:"), err)
	return werr
}

// RenderMessage renders a simple message
func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.out, msg)
	return err
}

func (r *Renderer) describeRule(rule types.Rule) string {
	s := fmt.Sprintf("%s %q, %s", rule.MatchType, rule.Pattern, rule.AssetKind)
	if rule.SelectiveMode {
		s += ", selective: " + strings.Join(rule.SelectiveProperties, ", ")
	}
	return s
}

func (r *Renderer) scan(b *strings.Builder, rep *display.ScanReport) {
	fmt.Fprintf(b, "%s %s\n", r.paint("RuleName", rep.Rule.Name), r.paint("Muted", "("+r.describeRule(rep.Rule)+")"))
	if rep.Filter != "" {
		fmt.Fprintf(b, "%s\n", r.paint("Muted", fmt.Sprintf("filter: %q", rep.Filter)))
	}

	for _, row := range rep.Assets {
		pad := strings.Repeat(indent, row.Depth)
		if !row.IsAsset {
			fmt.Fprintf(b, "%s%s\n", pad, r.paint("Folder", row.Name+"/"))
			continue
		}
		if row.Conforms {
			fmt.Fprintf(b, "%s%s %s", pad, r.paint("Conforming", markOK), row.Name)
		} else {
			fmt.Fprintf(b, "%s%s %s", pad, r.paint("NonConforming", markFail), r.paint("NonConforming", row.Name))
		}
		if rep.Filter != "" {
			fmt.Fprintf(b, "  %s", r.paint("FilePath", row.Path))
		}
		b.WriteString("\n")
		for _, d := range row.Differences {
			fmt.Fprintf(b, "%s%s%s\n", pad, indent, r.paint("Difference", d))
		}
	}

	s := rep.Summary
	summary := fmt.Sprintf("%d assets: %d conforming, %d non-conforming", s.Assets, s.Conforming, s.NonConforming)
	if s.NonConforming == 0 {
		summary = r.paint("Success", summary)
	} else {
		summary = r.paint("Warning", summary)
	}
	fmt.Fprintf(b, "\n%s\n", summary)
}

func (r *Renderer) ruleList(b *strings.Builder, list *display.RuleList) {
	if len(list.Rules) == 0 {
		b.WriteString("No rules defined.\n")
		return
	}
	width := 0
	for _, row := range list.Rules {
		if w := lipgloss.Width(row.Name); w > width {
			width = w
		}
	}
	for _, row := range list.Rules {
		name := row.Name + strings.Repeat(" ", width-lipgloss.Width(row.Name))
		fmt.Fprintf(b, "%s  %s", r.paint("RuleName", name), r.describeRule(row.Rule))
		switch {
		case row.ReferenceMissing:
			fmt.Fprintf(b, "  %s", r.paint("Error", "reference missing"))
		case row.ReferencePath != "":
			fmt.Fprintf(b, "  %s", r.paint("FilePath", row.ReferencePath))
		}
		b.WriteString("\n")
	}
}

func (r *Renderer) ruleLine(b *strings.Builder, rule types.Rule, ref string) {
	fmt.Fprintf(b, "%s%s\n", indent, r.describeRule(rule))
	if ref != "" {
		fmt.Fprintf(b, "%sreference: %s\n", indent, r.paint("FilePath", ref))
	}
}

func (r *Renderer) fix(b *strings.Builder, rep *display.FixReport) {
	for _, p := range rep.Fixed {
		fmt.Fprintf(b, "%s %s\n", r.paint("Success", markOK), p)
	}
	for _, f := range rep.Failed {
		fmt.Fprintf(b, "%s %s: %s\n", r.paint("Error", markFail), f.Path, f.Error)
	}
	msg := fmt.Sprintf("Fixed %d asset(s) for rule %s", len(rep.Fixed), rep.Rule)
	if len(rep.Failed) > 0 {
		msg += fmt.Sprintf(", %d failed", len(rep.Failed))
	}
	fmt.Fprintf(b, "%s\n", msg)
}

func (r *Renderer) explain(b *strings.Builder, e *auditor.Explanation) {
	verdict := r.paint("Conforming", "conforms")
	if !e.Conforms {
		verdict = r.paint("NonConforming", "does not conform")
	}
	fmt.Fprintf(b, "%s %s to %s\n", e.AssetPath, verdict, r.paint("RuleName", e.Rule.Name))
	fmt.Fprintf(b, "%sreference: %s\n", indent, r.paint("FilePath", e.ReferencePath))

	if len(e.Differences) > 0 {
		fmt.Fprintf(b, "\n%s\n", r.paint("SubHeader", "Differences"))
		for _, d := range e.Differences {
			fmt.Fprintf(b, "%s%s\n", indent, r.difference(d))
		}
	}
	if e.Unified != "" {
		b.WriteString("\n")
		for _, line := range strings.SplitAfter(e.Unified, "\n") {
			if line == "" {
				continue
			}
			b.WriteString(r.diffLine(line))
		}
	}
}

func (r *Renderer) difference(d compare.Difference) string {
	switch d.Reason {
	case compare.ReasonMissing:
		return fmt.Sprintf("%s: %s", d.Path, d.Reason)
	case compare.ReasonExtra:
		return fmt.Sprintf("%s: %s (%s)", d.Path, d.Reason, d.Candidate)
	}
	return fmt.Sprintf("%s: %s, expected %s (%s)", d.Path, d.Candidate, d.Reference, d.Reason)
}

func (r *Renderer) diffLine(line string) string {
	body := strings.TrimSuffix(line, "\n")
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return r.paint("Bold", body) + "\n"
	case strings.HasPrefix(line, "@@"):
		return r.paint("DiffHunk", body) + "\n"
	case strings.HasPrefix(line, "+"):
		return r.paint("DiffAdd", body) + "\n"
	case strings.HasPrefix(line, "-"):
		return r.paint("DiffRemove", body) + "\n"
	}
	return line
}
