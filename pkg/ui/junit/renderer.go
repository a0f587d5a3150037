// Package junit renders scan reports as JUnit XML so CI systems can show
// non-conforming assets as failed tests. Other results fall back to plain
// text.
package junit

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/ui/display"
	"github.com/arthur-debert/assetaudit/pkg/ui/text"
	"github.com/beevik/etree"
)

// Renderer writes JUnit XML.
type Renderer struct {
	*text.Renderer
	out io.Writer
}

// New creates a JUnit renderer
func New(w io.Writer) *Renderer {
	return &Renderer{Renderer: text.New(w), out: w}
}

// RenderResult renders scan reports as XML and anything else as text.
func (r *Renderer) RenderResult(result interface{}) error {
	rep, ok := result.(*display.ScanReport)
	if !ok {
		return r.Renderer.RenderResult(result)
	}
	doc := Document(rep)
	_, err := doc.WriteTo(r.out)
	return err
}

// Document builds the XML report: one test suite for the rule, one test
// case per asset.
func Document(rep *display.ScanReport) *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	suites := doc.CreateElement("testsuites")
	suites.CreateAttr("name", "assetaudit")

	assets := rep.AssetRows()
	failures := 0
	for _, a := range assets {
		if !a.Conforms {
			failures++
		}
	}
	suites.CreateAttr("tests", fmt.Sprint(len(assets)))
	suites.CreateAttr("failures", fmt.Sprint(failures))

	suite := suites.CreateElement("testsuite")
	suite.CreateAttr("name", rep.Rule.Name)
	suite.CreateAttr("tests", fmt.Sprint(len(assets)))
	suite.CreateAttr("failures", fmt.Sprint(failures))
	suite.CreateAttr("errors", "0")

	props := suite.CreateElement("properties")
	addProperty(props, "matchType", rep.Rule.MatchType.String())
	addProperty(props, "pattern", rep.Rule.Pattern)
	addProperty(props, "assetKind", rep.Rule.AssetKind.String())
	if rep.Rule.SelectiveMode {
		addProperty(props, "selectiveProperties", strings.Join(rep.Rule.SelectiveProperties, ", "))
	}

	for _, a := range assets {
		tc := suite.CreateElement("testcase")
		tc.CreateAttr("classname", rep.Rule.Name)
		tc.CreateAttr("name", a.Path)
		if a.Conforms {
			continue
		}
		failure := tc.CreateElement("failure")
		failure.CreateAttr("message", "import settings differ from the reference")
		failure.CreateAttr("type", "NonConforming")
		if len(a.Differences) > 0 {
			failure.SetText(strings.Join(a.Differences, "\n"))
		}
	}

	doc.Indent(2)
	return doc
}

func addProperty(parent *etree.Element, name, value string) {
	p := parent.CreateElement("property")
	p.CreateAttr("name", name)
	p.CreateAttr("value", value)
}
