// Package matcher selects the assets a rule applies to.
//
// Candidates are the files under the assets folder, excluding meta sidecars,
// the reference-asset area and any configured exclude globs. A candidate
// matches when its main type is compatible with the rule's kind and the
// rule's pattern accepts it. Every invocation rescans from scratch.
package matcher

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/config"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/dlclark/regexp2"
	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
)

// Options configures a Matcher.
type Options struct {
	ProxyAssetsDir string
	RegexEngine    string
	Exclude        []string
}

// OptionsFromConfig extracts matcher options from the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ProxyAssetsDir: cfg.Paths.ProxyAssetsDir,
		RegexEngine:    cfg.Matching.RegexEngine,
		Exclude:        cfg.Matching.Exclude,
	}
}

// Matcher finds the assets a rule governs.
type Matcher struct {
	db     *assetdb.Database
	opts   Options
	logger zerolog.Logger
}

// New creates a matcher over db.
func New(db *assetdb.Database, opts Options) *Matcher {
	opts.ProxyAssetsDir = strings.Trim(opts.ProxyAssetsDir, "/")
	return &Matcher{
		db:     db,
		opts:   opts,
		logger: logging.GetLogger("matcher"),
	}
}

// Predicate tests a project-relative path against a rule's pattern.
type Predicate func(rel string) bool

// DisplayName is the name an asset is shown with: its file name without
// extension.
func DisplayName(rel string) string {
	base := path.Base(rel)
	return strings.TrimSuffix(base, path.Ext(base))
}

// Compile validates the rule's pattern and returns its predicate.
func (m *Matcher) Compile(rule types.Rule) (Predicate, error) {
	switch rule.MatchType {
	case types.MatchNameContains:
		fold := cases.Fold()
		needle := fold.String(rule.Pattern)
		return func(rel string) bool {
			return strings.Contains(cases.Fold().String(DisplayName(rel)), needle)
		}, nil

	case types.MatchRegex:
		return m.compileRegex(rule.Pattern)

	case types.MatchGlob:
		if !doublestar.ValidatePattern(rule.Pattern) {
			return nil, errors.Newf(errors.ErrPatternInvalid, "invalid glob %q", rule.Pattern).
				WithDetail("rule", rule.Name)
		}
		pattern := rule.Pattern
		return func(rel string) bool {
			ok, err := doublestar.Match(pattern, rel)
			return err == nil && ok
		}, nil
	}
	return nil, errors.Newf(errors.ErrPatternInvalid, "unknown match type %s", rule.MatchType)
}

func (m *Matcher) compileRegex(pattern string) (Predicate, error) {
	// The pattern must compile unwrapped, so unbalanced groups such as
	// "a)|(b" are rejected instead of escaping the anchors.
	anchored := fmt.Sprintf("^(?:%s)$", pattern)

	if m.opts.RegexEngine == config.RegexEngineDotNet {
		if _, err := regexp2.Compile(pattern, regexp2.None); err != nil {
			return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "invalid regex %q", pattern)
		}
		re, err := regexp2.Compile(anchored, regexp2.None)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "invalid regex %q", pattern)
		}
		return func(rel string) bool {
			ok, err := re.MatchString(rel)
			return err == nil && ok
		}, nil
	}

	if _, err := regexp.Compile(pattern); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "invalid regex %q", pattern)
	}
	re, err := regexp.Compile(anchored)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternInvalid, "invalid regex %q", pattern)
	}
	return re.MatchString, nil
}

// Validate reports whether the rule's pattern compiles.
func (m *Matcher) Validate(rule types.Rule) error {
	_, err := m.Compile(rule)
	return err
}

// Excluded reports whether rel is never a candidate.
func (m *Matcher) Excluded(rel string) bool {
	if assetdb.IsMeta(rel) {
		return true
	}
	if proxy := m.opts.ProxyAssetsDir; proxy != "" && (rel == proxy || strings.HasPrefix(rel, proxy+"/")) {
		return true
	}
	for _, pattern := range m.opts.Exclude {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// TypeAccepts reports whether rel's main type fits the rule's kind.
func (m *Matcher) TypeAccepts(kind types.AssetKind, rel string) bool {
	base, filtered := assetdb.TypeForKind(kind)
	if !filtered {
		return true
	}
	return m.db.MainTypeAtPath(rel).IsA(base)
}

// Match runs the matching job to completion. An invalid pattern yields an
// empty result and an ErrPatternInvalid error.
func (m *Matcher) Match(rule types.Rule) ([]string, error) {
	job := m.NewJob(rule)
	for {
		_, done, err := job.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return job.Results()
		}
	}
}
