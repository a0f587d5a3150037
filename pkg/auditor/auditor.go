// Package auditor runs audit sessions: it gathers rules, scans the project
// for one rule at a time, and fixes what the scan found.
//
// A Session owns its scheduler. Scans and fix-all runs are queued as jobs
// and advance only when the caller ticks the scheduler, either directly or
// through RunUntilIdle or Drive. Starting a new scan clears any stale work.
package auditor

import (
	"context"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/compare"
	"github.com/arthur-debert/assetaudit/pkg/config"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/fixer"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/matcher"
	"github.com/arthur-debert/assetaudit/pkg/properties"
	"github.com/arthur-debert/assetaudit/pkg/results"
	"github.com/arthur-debert/assetaudit/pkg/rules"
	"github.com/arthur-debert/assetaudit/pkg/scheduler"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/rs/zerolog"
)

// Session is one audit of one project.
type Session struct {
	cfg     *config.Config
	db      *assetdb.Database
	store   *rules.Store
	matcher *matcher.Matcher
	cmp     *compare.Comparator
	applier *fixer.Applier
	sched   *scheduler.Scheduler
	hints   properties.Hints
	scope   compare.Scope

	affected []types.AffectedAsset
	tree     *results.Tree
	logger   zerolog.Logger
}

// Open creates a session for the project at root.
func Open(cfg *config.Config, fsys types.FS, root string) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "configuration rejected")
	}
	hints, err := properties.ParseHints(cfg.Comparison.TypeHints)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid comparison.type_hints")
	}
	mode, err := compare.ParseScopeMode(cfg.Comparison.SelectiveScope)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, "invalid comparison.selective_scope")
	}

	ledger, err := rules.OpenLedger(cfg, fsys, root)
	if err != nil {
		return nil, err
	}
	db := assetdb.Open(fsys, root, cfg.Paths.AssetsDir)
	m := matcher.New(db, matcher.OptionsFromConfig(cfg))
	store := rules.NewStore(db, ledger, m, cfg.Paths)

	s := &Session{
		cfg:     cfg,
		db:      db,
		store:   store,
		matcher: m,
		cmp:     compare.New(compare.WithIgnoredPaths(cfg.Comparison.IgnoredPaths)),
		applier: fixer.New(db, store, cfg.Comparison.IgnoredPaths),
		sched:   scheduler.New(),
		hints:   hints,
		scope:   compare.Scope{Mode: mode},
		logger:  logging.GetLogger("auditor"),
	}
	return s, nil
}

// Close releases the rule ledger.
func (s *Session) Close() error {
	s.sched.Clear()
	return s.store.Close()
}

func (s *Session) Config() *config.Config { return s.cfg }
func (s *Session) DB() *assetdb.Database { return s.db }
func (s *Session) Rules() *rules.Store { return s.store }
func (s *Session) Scheduler() *scheduler.Scheduler { return s.sched }
func (s *Session) Hints() properties.Hints { return s.hints }
func (s *Session) Comparator() *compare.Comparator { return s.cmp }
func (s *Session) Results() *results.Tree { return s.tree }

// Affected returns the verdicts of the last completed scan.
func (s *Session) Affected() []types.AffectedAsset {
	out := make([]types.AffectedAsset, len(s.affected))
	copy(out, s.affected)
	return out
}

// RunUntilIdle ticks the scheduler until every queued job is done.
func (s *Session) RunUntilIdle(ctx context.Context) error {
	return s.sched.RunUntilIdle(ctx)
}

// GatherRules queues a reload of the rule store.
func (s *Session) GatherRules() string {
	return s.sched.Enqueue(s.store.NewLoadJob())
}

// SetSelectiveIndex restricts selective comparison to the property at i.
// A negative index checks every property again.
func (s *Session) SetSelectiveIndex(i int) {
	if i < 0 {
		s.scope = compare.AllProperties
		return
	}
	s.scope = compare.SingleProperty(i)
}

// Scope is the current selective comparison scope.
func (s *Session) Scope() compare.Scope { return s.scope }

// Scan clears pending work and queues a scan of rule. The results replace
// the previous scan's when the job completes.
func (s *Session) Scan(rule types.Rule) (string, error) {
	if rule.SelectiveMode && s.scope.Mode == compare.ScopeSingle {
		if s.scope.Index >= len(rule.SelectiveProperties) {
			return "", errors.Newf(errors.ErrInvalidInput, "selective index %d out of range: rule %q has %d properties",
				s.scope.Index, rule.Name, len(rule.SelectiveProperties))
		}
	}
	s.sched.Clear()
	s.affected = nil
	s.tree = nil
	s.logger.Info().Str("rule", rule.Name).Str("pattern", rule.Pattern).Msg("Scan queued")
	return s.sched.Enqueue(&scanJob{session: s, rule: rule, match: s.matcher.NewJob(rule)}), nil
}

// SetPattern changes a rule's pattern, saves it and rescans.
func (s *Session) SetPattern(name, pattern string) (types.Rule, error) {
	rule, err := s.store.SetPattern(name, pattern)
	if err != nil {
		return types.Rule{}, err
	}
	if _, err := s.Scan(rule); err != nil {
		return types.Rule{}, err
	}
	return rule, nil
}

// FixAsset fixes one asset right away. When the last scan listed the asset
// its row is marked conforming.
func (s *Session) FixAsset(rule types.Rule, path string) error {
	path = strings.Trim(path, "/")
	if s.tree != nil && s.tree.Rule.Name == rule.Name {
		if node, ok := s.tree.Find(path); ok {
			if err := s.applier.FixAsset(rule, node); err != nil {
				return err
			}
			s.markFixed(path)
			return nil
		}
	}
	return s.applier.FixAsset(rule, &results.Node{Path: path, IsAsset: true})
}

// FixAll queues a job fixing every non-conforming asset of the last scan.
func (s *Session) FixAll(rule types.Rule) (string, error) {
	if s.tree == nil || s.tree.Rule.Name != rule.Name {
		return "", errors.Newf(errors.ErrInvalidInput, "rule %q has not been scanned", rule.Name)
	}
	tree := s.tree
	job := s.applier.NewFixAllJob(rule, tree)
	done := scheduler.JobFunc(func() (float64, bool, error) {
		s.syncFromTree(tree)
		return 1, true, nil
	})
	return s.sched.Enqueue(scheduler.NewSequence("fix-all:"+rule.Name, job, done)), nil
}

func (s *Session) markFixed(path string) {
	for i := range s.affected {
		if s.affected[i].AssetPath == path {
			s.affected[i].Conforms = true
			s.affected[i].Differences = nil
		}
	}
}

func (s *Session) syncFromTree(tree *results.Tree) {
	if s.tree != tree {
		return
	}
	for _, n := range tree.Leaves() {
		if n.Conforms {
			s.markFixed(n.Path)
		}
	}
}
