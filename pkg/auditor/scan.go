package auditor

import (
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/compare"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/matcher"
	"github.com/arthur-debert/assetaudit/pkg/properties"
	"github.com/arthur-debert/assetaudit/pkg/results"
	"github.com/arthur-debert/assetaudit/pkg/scheduler"
	"github.com/arthur-debert/assetaudit/pkg/types"
)

// scanJob matches a rule's assets, then compares one asset per step, then
// publishes the result tree. Matching takes the first half of the progress
// bar.
type scanJob struct {
	session *Session
	rule    types.Rule
	match   *matcher.Job

	ref      *assetdb.Importer
	refTree  *properties.Tree
	compare  *scheduler.SliceJob[string]
	affected []types.AffectedAsset
	finished func()
}

func (j *scanJob) Name() string { return "scan:" + j.rule.Name }

func (j *scanJob) Step() (float64, bool, error) {
	if j.finished == nil {
		j.finished = logging.LogOperationStart(j.session.logger, j.Name())
	}
	if j.compare == nil {
		p, done, err := j.match.Step()
		if err != nil {
			return p / 2, false, err
		}
		if !done {
			return p / 2, false, nil
		}
		if err := j.startCompare(); err != nil {
			return 0.5, false, err
		}
		return 0.5, false, nil
	}

	p, done, err := j.compare.Step()
	if err != nil {
		return 0.5 + p/2, false, err
	}
	if !done {
		return 0.5 + p/2, false, nil
	}
	j.publish()
	j.finished()
	return 1, true, nil
}

func (j *scanJob) startCompare() error {
	s := j.session
	// An invalid pattern was already logged by the matcher and yields an
	// empty result.
	paths, _ := j.match.Results()

	ref, err := s.store.Reference(j.rule)
	if err != nil {
		return err
	}
	refTree, err := ref.Snapshot(s.hints)
	if err != nil {
		return err
	}
	j.ref = ref
	j.refTree = refTree
	j.compare = scheduler.NewSliceJob("compare:"+j.rule.Name, paths, func(_ int, path string) error {
		j.compareOne(path)
		return nil
	})
	return nil
}

func (j *scanJob) compareOne(path string) {
	s := j.session
	target, err := s.db.ImporterAtPath(path)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Asset has no importer, skipped")
		return
	}
	if target.GUID() == j.ref.GUID() {
		return
	}

	asset := types.AffectedAsset{
		AssetPath:   path,
		DisplayName: matcher.DisplayName(path),
		Depth:       strings.Count(path, "/"),
		AssetKind:   j.rule.AssetKind,
	}
	if target.Class() != j.ref.Class() {
		asset.Differences = compare.Paths([]compare.Difference{compare.ImporterMismatch(j.ref.Class(), target.Class())})
		j.affected = append(j.affected, asset)
		return
	}

	tree, err := target.Snapshot(s.hints)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Import settings unreadable, skipped")
		return
	}
	conforms, diffs := s.verdict(j.rule, j.refTree, tree)
	asset.Conforms = conforms
	if !conforms {
		asset.Differences = compare.Paths(diffs)
	}
	j.affected = append(j.affected, asset)
}

// verdict compares one candidate under the session's selective scope.
// Differences are reported only for non-conforming candidates. Scan and
// Explain both decide conformance here.
func (s *Session) verdict(rule types.Rule, ref, cand *properties.Tree) (bool, []compare.Difference) {
	if !rule.SelectiveMode {
		if s.cmp.Trees(ref, cand) {
			return true, nil
		}
		return false, s.cmp.Diff(ref, cand)
	}

	ok, err := s.cmp.Selective(ref, cand, rule.SelectiveProperties, s.scope)
	if err != nil {
		s.logger.Warn().Err(err).Str("rule", rule.Name).Msg("Selective comparison failed")
		return false, nil
	}
	if ok {
		return true, nil
	}
	return false, s.cmp.DiffSelective(ref, cand, s.selectiveNames(rule))
}

// selectiveNames are the properties the current scope checks.
func (s *Session) selectiveNames(rule types.Rule) []string {
	names := rule.SelectiveProperties
	if s.scope.Mode == compare.ScopeSingle && s.scope.Index >= 0 && s.scope.Index < len(names) {
		names = names[s.scope.Index : s.scope.Index+1]
	}
	return names
}

func (j *scanJob) publish() {
	s := j.session
	s.affected = j.affected
	s.tree = results.Build(j.affected, j.rule)
	sum := s.tree.Summary()
	s.logger.Info().
		Str("rule", j.rule.Name).
		Int("assets", sum.Assets).
		Int("non_conforming", sum.NonConforming).
		Msg("Scan finished")
}
