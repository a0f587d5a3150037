package rules

import (
	"encoding/json"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/assetdb"
	"github.com/arthur-debert/assetaudit/pkg/config"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/matcher"
	"github.com/arthur-debert/assetaudit/pkg/properties"
	"github.com/arthur-debert/assetaudit/pkg/scheduler"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/rs/zerolog"
)

// Store holds the project's rules, backed by a Ledger.
type Store struct {
	db       *assetdb.Database
	ledger   Ledger
	matcher  *matcher.Matcher
	proxyDir string
	proxies  map[types.AssetKind]string
	rules    []types.Rule
	logger   zerolog.Logger
}

// NewStore creates an empty store. Call Load or run NewLoadJob to read the
// rules from disk.
func NewStore(db *assetdb.Database, ledger Ledger, m *matcher.Matcher, paths config.Paths) *Store {
	return &Store{
		db:       db,
		ledger:   ledger,
		matcher:  m,
		proxyDir: strings.Trim(paths.ProxyAssetsDir, "/"),
		proxies: map[types.AssetKind]string{
			types.KindTexture: paths.ProxyTexture,
			types.KindModel:   paths.ProxyModel,
			types.KindAudio:   paths.ProxyAudio,
		},
		logger: logging.GetLogger("rules"),
	}
}

// ProxyDir is the reference-asset folder.
func (s *Store) ProxyDir() string { return s.proxyDir }

// Load reads every rule synchronously.
func (s *Store) Load() error {
	job := s.NewLoadJob()
	for {
		_, done, err := job.Step()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// List returns the loaded rules ordered by name.
func (s *Store) List() []types.Rule {
	out := make([]types.Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Get returns the rule called name.
func (s *Store) Get(name string) (types.Rule, error) {
	for _, r := range s.rules {
		if r.Name == name {
			return r, nil
		}
	}
	return types.Rule{}, errors.Newf(errors.ErrRuleNotFound, "no rule named %q", name).WithDetail("rule", name)
}

// Exists reports whether a rule with the same name, pattern and match type
// is already stored.
func (s *Store) Exists(rule types.Rule) bool {
	for _, r := range s.rules {
		if r.SameIdentity(rule) {
			return true
		}
	}
	return false
}

// Validate checks the rule's shape and pattern.
func (s *Store) Validate(rule types.Rule) error {
	if err := ValidateSchema(rule); err != nil {
		return err
	}
	if s.matcher != nil {
		if err := s.matcher.Validate(rule); err != nil {
			return err
		}
	}
	return nil
}

// Save validates rule and writes it to the ledger under its reference asset.
func (s *Store) Save(rule types.Rule) error {
	if rule.ReferenceAssetID == "" {
		return errors.Newf(errors.ErrRuleInvalid, "rule %q has no reference asset", rule.Name)
	}
	if err := s.Validate(rule); err != nil {
		return err
	}
	data, err := json.Marshal(rule)
	if err != nil {
		return errors.Wrap(err, errors.ErrRuleInvalid, "cannot encode rule")
	}
	if err := s.ledger.Put(rule.ReferenceAssetID, string(data)); err != nil {
		return err
	}
	s.remember(rule)
	s.logger.Debug().Str("rule", rule.Name).Str("guid", rule.ReferenceAssetID).Msg("Rule saved")
	return nil
}

func (s *Store) remember(rule types.Rule) {
	for i, r := range s.rules {
		if r.ReferenceAssetID == rule.ReferenceAssetID {
			s.rules[i] = rule
			return
		}
	}
	s.rules = append(s.rules, rule)
	s.sortRules()
}

func (s *Store) sortRules() {
	sort.SliceStable(s.rules, func(i, j int) bool { return s.rules[i].Name < s.rules[j].Name })
}

// Create runs the new-rule workflow: the kind's proxy asset is copied into
// the reference-asset folder as <name><ext> and the rule is stamped against
// the copy. Duplicates are refused.
func (s *Store) Create(rule types.Rule) (types.Rule, error) {
	src, ok := s.proxies[rule.AssetKind]
	if !ok || src == "" {
		return types.Rule{}, errors.Newf(errors.ErrInvalidInput, "%s rules have no proxy asset to copy", rule.AssetKind)
	}
	rule.ReferenceAssetID = ""
	if rule.SelectiveMode && len(rule.SelectiveProperties) == 0 {
		return types.Rule{}, errors.Newf(errors.ErrRuleInvalid, "rule %q is selective but lists no properties", rule.Name)
	}
	if err := s.Validate(rule); err != nil {
		return types.Rule{}, err
	}
	if s.Exists(rule) {
		return types.Rule{}, errors.Newf(errors.ErrRuleDuplicate, "rule %q with the same pattern and match type already exists", rule.Name).
			WithDetail("rule", rule.Name)
	}
	if _, err := s.Get(rule.Name); err == nil {
		return types.Rule{}, errors.Newf(errors.ErrRuleDuplicate, "a rule named %q already exists", rule.Name).
			WithDetail("rule", rule.Name)
	}

	if err := s.db.CreateFolder(s.proxyDir); err != nil {
		return types.Rule{}, err
	}
	dst := path.Join(s.proxyDir, rule.Name+path.Ext(src))
	imp, err := s.db.CopyAsset(src, dst)
	if err != nil {
		return types.Rule{}, err
	}
	if _, err := s.db.ImportAsset(dst); err != nil {
		return types.Rule{}, err
	}

	rule.ReferenceAssetID = imp.GUID()
	if err := s.Save(rule); err != nil {
		return types.Rule{}, err
	}
	s.logger.Info().
		Str("rule", rule.Name).
		Str("kind", rule.AssetKind.String()).
		Str("reference", dst).
		Msg("Rule created")
	return rule, nil
}

// SetPattern changes a rule's pattern in place and persists it.
func (s *Store) SetPattern(name, pattern string) (types.Rule, error) {
	rule, err := s.Get(name)
	if err != nil {
		return types.Rule{}, err
	}
	rule.Pattern = pattern
	if err := s.Save(rule); err != nil {
		return types.Rule{}, err
	}
	return rule, nil
}

// SetSelectiveProperties replaces the rule's selective property list. An
// empty list turns selective mode off.
func (s *Store) SetSelectiveProperties(name string, props []string) (types.Rule, error) {
	rule, err := s.Get(name)
	if err != nil {
		return types.Rule{}, err
	}
	rule.SelectiveProperties = props
	rule.SelectiveMode = len(props) > 0
	if err := s.Save(rule); err != nil {
		return types.Rule{}, err
	}
	return rule, nil
}

// ReferencePath resolves the rule's reference asset path.
func (s *Store) ReferencePath(rule types.Rule) (string, error) {
	p, err := s.db.PathForGUID(rule.ReferenceAssetID)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrReferenceMissing, "reference asset of rule %q is gone", rule.Name)
	}
	return p, nil
}

// Reference loads the rule's reference importer. A stale reference is a
// fault, not a validation problem.
func (s *Store) Reference(rule types.Rule) (*assetdb.Importer, error) {
	p, err := s.ReferencePath(rule)
	if err != nil {
		return nil, err
	}
	imp, err := s.db.ImporterAtPath(p)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrReferenceMissing, "reference importer of rule %q is unreadable", rule.Name)
	}
	return imp, nil
}

// PropertyNames lists the labels selective rules of kind can name, read
// from the kind's proxy asset.
func (s *Store) PropertyNames(kind types.AssetKind, hints properties.Hints) ([]string, error) {
	src, ok := s.proxies[kind]
	if !ok {
		return nil, errors.Newf(errors.ErrInvalidInput, "%s rules have no proxy asset", kind)
	}
	imp, err := s.db.ImporterAtPath(src)
	if err != nil {
		return nil, err
	}
	tree, err := imp.Snapshot(hints)
	if err != nil {
		return nil, err
	}
	return tree.DisplayNames(), nil
}

// ClearStamp removes any ledger entry for guid. Fixing an asset from a
// reference copies the reference's settings, and this makes sure the fixed
// asset never looks like a reference itself.
func (s *Store) ClearStamp(guid string) error {
	for _, r := range s.rules {
		if r.ReferenceAssetID == guid {
			return nil
		}
	}
	return s.ledger.Delete(guid)
}

// Close releases the ledger.
func (s *Store) Close() error {
	return s.ledger.Close()
}

// NewLoadJob gathers the rules one reference asset per step. When it
// finishes the store's rule list is replaced.
func (s *Store) NewLoadJob() scheduler.Job {
	return &loadJob{store: s}
}

type loadJob struct {
	store   *Store
	entries map[string]string
	assets  []string
	next    int
	loaded  []types.Rule
	started bool
}

func (j *loadJob) Name() string { return "gather-rules" }

func (j *loadJob) Step() (float64, bool, error) {
	s := j.store
	if !j.started {
		j.started = true
		entries, err := s.ledger.Load()
		if err != nil {
			return 0, false, err
		}
		j.entries = entries
		if s.db.IsValidFolder(s.proxyDir) {
			j.assets = s.listReferenceAssets(s.proxyDir)
		}
		return j.progress(), j.finishIfDone(), nil
	}

	if j.next < len(j.assets) {
		rel := j.assets[j.next]
		j.next++
		if rule, ok := s.readRule(rel, j.entries); ok {
			j.loaded = append(j.loaded, rule)
		}
	}
	return j.progress(), j.finishIfDone(), nil
}

func (j *loadJob) finishIfDone() bool {
	if j.next < len(j.assets) {
		return false
	}
	j.store.rules = j.loaded
	j.store.sortRules()
	j.store.logger.Debug().Int("rules", len(j.loaded)).Int("assets", len(j.assets)).Msg("Rules gathered")
	return true
}

func (j *loadJob) progress() float64 {
	if len(j.assets) == 0 {
		return 1
	}
	return float64(j.next) / float64(len(j.assets))
}

func (s *Store) listReferenceAssets(dir string) []string {
	entries, err := s.db.ReadDir(dir)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", dir).Msg("Cannot list reference assets")
		return nil
	}
	var out []string
	for _, e := range entries {
		switch {
		case e.IsDir:
			out = append(out, s.listReferenceAssets(e.Path)...)
		case !assetdb.IsMeta(e.Path):
			out = append(out, e.Path)
		}
	}
	return out
}

func (s *Store) readRule(rel string, entries map[string]string) (types.Rule, bool) {
	imp, err := s.db.ImporterAtPath(rel)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", rel).Msg("Reference asset has no importer")
		return types.Rule{}, false
	}
	raw, ok := entries[imp.GUID()]
	if !ok {
		return types.Rule{}, false
	}
	var rule types.Rule
	if err := json.Unmarshal([]byte(raw), &rule); err != nil {
		s.logger.Warn().Err(err).Str("path", rel).Msg("Ignoring unreadable rule")
		return types.Rule{}, false
	}
	rule.ReferenceAssetID = imp.GUID()
	if err := ValidateSchema(rule); err != nil {
		s.logger.Warn().Err(err).Str("path", rel).Msg("Ignoring invalid rule")
		return types.Rule{}, false
	}
	return rule, true
}
