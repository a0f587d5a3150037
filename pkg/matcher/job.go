package matcher

import (
	"github.com/arthur-debert/assetaudit/pkg/types"
)

// Job is the resumable form of Match. Each step lists one folder or
// examines one candidate file.
type Job struct {
	m         *Matcher
	rule      types.Rule
	pred      Predicate
	dirs      []string
	files     []string
	examined  int
	results   []string
	err       error
	started   bool
	completed bool
}

// NewJob creates a matching job for rule.
func (m *Matcher) NewJob(rule types.Rule) *Job {
	return &Job{m: m, rule: rule}
}

func (j *Job) Name() string { return "match:" + j.rule.Name }

// Step advances the walk by one folder listing or one file.
func (j *Job) Step() (float64, bool, error) {
	if j.completed {
		return 1, true, nil
	}
	if !j.started {
		j.started = true
		pred, err := j.m.Compile(j.rule)
		if err != nil {
			j.m.logger.Warn().Err(err).Str("rule", j.rule.Name).Msg("Rule pattern rejected, no assets matched")
			j.err = err
			j.completed = true
			return 1, true, nil
		}
		j.pred = pred
		root := j.m.db.AssetsDir()
		if !j.m.db.IsValidFolder(root) {
			j.m.logger.Warn().Str("path", root).Msg("Assets folder missing, nothing to match")
			j.completed = true
			return 1, true, nil
		}
		j.dirs = []string{root}
		return j.progress(), false, nil
	}

	switch {
	case len(j.files) > 0:
		rel := j.files[0]
		j.files = j.files[1:]
		j.examine(rel)
	case len(j.dirs) > 0:
		dir := j.dirs[len(j.dirs)-1]
		j.dirs = j.dirs[:len(j.dirs)-1]
		j.list(dir)
	}

	if len(j.files) == 0 && len(j.dirs) == 0 {
		j.completed = true
		j.m.logger.Debug().
			Str("rule", j.rule.Name).
			Int("examined", j.examined).
			Int("matched", len(j.results)).
			Msg("Matching finished")
		return 1, true, nil
	}
	return j.progress(), false, nil
}

func (j *Job) list(dir string) {
	entries, err := j.m.db.ReadDir(dir)
	if err != nil {
		j.m.logger.Warn().Err(err).Str("path", dir).Msg("Skipping unreadable folder")
		return
	}
	var subdirs []string
	for _, e := range entries {
		if j.m.Excluded(e.Path) {
			continue
		}
		if e.IsDir {
			subdirs = append(subdirs, e.Path)
			continue
		}
		j.files = append(j.files, e.Path)
	}
	// Push in reverse so folders are visited in lexical order.
	for i := len(subdirs) - 1; i >= 0; i-- {
		j.dirs = append(j.dirs, subdirs[i])
	}
}

func (j *Job) examine(rel string) {
	j.examined++
	if !j.m.TypeAccepts(j.rule.AssetKind, rel) {
		return
	}
	if j.pred(rel) {
		j.results = append(j.results, rel)
	}
}

func (j *Job) progress() float64 {
	remaining := len(j.files) + len(j.dirs)
	total := j.examined + remaining
	if total == 0 {
		return 0
	}
	return float64(j.examined) / float64(total)
}

// Results returns the matched paths once the job is done, and the pattern
// error if the rule was rejected.
func (j *Job) Results() ([]string, error) {
	return j.results, j.err
}

// Done reports whether the job has finished.
func (j *Job) Done() bool { return j.completed }
