// Package watch reports changes under the assets folder.
//
// Every folder below the assets folder is registered with fsnotify, new
// folders as they appear. Bursts of events are collapsed into one Change
// after a quiet period. The reference-asset area is not reported: editing
// a rule's reference is not a change to the assets it audits.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Change lists the project-relative paths touched during one burst.
type Change struct {
	Paths []string
}

// Options configures a Watcher.
type Options struct {
	// ProjectRoot is the filesystem path of the project.
	ProjectRoot string
	// AssetsDir and Ignore are project-relative, slash separated.
	AssetsDir string
	Ignore    []string
	Debounce  time.Duration
}

// Watcher turns filesystem events into debounced Changes.
type Watcher struct {
	opts    Options
	fsw     *fsnotify.Watcher
	changes chan Change
	logger  zerolog.Logger
}

// New registers every folder under the assets folder.
func New(opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = 300 * time.Millisecond
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to start file watcher")
	}
	w := &Watcher{
		opts:    opts,
		fsw:     fsw,
		changes: make(chan Change, 1),
		logger:  logging.GetLogger("watch"),
	}
	if err := w.addTree(filepath.Join(opts.ProjectRoot, filepath.FromSlash(opts.AssetsDir))); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Changes delivers one Change per burst of events.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot watch %s", p)
		}
		if !d.IsDir() {
			return nil
		}
		if w.ignored(w.rel(p)) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(p); err != nil {
			return errors.Wrapf(err, errors.ErrFileAccess, "cannot watch %s", p)
		}
		w.logger.Trace().Str("path", p).Msg("Watching folder")
		return nil
	})
}

func (w *Watcher) rel(p string) string {
	r, err := filepath.Rel(w.opts.ProjectRoot, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return filepath.ToSlash(r)
}

func (w *Watcher) ignored(rel string) bool {
	for _, dir := range w.opts.Ignore {
		dir = strings.Trim(dir, "/")
		if rel == dir || strings.HasPrefix(rel, dir+"/") {
			return true
		}
	}
	return false
}

// Run forwards changes until ctx is done, then closes the watcher and the
// Changes channel.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.changes)
	defer w.fsw.Close()

	pending := make(map[string]bool)
	timer := time.NewTimer(w.opts.Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel := w.rel(ev.Name)
			if w.ignored(rel) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.addTree(ev.Name); err != nil {
						w.logger.Warn().Err(err).Str("path", rel).Msg("Cannot watch new folder")
					}
				}
			}
			pending[rel] = true
			timer.Reset(w.opts.Debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Msg("File watcher error")

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			change := Change{Paths: make([]string, 0, len(pending))}
			for p := range pending {
				change.Paths = append(change.Paths, p)
			}
			sort.Strings(change.Paths)
			pending = make(map[string]bool)
			w.logger.Debug().Int("paths", len(change.Paths)).Msg("Assets changed")
			select {
			case w.changes <- change:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
