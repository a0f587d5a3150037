package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/assetaudit/pkg/auditor"
	"github.com/arthur-debert/assetaudit/pkg/config"
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/filesystem"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/paths"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/arthur-debert/assetaudit/pkg/ui"
	"github.com/spf13/cobra"
)

// project is an opened project: its configuration, its audit session with
// the rules gathered, and where results go.
type project struct {
	root     string
	cfg      *config.Config
	session  *auditor.Session
	renderer ui.Renderer
	progress bool
}

// openProject loads the configuration for the --project folder, opens an
// audit session on it and gathers its rules.
func openProject(cmd *cobra.Command, opts *globalOptions) (*project, error) {
	logger := logging.GetLogger("cmd")

	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, MsgErrWorkingDir)
	}
	found, err := paths.FindProject(opts.project, cwd)
	if err != nil {
		return nil, err
	}
	root := found.Root
	if found.UsedFallback {
		fmt.Fprintf(cmd.ErrOrStderr(), MsgFallbackWarning+"\n", root)
	}

	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("format") {
		overrides["output.format"] = opts.format
	}
	cfg, err := config.LoadWithOverrides(root, overrides)
	if err != nil {
		return nil, err
	}

	assets := filepath.Join(root, filepath.FromSlash(cfg.Paths.AssetsDir))
	if info, err := os.Stat(assets); err != nil || !info.IsDir() {
		return nil, errors.Newf(errors.ErrInvalidInput, MsgErrNotAProject, root, cfg.Paths.AssetsDir).
			WithDetail("project", root)
	}

	format, err := ui.ParseFormat(cfg.Output.Format)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, MsgErrOutputFormat)
	}
	renderer, err := ui.NewRenderer(format, cmd.OutOrStdout())
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigValid, MsgErrOutputFormat)
	}

	session, err := auditor.Open(cfg, filesystem.NewOS(), root)
	if err != nil {
		return nil, err
	}

	p := &project{
		root:     root,
		cfg:      cfg,
		session:  session,
		renderer: renderer,
		progress: showProgress(format),
	}

	session.GatherRules()
	if err := p.drain(cmd.Context(), MsgProgressRules); err != nil {
		_ = p.close()
		return nil, err
	}
	logger.Debug().
		Str("project", root).
		Int("rules", len(session.Rules().List())).
		Msg("Project opened")
	return p, nil
}

// showProgress reports whether a progress bar can be drawn on stderr
// without mixing into machine-readable output.
func showProgress(format ui.Format) bool {
	return format.Interactive() && ui.IsTerminal(os.Stderr)
}

func (p *project) close() error {
	return p.session.Close()
}

// drain ticks the session's scheduler until its queue is empty.
func (p *project) drain(ctx context.Context, title string) error {
	sched := p.session.Scheduler()
	bar := ui.StartProgress(os.Stderr, title, p.progress)
	defer bar.Stop()

	for !sched.Idle() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := sched.Tick(); err != nil {
			return err
		}
		bar.Update(sched.CurrentProgress())
	}
	return nil
}

func (p *project) rule(name string) (types.Rule, error) {
	return p.session.Rules().Get(name)
}

// assetPath turns a command line path into a project-relative one. Paths
// may be given relative to the project or as filesystem paths.
func (p *project) assetPath(arg string) (string, error) {
	if filepath.IsAbs(arg) {
		rel, err := filepath.Rel(p.root, arg)
		if err != nil || strings.HasPrefix(rel, "..") {
			return "", errors.Newf(errors.ErrInvalidInput, MsgErrOutsideProject, arg)
		}
		arg = rel
	}
	return strings.Trim(filepath.ToSlash(filepath.Clean(arg)), "/"), nil
}

func (p *project) render(result interface{}) error {
	return p.renderer.RenderResult(result)
}

// ruleNamesCompletion provides shell completion for rule names
func ruleNamesCompletion(opts *globalOptions) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveDefault
		}
		p, err := openProject(cmd, opts)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer func() { _ = p.close() }()

		var names []string
		for _, rule := range p.session.Rules().List() {
			names = append(names, rule.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}

// withProject opens the project around fn.
func withProject(opts *globalOptions, fn func(cmd *cobra.Command, p *project, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		p, err := openProject(cmd, opts)
		if err != nil {
			return err
		}
		defer func() { _ = p.close() }()
		return fn(cmd, p, args)
	}
}
