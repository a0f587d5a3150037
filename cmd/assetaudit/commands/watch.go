package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/arthur-debert/assetaudit/pkg/ui/display"
	"github.com/arthur-debert/assetaudit/pkg/watch"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:               "watch <rule>",
		Short:             MsgWatchShort,
		Long:              MsgWatchLong,
		GroupID:           "audit",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: ruleNamesCompletion(opts),
		RunE: withProject(opts, func(cmd *cobra.Command, p *project, args []string) error {
			rule, err := p.rule(args[0])
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return p.watch(ctx, rule, filter)
		}),
	}
	cmd.Flags().StringVar(&filter, "filter", "", MsgFlagFilter)
	return cmd
}

// watch rescans rule on every change until ctx is done. The watcher
// goroutine only reports changes; scans run on the driver goroutine.
func (p *project) watch(ctx context.Context, rule types.Rule, filter string) error {
	logger := logging.GetLogger("cmd.watch")

	w, err := watch.New(watch.Options{
		ProjectRoot: p.root,
		AssetsDir:   p.cfg.Paths.AssetsDir,
		Ignore:      []string{p.session.Rules().ProxyDir()},
		Debounce:    p.cfg.Scheduler.WatchDebounce,
	})
	if err != nil {
		return err
	}

	sched := p.session.Scheduler()
	var renderErr error
	cancel := sched.OnQueueComplete(func() {
		tree := p.session.Results()
		if tree == nil || renderErr != nil {
			return
		}
		renderErr = p.render(display.NewScanReport(tree, filter))
	})
	defer cancel()

	if err := p.renderer.RenderMessage(fmt.Sprintf(MsgWatching, p.cfg.Paths.AssetsDir, rule.Pattern)); err != nil {
		return err
	}
	if _, err := p.session.Scan(rule); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})
	g.Go(func() error {
		return sched.Drive(gctx, p.cfg.Scheduler.TickInterval, func() error {
			if renderErr != nil {
				return renderErr
			}
			select {
			case change, ok := <-w.Changes():
				if !ok {
					return nil
				}
				logger.Info().Strs("paths", change.Paths).Msg("Assets changed, rescanning")
				_, err := p.session.Scan(rule)
				return err
			default:
				return nil
			}
		})
	})

	err = g.Wait()
	if ctx.Err() != nil {
		// Interrupted
		return nil
	}
	return err
}
