package commands

import (
	"context"

	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/results"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/arthur-debert/assetaudit/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newScanCmd(opts *globalOptions) *cobra.Command {
	var (
		filter         string
		selectiveIndex int
	)
	cmd := &cobra.Command{
		Use:               "scan <rule>",
		Short:             MsgScanShort,
		Long:              MsgScanLong,
		Example:           MsgScanExample,
		GroupID:           "audit",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: ruleNamesCompletion(opts),
		RunE: withProject(opts, func(cmd *cobra.Command, p *project, args []string) error {
			rule, err := p.rule(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("selective-index") {
				p.session.SetSelectiveIndex(selectiveIndex)
			}
			tree, err := p.scan(cmd.Context(), rule)
			if err != nil {
				return err
			}
			return p.render(display.NewScanReport(tree, filter))
		}),
	}
	cmd.Flags().StringVar(&filter, "filter", "", MsgFlagFilter)
	cmd.Flags().IntVar(&selectiveIndex, "selective-index", -1, MsgFlagSelectiveIndex)
	return cmd
}

// scan runs a scan of rule to completion and returns its result tree.
func (p *project) scan(ctx context.Context, rule types.Rule) (*results.Tree, error) {
	if _, err := p.session.Scan(rule); err != nil {
		return nil, err
	}
	if err := p.drain(ctx, MsgProgressScan); err != nil {
		return nil, err
	}
	tree := p.session.Results()
	if tree == nil {
		return nil, errors.Newf(errors.ErrInternal, MsgErrNoResults, rule.Name)
	}
	return tree, nil
}
