package commands

import (
	"github.com/spf13/cobra"
)

func newExplainCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:               "explain <rule> <asset>",
		Short:             MsgExplainShort,
		GroupID:           "audit",
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: ruleNamesCompletion(opts),
		RunE: withProject(opts, func(cmd *cobra.Command, p *project, args []string) error {
			rule, err := p.rule(args[0])
			if err != nil {
				return err
			}
			rel, err := p.assetPath(args[1])
			if err != nil {
				return err
			}
			explanation, err := p.session.Explain(rule, rel)
			if err != nil {
				return err
			}
			return p.render(explanation)
		}),
	}
}
