package commands

import (
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/arthur-debert/assetaudit/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newRulesCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rules",
		Short:   MsgRulesShort,
		GroupID: "audit",
		Args:    cobra.NoArgs,
		RunE:    withProject(opts, listRules),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: MsgRulesListShort,
		Args:  cobra.NoArgs,
		RunE:  withProject(opts, listRules),
	})
	cmd.AddCommand(newRulesNewCmd(opts))
	cmd.AddCommand(&cobra.Command{
		Use:               "set-pattern <rule> <pattern>",
		Short:             MsgSetPatternShort,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: ruleNamesCompletion(opts),
		RunE:              withProject(opts, setPattern),
	})
	cmd.AddCommand(&cobra.Command{
		Use:               "set-selective <rule> [property...]",
		Short:             MsgSetSelectiveShort,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: ruleNamesCompletion(opts),
		RunE:              withProject(opts, setSelective),
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "properties <kind>",
		Short:     MsgPropertiesShort,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"Texture", "Model", "Audio"},
		RunE:      withProject(opts, listProperties),
	})
	return cmd
}

func listRules(cmd *cobra.Command, p *project, args []string) error {
	store := p.session.Rules()
	list := &display.RuleList{Rules: []display.RuleRow{}}
	for _, rule := range store.List() {
		row := display.RuleRow{Rule: rule}
		if ref, err := store.ReferencePath(rule); err == nil {
			row.ReferencePath = ref
		} else {
			row.ReferenceMissing = true
		}
		list.Rules = append(list.Rules, row)
	}
	return p.render(list)
}

type newRuleFlags struct {
	name      string
	match     string
	pattern   string
	kind      string
	selective []string
}

func newRulesNewCmd(opts *globalOptions) *cobra.Command {
	flags := &newRuleFlags{}
	cmd := &cobra.Command{
		Use:     "new",
		Short:   MsgRulesNewShort,
		Long:    MsgRulesNewLong,
		Example: MsgRulesNewExample,
		Args:    cobra.NoArgs,
		RunE: withProject(opts, func(cmd *cobra.Command, p *project, args []string) error {
			return createRule(p, flags)
		}),
	}
	cmd.Flags().StringVar(&flags.name, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&flags.match, "match", types.MatchNameContains.String(), MsgFlagMatch)
	cmd.Flags().StringVar(&flags.pattern, "pattern", "", MsgFlagPattern)
	cmd.Flags().StringVar(&flags.kind, "kind", types.KindTexture.String(), MsgFlagKind)
	cmd.Flags().StringArrayVar(&flags.selective, "selective", nil, MsgFlagSelective)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("pattern")
	return cmd
}

func createRule(p *project, flags *newRuleFlags) error {
	matchType, err := types.ParseMatchType(flags.match)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, MsgErrMatchType)
	}
	kind, err := types.ParseAssetKind(flags.kind)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, MsgErrAssetKind)
	}

	rule := types.Rule{
		Name:                flags.name,
		MatchType:           matchType,
		Pattern:             flags.pattern,
		AssetKind:           kind,
		SelectiveMode:       len(flags.selective) > 0,
		SelectiveProperties: flags.selective,
	}
	store := p.session.Rules()
	created, err := store.Create(rule)
	if err != nil {
		return err
	}
	ref, _ := store.ReferencePath(created)
	return p.render(&display.RuleSaved{Action: MsgRuleCreated, Rule: created, ReferencePath: ref})
}

// setPattern saves the new pattern and shows the rescan it triggers.
func setPattern(cmd *cobra.Command, p *project, args []string) error {
	rule, err := p.session.SetPattern(args[0], args[1])
	if err != nil {
		return err
	}
	if err := p.drain(cmd.Context(), MsgProgressScan); err != nil {
		return err
	}
	tree := p.session.Results()
	if tree == nil || tree.Rule.Name != rule.Name {
		return errors.Newf(errors.ErrInternal, MsgErrNoResults, rule.Name)
	}
	return p.render(display.NewScanReport(tree, ""))
}

func setSelective(cmd *cobra.Command, p *project, args []string) error {
	store := p.session.Rules()
	rule, err := store.SetSelectiveProperties(args[0], args[1:])
	if err != nil {
		return err
	}
	ref, _ := store.ReferencePath(rule)
	return p.render(&display.RuleSaved{Action: MsgRuleUpdated, Rule: rule, ReferencePath: ref})
}

func listProperties(cmd *cobra.Command, p *project, args []string) error {
	kind, err := types.ParseAssetKind(args[0])
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, MsgErrAssetKind)
	}
	names, err := p.session.Rules().PropertyNames(kind, p.session.Hints())
	if err != nil {
		return err
	}
	return p.render(&display.PropertyList{Kind: kind, Names: names})
}
