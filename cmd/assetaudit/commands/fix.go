package commands

import (
	"github.com/arthur-debert/assetaudit/pkg/errors"
	"github.com/arthur-debert/assetaudit/pkg/logging"
	"github.com/arthur-debert/assetaudit/pkg/types"
	"github.com/arthur-debert/assetaudit/pkg/ui/display"
	"github.com/spf13/cobra"
)

func newFixCmd(opts *globalOptions) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:               "fix <rule> [asset...]",
		Short:             MsgFixShort,
		Long:              MsgFixLong,
		Example:           MsgFixExample,
		GroupID:           "audit",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: ruleNamesCompletion(opts),
		RunE: withProject(opts, func(cmd *cobra.Command, p *project, args []string) error {
			switch {
			case all && len(args) > 1:
				return errors.New(errors.ErrInvalidInput, MsgErrFixTarget)
			case !all && len(args) == 1:
				return errors.New(errors.ErrInvalidInput, MsgErrFixNoTarget)
			}
			rule, err := p.rule(args[0])
			if err != nil {
				return err
			}

			var report *display.FixReport
			if all {
				report, err = p.fixAll(cmd, rule)
			} else {
				report, err = p.fixAssets(rule, args[1:])
			}
			if err != nil {
				return err
			}
			if err := p.render(report); err != nil {
				return err
			}
			if len(report.Failed) > 0 {
				return errors.Newf(errors.ErrApplyFailed, MsgErrFixFailed, len(report.Failed))
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&all, "all", false, MsgFlagAll)
	return cmd
}

func (p *project) fixAssets(rule types.Rule, paths []string) (*display.FixReport, error) {
	report := &display.FixReport{Rule: rule.Name, Fixed: []string{}}
	for _, arg := range paths {
		rel, err := p.assetPath(arg)
		if err != nil {
			return nil, err
		}
		if err := p.session.FixAsset(rule, rel); err != nil {
			report.Failed = append(report.Failed, display.FixFailure{Path: rel, Error: err.Error()})
			continue
		}
		report.Fixed = append(report.Fixed, rel)
	}
	return report, nil
}

// fixAll scans rule, fixes whatever does not conform and reports which
// assets conform afterwards.
func (p *project) fixAll(cmd *cobra.Command, rule types.Rule) (*display.FixReport, error) {
	logger := logging.GetLogger("cmd.fix")

	tree, err := p.scan(cmd.Context(), rule)
	if err != nil {
		return nil, err
	}
	var targets []string
	for _, n := range tree.NonConforming() {
		targets = append(targets, n.Path)
	}
	logger.Info().Str("rule", rule.Name).Int("assets", len(targets)).Msg("Fixing non-conforming assets")

	if _, err := p.session.FixAll(rule); err != nil {
		return nil, err
	}
	if err := p.drain(cmd.Context(), MsgProgressFix); err != nil {
		return nil, err
	}

	report := &display.FixReport{Rule: rule.Name, Fixed: []string{}}
	conforming := make(map[string]bool)
	for _, a := range p.session.Affected() {
		conforming[a.AssetPath] = a.Conforms
	}
	for _, path := range targets {
		if conforming[path] {
			report.Fixed = append(report.Fixed, path)
			continue
		}
		report.Failed = append(report.Failed, display.FixFailure{
			Path:  path,
			Error: MsgErrNotFixed,
		})
	}
	return report, nil
}
