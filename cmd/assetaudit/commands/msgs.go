package commands

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort         = "Audit asset import settings against reference assets"
	MsgRulesShort        = "Manage audit rules"
	MsgRulesListShort    = "List rules and their reference assets"
	MsgRulesNewShort     = "Create a rule and its reference asset"
	MsgSetPatternShort   = "Change a rule's pattern and rescan"
	MsgSetSelectiveShort = "Set the properties a selective rule checks"
	MsgPropertiesShort   = "List property names selective rules can check"
	MsgScanShort         = "Scan the project for assets governed by a rule"
	MsgFixShort          = "Copy a rule's reference settings onto assets"
	MsgExplainShort      = "Show how an asset differs from a rule's reference"
	MsgWatchShort        = "Rescan a rule whenever assets change"
	MsgVersionShort      = "Print version information"
	MsgCompletionShort   = "Generate shell completion script"
	MsgGenConfigShort    = "Print or write the default configuration"

	// Status messages
	MsgRuleCreated     = "created"
	MsgRuleUpdated     = "updated"
	MsgProgressRules   = "Gathering rules"
	MsgProgressScan    = "Scanning"
	MsgProgressFix     = "Fixing"
	MsgWatching        = "Watching %s for changes to assets matching %q (Ctrl-C to stop)"
	MsgVersionFormat   = "assetaudit version %s\n"
	MsgCommitFormat    = "Commit: %s\n"
	MsgBuildDateFormat = "Built:  %s\n"
	MsgConfigWritten   = "Wrote %s\n"
	MsgConfigExists    = "%s already exists, left unchanged\n"
	MsgFallbackWarning = "Warning: no project found above the current directory, using %s"

	// Error messages
	MsgErrNoCommand      = "no command specified"
	MsgErrNotAProject    = "%s is not a project: it has no %s folder"
	MsgErrFixTarget      = "give asset paths or --all, not both"
	MsgErrFixNoTarget    = "give asset paths or --all"
	MsgErrFixFailed      = "%d asset(s) could not be fixed"
	MsgErrNotFixed       = "not fixed, run with -v for details"
	MsgErrNoResults      = "scan of %q produced no results"
	MsgErrWorkingDir     = "failed to get current directory"
	MsgErrOutputFormat   = "invalid output.format"
	MsgErrMatchType      = "invalid --match"
	MsgErrAssetKind      = "invalid asset kind"
	MsgErrOutsideProject = "%s is outside the project"

	// Flag descriptions
	MsgFlagProject        = "Project directory (default: the project containing the current directory)"
	MsgFlagVerbose        = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat         = "Output format: auto, term, text, json or junit"
	MsgFlagName           = "Rule name"
	MsgFlagMatch          = "How the pattern is matched: NameContains, Regex or Glob"
	MsgFlagPattern        = "Pattern assets must match"
	MsgFlagKind           = "Asset kind: Texture, Model or Audio"
	MsgFlagSelective      = "Property to check, by display name (repeatable); makes the rule selective"
	MsgFlagFilter         = "Only list assets whose name or path contains this text"
	MsgFlagSelectiveIndex = "Check only the selective property at this index (-1 checks all)"
	MsgFlagAll            = "Fix every non-conforming asset found by a fresh scan"
	MsgFlagWrite          = "Write .assetaudit.toml in the project instead of printing"
	MsgFlagLogFile        = "Log file path, or \"off\" (default: XDG state home)"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/rules-new-long.txt
	msgRulesNewLongRaw string
	MsgRulesNewLong    = strings.TrimSpace(msgRulesNewLongRaw)

	//go:embed msgs/rules-new-example.txt
	msgRulesNewExampleRaw string
	MsgRulesNewExample    = strings.TrimSpace(msgRulesNewExampleRaw)

	//go:embed msgs/scan-long.txt
	msgScanLongRaw string
	MsgScanLong    = strings.TrimSpace(msgScanLongRaw)

	//go:embed msgs/scan-example.txt
	msgScanExampleRaw string
	MsgScanExample    = strings.TrimSpace(msgScanExampleRaw)

	//go:embed msgs/fix-long.txt
	msgFixLongRaw string
	MsgFixLong    = strings.TrimSpace(msgFixLongRaw)

	//go:embed msgs/fix-example.txt
	msgFixExampleRaw string
	MsgFixExample    = strings.TrimSpace(msgFixExampleRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/genconfig-long.txt
	msgGenConfigLongRaw string
	MsgGenConfigLong    = strings.TrimSpace(msgGenConfigLongRaw)

	//go:embed msgs/genconfig-example.txt
	msgGenConfigExampleRaw string
	MsgGenConfigExample    = strings.TrimSpace(msgGenConfigExampleRaw)

	//go:embed msgs/completion-long.txt
	msgCompletionLongRaw string
	MsgCompletionLong    = strings.TrimSpace(msgCompletionLongRaw)

	//go:embed msgs/usage-template.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
