package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the merged assetaudit configuration.
type Config struct {
	Paths      Paths      `koanf:"paths"`
	Rules      Rules      `koanf:"rules"`
	Matching   Matching   `koanf:"matching"`
	Comparison Comparison `koanf:"comparison"`
	Scheduler  Scheduler  `koanf:"scheduler"`
	Output     Output     `koanf:"output"`
}

// Paths are project-relative locations, always slash separated.
type Paths struct {
	AssetsDir      string `koanf:"assets_dir"`
	ProxyAssetsDir string `koanf:"proxy_assets_dir"`
	ProxyTexture   string `koanf:"proxy_texture"`
	ProxyModel     string `koanf:"proxy_model"`
	ProxyAudio     string `koanf:"proxy_audio"`
}

// Rules configures the rule side-table.
type Rules struct {
	Ledger     string `koanf:"ledger"`
	LedgerPath string `koanf:"ledger_path"`
	SQLitePath string `koanf:"sqlite_path"`
}

type Matching struct {
	RegexEngine string   `koanf:"regex_engine"`
	Exclude     []string `koanf:"exclude"`
}

type Comparison struct {
	IgnoredPaths   []string          `koanf:"ignored_paths"`
	SelectiveScope string            `koanf:"selective_scope"`
	TypeHints      map[string]string `koanf:"type_hints"`
}

type Scheduler struct {
	TickInterval  time.Duration `koanf:"tick_interval"`
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

type Output struct {
	Format string `koanf:"format"`
}

const (
	LedgerTOML   = "toml"
	LedgerSQLite = "sqlite"

	RegexEngineRE2    = "re2"
	RegexEngineDotNet = "dotnet"

	ScopeAll    = "all"
	ScopeSingle = "single"
)

// Validate checks enum-valued settings and required paths.
func (c *Config) Validate() error {
	var problems []string

	if c.Paths.AssetsDir == "" {
		problems = append(problems, "paths.assets_dir must not be empty")
	}
	if c.Paths.ProxyAssetsDir == "" {
		problems = append(problems, "paths.proxy_assets_dir must not be empty")
	}
	switch c.Rules.Ledger {
	case LedgerTOML, LedgerSQLite:
	default:
		problems = append(problems, fmt.Sprintf("rules.ledger must be %q or %q, got %q", LedgerTOML, LedgerSQLite, c.Rules.Ledger))
	}
	switch c.Matching.RegexEngine {
	case RegexEngineRE2, RegexEngineDotNet:
	default:
		problems = append(problems, fmt.Sprintf("matching.regex_engine must be %q or %q, got %q", RegexEngineRE2, RegexEngineDotNet, c.Matching.RegexEngine))
	}
	switch c.Comparison.SelectiveScope {
	case ScopeAll, ScopeSingle:
	default:
		problems = append(problems, fmt.Sprintf("comparison.selective_scope must be %q or %q, got %q", ScopeAll, ScopeSingle, c.Comparison.SelectiveScope))
	}
	if c.Scheduler.TickInterval < 0 {
		problems = append(problems, "scheduler.tick_interval must not be negative")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}
