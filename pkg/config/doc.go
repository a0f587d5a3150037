// Package config loads assetaudit configuration.
//
// Values are layered with koanf, later layers overriding earlier ones:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. the project file, .assetaudit.toml or .assetaudit.yaml in the project root
//  3. ASSETAUDIT_* environment variables; a double underscore separates the
//     section from the key, e.g. ASSETAUDIT_MATCHING__REGEX_ENGINE=dotnet
//
// The merged tree is decoded into Config with mapstructure.
package config
