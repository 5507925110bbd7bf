// Package config loads and merges scanrelay configuration from multiple
// sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GITHUB_REPOSITORY, SCANRELAY_PR,
//     SCANRELAY_FORMAT, SCANRELAY_FAIL_ON)
//  3. Config file (./.scanrelay.yaml, else $XDG_CONFIG_HOME/scanrelay/config.yaml)
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config] and [SetField]/[Save] to update a
// single key in the config file.
package config
