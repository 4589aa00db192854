// Package config provides configuration management for the leapreq CLI.
//
// The shared project configuration types live in internal/config; this
// package re-exports them via type aliases and adds the CLI-only
// fields. Loading follows the precedence flags > environment > config
// file > defaults.
package config

import (
	sharedcfg "github.com/leapstack-labs/leapreq/internal/config"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// ServerConfig is an alias for the shared server configuration.
// This allows CLI code to use config.ServerConfig without importing
// internal/config.
type ServerConfig = sharedcfg.ServerConfig

// PublishConfig is an alias for the shared publish configuration.
type PublishConfig = sharedcfg.PublishConfig

// CheckConfig is an alias for the shared validation rule configuration.
type CheckConfig = sharedcfg.CheckConfig

// Config holds all CLI configuration options.
type Config struct {
	// Root is the project root the document tree is discovered under.
	Root string `koanf:"root"`

	// SkipExtensions lists file extensions excluded from keyword
	// content scanning.
	SkipExtensions []string `koanf:"skip_extensions"`

	// VCS selects the corpus provider: auto, git, or none.
	VCS string `koanf:"vcs"`

	// FailOn is the severity at or above which check exits non-zero.
	FailOn core.Severity `koanf:"fail_on"`

	Verbose bool `koanf:"verbose"`

	// Output selects the renderer mode: auto, text, markdown, or json.
	Output string `koanf:"output"`

	Server  ServerConfig  `koanf:"server"`
	Publish PublishConfig `koanf:"publish"`
	Check   CheckConfig   `koanf:"check"`
}

// Default configuration values. Project-level defaults come from the
// shared internal/config package.
const (
	DefaultVCS    = sharedcfg.DefaultVCSMode
	DefaultFailOn = sharedcfg.DefaultFailOn
	DefaultOutput = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)
