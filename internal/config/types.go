// Package config provides shared configuration types for leapreq.
// This package is decoupled from CLI concerns and can be used by the
// server and other tools that need to load project configuration.
package config

// ServerConfig holds configuration for the web server.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// PublishConfig holds configuration for document publishing.
type PublishConfig struct {
	// Format selects the publisher: markdown or text.
	Format string `koanf:"format"`

	// Output is the directory published files are written to.
	// Empty means publish to stdout.
	Output string `koanf:"output"`
}

// CheckConfig holds validation rule configuration.
type CheckConfig struct {
	// Disabled contains rule IDs to disable.
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (error, warning, info, hint).
	Severity map[string]string `koanf:"severity"`
}

// ProjectConfig holds the minimal project configuration needed by tools
// outside the CLI. This is a subset of the full CLI Config.
type ProjectConfig struct {
	// Root overrides the inferred project root.
	Root string `koanf:"root"`

	// SkipExtensions lists file extensions excluded from keyword
	// content scanning.
	SkipExtensions []string `koanf:"skip_extensions"`

	// VCS selects the corpus provider: auto, git, or none.
	VCS string `koanf:"vcs"`

	// FailOn is the severity at or above which check exits non-zero.
	FailOn string `koanf:"fail_on"`

	Check   *CheckConfig   `koanf:"check"`
	Server  *ServerConfig  `koanf:"server"`
	Publish *PublishConfig `koanf:"publish"`
}
