package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	_ "github.com/leapstack-labs/leapreq/internal/check/rules" // register validation rules
	"github.com/leapstack-labs/leapreq/internal/cli/config"
	"github.com/leapstack-labs/leapreq/internal/cli/output"
	"github.com/leapstack-labs/leapreq/internal/tree"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Tree     *tree.Tree
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext with the document tree
// built from the configured project root.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	t, err := buildTree(cmd, cfg, logger)
	if err != nil {
		return nil, err
	}

	mode := output.Mode(cfg.Output)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Tree:     t,
		Renderer: r,
	}, nil
}

// NewCommandContextWithoutTree creates a CommandContext without loading
// the project. Useful for commands that don't touch the document tree.
func NewCommandContextWithoutTree(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.Output)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back
// to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	root := os.Getenv("LEAPREQ_ROOT")
	if root == "" {
		root, _ = os.Getwd()
	}
	failOn := core.SeverityWarning
	if sev, ok := core.ParseSeverity(os.Getenv("LEAPREQ_FAIL_ON")); ok {
		failOn = sev
	}

	return &config.Config{
		Root:    root,
		VCS:     getEnvOrDefault("LEAPREQ_VCS", config.DefaultVCS),
		FailOn:  failOn,
		Verbose: os.Getenv("LEAPREQ_VERBOSE") == "true",
		Output:  os.Getenv("LEAPREQ_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func buildTree(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger) (*tree.Tree, error) {
	return tree.Build(cmd.Context(), tree.Config{
		Root:           cfg.Root,
		VCS:            cfg.VCS,
		SkipExtensions: cfg.SkipExtensions,
		Logger:         logger,
	})
}
