package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	sharedcfg "github.com/leapstack-labs/leapreq/internal/config"
	"github.com/leapstack-labs/leapreq/internal/vcs"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

// loggerKey is used to store the logger in context.
// The cli package stores it via LoggerKey; commands retrieve it here,
// which avoids an import cycle between the two packages.
type loggerKey struct{}

// maxUpwardSearchLevels limits how far up the directory tree to search
// for a project config file.
const maxUpwardSearchLevels = 10

// Package-level koanf instance and config file tracking.
var (
	k              = koanf.New(".")
	configFileUsed string
	currentConfig  *Config
)

// ResetConfig resets the loader state. Used for testing.
func ResetConfig() {
	k = koanf.New(".")
	configFileUsed = ""
	currentConfig = nil
}

// configFileIn returns the project config file inside dir, if any.
// leapreq.yaml is preferred over leapreq.yml.
func configFileIn(dir string) string {
	for _, name := range []string{sharedcfg.ConfigFileName, sharedcfg.ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// findProjectRootUpward searches upward from startDir for a project
// config file. Returns empty when none is found within
// maxUpwardSearchLevels.
func findProjectRootUpward(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configFileIn(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root from CLI flags and the
// filesystem.
// Priority:
//  1. Explicit --root flag
//  2. The explicit config file's directory
//  3. Upward search from CWD for leapreq.yaml
//  4. The enclosing VCS working copy, falling back to CWD
func inferProjectRoot(cfgFile string, flags *pflag.FlagSet) string {
	if flags != nil && flags.Changed("root") {
		if root, _ := flags.GetString("root"); root != "" {
			if abs, err := filepath.Abs(root); err == nil {
				return abs
			}
			return filepath.Clean(root)
		}
	}

	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root := findProjectRootUpward(cwd); root != "" {
		return root
	}
	return vcs.FindRoot(cwd, sharedcfg.ConfigFileName, sharedcfg.ConfigFileNameAlt)
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not
// absolute. Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// LoadConfig loads configuration from file, environment variables, and
// flags. Precedence (highest to lowest): flags > env vars > config
// file > defaults.
func LoadConfig(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	// Reset koanf for fresh load
	k = koanf.New(".")

	projectRoot := inferProjectRoot(cfgFile, flags)

	// An explicit --root is already relative to CWD. Pre-compute its
	// absolute form so the project-root resolution below can't apply
	// twice.
	var flagRoot string
	if flags != nil && flags.Changed("root") {
		if v, _ := flags.GetString("root"); v != "" {
			flagRoot, _ = filepath.Abs(v)
		}
	}

	// 1. Load defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"skip_extensions": sharedcfg.DefaultSkipExtensions,
		"vcs":             sharedcfg.DefaultVCSMode,
		"fail_on":         sharedcfg.DefaultFailOn,
		"verbose":         false,
		"output":          DefaultOutput,
		"server.host":     sharedcfg.DefaultServerHost,
		"server.port":     sharedcfg.DefaultServerPort,
		"publish.format":  sharedcfg.DefaultPublishFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load the project config file
	if cfgFile == "" {
		cfgFile = configFileIn(projectRoot)
	}
	configFileUsed = cfgFile
	if configFileUsed != "" {
		if err := k.Load(file.Provider(configFileUsed), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFileUsed, err)
		}
	}

	// 3. Load environment variables (LEAPREQ_ prefix).
	// LEAPREQ_FAIL_ON -> fail_on; a double underscore descends into
	// nested keys: LEAPREQ_SERVER__PORT -> server.port.
	if err := k.Load(env.Provider("LEAPREQ_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "LEAPREQ_"))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			key := strings.ReplaceAll(f.Name, "-", "_")
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into the Config struct. Severity names arrive as
	// strings from every provider; the decode hook parses them.
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
				severityDecodeHook(),
			),
			Result:           &cfg,
			WeaklyTypedInput: true,
			TagName:          "koanf",
		},
	}); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// 6. Pin the root. An explicit flag wins as-is; a config file value
	// resolves against the project root; otherwise the inference holds.
	switch {
	case flagRoot != "":
		cfg.Root = flagRoot
	case cfg.Root != "":
		cfg.Root = resolvePathRelativeTo(cfg.Root, projectRoot)
	default:
		cfg.Root = projectRoot
	}

	// Store config for access by commands
	currentConfig = &cfg

	return &cfg, nil
}

// severityDecodeHook parses severity names (error, warning, info, hint)
// into core.Severity values during unmarshal.
func severityDecodeHook() mapstructure.DecodeHookFuncType {
	severityType := reflect.TypeOf(core.Severity(0))
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if from.Kind() != reflect.String || to != severityType {
			return data, nil
		}
		name := data.(string)
		sev, ok := core.ParseSeverity(name)
		if !ok {
			return nil, fmt.Errorf("unknown severity %q (want error, warning, info, or hint)", name)
		}
		return sev, nil
	}
}

// GetConfigFileUsed returns the path to the config file being used, if any.
func GetConfigFileUsed() string {
	return configFileUsed
}

// GetCurrentConfig returns the currently loaded configuration.
// This is available after LoadConfig is called.
func GetCurrentConfig() *Config {
	return currentConfig
}

// LoggerKey returns the context key used for storing the logger.
// This allows the commands package to retrieve the logger from context
// without creating an import cycle with the cli package.
func LoggerKey() interface{} {
	return loggerKey{}
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	// Return discard logger as safe fallback
	return slog.New(slog.DiscardHandler)
}
