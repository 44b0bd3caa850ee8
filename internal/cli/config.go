package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Config holds the tool-level defaults applied when a command's flags are
// omitted. Key and value widths only matter to "create"; opened files
// carry their own widths in the header.
type Config struct {
	KeySize   int `json:"key_size"`
	ValueSize int `json:"value_size"`
}

// ConfigSources tracks which config files contributed to the effective
// config.
type ConfigSources struct {
	Global  string // path to the global config if loaded
	Project string // path to the project config if loaded
}

// ConfigFileName is the project-level config file, looked up in the
// working directory. JSONC: comments and trailing commas are allowed.
const ConfigFileName = ".vaultidx.json"

// Config errors.
var (
	errConfigFileNotFound = errors.New("config file not found")
	errConfigInvalid      = errors.New("invalid config file")
)

// DefaultConfig returns the built-in defaults: the widths of a chunk
// index (32-byte hash keys, 12-byte segment/offset/length values).
func DefaultConfig() Config {
	return Config{KeySize: 32, ValueSize: 12}
}

// LoadConfig builds the effective config. Precedence, highest last:
// defaults, global user config, project config (or the explicit file
// given via --config, which must exist).
func LoadConfig(workDir, configPath string, env map[string]string) (Config, ConfigSources, error) {
	cfg := DefaultConfig()

	var sources ConfigSources

	globalPath := globalConfigPath(env)
	if globalPath != "" {
		loaded, found, err := readConfigFile(globalPath)
		if err != nil {
			return Config{}, ConfigSources{}, err
		}

		if found {
			cfg = mergeConfig(cfg, loaded)
			sources.Global = globalPath
		}
	}

	projectPath := filepath.Join(workDir, ConfigFileName)
	mustExist := false

	if configPath != "" {
		projectPath = configPath
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}

		mustExist = true
	}

	loaded, found, err := readConfigFile(projectPath)
	if err != nil {
		return Config{}, ConfigSources{}, err
	}

	if !found && mustExist {
		return Config{}, ConfigSources{}, fmt.Errorf("%w: %s", errConfigFileNotFound, configPath)
	}

	if found {
		cfg = mergeConfig(cfg, loaded)
		sources.Project = projectPath
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, ConfigSources{}, err
	}

	return cfg, sources, nil
}

// globalConfigPath resolves $XDG_CONFIG_HOME/vaultidx/config.json,
// falling back to ~/.config/vaultidx/config.json. Empty when no home
// directory can be determined.
func globalConfigPath(env map[string]string) string {
	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, "vaultidx", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "vaultidx", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", "vaultidx", "config.json")
}

func readConfigFile(path string) (Config, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is intentionally user-controlled
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	cfg, err := parseConfig(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	return cfg, true, nil
}

func parseConfig(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

// mergeConfig overlays non-zero fields of overlay on base. A config file
// that omits a field keeps the lower-precedence value.
func mergeConfig(base, overlay Config) Config {
	if overlay.KeySize != 0 {
		base.KeySize = overlay.KeySize
	}

	if overlay.ValueSize != 0 {
		base.ValueSize = overlay.ValueSize
	}

	return base
}

func validateConfig(cfg Config) error {
	if cfg.KeySize < 1 || cfg.KeySize > 127 {
		return fmt.Errorf("%w: key_size %d out of [1,127]", errConfigInvalid, cfg.KeySize)
	}

	if cfg.ValueSize < 4 || cfg.ValueSize > 127 {
		return fmt.Errorf("%w: value_size %d out of [4,127]", errConfigInvalid, cfg.ValueSize)
	}

	return nil
}

// FormatConfig renders cfg as indented JSON.
func FormatConfig(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("formatting config: %w", err)
	}

	return string(data), nil
}

// WriteDefaultConfig writes a commented starter config to path. The write
// is atomic so a concurrent reader never sees a partial file.
func WriteDefaultConfig(path string) error {
	content := `{
  // Widths used by "vaultidx create" when -k/-v are omitted.
  // key_size in [1,127], value_size in [4,127].
  "key_size": 32,
  "value_size": 12,
}
`

	if err := atomic.WriteFile(path, bytes.NewReader([]byte(content))); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	return nil
}
