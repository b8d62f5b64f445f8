package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/internal/registry"
	"github.com/dsi-platform/dsi/internal/style"
)

const (
	// EnvPrefix prefixes every environment variable that overrides a config key.
	EnvPrefix = "DSI_"

	DefaultListenAddr  = ":8000"
	DefaultBuilderTool = "pack"
	DefaultRegistryURL = registry.DefaultRegistryURL

	buildersDirName = "builders"
)

type Config struct {
	ListenAddr       string        `toml:"listen-addr,omitempty" env:"LISTEN_ADDR"`
	RegistryURL      string        `toml:"registry-url,omitempty" env:"REGISTRY_URL"`
	RegistryCacheTTL time.Duration `toml:"registry-cache-ttl,omitempty" env:"REGISTRY_CACHE_TTL"`
	BuilderTool      string        `toml:"builder-tool,omitempty" env:"BUILDER_TOOL"`
	ConfigDir        string        `toml:"config-dir,omitempty" env:"CONFIG_DIR"`
	LifecycleVersion string        `toml:"lifecycle-version,omitempty" env:"LIFECYCLE_VERSION"`
	KillOnDisconnect bool          `toml:"kill-on-disconnect,omitempty" env:"KILL_ON_DISCONNECT"`
}

// DefaultConfigPath returns the location of config.toml under DSI_HOME, or ~/.dsi when unset.
func DefaultConfigPath() (string, error) {
	home, err := Home()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, "config.toml"), nil
}

// Home returns the directory dsi keeps its files in.
func Home() (string, error) {
	if dsiHome := os.Getenv("DSI_HOME"); dsiHome != "" {
		return dsiHome, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "getting user home")
	}
	return filepath.Join(home, ".dsi"), nil
}

// Read loads the config file at path. A missing file yields an empty config.
func Read(path string) (Config, error) {
	cfg := Config{}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil && !os.IsNotExist(err) {
		return Config{}, errors.Wrapf(err, "failed to read config file at path %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("%s in %s", FormatUndecodedKeys(undecoded), style.Symbol(path))
	}

	return cfg, nil
}

// Write saves cfg to path, creating parent directories as needed.
func Write(cfg Config, path string) error {
	if err := MkdirAll(filepath.Dir(path)); err != nil {
		return err
	}
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	return toml.NewEncoder(w).Encode(cfg)
}

// MkdirAll creates dir and its parents.
func MkdirAll(dir string) error {
	return os.MkdirAll(dir, 0750)
}

// ApplyEnv overrides values of cfg with DSI_ prefixed variables from environ.
func ApplyEnv(cfg Config, environ []string) (Config, error) {
	if err := env.ParseWithOptions(&cfg, env.Options{
		Prefix:      EnvPrefix,
		Environment: env.ToMap(environ),
	}); err != nil {
		return Config{}, errors.Wrap(err, "parsing environment")
	}
	return cfg, nil
}

// WithDefaults fills unset values. Builder configs default to the builders directory under home.
func (c Config) WithDefaults(home string) Config {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.RegistryURL == "" {
		c.RegistryURL = DefaultRegistryURL
	}
	if c.BuilderTool == "" {
		c.BuilderTool = DefaultBuilderTool
	}
	if c.ConfigDir == "" {
		c.ConfigDir = filepath.Join(home, buildersDirName)
	}
	return c
}

// Load reads the config file at path, applies the environment and fills defaults.
func Load(path string, environ []string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err = ApplyEnv(cfg, environ)
	if err != nil {
		return Config{}, err
	}

	return cfg.WithDefaults(filepath.Dir(path)), nil
}

// FormatUndecodedKeys renders the top-most unknown keys of a toml document.
func FormatUndecodedKeys(undecodedKeys []toml.Key) string {
	unusedKeys := map[string]interface{}{}
	var ordered []string
	for _, key := range undecodedKeys {
		keyName := key.String()

		parent := strings.Split(keyName, ".")[0]
		if _, ok := unusedKeys[parent]; ok {
			continue
		}
		if _, ok := unusedKeys[keyName]; ok {
			continue
		}

		unusedKeys[keyName] = nil
		ordered = append(ordered, keyName)
	}

	var errorKeys []string
	for _, errorKey := range ordered {
		errorKeys = append(errorKeys, style.Symbol(errorKey))
	}

	pluralizedElement := "element"
	if len(errorKeys) > 1 {
		pluralizedElement += "s"
	}

	return strings.Join([]string{"unknown configuration", pluralizedElement, strings.Join(errorKeys, ", ")}, " ")
}
