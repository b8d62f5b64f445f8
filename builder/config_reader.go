package builder

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/dsi-platform/dsi/internal/config"
	"github.com/dsi-platform/dsi/internal/style"
)

// ReadConfig reads a builder configuration from the file path provided and returns the
// configuration along with any warnings encountered while parsing
func ReadConfig(path string) (config Config, warnings []string, err error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, nil, errors.Wrap(err, "opening config file")
	}
	defer file.Close()

	config, err = parseConfig(file, path)
	if err != nil {
		return Config{}, nil, errors.Wrapf(err, "parse contents of '%s'", path)
	}

	if len(config.Order) == 0 {
		warnings = append(warnings, fmt.Sprintf("empty %s definition", style.Symbol("order")))
	}

	return config, warnings, nil
}

func parseConfig(reader io.Reader, path string) (Config, error) {
	builderConfig := Config{}

	tomlMetadata, err := toml.NewDecoder(reader).Decode(&builderConfig)
	if err != nil {
		return Config{}, errors.Wrap(err, "decoding toml contents")
	}

	if undecodedKeys := tomlMetadata.Undecoded(); len(undecodedKeys) > 0 {
		return Config{}, errors.Errorf("%s in %s",
			config.FormatUndecodedKeys(undecodedKeys),
			style.Symbol(path),
		)
	}

	return builderConfig, nil
}

// Encode writes cfg as a builder.toml document.
func Encode(w io.Writer, cfg Config) error {
	buf := bufio.NewWriter(w)
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "encoding builder config")
	}
	return buf.Flush()
}

// WriteConfig writes cfg to path. The document is written to a temporary file in the same
// directory and renamed into place, so readers see either the previous or the new document.
func WriteConfig(path string, cfg Config) error {
	dir := filepath.Dir(path)
	if err := config.MkdirAll(dir); err != nil {
		return errors.Wrapf(err, "creating directory %s", style.Symbol(dir))
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "creating temporary file")
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := Encode(tmp, cfg); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "syncing builder config")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing builder config")
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return errors.Wrap(err, "setting builder config permissions")
	}

	return errors.Wrapf(os.Rename(tmpName, path), "moving builder config to %s", style.Symbol(path))
}
