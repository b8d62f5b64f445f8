package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dsi-platform/dsi"
	"github.com/dsi-platform/dsi/internal/style"
)

// ReadDroidFile loads a droid from a YAML (.yml, .yaml) or JSON document.
func ReadDroidFile(path string) (*dsi.Droid, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading droid file")
	}

	droid := &dsi.Droid{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(contents, droid)
	default:
		err = json.Unmarshal(contents, droid)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "parsing droid file %s", style.Symbol(path))
	}

	return droid, nil
}
