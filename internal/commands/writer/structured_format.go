package writer

import (
	"bytes"
	"encoding/json"

	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dsi-platform/dsi/internal/buildpack"
	"github.com/dsi-platform/dsi/internal/commands"
	"github.com/dsi-platform/dsi/logging"
)

// SuggestOutput is the document the structured writers emit. Common stacks come first so
// the TOML rendering keeps plain keys ahead of the buildpack tables.
type SuggestOutput struct {
	CommonStacks []string        `json:"common_stacks" yaml:"common_stacks" toml:"common_stacks"`
	Buildpacks   []BuildpackInfo `json:"buildpacks" yaml:"buildpacks" toml:"buildpacks"`
}

type BuildpackInfo struct {
	URI     string   `json:"uri" yaml:"uri" toml:"uri"`
	ID      string   `json:"id" yaml:"id" toml:"id"`
	Version string   `json:"version" yaml:"version" toml:"version"`
	Stacks  []string `json:"stacks" yaml:"stacks" toml:"stacks"`
}

func NewSuggestOutput(buildpacks []*buildpack.Buildpack, commonStacks []string) SuggestOutput {
	out := SuggestOutput{
		Buildpacks:   []BuildpackInfo{},
		CommonStacks: append([]string{}, commonStacks...),
	}
	for _, bp := range buildpacks {
		out.Buildpacks = append(out.Buildpacks, BuildpackInfo{
			URI:     bp.URI,
			ID:      bp.ID,
			Version: bp.Version,
			Stacks:  append([]string{}, bp.CompatibleStacks...),
		})
	}
	return out
}

type StructuredFormat struct {
	MarshalFunc func(interface{}) ([]byte, error)
}

func (w *StructuredFormat) Print(logger logging.Logger, buildpacks []*buildpack.Buildpack, commonStacks []string) error {
	out, err := w.MarshalFunc(NewSuggestOutput(buildpacks, commonStacks))
	if err != nil {
		return errors.Wrap(err, "marshaling stack suggestion")
	}

	_, err = logger.Writer().Write(out)
	return err
}

func NewJSON() commands.StacksWriter {
	return &StructuredFormat{
		MarshalFunc: func(v interface{}) ([]byte, error) {
			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return nil, err
			}
			return append(out, '\n'), nil
		},
	}
}

func NewYAML() commands.StacksWriter {
	return &StructuredFormat{
		MarshalFunc: func(v interface{}) ([]byte, error) {
			buf := bytes.NewBuffer(nil)
			enc := yaml.NewEncoder(buf)
			enc.SetIndent(2)
			if err := enc.Encode(v); err != nil {
				return nil, err
			}
			if err := enc.Close(); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	}
}

func NewTOML() commands.StacksWriter {
	return &StructuredFormat{
		MarshalFunc: func(v interface{}) ([]byte, error) {
			buf := bytes.NewBuffer(nil)
			err := toml.NewEncoder(buf).Order(toml.OrderPreserve).PromoteAnonymous(false).Encode(v)
			if err != nil {
				return []byte{}, err
			}
			return buf.Bytes(), nil
		},
	}
}
