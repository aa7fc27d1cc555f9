// Package presets holds the built-in parameter presets.
package presets

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/rmitchellscott/ditherbox/internal/dither"
)

//go:embed builtin.yml
var builtinYAML []byte

// Preset is a named set of dither parameters.
type Preset struct {
	ID          string            `json:"id" yaml:"id"`
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  dither.Parameters `json:"parameters" yaml:"parameters"`
	Builtin     bool              `json:"builtin" yaml:"-"`
}

// UnmarshalYAML starts every preset from the default parameters so the
// file only lists what differs.
func (p *Preset) UnmarshalYAML(value *yaml.Node) error {
	type plain Preset
	tmp := plain{Parameters: dither.DefaultParameters()}
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	*p = Preset(tmp)
	return nil
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

var (
	loadOnce sync.Once
	builtin  []Preset
	loadErr  error
)

// Parse reads a presets document.
func Parse(data []byte) ([]Preset, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	seen := make(map[string]bool, len(file.Presets))
	for i := range file.Presets {
		p := &file.Presets[i]
		if p.ID == "" {
			return nil, fmt.Errorf("preset %d has no id", i)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate preset id %q", p.ID)
		}
		seen[p.ID] = true
		if err := p.Parameters.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.ID, err)
		}
	}
	return file.Presets, nil
}

// Builtin returns the embedded presets in file order.
func Builtin() ([]Preset, error) {
	loadOnce.Do(func() {
		builtin, loadErr = Parse(builtinYAML)
		for i := range builtin {
			builtin[i].Builtin = true
		}
	})
	if loadErr != nil {
		return nil, loadErr
	}
	out := make([]Preset, len(builtin))
	copy(out, builtin)
	return out, nil
}

// Find returns the built-in preset with id.
func Find(id string) (Preset, bool) {
	all, err := Builtin()
	if err != nil {
		return Preset{}, false
	}
	for _, p := range all {
		if p.ID == id {
			return p, true
		}
	}
	return Preset{}, false
}
