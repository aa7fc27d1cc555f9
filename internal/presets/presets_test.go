package presets

import (
	"testing"

	"github.com/rmitchellscott/ditherbox/internal/dither"
	"github.com/rmitchellscott/ditherbox/internal/editor"
)

func TestBuiltinPresetsAreUsable(t *testing.T) {
	all, err := Builtin()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) == 0 {
		t.Fatal("no built-in presets")
	}
	for _, p := range all {
		if !p.Builtin || p.Name == "" {
			t.Errorf("preset %q: %+v", p.ID, p)
		}
		if err := editor.ValidateParameters(p.Parameters); err != nil {
			t.Errorf("preset %q: %v", p.ID, err)
		}
	}
}

func TestParseFillsDefaults(t *testing.T) {
	got, err := Parse([]byte(`
presets:
  - id: wide
    name: Wide
    parameters:
      quantize: 5
      matrix_m: 3
`))
	if err != nil {
		t.Fatal(err)
	}
	want := dither.DefaultParameters()
	want.Levels = 5
	want.MatrixM = 3
	if got[0].Parameters != want {
		t.Errorf("parameters = %+v, want %+v", got[0].Parameters, want)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	docs := map[string]string{
		"missing id": "presets:\n  - name: x\n",
		"duplicate":   "presets:\n  - id: a\n  - id: a\n",
		"bad levels": "presets:\n  - id: a\n    parameters:\n      quantize: 1\n",
		"not yaml":   "presets: [",
	}
	for name, doc := range docs {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFind(t *testing.T) {
	p, ok := Find("retro-rgb")
	if !ok {
		t.Fatal("retro-rgb missing")
	}
	if !p.Parameters.ColorMode || p.Parameters.Levels != 3 || p.Parameters.MatrixSize() != "4x4" {
		t.Errorf("retro-rgb = %+v", p.Parameters)
	}
	if _, ok := Find("nope"); ok {
		t.Error("found unknown preset")
	}
}
