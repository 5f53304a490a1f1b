package textcore

import (
	"strings"
	"testing"

	"golang.org/x/image/math/fixed"
)

func TestLoadOptions(t *testing.T) {
	input := `
wrap_width = 48
alignment = "center"
line_spacing = 2.0
mask_char = "•"

[undo]
max_cost = 4096
idle_ms = 300
`
	opts, err := LoadOptions(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 5 {
		t.Logf("options: %d", len(opts))
		t.Fail()
	}

	e := NewEditor(testMono(), opts...)
	e.Insert("secret", 0)

	if e.Text() != "••••••" {
		t.Logf("masked text: %q", e.Text())
		t.Fail()
	}
	if e.params.WrapWidth != fixed.I(48) || e.params.LineSpacing != 2 {
		t.Logf("params: %+v", e.params)
		t.Fail()
	}
}

func TestLoadOptionsEmpty(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 0 {
		t.Logf("options: %d", len(opts))
		t.Fail()
	}
}

func TestLoadOptionsRejectsBadValues(t *testing.T) {
	cases := []string{
		`alignment = "justify"`,
		`vertical_alignment = "baseline"`,
		`mask_char = "ab"`,
		`wrap_width = "wide"`,
	}

	for _, input := range cases {
		if _, err := LoadOptions(strings.NewReader(input)); err == nil {
			t.Logf("no error for %q", input)
			t.Fail()
		}
	}
}

func TestLoadOptionsReadOnly(t *testing.T) {
	opts, err := LoadOptions(strings.NewReader(`read_only = true`))
	if err != nil {
		t.Fatal(err)
	}

	e := NewEditor(testMono(), opts...)
	if err := e.Insert("x", 0); err == nil {
		t.Fail()
	}
}
