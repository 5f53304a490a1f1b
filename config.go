package textcore

import (
	"fmt"
	"io"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/image/math/fixed"

	"github.com/oligo/textcore/history"
	"github.com/oligo/textcore/layout"
)

type fileOptions struct {
	// WrapWidth is in pixels; zero disables wrapping.
	WrapWidth   int     `toml:"wrap_width"`
	Alignment   string  `toml:"alignment"`
	VAlignment  string  `toml:"vertical_alignment"`
	LineSpacing float64 `toml:"line_spacing"`
	MaskChar    string  `toml:"mask_char"`
	ReadOnly    bool    `toml:"read_only"`

	Undo struct {
		MaxActions int `toml:"max_actions"`
		MaxCost    int `toml:"max_cost"`
		IdleMs     int `toml:"idle_ms"`
	} `toml:"undo"`
}

// LoadOptions reads editor options from TOML. Absent keys yield no option,
// so loaded options compose with defaults and with options passed directly
// to NewEditor.
func LoadOptions(r io.Reader) ([]Option, error) {
	var f fileOptions
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding options: %w", err)
	}

	var opts []Option
	if f.WrapWidth > 0 {
		opts = append(opts, WithWrapWidth(fixed.I(f.WrapWidth)))
	}

	switch f.Alignment {
	case "":
	case "left":
		opts = append(opts, WithAlignment(layout.AlignLeft))
	case "center":
		opts = append(opts, WithAlignment(layout.AlignCenter))
	case "right":
		opts = append(opts, WithAlignment(layout.AlignRight))
	default:
		return nil, fmt.Errorf("unknown alignment %q", f.Alignment)
	}

	switch f.VAlignment {
	case "":
	case "top":
		opts = append(opts, WithVAlignment(layout.AlignTop))
	case "middle":
		opts = append(opts, WithVAlignment(layout.AlignMiddle))
	case "bottom":
		opts = append(opts, WithVAlignment(layout.AlignBottom))
	default:
		return nil, fmt.Errorf("unknown vertical alignment %q", f.VAlignment)
	}

	if f.LineSpacing > 0 {
		opts = append(opts, WithLineSpacing(float32(f.LineSpacing)))
	}

	if f.MaskChar != "" {
		runes := []rune(f.MaskChar)
		if len(runes) != 1 {
			return nil, fmt.Errorf("mask_char must be a single character, got %q", f.MaskChar)
		}
		opts = append(opts, WithMask(runes[0]))
	}

	if f.ReadOnly {
		opts = append(opts, WithReadOnly(true))
	}

	if f.Undo.MaxActions > 0 || f.Undo.MaxCost > 0 || f.Undo.IdleMs > 0 {
		opts = append(opts, WithUndoLimits(history.Config{
			MaxActionsPerTransaction: f.Undo.MaxActions,
			MaxCost:                  f.Undo.MaxCost,
			IdleTimeout:              time.Duration(f.Undo.IdleMs) * time.Millisecond,
		}))
	}

	return opts, nil
}
