package style

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Computed holds the resolved values used for drawing. LeftPct and TopPct
// are 0-100 for percentage positioning; -1 means Left/Top are pixels.
type Computed struct {
	Background color.RGBA
	Color      color.RGBA
	Border     color.RGBA
	HasBorder  bool
	Width      int32
	Height     int32
	Left       int32
	Top        int32
	LeftPct    int32
	TopPct     int32
	// Padding offsets text from the node's left and top edges.
	Padding  int32
	FontSize int32
	// Gap separates stacked menu items.
	Gap int32
}

// Default returns a transparent, borderless style with white text.
func Default() Computed {
	return Computed{
		Background: color.RGBA{},
		Color:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		Border:     color.RGBA{A: 255},
		LeftPct:    -1,
		TopPct:     -1,
		Padding:    4,
		FontSize:   20,
	}
}

var named = map[string]color.RGBA{
	"transparent": {},
	"black":       {A: 255},
	"white":       {R: 255, G: 255, B: 255, A: 255},
}

// ParseColor parses #RGB, #RRGGBB, #RRGGBBAA and a few colour keywords.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := named[s]; ok {
		return c, true
	}
	alpha := uint8(255)
	if len(s) == 9 && s[0] == '#' {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return color.RGBA{}, false
		}
		alpha = uint8(a)
		s = s[:7]
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return color.RGBA{}, false
	}
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: alpha}, true
}

// ParsePx parses a number with an optional "px" suffix.
func ParsePx(s string) (int32, bool) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// ParsePct parses "N%" with N in [0, 100].
func ParsePct(s string) (int32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || n < 0 || n > 100 {
		return 0, false
	}
	return int32(n), true
}

// Merge collects the properties of every rule matching class or id, in
// sheet order. Hover rules apply only when hovered and win over plain
// rules.
func (s *Stylesheet) Merge(class, id string, hovered bool) map[string]string {
	merged := make(map[string]string)
	if s == nil {
		return merged
	}
	for _, pass := range []bool{false, true} {
		if pass && !hovered {
			break
		}
		for _, rule := range s.Rules {
			base, pseudo, _ := strings.Cut(rule.Selector, ":")
			if (pseudo == "hover") != pass {
				continue
			}
			if (base[0] == '.' && base[1:] == class && class != "") || (base[0] == '#' && base[1:] == id && id != "") {
				for k, v := range rule.Props {
					merged[k] = v
				}
			}
		}
	}
	return merged
}

// Resolve computes the style of a node.
func (s *Stylesheet) Resolve(class, id string, hovered bool) Computed {
	return FromProps(s.Merge(class, id, hovered))
}

// FromProps builds a computed style from merged properties. Unparseable
// values keep their defaults.
func FromProps(props map[string]string) Computed {
	out := Default()
	for k, v := range props {
		switch k {
		case "background", "background-color":
			if c, ok := ParseColor(v); ok {
				out.Background = c
			}
		case "color":
			if c, ok := ParseColor(v); ok {
				out.Color = c
			}
		case "border", "border-color":
			// "1px solid #fff" style shorthands: the colour is the last word.
			fields := strings.Fields(v)
			if len(fields) == 0 {
				continue
			}
			if c, ok := ParseColor(fields[len(fields)-1]); ok {
				out.Border = c
				out.HasBorder = true
			}
		case "width":
			if n, ok := ParsePx(v); ok {
				out.Width = n
			}
		case "height":
			if n, ok := ParsePx(v); ok {
				out.Height = n
			}
		case "left", "x":
			if pct, ok := ParsePct(v); ok {
				out.LeftPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Left = n
			}
		case "top", "y":
			if pct, ok := ParsePct(v); ok {
				out.TopPct = pct
			} else if n, ok := ParsePx(v); ok {
				out.Top = n
			}
		case "padding":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Padding = n
			}
		case "font-size":
			if n, ok := ParsePx(v); ok && n > 0 {
				out.FontSize = n
			}
		case "gap":
			if n, ok := ParsePx(v); ok && n >= 0 {
				out.Gap = n
			}
		}
	}
	return out
}
