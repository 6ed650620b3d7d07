package ui

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Rule is a single CSS rule: one selector and its property values (raw strings).
type Rule struct {
	Selector string            // e.g. ".panel" or "#menu"
	Props    map[string]string // e.g. "background" -> "#333"
}

// Stylesheet is a list of rules (order matters: later overrides earlier).
type Stylesheet struct {
	Rules []Rule
}

// Matches reports whether the rule's selector names e's class or ID.
func (r Rule) Matches(e *Element) bool {
	switch r.Selector[0] {
	case '.':
		return e.Class != "" && r.Selector[1:] == e.Class
	case '#':
		return e.ID != "" && r.Selector[1:] == e.ID
	}
	return false
}

// Apply sets style properties on e and its descendants. Rules apply in order, so later rules win.
//
// Supported properties (numbers are normalized screen units; percentages are of the screen):
//
//	left, top     element center; left: 0% is the left edge, top: 0% the top edge
//	width, height half extents; 0 derives the dimension from the texture
//	z-index       integer draw order
//	visibility    visible | hidden
//	opacity       0..1
//	background    #rgb, #rgba, #rrggbb or #rrggbbaa
func (s *Stylesheet) Apply(e *Element) {
	if s == nil {
		return
	}
	e.Walk(func(el *Element) {
		for _, r := range s.Rules {
			if r.Matches(el) {
				applyProps(el, r.Props)
			}
		}
	})
}

func applyProps(e *Element, props map[string]string) {
	for k, v := range props {
		switch k {
		case "left":
			if p, ok := ParsePct(v); ok {
				e.Position[0] = -1 + 2*p
			} else if n, ok := ParseNumber(v); ok {
				e.Position[0] = n
			}
		case "top":
			if p, ok := ParsePct(v); ok {
				e.Position[1] = 1 - 2*p
			} else if n, ok := ParseNumber(v); ok {
				e.Position[1] = n
			}
		case "width":
			if p, ok := ParsePct(v); ok {
				e.Width = p
			} else if n, ok := ParseNumber(v); ok {
				e.Width = n
			}
		case "height":
			if p, ok := ParsePct(v); ok {
				e.Height = p
			} else if n, ok := ParseNumber(v); ok {
				e.Height = n
			}
		case "z-index":
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				e.ZIndex = n
			}
		case "visibility":
			switch strings.TrimSpace(v) {
			case "hidden":
				e.Visible = false
			case "visible":
				e.Visible = true
			}
		case "opacity":
			if n, ok := ParseNumber(v); ok {
				e.Opacity = mgl32.Clamp(n, 0, 1)
			}
		case "background":
			if c, ok := ParseHexColor(v); ok {
				e.Color = c
			}
		}
	}
}

// ParseHexColor parses #RGB, #RGBA, #RRGGBB or #RRGGBBAA into a [0,1] color.
func ParseHexColor(s string) (mgl32.Vec4, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || s[0] != '#' {
		return mgl32.Vec4{}, false
	}
	hex := s[1:]
	var c [4]uint8
	c[3] = 255
	switch len(hex) {
	case 3, 4:
		for i := range hex {
			v, ok := hexDigit(hex[i])
			if !ok {
				return mgl32.Vec4{}, false
			}
			c[i] = v * 17
		}
	case 6, 8:
		for i := 0; i < len(hex); i += 2 {
			hi, ok1 := hexDigit(hex[i])
			lo, ok2 := hexDigit(hex[i+1])
			if !ok1 || !ok2 {
				return mgl32.Vec4{}, false
			}
			c[i/2] = hi<<4 | lo
		}
	default:
		return mgl32.Vec4{}, false
	}
	return mgl32.Vec4{float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255}, true
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// ParseNumber parses a plain number.
func ParseNumber(s string) (float32, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 32)
	if err != nil {
		return 0, false
	}
	return float32(f), true
}

// ParsePct parses "N%" into N/100.
func ParsePct(s string) (float32, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:len(s)-1], 32)
	if err != nil {
		return 0, false
	}
	return float32(f) / 100, true
}
