package editor

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

var (
	rgbFunc   = regexp.MustCompile(`(?i)^rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})\s*(?:,\s*[\d.]+\s*)?\)$`)
	colorStop = regexp.MustCompile(`(?i)#[0-9a-f]{3,8}\b|rgba?\([^)]*\)|\b[a-z]+\b`)
)

// cssOnlyNames are CSS color names missing from the SVG 1.1 table.
var cssOnlyNames = map[string]colorful.Color{
	"rebeccapurple": {R: 0x66 / 255.0, G: 0x33 / 255.0, B: 0x99 / 255.0},
}

// parseColor understands hex, rgb()/rgba() and CSS color names.
func parseColor(s string) (colorful.Color, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return colorful.Color{}, false
	}
	if strings.HasPrefix(s, "#") {
		// Drop an alpha channel; terminals cannot blend it.
		switch len(s) {
		case 5:
			s = s[:4]
		case 9:
			s = s[:7]
		}
		c, err := colorful.Hex(s)
		return c, err == nil
	}
	if m := rgbFunc.FindStringSubmatch(s); m != nil {
		var v [3]float64
		for i := range v {
			n, _ := strconv.Atoi(m[i+1])
			if n > 255 {
				return colorful.Color{}, false
			}
			v[i] = float64(n) / 255
		}
		return colorful.Color{R: v[0], G: v[1], B: v[2]}, true
	}
	name := strings.ToLower(s)
	if rgba, ok := colornames.Map[name]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, true
	}
	if c, ok := cssOnlyNames[name]; ok {
		return c, true
	}
	return colorful.Color{}, false
}

// gradientStops extracts the color stops of a CSS gradient, ignoring its
// direction and stop positions.
func gradientStops(value string) []colorful.Color {
	value = strings.TrimSpace(value)
	open := strings.IndexByte(value, '(')
	if open < 0 || !strings.HasSuffix(value, ")") {
		return nil
	}
	body := value[open+1 : len(value)-1]
	var stops []colorful.Color
	for _, tok := range colorStop.FindAllString(body, -1) {
		if c, ok := parseColor(tok); ok {
			stops = append(stops, c)
		}
	}
	return stops
}

// gradientAt samples stops at t in [0, 1], blending in Lab space.
func gradientAt(stops []colorful.Color, t float64) colorful.Color {
	switch len(stops) {
	case 0:
		return colorful.Color{}
	case 1:
		return stops[0]
	}
	if t <= 0 {
		return stops[0]
	}
	if t >= 1 {
		return stops[len(stops)-1]
	}
	seg := t * float64(len(stops)-1)
	i := int(seg)
	return stops[i].BlendLab(stops[i+1], seg-float64(i)).Clamped()
}

func terminalColor(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
