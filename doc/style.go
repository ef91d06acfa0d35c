package doc

import (
	"math"
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"
)

// styleDecl is one property: value pair of an inline style attribute.
type styleDecl struct {
	Property string
	Value    string
}

// parseStyle tokenizes an inline style attribute into declarations.
// Malformed declarations are skipped; the last declaration of a property
// wins when looked up through styleValue.
func parseStyle(style string) []styleDecl {
	if strings.TrimSpace(style) == "" {
		return nil
	}

	var (
		out      []styleDecl
		prop     string
		broken   bool
		inValue  bool
		pendingS bool
		value    strings.Builder
	)
	flush := func() {
		if prop != "" && inValue && !broken {
			if v := strings.TrimSpace(value.String()); v != "" {
				out = append(out, styleDecl{Property: strings.ToLower(prop), Value: v})
			}
		}
		prop, broken, inValue, pendingS = "", false, false, false
		value.Reset()
	}

	s := scanner.New(style)
	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF || tok.Type == scanner.TokenError {
			break
		}
		switch {
		case tok.Type == scanner.TokenChar && tok.Value == ";":
			flush()
		case tok.Type == scanner.TokenComment:
		case !inValue:
			switch {
			case tok.Type == scanner.TokenS:
			case tok.Type == scanner.TokenIdent && prop == "":
				prop = tok.Value
			case tok.Type == scanner.TokenChar && tok.Value == ":" && prop != "":
				inValue = true
			default:
				broken = true
			}
		case tok.Type == scanner.TokenS:
			pendingS = value.Len() > 0
		default:
			if pendingS {
				value.WriteByte(' ')
				pendingS = false
			}
			value.WriteString(tok.Value)
		}
	}
	flush()
	return out
}

func styleValue(decls []styleDecl, property string) (string, bool) {
	v, ok := "", false
	for _, d := range decls {
		if d.Property == property {
			v, ok = d.Value, true
		}
	}
	return v, ok
}

// MaxPixels bounds any pixel length read from markup or arguments.
const MaxPixels = 1 << 20

// ParsePixels reads "300", "300px" or "300.4px" as a rounded positive
// pixel count.
func ParsePixels(s string) (int, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSuffix(s, "px")
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || !(f > 0) || f > MaxPixels {
		return 0, false
	}
	px := int(math.Round(f))
	if px <= 0 {
		return 0, false
	}
	return px, true
}

// styleBuilder writes declarations in the compact form used by Serialize:
// "prop:value;" with no separating spaces.
type styleBuilder struct {
	sb strings.Builder
}

func (b *styleBuilder) add(prop, value string) {
	b.sb.WriteString(prop)
	b.sb.WriteByte(':')
	b.sb.WriteString(value)
	b.sb.WriteByte(';')
}

func (b *styleBuilder) String() string { return b.sb.String() }
