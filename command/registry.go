package command

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/iw2rmb/tincture/doc"
)

type factory func(arg string) (Command, error)

func noArg(c func() Command) factory {
	return func(string) (Command, error) { return c(), nil }
}

func valueArg(c func(string) Command) factory {
	return func(arg string) (Command, error) {
		if arg == "" {
			return nil, fmt.Errorf("%w: value required", ErrInvalidArgument)
		}
		return c(arg), nil
	}
}

var registry = map[string]factory{
	"toggleBold":      noArg(ToggleBold),
	"toggleItalic":    noArg(ToggleItalic),
	"toggleUnderline": noArg(ToggleUnderline),
	"toggleStrike":    noArg(ToggleStrike),
	"setColor":        valueArg(SetColor),
	"unsetColor":      noArg(UnsetColor),
	"setGradient":     valueArg(SetGradient),
	"unsetGradient":   noArg(UnsetGradient),
	"setFontFamily":   valueArg(SetFontFamily),
	"unsetFontFamily": noArg(UnsetFontFamily),
	"setFontSize":     valueArg(SetFontSize),
	"unsetFontSize":   noArg(UnsetFontSize),
	"setLink":         valueArg(SetLink),
	"unsetLink":       noArg(UnsetLink),
	"insertImage":     valueArg(InsertImage),
	"setImageAlign": func(arg string) (Command, error) {
		mode, ok := doc.ParseImageAlign(arg)
		if !ok {
			return nil, fmt.Errorf("%w: image alignment %q", ErrInvalidArgument, arg)
		}
		return SetImageAlign(mode), nil
	},
	"setImageWidth": func(arg string) (Command, error) {
		px, ok := doc.ParsePixels(arg)
		if !ok {
			return nil, fmt.Errorf("%w: image width %q", ErrInvalidArgument, arg)
		}
		return SetImageWidth(px), nil
	},
	"toggleHeading": func(arg string) (Command, error) {
		level, err := strconv.Atoi(arg)
		if err != nil || level < 1 || level > doc.MaxHeadingLevel {
			return nil, fmt.Errorf("%w: heading level %q", ErrInvalidArgument, arg)
		}
		return ToggleHeading(level), nil
	},
	"setParagraph":      noArg(SetParagraph),
	"toggleBulletList":  noArg(ToggleBulletList),
	"toggleOrderedList": noArg(ToggleOrderedList),
	"toggleBlockquote":  noArg(ToggleBlockquote),
	"setTextAlign": func(arg string) (Command, error) {
		align, ok := doc.ParseTextAlign(arg)
		if !ok {
			return nil, fmt.Errorf("%w: text alignment %q", ErrInvalidArgument, arg)
		}
		return SetTextAlign(align), nil
	},
	"setHorizontalRule": noArg(InsertHorizontalRule),
	"setHardBreak":      noArg(InsertHardBreak),
	"insertText":        valueArg(InsertText),
	"splitBlock":        noArg(SplitBlock),
	"deleteSelection":   noArg(DeleteSelection),
	"deleteBackward":    noArg(DeleteBackward),
	"deleteForward":     noArg(DeleteForward),
	"undo":              noArg(Undo),
	"redo":              noArg(Redo),
}

// Lookup builds the command registered under name. Arguments are joined
// with spaces, so values such as gradients may be passed in pieces.
func Lookup(name string, args ...string) (Command, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}
	c, err := f(strings.TrimSpace(strings.Join(args, " ")))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return c, nil
}

// Names lists the registered command names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
