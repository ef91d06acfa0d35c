package editor

import (
	"time"

	"go.uber.org/zap"

	"github.com/iw2rmb/tincture/overlay"
	"github.com/iw2rmb/tincture/resize"
)

// Config configures an Editor and the Model built on it.
type Config struct {
	// Initial markup.
	Content string
	// Sanitize passes Content and SetContent markup through doc.Sanitize
	// before parsing.
	Sanitize bool

	// Forwarded to command.NewHistory; zero selects the default.
	HistoryLimit int

	// Image resize bounds. Zero MinWidth selects resize.DefaultMinWidth;
	// zero MaxWidth leaves the width unbounded.
	MinWidth   int
	MaxWidth   int
	HandleSize float64

	// Surface measures the rendered document. Model installs its own.
	Surface    overlay.Surface
	Frames     resize.FrameScheduler
	Suppressor resize.Suppressor

	OnChange          func(ChangeEvent)
	OnSelectionChange func(SelectionEvent)
	OnImageBox        func(overlay.Box)
	// OnPreview receives uncommitted sizes while a handle is dragged.
	OnPreview func(resize.Target, resize.Size)

	Logger *zap.Logger

	// Terminal rendering options, used by Model only. A nil Style selects
	// DefaultStyle.
	Style   *Style
	KeyMap  KeyMap
	Display Display

	// AutosaveDelay debounces OnSave after edits. Zero disables autosave.
	AutosaveDelay time.Duration
	OnSave        func(markup string) error

	// ImageSize reports the intrinsic pixel size of an image source.
	ImageSize func(src string) (width, height int, ok bool)
}

// Display maps document pixels to terminal cells.
type Display struct {
	CellWidth  float64
	CellHeight float64

	// Size used for images whose intrinsic size is unknown.
	DefaultImageWidth  float64
	DefaultImageHeight float64

	// FrameInterval paces resize previews.
	FrameInterval time.Duration

	HideStatus bool
}

// DefaultDisplay returns the display settings used for zero fields.
func DefaultDisplay() Display {
	return Display{
		CellWidth:          8,
		CellHeight:         16,
		DefaultImageWidth:  240,
		DefaultImageHeight: 135,
		FrameInterval:      time.Second / 60,
	}
}

func (d Display) withDefaults() Display {
	def := DefaultDisplay()
	if d.CellWidth <= 0 {
		d.CellWidth = def.CellWidth
	}
	if d.CellHeight <= 0 {
		d.CellHeight = def.CellHeight
	}
	if d.DefaultImageWidth <= 0 || d.DefaultImageHeight <= 0 {
		d.DefaultImageWidth, d.DefaultImageHeight = def.DefaultImageWidth, def.DefaultImageHeight
	}
	if d.FrameInterval <= 0 {
		d.FrameInterval = def.FrameInterval
	}
	return d
}
