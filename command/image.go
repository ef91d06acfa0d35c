package command

import (
	"strings"

	"github.com/iw2rmb/tincture/doc"
)

// InsertImage inserts an image with the given source at the selection and
// selects it. A non-empty text selection is replaced.
func InsertImage(src string) Command {
	return InsertImageWith(doc.ImageAttrs{Src: src})
}

// InsertImageWith is InsertImage with full attributes.
func InsertImageWith(attrs doc.ImageAttrs) Command {
	return basic{
		name:       "insertImage",
		applicable: func(State) bool { return strings.TrimSpace(attrs.Src) != "" && attrs.Width >= 0 },
		run: func(s State) (State, error) {
			root, at := deleteSelection(s)
			img := doc.Image(attrs)
			root, err := doc.InsertNode(root, at, img)
			if err != nil {
				return s, err
			}
			return s.change(root, NodeSelection(at)), nil
		},
	}
}

// SetImageAlign sets the placement mode of the selected image. It only
// applies while exactly one image is selected as a node.
func SetImageAlign(mode doc.ImageAlign) Command {
	return basic{
		name: "setImageAlign",
		applicable: func(s State) bool {
			_, _, ok := s.SelectedImage()
			_, valid := doc.ParseImageAlign(string(mode))
			return ok && valid
		},
		active: func(s State) bool {
			img, _, ok := s.SelectedImage()
			return ok && img.Image.Align == mode
		},
		run: func(s State) (State, error) {
			return updateImage(s, func(a *doc.ImageAttrs) { a.Align = mode })
		},
	}
}

// SetImageWidth sets the pixel width of the selected image.
func SetImageWidth(px int) Command {
	return basic{
		name: "setImageWidth",
		applicable: func(s State) bool {
			_, _, ok := s.SelectedImage()
			return ok && px > 0
		},
		active: func(s State) bool {
			img, _, ok := s.SelectedImage()
			return ok && img.Image.Width == px
		},
		run: func(s State) (State, error) {
			return updateImage(s, func(a *doc.ImageAttrs) { a.Width = px })
		},
	}
}

func updateImage(s State, fn func(a *doc.ImageAttrs)) (State, error) {
	img, at, ok := s.SelectedImage()
	if !ok {
		return s, ErrNotApplicable
	}
	attrs := img.Image
	fn(&attrs)
	if attrs == img.Image {
		return s, ErrNoOp
	}
	root, err := doc.UpdateNodeAttrs(s.Doc, at, attrs)
	if err != nil {
		return s, err
	}
	return s.change(root, s.Selection), nil
}
