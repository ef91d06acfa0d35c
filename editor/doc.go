// Package editor hosts the rich-text core.
//
// Editor is the headless facade: it owns the command state, publishes the
// selected image's box through an overlay controller, and routes pointer
// events to the image resize interaction. Model is a Bubble Tea component
// built on Editor that renders the document in a terminal, measures its own
// layout as the editing surface, and maps keys and mouse events to commands.
package editor
