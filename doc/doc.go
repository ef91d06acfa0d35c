// Package doc is the rich-text document model: a tree of typed nodes with
// inline marks, its markup codec, positional queries, and the mutation
// operations that are the only sanctioned way to change content.
//
// Nodes are treated as immutable once they belong to a document. Every
// mutation clones the tree, applies the change, normalizes the result and
// returns a new root, so callers can keep earlier roots as snapshots.
package doc
