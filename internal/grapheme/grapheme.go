// Package grapheme measures and cuts text in user-perceived characters.
//
// Inline offsets in the document model count grapheme clusters, so a mark
// boundary or a cursor can never land inside a combining sequence or an
// emoji with modifiers.
package grapheme

import (
	"strings"

	"github.com/rivo/uniseg"
)

// Split returns the grapheme clusters of text in order.
func Split(text string) []string {
	if text == "" {
		return nil
	}
	g := uniseg.NewGraphemes(text)
	out := make([]string, 0, len(text))
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// Count returns the number of grapheme clusters in text.
func Count(text string) int {
	if text == "" {
		return 0
	}
	return uniseg.GraphemeClusterCount(text)
}

// Slice returns the clusters [start, end) of text. Out-of-range bounds are
// clamped.
func Slice(text string, start, end int) string {
	if text == "" {
		return ""
	}
	if start < 0 {
		start = 0
	}
	if end <= start {
		return ""
	}

	g := uniseg.NewGraphemes(text)
	idx := 0
	var sb strings.Builder
	for g.Next() {
		if idx >= end {
			break
		}
		if idx >= start {
			sb.WriteString(g.Str())
		}
		idx++
	}
	return sb.String()
}

// Cut splits text after the first at clusters.
func Cut(text string, at int) (before, after string) {
	if at <= 0 {
		return "", text
	}
	g := uniseg.NewGraphemes(text)
	idx := 0
	for g.Next() {
		if idx == at {
			from, _ := g.Positions()
			return text[:from], text[from:]
		}
		idx++
	}
	return text, ""
}
