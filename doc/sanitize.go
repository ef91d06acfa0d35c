package doc

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	sanitizerOnce sync.Once
	sanitizer     *bluemonday.Policy
)

var (
	gradientValue = regexp.MustCompile(`^[a-zA-Z0-9#%(),.\s-]+$`)
	cssColorValue = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|[a-zA-Z]+|(rgb|rgba|hsl|hsla)\([0-9.,%\s]+\))$`)
	cssFontFamily = regexp.MustCompile(`^[a-zA-Z0-9 ,"'-]+$`)
	cssLength     = regexp.MustCompile(`^[0-9.]+(px|em|rem|pt|%)?$`)
)

// policy allows exactly the vocabulary Parse understands. Everything else
// is stripped before the markup reaches the parser.
func policy() *bluemonday.Policy {
	sanitizerOnce.Do(func() {
		p := bluemonday.NewPolicy()
		p.AllowStandardURLs()
		p.AllowDataURIImages()

		p.AllowElements("p", "h1", "h2", "h3", "h4", "h5", "h6",
			"ul", "ol", "li", "blockquote", "hr", "br", "div",
			"strong", "b", "em", "i", "u", "s", "strike", "del", "span")
		p.AllowAttrs("href").OnElements("a")
		p.AllowAttrs("src", "alt", "title").OnElements("img")
		p.AllowAttrs("width").Matching(bluemonday.Integer).OnElements("img")
		p.AllowAttrs("data-align").Matching(regexp.MustCompile(`^(left|center|right|inline)$`)).OnElements("img")
		p.AllowAttrs("data-gradient").Matching(gradientValue).OnElements("span")

		p.AllowStyles("color").Matching(cssColorValue).OnElements("span")
		p.AllowStyles("font-family").Matching(cssFontFamily).OnElements("span")
		p.AllowStyles("font-size").Matching(cssLength).OnElements("span")
		p.AllowStyles("width", "height").Matching(regexp.MustCompile(`^([0-9.]+px|auto)$`)).OnElements("img")
		p.AllowStyles("text-align").MatchingEnum("left", "center", "right").OnElements("p", "h1", "h2", "h3", "h4", "h5", "h6")
		sanitizer = p
	})
	return sanitizer
}

// Sanitize strips markup outside the recognized vocabulary: scripts,
// event handlers, unknown attributes and unsafe URL schemes. Hosts run it
// before loading untrusted content.
func Sanitize(markup string) string {
	return policy().Sanitize(markup)
}
