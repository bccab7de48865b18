package svgdoc

import (
	"regexp"
	"strings"
)

// Namespace is the SVG namespace URI.
const Namespace = "http://www.w3.org/2000/svg"

var defaultNamespaceDecl = regexp.MustCompile(`\sxmlns\s*=`)

// rootTag returns the bounds of the first <svg ...> start tag in markup.
func rootTag(markup string) (start, end int, ok bool) {
	start = strings.Index(markup, "<svg")
	if start < 0 {
		return 0, 0, false
	}
	rest := markup[start+len("<svg"):]
	if rest != "" && !strings.ContainsAny(rest[:1], " \t\r\n/>") {
		return 0, 0, false
	}
	end = strings.IndexByte(rest, '>')
	if end < 0 {
		return 0, 0, false
	}
	return start, start + len("<svg") + end, true
}

// HasNamespace reports whether the root <svg> start tag declares a default namespace.
func HasNamespace(markup string) bool {
	start, end, ok := rootTag(markup)
	if !ok {
		return false
	}
	return defaultNamespaceDecl.MatchString(markup[start:end])
}

// EnsureNamespace returns markup whose root <svg> element declares the SVG
// default namespace, injecting it right after the tag name when missing.
// Markup without an <svg> start tag is returned unchanged.
func EnsureNamespace(markup string) string {
	start, _, ok := rootTag(markup)
	if !ok || HasNamespace(markup) {
		return markup
	}
	at := start + len("<svg")
	return markup[:at] + ` xmlns="` + Namespace + `"` + markup[at:]
}
