package parser

import (
	"regexp"
	"strings"
)

// mdLinkRe matches the protected markdown-link form [text](<target>) that the
// normalizer produces. Group 1 is the link text, group 2 the target.
var mdLinkRe = regexp.MustCompile(`\[([^\]]+)\]\(<([^)]+)>\)`)

// extractMDLinks returns markdown-link targets in order of appearance with
// multiplicity preserved.
func extractMDLinks(text string) []string {
	matches := mdLinkRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[2])
	}
	return out
}

// mathRe matches display math first so $$...$$ is not split into two empty
// inline spans.
var mathRe = regexp.MustCompile(`(?s)\$\$(.+?)\$\$|\$([^$\n]+?)\$`)

// extractMath returns LaTeX math spans (inline and display) in order of
// appearance, without the $ delimiters.
func extractMath(text string) []string {
	var out []string
	for _, m := range mathRe.FindAllStringSubmatch(text, -1) {
		span := m[1]
		if span == "" {
			span = m[2]
		}
		if s := strings.TrimSpace(span); s != "" {
			out = append(out, s)
		}
	}
	return out
}
