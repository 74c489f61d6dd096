package parser

import (
	"regexp"
	"strings"
)

// wikilinkRe captures both link forms from one token stream: group 1 is the
// embedded-file marker (!), group 2 is everything inside the brackets.
var wikilinkRe = regexp.MustCompile(`(!)?\[\[([^\]]+)\]\]`)

// extractWikilinks returns wikilink targets in order of appearance, with
// multiplicity preserved. Targets are normalized: alias and header fragment
// stripped, backslash escapes removed, .md suffix dropped (notes are
// referenced without extension). Targets with a canvas extension are dropped
// when excludeCanvas is set.
func extractWikilinks(text string, excludeCanvas bool) []string {
	matches := wikilinkRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[1] == "!" {
			continue
		}
		target := normalizeWikilink(m[2])
		if target == "" {
			continue
		}
		if excludeCanvas && isCanvasName(target) {
			continue
		}
		out = append(out, target)
	}
	return out
}

// extractEmbeddedFiles returns embedded-file targets (the ![[...]] form) in
// order of appearance. Aliases are stripped like wikilinks, but header
// fragments and extensions are kept: attachments are referenced by full
// filename.
func extractEmbeddedFiles(text string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		if m[1] != "!" {
			continue
		}
		target := normalizeEmbedded(m[2])
		if target == "" {
			continue
		}
		out = append(out, target)
	}
	return out
}

func normalizeWikilink(raw string) string {
	target := splitUnescapedPipe(raw)
	// Links to headers: [[Note#Section]] refers to Note.
	if i := strings.Index(target, "#"); i >= 0 {
		target = target[:i]
	}
	target = unescape(target)
	target = strings.TrimRight(target, " \t")
	target = strings.TrimSuffix(target, ".md")
	return target
}

func normalizeEmbedded(raw string) string {
	target := splitUnescapedPipe(raw)
	target = unescape(target)
	return strings.TrimRight(target, " \t")
}

// splitUnescapedPipe keeps everything before the first | that is not
// backslash-escaped (the rest is alias / alt text).
func splitUnescapedPipe(s string) string {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++ // skip escaped char
		case '|':
			return s[:i]
		}
	}
	return s
}

// unescape removes backslash escapes, keeping the escaped characters.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isCanvasName(target string) bool {
	lower := strings.ToLower(target)
	return strings.HasSuffix(lower, ".canvas")
}

// uniqueInOrder deduplicates while preserving first-occurrence order.
func uniqueInOrder(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
