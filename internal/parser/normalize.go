package parser

import (
	"regexp"
	"strings"
)

var (
	// Markdown links whose target is not yet angle-bracket protected. The
	// preceding-character guard keeps wikilink brackets out of the match.
	bareMDLinkRe = regexp.MustCompile(`(^|[^\[\\])\[([^\[\]]+)\]\(([^<)][^)]*)\)`)

	inlineCodeRe    = regexp.MustCompile("`[^`\n]*`")
	strikethroughRe = regexp.MustCompile(`~~[^~]*~~`)
	headingMarkRe   = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	emphasisRe      = regexp.MustCompile(`[*_]{1,3}([^*_]+)[*_]{1,3}`)
	embeddedRefRe   = regexp.MustCompile(`!\[\[[^\]]+\]\]`)
	blankRunRe      = regexp.MustCompile(`\n{3,}`)
)

// NormalizeSource turns a markdown body (front matter already removed) into
// the canonical source text that link extraction runs over: code blocks and
// inline code are stripped so their contents cannot produce tokens, and
// markdown-link targets are wrapped in angle brackets.
func NormalizeSource(body string) string {
	text := stripFencedCode(body)
	text = inlineCodeRe.ReplaceAllString(text, "")
	// The guard group consumes the character before each link, so two
	// adjacent links need another pass; iterate to the fixpoint.
	for {
		next := bareMDLinkRe.ReplaceAllString(text, "$1[$2](<$3>)")
		if next == text {
			break
		}
		text = next
	}
	return text
}

// stripFencedCode removes ``` fenced blocks line by line, leaving everything
// outside the fences untouched.
func stripFencedCode(body string) string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	inFence := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// stripWikilinkSpans removes whole [[...]] and ![[...]] spans. Tag scanning
// runs on the result so a # inside a note title is not misread as a tag.
func stripWikilinkSpans(text string) string {
	return wikilinkRe.ReplaceAllString(text, "")
}

// Readable reduces source text to plain prose: embedded refs and math are
// removed, links collapse to their display text, and the main markdown
// formatting marks are dropped.
func Readable(sourceText string) string {
	text := embeddedRefRe.ReplaceAllString(sourceText, "")
	text = mathRe.ReplaceAllString(text, "")
	text = strikethroughRe.ReplaceAllString(text, "")
	text = replaceWikilinksWithText(text)
	text = mdLinkRe.ReplaceAllString(text, "$1")
	text = headingMarkRe.ReplaceAllString(text, "")
	text = emphasisRe.ReplaceAllString(text, "$1")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// replaceWikilinksWithText swaps each wikilink for its alias when present,
// otherwise its target.
func replaceWikilinksWithText(text string) string {
	return wikilinkRe.ReplaceAllStringFunc(text, func(m string) string {
		sub := wikilinkRe.FindStringSubmatch(m)
		inner := sub[2]
		if i := strings.LastIndex(inner, "|"); i >= 0 {
			return strings.TrimSpace(inner[i+1:])
		}
		return strings.TrimSpace(inner)
	})
}
