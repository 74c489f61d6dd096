package parser

import (
	"regexp"
	"strings"
)

var tagBodyRe = regexp.MustCompile(`#([A-Za-z][A-Za-z0-9_/-]*)`)

// extractTags scans text for #tags, in order of appearance with multiplicity
// preserved. The text must already have wikilink spans removed (a # inside a
// note title is not a tag). A # preceded by ( is not a tag, and \# keeps the
// literal character without starting a tag. In the default mode nested tags
// are truncated at the first / separator; with nested set the full
// slash-delimited path is kept.
func extractTags(text string, nested bool) []string {
	text = dropEscapedHashes(text)

	var out []string
	for _, loc := range tagBodyRe.FindAllStringSubmatchIndex(text, -1) {
		start := loc[0]
		if start > 0 && text[start-1] == '(' {
			continue
		}
		tag := text[loc[2]:loc[3]]
		if nested {
			tag = strings.TrimRight(tag, "/")
		} else if i := strings.Index(tag, "/"); i >= 0 {
			tag = tag[:i]
		}
		out = append(out, tag)
	}
	return out
}

// dropEscapedHashes removes every \# sequence so the text keeps reading
// naturally but the hash cannot start a tag.
func dropEscapedHashes(text string) string {
	return strings.ReplaceAll(text, `\#`, "")
}
