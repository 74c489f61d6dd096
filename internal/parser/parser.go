// Package parser extracts front matter, wikilinks, embedded files, tags,
// markdown links and math spans from Markdown content. All token lists
// preserve order of appearance and multiplicity; the Unique variants
// deduplicate while keeping first-occurrence order.
package parser

// Options controls extraction behavior.
type Options struct {
	// ExcludeCanvas drops wikilink targets with a .canvas extension, keeping
	// canvas references out of the note link lists.
	ExcludeCanvas bool
	// NestedTags keeps full slash-delimited tag paths instead of truncating
	// at the first separator.
	NestedTags bool
}

// Result holds the output of parsing one Markdown file.
type Result struct {
	FrontMatter     map[string]any
	Body            string // raw body with front matter removed
	SourceText      string // normalized body that tokens were extracted from
	Wikilinks       []string
	UniqueWikilinks []string
	EmbeddedFiles   []string
	MDLinks         []string
	UniqueMDLinks   []string
	Tags            []string
	Math            []string
}

// Parse extracts all tokens from raw Markdown bytes. Malformed front matter
// never fails the parse; the whole file degrades to body text.
func Parse(data []byte, opts Options) *Result {
	fm, body := splitFrontMatter(data)
	src := NormalizeSource(body)

	wikilinks := extractWikilinks(src, opts.ExcludeCanvas)
	mdLinks := extractMDLinks(src)

	return &Result{
		FrontMatter:     fm,
		Body:            body,
		SourceText:      src,
		Wikilinks:       wikilinks,
		UniqueWikilinks: uniqueInOrder(wikilinks),
		EmbeddedFiles:   extractEmbeddedFiles(src),
		MDLinks:         mdLinks,
		UniqueMDLinks:   uniqueInOrder(mdLinks),
		Tags:            extractTags(stripWikilinkSpans(src), opts.NestedTags),
		Math:            extractMath(src),
	}
}
