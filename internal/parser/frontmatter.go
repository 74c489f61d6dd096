package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// templateValueRe matches a front matter line whose value opens with template
// braces ({{ ... }}), which YAML rejects as a flow mapping.
var templateValueRe = regexp.MustCompile(`(?m)^(\s*[^:\n]+:\s*)(\{\{.*)$`)

// splitFrontMatter separates a YAML front matter block (between leading ---
// delimiters) from the markdown body. Malformed YAML degrades to "no front
// matter, whole content as body" rather than failing the file: a block with
// template-style braces is re-escaped and retried once before falling back.
func splitFrontMatter(data []byte) (map[string]any, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter, treat everything as body.
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	fm, ok := decodeFrontMatter(yamlBlock)
	if !ok {
		return nil, string(data)
	}
	return fm, body
}

func decodeFrontMatter(yamlBlock []byte) (map[string]any, bool) {
	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err == nil {
		return fm, true
	}

	// Quote template-brace values and retry once.
	escaped := templateValueRe.ReplaceAll(yamlBlock, []byte("$1'$2'"))
	if bytes.Equal(escaped, yamlBlock) {
		return nil, false
	}
	fm = nil
	if err := yaml.Unmarshal(escaped, &fm); err != nil {
		return nil, false
	}
	return fm, true
}
