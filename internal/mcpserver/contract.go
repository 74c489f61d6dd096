package mcpserver

// VaultGuide explains how vault names, links, and backlinks work so that
// LLM consumers phrase tool calls correctly.
const VaultGuide = `# Laguz Vault Query Guide

Laguz models an Obsidian-style vault as a link graph. Tools take entity
NAMES, not file paths.

## Names

- A note's name is its filename without the ` + "`" + `.md` + "`" + ` extension: ` + "`" + `hello.md` + "`" + ` is ` + "`" + `hello` + "`" + `.
- When two files share a filename, each is addressed by its direct parent
  directory plus the short name: ` + "`" + `topics/note` + "`" + ` and ` + "`" + `archive/note` + "`" + `.
- Media and canvas files keep their extensions: ` + "`" + `image.png` + "`" + `, ` + "`" + `board.canvas` + "`" + `.

## Links

- ` + "`" + `[[target]]` + "`" + ` is a wikilink. Aliases (` + "`" + `[[target|shown text]]` + "`" + `) and heading
  anchors (` + "`" + `[[target#section]]` + "`" + `) resolve to the same target.
- ` + "`" + `![[file]]` + "`" + ` embeds a file; embeds are tracked separately from wikilinks.
- A link to a file that does not exist still creates a graph node. Such
  targets show up with kind ` + "`" + `nonexistent` + "`" + ` and in ` + "`" + `vault_analytics` + "`" + `.

## Backlinks

- ` + "`" + `get_backlinks` + "`" + ` returns one entry per link occurrence, so a note that
  links to the target twice appears twice.
- Isolated entities exist on disk but have no links in either direction.

## Typical flow

1. ` + "`" + `vault_analytics` + "`" + ` for an overview of the vault.
2. ` + "`" + `search_notes` + "`" + ` or ` + "`" + `list_notes` + "`" + ` to find entities.
3. ` + "`" + `read_note` + "`" + ` / ` + "`" + `get_backlinks` + "`" + ` / ` + "`" + `graph_overview` + "`" + ` to drill in.
`
