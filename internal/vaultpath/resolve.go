// Package vaultpath maps vault directory listings to the canonical short
// names that wikilinks use, resolving duplicate-filename collisions.
package vaultpath

import (
	"path"
	"strings"

	"github.com/starford/laguz/internal/models"
)

// Extension sets per file kind, matching what the Obsidian app can embed.
// Note that file.ext and file.EXT can exist in the same folder.
var (
	noteExts = extSet(".md")

	imageExts = extSet(".png", ".jpg", ".jpeg", ".gif", ".bmp", ".svg")
	audioExts = extSet(".mp3", ".webm", ".wav", ".m4a", ".ogg", ".3gp", ".flac")
	videoExts = extSet(".mp4", ".ogv", ".mov", ".mkv")
	pdfExts   = extSet(".pdf")

	canvasExts = extSet(".canvas")

	mediaExts = union(imageExts, audioExts, videoExts, pdfExts)
)

func extSet(exts ...string) map[string]struct{} {
	out := make(map[string]struct{}, 2*len(exts))
	for _, e := range exts {
		out[e] = struct{}{}
		out[strings.ToUpper(e)] = struct{}{}
	}
	return out
}

func union(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range sets {
		for e := range s {
			out[e] = struct{}{}
		}
	}
	return out
}

// ExtSet returns the extension set for a file kind, for use with the storage
// listing. The returned map must not be mutated.
func ExtSet(kind models.FileKind) map[string]struct{} {
	switch kind {
	case models.KindNote:
		return noteExts
	case models.KindMedia:
		return mediaExts
	case models.KindCanvas:
		return canvasExts
	}
	return nil
}

// Options filter which listed files take part in name resolution.
type Options struct {
	// IncludeSubdirs restricts files to those whose direct parent directory
	// (posix path relative to the root) is in the list. Nil means no filter.
	IncludeSubdirs []string
	// IncludeRoot includes files that sit directly in the vault root. Only
	// consulted when IncludeSubdirs is non-nil; without a subdir list every
	// file is in scope and root files cannot be excluded on their own. The
	// zero Options value therefore means no filtering at all.
	IncludeRoot bool
}

// Resolve derives the short-name → relative-path index for one file kind from
// a recursive listing. Notes are keyed by filename without extension; media
// and canvas files keep their extension (Obsidian references canvases and
// attachments by full filename). When two or more files of the kind share a
// short name, every colliding entry is keyed by its full relative path
// instead; non-colliding entries keep the short form. The frequency count is
// taken in a single pass over all names.
func Resolve(files []models.FileInfo, kind models.FileKind, opts Options) map[string]string {
	relpaths := filterSubdirs(files, opts)

	names := make([]string, len(relpaths))
	for i, rp := range relpaths {
		names[i] = shortName(rp, kind)
	}

	freq := make(map[string]int, len(names))
	for _, n := range names {
		freq[n]++
	}

	index := make(map[string]string, len(names))
	for i, rp := range relpaths {
		key := names[i]
		if freq[key] > 1 {
			key = longName(rp, kind)
		}
		index[key] = rp
	}
	return index
}

// filterSubdirs applies the direct-parent allow-list. This is an exact match
// on the immediate parent directory, not a recursive subtree match.
func filterSubdirs(files []models.FileInfo, opts Options) []string {
	out := make([]string, 0, len(files))
	if opts.IncludeSubdirs == nil {
		for _, f := range files {
			out = append(out, f.Path)
		}
		return out
	}

	allowed := make(map[string]struct{}, len(opts.IncludeSubdirs)+1)
	for _, d := range opts.IncludeSubdirs {
		allowed[path.Clean(strings.ReplaceAll(d, "\\", "/"))] = struct{}{}
	}
	if opts.IncludeRoot {
		allowed["."] = struct{}{}
	}

	for _, f := range files {
		if _, ok := allowed[path.Dir(f.Path)]; ok {
			out = append(out, f.Path)
		}
	}
	return out
}

// shortName is the name a wikilink would use for the file.
func shortName(relpath string, kind models.FileKind) string {
	base := path.Base(relpath)
	if kind == models.KindNote {
		return strings.TrimSuffix(base, path.Ext(base))
	}
	return base
}

// longName is the collision-resolved key: the full relative path, with the
// extension dropped for notes.
func longName(relpath string, kind models.FileKind) string {
	if kind == models.KindNote {
		return strings.TrimSuffix(relpath, path.Ext(relpath))
	}
	return relpath
}
