// Package vault turns a directory of markdown notes into a queryable link
// graph. Connect performs one batch pass over every note and canvas file,
// resolves every link target against the files on disk, and derives backlink,
// isolation and nonexistence views. Gather adds plain-text content on top.
//
// A Vault moves forward only: Unconnected, then Connected, then Gathered.
// Rebuilding after a file change means constructing a fresh Vault. Instances
// are not safe for concurrent use; callers serialize access.
package vault

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/starford/laguz/internal/apperr"
	"github.com/starford/laguz/internal/canvas"
	"github.com/starford/laguz/internal/graph"
	"github.com/starford/laguz/internal/models"
	"github.com/starford/laguz/internal/parser"
	"github.com/starford/laguz/internal/reconcile"
	"github.com/starford/laguz/internal/storage"
	"github.com/starford/laguz/internal/vaultpath"
)

// Options configure how a vault is read and linked.
type Options struct {
	// IncludeSubdirs restricts indexing to files whose direct parent
	// directory is listed. Nil indexes the whole tree.
	IncludeSubdirs []string
	// IncludeRoot also indexes files sitting directly in the vault root.
	// Only consulted when IncludeSubdirs is set; with no subdir list the
	// whole tree, root files included, is always indexed.
	IncludeRoot bool
	// Attachments includes media and canvas files as graph nodes, the way
	// the Obsidian graph view does with its attachments toggle on.
	Attachments bool
	// NestedTags keeps full slash-delimited tag paths.
	NestedTags bool
}

// Vault is the queryable model of one notes directory.
type Vault struct {
	provider storage.Provider
	opts     Options

	connected bool
	gathered  bool

	mdIndex     map[string]string
	mediaIndex  map[string]string
	canvasIndex map[string]string

	modTimes map[string]time.Time // relpath to mtime, all kinds

	notes map[string]*models.Note

	canvasContent map[string]*canvas.Content
	canvasDetail  map[string]*canvas.GraphDetail

	g         *graph.MultiDiGraph
	backlinks map[string][]string

	nonexistentNotes  []string
	isolatedNotes     []string
	nonexistentMedia  []string
	isolatedMedia     []string
	nonexistentCanvas []string
	isolatedCanvas    []string

	mediaLinked    map[string]string
	mediaUnlinked  map[string]string
	canvasLinked   map[string]string
	canvasUnlinked map[string]string
}

// New returns an unconnected vault over the given storage.
func New(provider storage.Provider, opts Options) *Vault {
	return &Vault{provider: provider, opts: opts}
}

// Open is a convenience constructor over the local file system. A root that
// does not exist yields a vault whose indexes come up empty after Connect.
func Open(root string, opts Options) (*Vault, error) {
	fs, err := storage.NewFS(root)
	if err != nil {
		return nil, err
	}
	return New(fs, opts), nil
}

// Root returns the vault's root directory.
func (v *Vault) Root() string { return v.provider.Root() }

// Connected reports whether Connect has completed.
func (v *Vault) Connected() bool { return v.connected }

// Gathered reports whether Gather has completed.
func (v *Vault) Gathered() bool { return v.gathered }

// Attachments reports whether media and canvas files participate in the graph.
func (v *Vault) Attachments() bool { return v.opts.Attachments }

// Connect builds every index and the link graph in one pass. Calling it on an
// already connected vault is a no-op. An unreadable file aborts the whole
// call; recovering from it would leave the indexes silently incomplete.
func (v *Vault) Connect() error {
	if v.connected {
		return nil
	}

	if err := v.buildFileIndexes(); err != nil {
		return err
	}
	if err := v.parseNotes(); err != nil {
		return err
	}
	if err := v.decodeCanvases(); err != nil {
		return err
	}

	// Attachment reconciliation runs twice. The first pass feeds isolated
	// attachment nodes into the graph; the second removes link targets that
	// the graph identified as nonexistent notes.
	v.reconcileAttachments()
	v.buildGraph()
	v.deriveGraphViews()
	v.reconcileAttachments()

	v.connected = true
	return nil
}

// Gather derives readable plain text for every note. Requires Connect.
// Calling it twice is a no-op.
func (v *Vault) Gather() error {
	if !v.connected {
		return apperr.ErrNotConnected
	}
	if v.gathered {
		return nil
	}
	for _, n := range v.notes {
		n.ReadableText = parser.Readable(n.SourceText)
	}
	v.gathered = true
	return nil
}

func (v *Vault) buildFileIndexes() error {
	resolveOpts := vaultpath.Options{
		IncludeSubdirs: v.opts.IncludeSubdirs,
		IncludeRoot:    v.opts.IncludeRoot,
	}
	v.modTimes = make(map[string]time.Time)

	list := func(kind models.FileKind) (map[string]string, error) {
		files, err := v.provider.List(vaultpath.ExtSet(kind))
		if err != nil {
			return nil, fmt.Errorf("vault: list %s files: %w", kind, err)
		}
		for _, f := range files {
			v.modTimes[f.Path] = f.ModTime
		}
		return vaultpath.Resolve(files, kind, resolveOpts), nil
	}

	var err error
	if v.mdIndex, err = list(models.KindNote); err != nil {
		return err
	}
	if v.mediaIndex, err = list(models.KindMedia); err != nil {
		return err
	}
	v.canvasIndex, err = list(models.KindCanvas)
	return err
}

func (v *Vault) parseNotes() error {
	popts := parser.Options{
		ExcludeCanvas: !v.opts.Attachments,
		NestedTags:    v.opts.NestedTags,
	}
	v.notes = make(map[string]*models.Note, len(v.mdIndex))
	for name, rel := range v.mdIndex {
		data, err := v.provider.Read(rel)
		if err != nil {
			return fmt.Errorf("vault: read note %s: %w", rel, err)
		}
		r := parser.Parse(data, popts)
		v.notes[name] = &models.Note{
			Name:            name,
			RelPath:         rel,
			FrontMatter:     r.FrontMatter,
			Wikilinks:       r.Wikilinks,
			UniqueWikilinks: r.UniqueWikilinks,
			EmbeddedFiles:   r.EmbeddedFiles,
			MDLinks:         r.MDLinks,
			UniqueMDLinks:   r.UniqueMDLinks,
			Tags:            r.Tags,
			Math:            r.Math,
			SourceText:      r.SourceText,
		}
	}
	return nil
}

func (v *Vault) decodeCanvases() error {
	v.canvasContent = make(map[string]*canvas.Content, len(v.canvasIndex))
	v.canvasDetail = make(map[string]*canvas.GraphDetail, len(v.canvasIndex))
	for name, rel := range v.canvasIndex {
		data, err := v.provider.Read(rel)
		if err != nil {
			return fmt.Errorf("vault: read canvas %s: %w", rel, err)
		}
		c, err := canvas.Decode(data)
		if err != nil {
			return fmt.Errorf("vault: canvas %s: %w", rel, err)
		}
		v.canvasContent[name] = c
		v.canvasDetail[name] = c.Detail()
	}
	return nil
}

// reconcileAttachments classifies media and canvas link targets against the
// files on disk. Media files are referenced by embeds, canvas files by
// wikilinks. A dangling target already accounted for as a note, or matching a
// relative path of the opposite attachment kind, is not double-counted.
func (v *Vault) reconcileAttachments() {
	noteNames := reconcile.Set(v.mdIndex)
	nonexistentNotes := reconcile.SliceSet(v.nonexistentNotes)

	mediaTargets := v.collectLinks(func(n *models.Note) []string { return n.EmbeddedFiles })
	mediaOther := mergeSets(noteNames, nonexistentNotes, relpathSet(v.canvasIndex))
	mediaCls := reconcile.Classify(mediaTargets, v.mediaIndex, mediaOther)
	v.mediaLinked = mediaCls.LinkedExisting
	v.mediaUnlinked = mediaCls.UnlinkedExisting
	v.nonexistentMedia = mediaCls.Nonexistent
	v.isolatedMedia = sortedKeys(mediaCls.UnlinkedExisting)

	canvasTargets := v.collectLinks(func(n *models.Note) []string { return n.Wikilinks })
	canvasOther := mergeSets(noteNames, nonexistentNotes, relpathSet(v.mediaIndex))
	canvasCls := reconcile.Classify(canvasTargets, v.canvasIndex, canvasOther)
	v.canvasLinked = canvasCls.LinkedExisting
	v.canvasUnlinked = canvasCls.UnlinkedExisting
	v.nonexistentCanvas = canvasCls.Nonexistent
	v.isolatedCanvas = sortedKeys(canvasCls.UnlinkedExisting)
}

func (v *Vault) collectLinks(pick func(*models.Note) []string) []string {
	names := sortedKeys2(v.notes)
	var out []string
	for _, name := range names {
		out = append(out, pick(v.notes[name])...)
	}
	return out
}

// buildGraph assembles the adjacency map and constructs the multigraph. With
// attachments off the edges are wikilinks only; with attachments on, embeds
// join the edge lists and isolated attachment files become bare nodes.
func (v *Vault) buildGraph() {
	adjacency := make(map[string][]string, len(v.notes))
	for name, n := range v.notes {
		targets := n.Wikilinks
		if v.opts.Attachments {
			targets = append(append([]string{}, n.Wikilinks...), n.EmbeddedFiles...)
		}
		adjacency[name] = targets
	}
	if v.opts.Attachments {
		for _, name := range v.isolatedMedia {
			if _, ok := adjacency[name]; !ok {
				adjacency[name] = nil
			}
		}
		for _, name := range v.isolatedCanvas {
			if _, ok := adjacency[name]; !ok {
				adjacency[name] = nil
			}
		}
	}
	v.g = graph.Build(adjacency)
}

func (v *Vault) deriveGraphViews() {
	v.backlinks = make(map[string][]string, v.g.NodeCount())
	for _, n := range v.g.Nodes() {
		v.backlinks[n] = v.g.Predecessors(n)
	}

	backlinkKeys := make([]string, 0, len(v.backlinks))
	for k := range v.backlinks {
		backlinkKeys = append(backlinkKeys, k)
	}
	// Whatever the graph references that is not a known file or dangling
	// attachment is, by elimination, a nonexistent note.
	v.nonexistentNotes = reconcile.EliminateAccounted(backlinkKeys,
		reconcile.Set(v.mdIndex),
		reconcile.Set(v.mediaIndex),
		reconcile.SliceSet(v.nonexistentMedia),
		reconcile.Set(v.canvasIndex),
	)

	v.isolatedNotes = nil
	for _, n := range v.g.Isolates() {
		if _, ok := v.mdIndex[n]; ok {
			v.isolatedNotes = append(v.isolatedNotes, n)
		}
	}
}

func relpathSet(index map[string]string) map[string]struct{} {
	out := make(map[string]struct{}, len(index))
	for _, rel := range index {
		out[rel] = struct{}{}
	}
	return out
}

func mergeSets(sets ...map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for _, s := range sets {
		for k := range s {
			out[k] = struct{}{}
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedKeys2(m map[string]*models.Note) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// absPath joins the vault root with a relative path for display purposes.
func (v *Vault) absPath(rel string) string {
	return filepath.Join(v.provider.Root(), filepath.FromSlash(rel))
}
