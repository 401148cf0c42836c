package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/zach-snell/obsidian-go-mcp/internal/cache"
	"github.com/zach-snell/obsidian-go-mcp/internal/notetemplate"
	"github.com/zach-snell/obsidian-go-mcp/internal/vaultclient"
)

// Caches is the concrete instantiation of cache.Caches this package
// uses: a VaultStructure slot and a []NoteMetadata slot.
type Caches = cache.Caches[VaultStructure, NoteMetadata]

// NewCaches builds the two-cache pair with the given TTLs.
func NewCaches(ttlStructure, ttlNotes time.Duration) *Caches {
	return cache.New[VaultStructure, NoteMetadata](ttlStructure, ttlNotes)
}

// Discoverer runs the C3 two-stage scan/enrich pipeline over a vault
// reachable through a vaultclient.Client, with a filesystem fallback for
// Stage 1 scanning.
type Discoverer struct {
	Client      *vaultclient.Client
	RootPath    string
	BatchSize   int
	SnippetSize int
	Caches      *Caches
}

// New builds a Discoverer.
func New(client *vaultclient.Client, rootPath string, batchSize, snippetSize int, caches *Caches) *Discoverer {
	return &Discoverer{Client: client, RootPath: rootPath, BatchSize: batchSize, SnippetSize: snippetSize, Caches: caches}
}

// scanPaths implements Stage 1: prefer the adapter's file listing,
// falling back to a direct filesystem walk of RootPath. The result is
// lexicographically ordered by path.
func (d *Discoverer) scanPaths(ctx context.Context, folder string) ([]string, error) {
	entries, err := d.Client.ListFiles(ctx, folder)
	if err == nil && len(entries) > 0 {
		paths := make([]string, 0, len(entries))
		for _, e := range entries {
			if strings.HasSuffix(e.Path, ".md") {
				paths = append(paths, e.Path)
			}
		}
		sort.Strings(paths)
		return paths, nil
	}
	return d.scanFilesystem(folder)
}

func (d *Discoverer) scanFilesystem(folder string) ([]string, error) {
	if d.RootPath == "" {
		return nil, nil
	}
	root := d.RootPath
	if folder != "" {
		root = filepath.Join(d.RootPath, folder)
	}
	var paths []string
	err := filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() || !strings.HasSuffix(p, ".md") {
			return nil
		}
		rel, relErr := filepath.Rel(d.RootPath, p)
		if relErr != nil {
			return nil
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, nil
	}
	sort.Strings(paths)
	return paths, nil
}

// Discover runs both stages, returning notes in lexicographic path order.
// If includeHeaders is false, Stage 2 is skipped entirely and every
// note's Headers field is left nil (the lazy-enrichment sentinel).
func (d *Discoverer) Discover(ctx context.Context, folder string, includeHeaders bool) ([]NoteMetadata, error) {
	if cached, ok := d.Caches.Notes.GetFresh(includeHeaders); ok && folder == "" {
		return cached, nil
	}

	paths, err := d.scanPaths(ctx, folder)
	if err != nil {
		return nil, err
	}

	notes := make([]NoteMetadata, len(paths))
	for i, p := range paths {
		notes[i] = NoteMetadata{NoteRef: NewNoteRef(p)}
	}

	if includeHeaders {
		d.enrichHeaders(ctx, notes)
	}

	if folder == "" {
		d.Caches.Notes.Put(notes, includeHeaders)
	}
	return notes, nil
}

// enrichHeaders performs Stage 2: for each note, read the first 500
// bytes and parse the header block, in batches of BatchSize. Any
// per-file failure (read error, malformed header) yields Headers = {}
// for that note and never aborts the scan.
func (d *Discoverer) enrichHeaders(ctx context.Context, notes []NoteMetadata) {
	// Driven over indices, not notes themselves, since enrichment must
	// write results back into the shared slice.
	idxs := make([]int, len(notes))
	for i := range notes {
		idxs[i] = i
	}
	BoundedBatched(ctx, idxs, d.BatchSize, func(ctx context.Context, i int) error {
		headers := d.readHeaders(ctx, notes[i].Path)
		notes[i].Headers = headers
		return nil
	})
}

func (d *Discoverer) readHeaders(ctx context.Context, path string) map[string]any {
	prefix, err := d.readPrefix(ctx, path, 500)
	if err != nil {
		return map[string]any{}
	}
	header, _, ok := notetemplate.ParseHeader(prefix)
	if !ok {
		return map[string]any{}
	}
	return header.Values
}

// readPrefix reads up to n bytes of a note's body via the adapter. The
// upstream contract only exposes whole-body reads, so this fetches the
// full body and truncates locally; the 30s-per-call timeout still
// bounds the cost.
func (d *Discoverer) readPrefix(ctx context.Context, path string, n int) (string, error) {
	body, err := d.Client.GetNote(ctx, path)
	if err != nil {
		return "", err
	}
	if len(body) > n {
		return body[:n], nil
	}
	return body, nil
}

// BuildStructure computes the full VaultStructure: folders derived from
// direct-children relationships among discovered notes, and the notes
// list itself. It is cached by the caller (the tool layer), consistent
// with C2 owning the structure-cache slot.
func BuildStructure(rootPath string, notes []NoteMetadata) VaultStructure {
	folderSet := map[string]*FolderInfo{}
	ensureFolder := func(path string) *FolderInfo {
		if f, ok := folderSet[path]; ok {
			return f
		}
		name := path
		parent := ""
		if idx := strings.LastIndex(path, "/"); idx >= 0 {
			name = path[idx+1:]
			parent = path[:idx]
		}
		f := &FolderInfo{Path: path, Name: name, Parent: parent}
		folderSet[path] = f
		return f
	}

	for _, n := range notes {
		dir := ""
		if idx := strings.LastIndex(n.Path, "/"); idx >= 0 {
			dir = n.Path[:idx]
		}
		if dir == "" {
			continue
		}
		// Ensure every ancestor folder exists, then count only the
		// direct parent as containing this note.
		parts := strings.Split(dir, "/")
		acc := ""
		for i, part := range parts {
			if i == 0 {
				acc = part
			} else {
				acc = acc + "/" + part
			}
			ensureFolder(acc)
		}
		ensureFolder(dir).NotesCount++
	}
	for path, f := range folderSet {
		if f.Parent != "" {
			folderSet[f.Parent].SubfoldersCount++
		}
		_ = path
	}

	folders := make([]FolderInfo, 0, len(folderSet))
	for _, f := range folderSet {
		folders = append(folders, *f)
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Path < folders[j].Path })

	return VaultStructure{
		RootPath:     rootPath,
		Folders:      folders,
		Notes:        notes,
		TotalNotes:   len(notes),
		TotalFolders: len(folders),
	}
}
