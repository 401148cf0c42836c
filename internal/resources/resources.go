// Package resources implements C6: the URI-addressed read-only view of
// the vault. It defers entirely to the discovery package (and, through
// it, C2's caches) and holds no cache of its own.
package resources

import (
	"context"
	"net/url"
	"strings"

	"github.com/zach-snell/obsidian-go-mcp/internal/apperror"
	"github.com/zach-snell/obsidian-go-mcp/internal/discovery"
)

const scheme = "vault"
const rootHost = "notes"

// Resource is a single readable result: a MIME type, a body, and an
// optional structured metadata block (for note reads).
type Resource struct {
	URI      string
	MIMEType string
	Text     string
	Metadata map[string]any
}

// ResourceListing is a single navigable entry returned by List.
type ResourceListing struct {
	URI  string
	Name string
	Kind string // "folder" or "note"
}

// Router resolves vault://notes/... URIs against a Discoverer.
type Router struct {
	Discoverer *discovery.Discoverer
}

// New builds a Router.
func New(d *discovery.Discoverer) *Router {
	return &Router{Discoverer: d}
}

// ParsePath extracts and percent-decodes the vault-relative path portion
// of a vault://notes/<path> URI, returning it plus whether it denotes a
// folder listing (trailing slash, or empty for the root).
func ParsePath(uri string) (path string, isFolder bool, err error) {
	u, parseErr := url.Parse(uri)
	if parseErr != nil {
		return "", false, &apperror.BadURI{URI: uri, Reason: parseErr.Error()}
	}
	if u.Scheme != scheme || u.Host != rootHost {
		return "", false, &apperror.BadURI{URI: uri, Reason: "unrecognized scheme or host"}
	}
	raw := strings.TrimPrefix(u.Path, "/")
	decoded, decErr := url.PathUnescape(raw)
	if decErr != nil {
		return "", false, &apperror.BadURI{URI: uri, Reason: decErr.Error()}
	}
	if decoded == "" || strings.HasSuffix(decoded, "/") {
		return strings.TrimSuffix(decoded, "/"), true, nil
	}
	for _, seg := range strings.Split(decoded, "/") {
		if seg == ".." {
			return "", false, &apperror.BadURI{URI: uri, Reason: "path escapes vault root"}
		}
	}
	return decoded, false, nil
}

// Read resolves a vault://notes/... URI to either a folder listing or a
// note body.
func (r *Router) Read(ctx context.Context, uri string) (Resource, error) {
	path, isFolder, err := ParsePath(uri)
	if err != nil {
		return Resource{}, err
	}
	if isFolder {
		return r.readFolder(ctx, path)
	}
	return r.readNote(ctx, path, uri)
}

func (r *Router) readFolder(ctx context.Context, folder string) (Resource, error) {
	notes, err := r.Discoverer.Discover(ctx, "", false)
	if err != nil {
		return Resource{}, err
	}
	structure := discovery.BuildStructure(r.Discoverer.RootPath, notes)

	var folders, noteEntries []map[string]any
	for _, f := range structure.Folders {
		if f.Parent != folder {
			continue
		}
		folders = append(folders, map[string]any{
			"uri":  "vault://notes/" + f.Path + "/",
			"name": f.Name,
		})
	}
	for _, n := range notes {
		dir := ""
		if idx := strings.LastIndex(n.Path, "/"); idx >= 0 {
			dir = n.Path[:idx]
		}
		if dir != folder {
			continue
		}
		noteEntries = append(noteEntries, map[string]any{
			"uri":  "vault://notes/" + n.Path,
			"name": n.Name,
		})
	}

	return Resource{
		URI:      "vault://notes/" + folder + "/",
		MIMEType: "application/json",
		Metadata: map[string]any{
			"folder_path": folder,
			"total_items": len(folders) + len(noteEntries),
			"folders":     folders,
			"notes":       noteEntries,
		},
	}, nil
}

func (r *Router) readNote(ctx context.Context, path, uri string) (Resource, error) {
	body, err := r.Discoverer.Client.GetNote(ctx, path)
	if err != nil {
		return Resource{}, err
	}
	stat, statErr := r.Discoverer.Client.NoteStat(ctx, path)
	md := map[string]any{}
	if statErr == nil {
		md["size"] = stat.Size
		md["modified"] = stat.Modified
	}
	return Resource{
		URI:      uri,
		MIMEType: "text/markdown",
		Text:     body,
		Metadata: md,
	}, nil
}

// List enumerates the vault root plus one entry per discovered folder
// and note. Left unpaginated per SPEC_FULL.md's Open Question
// resolution: the cost is already amortized by C2's notes-cache TTL.
func (r *Router) List(ctx context.Context) ([]ResourceListing, error) {
	notes, err := r.Discoverer.Discover(ctx, "", false)
	if err != nil {
		return nil, err
	}
	structure := discovery.BuildStructure(r.Discoverer.RootPath, notes)

	listings := []ResourceListing{{URI: "vault://notes/", Name: "notes", Kind: "folder"}}
	for _, f := range structure.Folders {
		listings = append(listings, ResourceListing{URI: "vault://notes/" + f.Path + "/", Name: f.Name, Kind: "folder"})
	}
	for _, n := range notes {
		listings = append(listings, ResourceListing{URI: "vault://notes/" + n.Path, Name: n.Name, Kind: "note"})
	}
	return listings, nil
}
