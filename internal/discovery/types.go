// Package discovery implements C3: the two-stage scan/enrich pipeline
// over the vault, its two fan-out disciplines (bounded batched and
// unbounded gather), and keyword search.
package discovery

import "time"

// NoteRef identifies a note by its vault-relative path. Invariant: Name
// equals the final path segment.
type NoteRef struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// NewNoteRef builds a NoteRef, deriving Name from the final path segment.
func NewNoteRef(path string) NoteRef {
	name := path
	if idx := lastSlash(path); idx >= 0 {
		name = path[idx+1:]
	}
	return NoteRef{Path: path, Name: name}
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

// NoteMetadata is a NoteRef plus stat and (lazily) header data. Headers
// is nil to mean "not yet extracted", distinct from an empty-but-present
// map.
type NoteMetadata struct {
	NoteRef
	SizeBytes  int64          `json:"size_bytes"`
	ModifiedAt time.Time      `json:"modified_at"`
	CreatedAt  *time.Time     `json:"created_at,omitempty"`
	Headers    map[string]any `json:"headers,omitempty"`
}

// VaultStructure is the full discovered shape of the vault.
type VaultStructure struct {
	RootPath     string         `json:"root_path"`
	Folders      []FolderInfo   `json:"folders"`
	Notes        []NoteMetadata `json:"notes"`
	TotalNotes   int            `json:"total_notes"`
	TotalFolders int            `json:"total_folders"`
}

// FolderInfo describes one folder. Counts are direct children only.
type FolderInfo struct {
	Path            string `json:"path"`
	Name            string `json:"name"`
	Parent          string `json:"parent,omitempty"`
	NotesCount      int    `json:"notes_count"`
	SubfoldersCount int    `json:"subfolders_count"`
}

// SearchHit is a single search result, optionally enriched with
// metadata by the unbounded-gather fan-out.
type SearchHit struct {
	Path     string        `json:"path"`
	Name     string        `json:"name"`
	Snippet  string        `json:"snippet,omitempty"`
	Score    float64       `json:"score,omitempty"`
	Metadata *NoteMetadata `json:"metadata,omitempty"`
}
