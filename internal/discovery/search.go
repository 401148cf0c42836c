package discovery

import (
	"context"
	"strings"

	"github.com/zach-snell/obsidian-go-mcp/internal/vaultclient"
)

// KeywordSearch implements spec.md §4.3's keyword search: a linear scan
// of discovered notes, reading bodies via the adapter in batches of
// BatchSize, extracting a ±SnippetSize-character context snippet around
// the first match, and stopping at the first batch boundary once limit
// is satisfied. limit == 0 does no I/O at all.
func (d *Discoverer) KeywordSearch(ctx context.Context, keyword, folder string, caseSensitive bool, limit int) ([]SearchHit, error) {
	if strings.TrimSpace(keyword) == "" {
		return nil, nil
	}
	if limit <= 0 {
		return nil, nil
	}

	notes, err := d.Discover(ctx, folder, false)
	if err != nil {
		return nil, err
	}

	searchKeyword := keyword
	if !caseSensitive {
		searchKeyword = strings.ToLower(keyword)
	}

	matches := make([]*SearchHit, len(notes))
	out := make([]SearchHit, 0, limit)

	batchSize := d.BatchSize
	if batchSize <= 0 {
		batchSize = 1
	}
	for start := 0; start < len(notes); start += batchSize {
		end := start + batchSize
		if end > len(notes) {
			end = len(notes)
		}
		batch := notes[start:end]
		BoundedBatched(ctx, batch, batchSize, func(ctx context.Context, n NoteMetadata) error {
			body, err := d.Client.GetNote(ctx, n.Path)
			if err != nil {
				// Recovered per spec.md §7: a per-batch keyword-match
				// read failure is treated as a non-match, never surfaced.
				return nil
			}
			haystack := body
			if !caseSensitive {
				haystack = strings.ToLower(body)
			}
			idx := strings.Index(haystack, searchKeyword)
			if idx == -1 {
				return nil
			}
			snippet := extractSnippet(body, idx, len(keyword), d.SnippetSize)
			matches[start+indexInBatch(batch, n)] = &SearchHit{Path: n.Path, Name: n.Name, Snippet: snippet}
			return nil
		})
		for i := start; i < end; i++ {
			if matches[i] != nil {
				out = append(out, *matches[i])
				if len(out) >= limit {
					return out, nil
				}
			}
		}
	}
	return out, nil
}

func indexInBatch(batch []NoteMetadata, n NoteMetadata) int {
	for i, x := range batch {
		if x.Path == n.Path {
			return i
		}
	}
	return -1
}

func extractSnippet(body string, matchIdx, matchLen, radius int) string {
	start := matchIdx - radius
	if start < 0 {
		start = 0
	}
	end := matchIdx + matchLen + radius
	if end > len(body) {
		end = len(body)
	}
	snippet := strings.TrimSpace(body[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(body) {
		snippet = snippet + "..."
	}
	return snippet
}

// EnrichSearchHits implements spec.md §4.3's search-metadata enrichment:
// given hits from the adapter's search_simple, fetch note_stat for each
// concurrently without batching (unbounded gather), filtering out
// failures while preserving input order among successes.
func (d *Discoverer) EnrichSearchHits(ctx context.Context, hits []vaultclient.SearchHit) []SearchHit {
	return UnboundedGather(ctx, hits, func(ctx context.Context, h vaultclient.SearchHit) (SearchHit, error) {
		stat, err := d.Client.NoteStat(ctx, h.Path)
		if err != nil {
			return SearchHit{}, err
		}
		ref := NewNoteRef(h.Path)
		return SearchHit{
			Path:    h.Path,
			Name:    ref.Name,
			Snippet: h.Snippet,
			Metadata: &NoteMetadata{
				NoteRef:    ref,
				SizeBytes:  stat.Size,
				ModifiedAt: stat.Modified,
				CreatedAt:  stat.Created,
			},
		}, nil
	})
}
