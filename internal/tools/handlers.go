package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/zach-snell/obsidian-go-mcp/internal/apperror"
	"github.com/zach-snell/obsidian-go-mcp/internal/discovery"
	"github.com/zach-snell/obsidian-go-mcp/internal/envelope"
	"github.com/zach-snell/obsidian-go-mcp/internal/notetemplate"
	"github.com/zach-snell/obsidian-go-mcp/internal/vaultclient"
)

func (d *Deps) ping(ctx context.Context, args map[string]any) (envelope.Envelope, error) {
	return envelope.Envelope{
		Content: []envelope.ContentPart{envelope.TextPart("pong")},
		Metadata: map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}, nil
}

func (d *Deps) searchNotes(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args searchNotesArgs
	if err := bindArgs("search_notes", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	hits, err := d.Client.SearchSimple(ctx, args.Query, args.Folder)
	if err != nil {
		return envelope.Envelope{}, err
	}
	enriched := d.Discoverer.EnrichSearchHits(ctx, hits)
	return envelope.JSON(enriched), nil
}

func (d *Deps) readNote(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args readNoteArgs
	if err := bindArgs("read_note", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	body, err := d.Client.GetNote(ctx, args.Path)
	if err != nil {
		return envelope.Envelope{}, err
	}
	stat, statErr := d.Client.NoteStat(ctx, args.Path)
	md := map[string]any{}
	if statErr == nil {
		md["size"] = stat.Size
		md["modified"] = stat.Modified
	}
	return envelope.Envelope{
		Content:  []envelope.ContentPart{envelope.TextPart(body)},
		Metadata: md,
	}, nil
}

func (d *Deps) createNote(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args createNoteArgs
	if err := bindArgs("create_note", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	useTemplate := true
	if args.UseTemplate != nil {
		useTemplate = *args.UseTemplate
	}

	path, pathErr := vaultclient.NormalizePath(args.Path)
	if pathErr != nil {
		return envelope.Envelope{}, pathErr
	}

	// create_note is a policy-level operation: it must reject an
	// existing path with Conflict, unlike C1's put_note primitive which
	// is an unconditional idempotent overwrite.
	if _, err := d.Client.GetNote(ctx, path); err == nil {
		return envelope.Envelope{}, &apperror.Conflict{Path: path}
	} else if !vaultclient.IsNotFound(err) {
		return envelope.Envelope{}, err
	}

	body := notetemplate.ApplyCreateTemplate(path, args.Content, useTemplate, time.Now(), nil)

	if err := d.Client.PutNote(ctx, path, body, args.CreateFolders); err != nil {
		d.Caches.InvalidateAll()
		return envelope.Envelope{}, err
	}
	d.Caches.InvalidateAll()

	return envelope.Text(fmt.Sprintf("created %s", path)), nil
}

func (d *Deps) updateNote(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args updateNoteArgs
	if err := bindArgs("update_note", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	preserve := true
	if args.PreserveFormat != nil {
		preserve = *args.PreserveFormat
	}

	path, pathErr := vaultclient.NormalizePath(args.Path)
	if pathErr != nil {
		return envelope.Envelope{}, pathErr
	}

	finalContent := args.Content
	if preserve {
		existing, err := d.Client.GetNote(ctx, path)
		if err != nil {
			return envelope.Envelope{}, err
		}
		merged, _ := notetemplate.MergeForUpdate(existing, args.Content)
		finalContent = merged
	}

	if err := d.Client.PutNote(ctx, path, finalContent, false); err != nil {
		d.Caches.InvalidateAll()
		return envelope.Envelope{}, err
	}
	d.Caches.InvalidateAll()

	warnings := checkDateMismatchWarning(path, finalContent)
	return envelope.Envelope{
		Content:  []envelope.ContentPart{envelope.TextPart(fmt.Sprintf("updated %s", path))},
		Warnings: warnings,
	}, nil
}

func checkDateMismatchWarning(path, content string) []string {
	if warning, mismatched := notetemplate.CheckDateMismatch(path, content); mismatched {
		return []string{warning}
	}
	return nil
}

func (d *Deps) appendNote(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args appendNoteArgs
	if err := bindArgs("append_note", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	path, pathErr := vaultclient.NormalizePath(args.Path)
	if pathErr != nil {
		return envelope.Envelope{}, pathErr
	}

	existing, err := d.Client.GetNote(ctx, path)
	if err != nil {
		return envelope.Envelope{}, err
	}
	sep := args.Separator
	if sep == "" {
		sep = "\n"
	}
	newContent := existing + sep + args.Content

	if err := d.Client.PutNote(ctx, path, newContent, false); err != nil {
		d.Caches.InvalidateAll()
		return envelope.Envelope{}, err
	}
	d.Caches.InvalidateAll()

	return envelope.Text(fmt.Sprintf("appended to %s", path)), nil
}

func (d *Deps) deleteNote(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args deleteNoteArgs
	if err := bindArgs("delete_note", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	err := d.Client.DeleteNote(ctx, args.Path)
	// Write atomicity per spec.md §7: invalidate even on failure, since
	// partial upstream side effects are possible.
	d.Caches.InvalidateAll()
	if err != nil {
		return envelope.Envelope{}, err
	}
	return envelope.Text(fmt.Sprintf("deleted %s", args.Path)), nil
}

func (d *Deps) listNotes(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args listNotesArgs
	if err := bindArgs("list_notes", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	notes, err := d.Discoverer.Discover(ctx, args.Folder, args.IncludeHeaders)
	if err != nil {
		return envelope.Envelope{}, err
	}
	return envelope.JSON(notes), nil
}

func (d *Deps) getVaultStructure(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args getVaultStructureArgs
	if err := bindArgs("get_vault_structure", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	useCache := true
	if args.UseCache != nil {
		useCache = *args.UseCache
	}
	if useCache {
		if structure, ok := d.Caches.Structure.GetFresh(); ok {
			return envelope.JSON(structure), nil
		}
	}
	notes, err := d.Discoverer.Discover(ctx, "", false)
	if err != nil {
		return envelope.Envelope{}, err
	}
	structure := discovery.BuildStructure(d.Discoverer.RootPath, notes)
	d.Caches.Structure.Put(structure)
	return envelope.JSON(structure), nil
}

func (d *Deps) executeCommand(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args executeCommandArgs
	if err := bindArgs("execute_command", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	result, err := d.Client.ExecuteCommand(ctx, args.Command, args.Parameters)
	if err != nil {
		return envelope.Envelope{}, err
	}
	return envelope.Envelope{
		Content: []envelope.ContentPart{envelope.TextPart(fmt.Sprintf("executed %s", args.Command))},
		Metadata: map[string]any{
			"command": args.Command,
			"result":  result,
		},
	}, nil
}

func (d *Deps) keywordSearch(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args keywordSearchArgs
	if err := bindArgs("keyword_search", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	limit := 20
	if args.Limit != nil {
		limit = *args.Limit
	}
	hits, err := d.Discoverer.KeywordSearch(ctx, args.Keyword, args.Folder, args.CaseSensitive, limit)
	if err != nil {
		return envelope.Envelope{}, err
	}
	return envelope.JSON(hits), nil
}

func (d *Deps) checkNoteExists(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args checkNoteExistsArgs
	if err := bindArgs("check_note_exists", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	_, err := d.Client.GetNote(ctx, args.Path)
	if err != nil {
		if vaultclient.IsNotFound(err) {
			return envelope.JSON(map[string]any{"exists": false}), nil
		}
		return envelope.Envelope{}, err
	}
	stat, statErr := d.Client.NoteStat(ctx, args.Path)
	result := map[string]any{"exists": true}
	if statErr == nil {
		result["modified"] = stat.Modified
	}
	return envelope.JSON(result), nil
}

func (d *Deps) listDailyNotes(ctx context.Context, raw map[string]any) (envelope.Envelope, error) {
	var args listDailyNotesArgs
	if err := bindArgs("list_daily_notes", raw, &args, true); err != nil {
		return envelope.Envelope{}, err
	}
	start, err := time.Parse("2006-01-02", args.StartDate)
	if err != nil {
		return envelope.Envelope{}, &apperror.InvalidArgs{Tool: "list_daily_notes", Keys: []string{"start_date"}}
	}
	end, err := time.Parse("2006-01-02", args.EndDate)
	if err != nil {
		return envelope.Envelope{}, &apperror.InvalidArgs{Tool: "list_daily_notes", Keys: []string{"end_date"}}
	}

	notes, discErr := d.Discoverer.Discover(ctx, "daily-notes", false)
	if discErr != nil {
		return envelope.Envelope{}, discErr
	}

	var inRange []discovery.NoteMetadata
	for _, n := range notes {
		name := strings.TrimSuffix(n.Name, ".md")
		noteDate, err := time.Parse("2006-01-02", name)
		if err != nil {
			continue
		}
		if (noteDate.Equal(start) || noteDate.After(start)) && (noteDate.Equal(end) || noteDate.Before(end)) {
			inRange = append(inRange, n)
		}
	}
	sort.Slice(inRange, func(i, j int) bool { return inRange[i].Path < inRange[j].Path })
	return envelope.JSON(inRange), nil
}
