package tools

import (
	"testing"

	"github.com/zach-snell/obsidian-go-mcp/internal/apperror"
)

func TestBindArgsRejectsUnknownKeysWhenStrict(t *testing.T) {
	var args readNoteArgs
	err := bindArgs("read_note", map[string]any{"path": "a.md", "bogus": 1}, &args, true)
	if err == nil {
		t.Fatal("expected an error for an unrecognized key")
	}
	invalid, ok := err.(*apperror.InvalidArgs)
	if !ok {
		t.Fatalf("expected *apperror.InvalidArgs, got %T", err)
	}
	if len(invalid.Keys) != 1 || invalid.Keys[0] != "bogus" {
		t.Fatalf("Keys = %v", invalid.Keys)
	}
}

func TestBindArgsPopulatesStruct(t *testing.T) {
	var args readNoteArgs
	if err := bindArgs("read_note", map[string]any{"path": "a.md"}, &args, true); err != nil {
		t.Fatalf("bindArgs returned error: %v", err)
	}
	if args.Path != "a.md" {
		t.Fatalf("Path = %q", args.Path)
	}
}

func TestBindArgsRunsValidate(t *testing.T) {
	var args readNoteArgs
	err := bindArgs("read_note", map[string]any{"path": ""}, &args, true)
	if err == nil {
		t.Fatal("expected an error from Validate() for an empty required field")
	}
	invalid, ok := err.(*apperror.InvalidArgs)
	if !ok || len(invalid.Keys) != 1 || invalid.Keys[0] != "path" {
		t.Fatalf("err = %v", err)
	}
}

func TestBindArgsAllowsMissingOptionalFields(t *testing.T) {
	var args listNotesArgs
	if err := bindArgs("list_notes", map[string]any{}, &args, true); err != nil {
		t.Fatalf("bindArgs returned error for an all-optional schema: %v", err)
	}
}
