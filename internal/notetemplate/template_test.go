package notetemplate

import (
	"strings"
	"testing"
	"time"
)

func TestSelectKind(t *testing.T) {
	cases := map[string]Kind{
		"06_daily-notes/2026-08-06.md": KindDaily,
		"daily-notes/2026-08-06.md":    KindDaily,
		"02_projects/website.md":       KindProject,
		"03_areas/health.md":           KindArea,
		"05_knowledge/go.md":           KindNone,
		"loose-note.md":                KindNone,
	}
	for path, want := range cases {
		if got := SelectKind(path); got != want {
			t.Errorf("SelectKind(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestSubstituteTokensRecognizedVocabulary(t *testing.T) {
	at := time.Date(2026, 8, 6, 14, 5, 0, 0, time.UTC)
	got := SubstituteTokens("day {date:YYYY-MM-DD} year {date:YYYY} time {time:HH:mm}", at)
	want := "day 2026-08-06 year 2026 time 14:05"
	if got != want {
		t.Fatalf("SubstituteTokens = %q, want %q", got, want)
	}
}

func TestSubstituteTokensRemovesUnresolved(t *testing.T) {
	at := time.Now()
	got := SubstituteTokens("prefix {date:MM/DD/YYYY} suffix", at)
	if strings.Contains(got, "{") {
		t.Fatalf("expected unresolved token to be removed entirely, got %q", got)
	}
	if got != "prefix  suffix" {
		t.Fatalf("SubstituteTokens = %q", got)
	}
}

func TestDefaultHeaderRequiredFieldsPerKind(t *testing.T) {
	at := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	h := DefaultHeader(KindProject, at, nil)
	for _, f := range RequiredFields(KindProject) {
		if _, ok := h.Get(f); !ok {
			t.Errorf("missing required field %q in project header", f)
		}
	}
	if v, _ := h.Get("created"); v != "2026-08-06" {
		t.Fatalf("created = %v", v)
	}
}

func TestDefaultHeaderDropsCallerDefaultWithUnresolvedToken(t *testing.T) {
	at := time.Now()
	h := DefaultHeader(KindArea, at, map[string]any{"next-review": "{date:MM/DD/YYYY}"})
	if _, ok := h.Get("next-review"); ok {
		t.Fatal("expected a caller default with an unresolved token to be dropped, not stored empty")
	}
}

func TestApplyCreateTemplateSkipsExistingHeader(t *testing.T) {
	body := "---\ntitle: already templated\n---\nBody.\n"
	out := ApplyCreateTemplate("02_projects/x.md", body, true, time.Now(), nil)
	if out != body {
		t.Fatalf("expected body to pass through unchanged when it already has a header")
	}
}

func TestApplyCreateTemplateNoopWhenDisabled(t *testing.T) {
	out := ApplyCreateTemplate("02_projects/x.md", "plain body", false, time.Now(), nil)
	if out != "plain body" {
		t.Fatalf("expected no template when useTemplate is false, got %q", out)
	}
}

func TestApplyCreateTemplateNoopForUnmatchedFolder(t *testing.T) {
	out := ApplyCreateTemplate("05_knowledge/x.md", "plain body", true, time.Now(), nil)
	if out != "plain body" {
		t.Fatalf("expected no template for a folder outside the selection table, got %q", out)
	}
}

func TestApplyCreateTemplatePrependsHeader(t *testing.T) {
	at := time.Date(2026, 8, 6, 0, 0, 0, 0, time.UTC)
	out := ApplyCreateTemplate("06_daily-notes/2026-08-06.md", "# Notes\n", true, at, nil)
	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("expected a prepended header, got %q", out)
	}
	if !strings.HasSuffix(out, "# Notes\n") {
		t.Fatalf("expected body preserved, got %q", out)
	}
}

func TestMergeForUpdatePreservesExistingKeepsNewBody(t *testing.T) {
	existing := "---\ntitle: Old\nstatus: active\n---\nold body\n"
	incoming := "---\ntitle: New\n---\nnew body\n"
	merged, _ := MergeForUpdate(existing, incoming)
	hdr, body, ok := ParseHeader(merged)
	if !ok {
		t.Fatal("expected merged content to carry a header")
	}
	if v, _ := hdr.Get("title"); v != "New" {
		t.Fatalf("title = %v, want New (new content wins)", v)
	}
	if v, _ := hdr.Get("status"); v != "active" {
		t.Fatalf("status = %v, want active (preserved from existing)", v)
	}
	if body != "new body\n" {
		t.Fatalf("body = %q, want the new content's body", body)
	}
}

func TestMergeForUpdateDropsUnresolvedTokenKeys(t *testing.T) {
	existing := "---\ntitle: Old\n---\nold body\n"
	incoming := "---\ntitle: New\nnext-review: {date:MM/DD/YYYY}\n---\nnew body\n"
	merged, _ := MergeForUpdate(existing, incoming)
	hdr, _, _ := ParseHeader(merged)
	if _, ok := hdr.Get("next-review"); ok {
		t.Fatal("expected next-review with an unresolved token to be dropped from the merge")
	}
}

func TestCheckDateMismatchDetectsCreationDateMismatch(t *testing.T) {
	content := "---\ncreation-date: 2026-08-05\n---\n# Notes\n"
	warning, mismatched := CheckDateMismatch("06_daily-notes/2026-08-06.md", content)
	if !mismatched {
		t.Fatal("expected a mismatch")
	}
	if !strings.Contains(warning, "2026-08-05") || !strings.Contains(warning, "2026-08-06") {
		t.Fatalf("warning = %q", warning)
	}
}

func TestCheckDateMismatchNoWarningWhenConsistent(t *testing.T) {
	content := "---\ncreation-date: 2026-08-06\n---\n# Notes for 2026\n"
	_, mismatched := CheckDateMismatch("06_daily-notes/2026-08-06.md", content)
	if mismatched {
		t.Fatal("expected no mismatch when dates agree")
	}
}

func TestCheckDateMismatchIgnoresNonDailyPaths(t *testing.T) {
	content := "---\ncreation-date: 1999-01-01\n---\nbody\n"
	_, mismatched := CheckDateMismatch("02_projects/x.md", content)
	if mismatched {
		t.Fatal("expected the date-mismatch check to only apply to daily-note paths")
	}
}
