package vaultclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zach-snell/obsidian-go-mcp/internal/apperror"
)

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"notes/a.md", "notes/a.md", false},
		{"./notes/a.md", "notes/a.md", false},
		{"notes//a.md", "notes/a.md", false},
		{"/abs/a.md", "", true},
		{"../a.md", "", true},
		{"notes/../a.md", "", true},
		{"a\\b.md", "", true},
		{"a\x00b.md", "", true},
		{"", "", true},
	}
	for _, c := range cases {
		got, err := NormalizePath(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("NormalizePath(%q) = %q, nil; want error", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("NormalizePath(%q) unexpected error: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestGetNoteSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("missing bearer credential: got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Path != "/vault/notes/a.md" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("# hello"))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	body, err := c.GetNote(context.Background(), "notes/a.md")
	if err != nil {
		t.Fatalf("GetNote returned error: %v", err)
	}
	if body != "# hello" {
		t.Fatalf("GetNote body = %q, want %q", body, "# hello")
	}
}

func TestGetNoteNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	_, err := c.GetNote(context.Background(), "missing.md")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestGetNoteAuthError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad")
	_, err := c.GetNote(context.Background(), "a.md")
	if _, ok := err.(*apperror.AuthError); !ok {
		t.Fatalf("expected *apperror.AuthError, got %T (%v)", err, err)
	}
}

func TestPutNoteSetsCreateDirectoriesQueryParam(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		if r.URL.Query().Get("createDirectories") != "true" {
			t.Errorf("expected createDirectories=true, got %q", r.URL.RawQuery)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	if err := c.PutNote(context.Background(), "notes/new.md", "content", true); err != nil {
		t.Fatalf("PutNote returned error: %v", err)
	}
}

func TestDeleteNoteAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	if err := c.DeleteNote(context.Background(), "notes/a.md"); err != nil {
		t.Fatalf("DeleteNote returned error: %v", err)
	}
}

func TestListFilesParsesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"files": []string{"a.md", "sub/b.md"}})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	entries, err := c.ListFiles(context.Background(), "")
	if err != nil {
		t.Fatalf("ListFiles returned error: %v", err)
	}
	if len(entries) != 2 || entries[0].Path != "a.md" || entries[1].Path != "sub/b.md" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
}

func TestSearchSimpleRejectsEmptyQuery(t *testing.T) {
	c := New("http://unused.invalid", "secret")
	if _, err := c.SearchSimple(context.Background(), "  ", ""); err == nil {
		t.Fatal("expected an error for an empty query")
	}
}

func TestEncodePathPreservesSlashes(t *testing.T) {
	got := encodePath("a folder/b note.md")
	if got != "a%20folder/b%20note.md" {
		t.Fatalf("encodePath = %q", got)
	}
}
