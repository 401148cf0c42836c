package resources

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/zach-snell/obsidian-go-mcp/internal/discovery"
	"github.com/zach-snell/obsidian-go-mcp/internal/vaultclient"
)

func TestParsePathRoot(t *testing.T) {
	path, isFolder, err := ParsePath("vault://notes/")
	if err != nil {
		t.Fatalf("ParsePath returned error: %v", err)
	}
	if !isFolder || path != "" {
		t.Fatalf("path=%q isFolder=%v, want (\"\", true)", path, isFolder)
	}
}

func TestParsePathFolder(t *testing.T) {
	path, isFolder, err := ParsePath("vault://notes/02_projects/")
	if err != nil {
		t.Fatalf("ParsePath returned error: %v", err)
	}
	if !isFolder || path != "02_projects" {
		t.Fatalf("path=%q isFolder=%v", path, isFolder)
	}
}

func TestParsePathNote(t *testing.T) {
	path, isFolder, err := ParsePath("vault://notes/02_projects/website.md")
	if err != nil {
		t.Fatalf("ParsePath returned error: %v", err)
	}
	if isFolder || path != "02_projects/website.md" {
		t.Fatalf("path=%q isFolder=%v", path, isFolder)
	}
}

func TestParsePathRejectsWrongScheme(t *testing.T) {
	if _, _, err := ParsePath("http://notes/a.md"); err == nil {
		t.Fatal("expected an error for a non-vault scheme")
	}
}

func TestParsePathRejectsWrongHost(t *testing.T) {
	if _, _, err := ParsePath("vault://other/a.md"); err == nil {
		t.Fatal("expected an error for an unrecognized host")
	}
}

func TestParsePathRejectsTraversal(t *testing.T) {
	if _, _, err := ParsePath("vault://notes/../secrets.md"); err == nil {
		t.Fatal("expected an error for a path escaping the vault root")
	}
}

func TestParsePathDecodesPercentEncoding(t *testing.T) {
	path, _, err := ParsePath("vault://notes/02%20projects/a.md")
	if err != nil {
		t.Fatalf("ParsePath returned error: %v", err)
	}
	if path != "02 projects/a.md" {
		t.Fatalf("path = %q", path)
	}
}

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/vault/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path[len("/vault/"):]
		switch path {
		case "":
			json.NewEncoder(w).Encode(map[string]any{"files": []string{"02_projects/a.md", "root.md"}})
		case "02_projects/a.md":
			w.Write([]byte("project body"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client := vaultclient.New(srv.URL, "token")
	d := discovery.New(client, "", 5, 80, discovery.NewCaches(time.Minute, time.Minute))
	return New(d)
}

func TestReadNoteReturnsBody(t *testing.T) {
	r := newTestRouter(t)
	res, err := r.Read(context.Background(), "vault://notes/02_projects/a.md")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if res.Text != "project body" {
		t.Fatalf("Text = %q", res.Text)
	}
	if res.MIMEType != "text/markdown" {
		t.Fatalf("MIMEType = %q", res.MIMEType)
	}
}

func TestReadFolderListsDirectChildren(t *testing.T) {
	r := newTestRouter(t)
	res, err := r.Read(context.Background(), "vault://notes/02_projects/")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	notes, ok := res.Metadata["notes"].([]map[string]any)
	if !ok || len(notes) != 1 {
		t.Fatalf("Metadata[notes] = %v", res.Metadata["notes"])
	}
}

func TestListEnumeratesRootFoldersAndNotes(t *testing.T) {
	r := newTestRouter(t)
	listings, err := r.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(listings) < 4 {
		t.Fatalf("listings = %+v, want at least root + folder + 2 notes", listings)
	}
	if listings[0].URI != "vault://notes/" || listings[0].Kind != "folder" {
		t.Fatalf("listings[0] = %+v", listings[0])
	}
}
