// Package vaultclient is the typed HTTP client over the upstream note
// plugin's REST surface (C1, the Vault Adapter). It owns path encoding,
// the bearer credential, and HTTP-status-to-error-taxonomy mapping. It
// holds no cache and no discovery logic — those are C2 and C3.
package vaultclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zach-snell/obsidian-go-mcp/internal/apperror"
)

const callTimeout = 30 * time.Second

// Client talks to a single upstream note plugin instance over HTTP,
// authenticated with a bearer credential. It is constructed once at
// startup and injected into whoever needs it (C3, C5, C6) — spec.md §9
// explicitly rejects an implicit process-wide client.
type Client struct {
	baseURL    string
	credential string
	http       *http.Client
}

// New builds a Client against baseURL, authenticating every call with
// credential as a bearer token. No other auth mode is supported.
func New(baseURL, credential string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		credential: credential,
		http:       &http.Client{Timeout: callTimeout},
	}
}

// FileEntry is one row of an upstream file listing.
type FileEntry struct {
	Path string
}

// SearchHit is one row of an upstream simple-search response, before any
// C3 metadata enrichment.
type SearchHit struct {
	Path    string
	Snippet string
}

// Stat is the result of note_stat: size, modification time, and an
// optional creation time (some upstream plugins don't report one).
type Stat struct {
	Size     int64
	Modified time.Time
	Created  *time.Time
}

// NormalizePath canonicalizes and validates a vault-relative path per
// spec.md §4.1's path policy: reject "..", absolute paths, NUL, and
// backslashes; collapse "//"; strip a leading "./".
func NormalizePath(p string) (string, error) {
	if strings.ContainsRune(p, 0) {
		return "", &apperror.PathError{Path: p, Reason: "contains NUL byte"}
	}
	if strings.ContainsRune(p, '\\') {
		return "", &apperror.PathError{Path: p, Reason: "contains backslash"}
	}
	if strings.HasPrefix(p, "/") {
		return "", &apperror.PathError{Path: p, Reason: "absolute path not allowed"}
	}
	cleaned := strings.TrimPrefix(p, "./")
	for strings.Contains(cleaned, "//") {
		cleaned = strings.ReplaceAll(cleaned, "//", "/")
	}
	for _, seg := range strings.Split(cleaned, "/") {
		if seg == ".." {
			return "", &apperror.PathError{Path: p, Reason: "path traversal (..) not allowed"}
		}
	}
	if cleaned == "" {
		return "", &apperror.PathError{Path: p, Reason: "empty path"}
	}
	return cleaned, nil
}

// encodePath percent-encodes each path segment independently, leaving
// "/" separators untouched.
func encodePath(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.credential)
	return req, nil
}

// mapError translates a completed-but-unsuccessful HTTP response into
// the taxonomy from spec.md §4.1 and §7.
func mapError(resp *http.Response, body []byte) error {
	msg := strings.TrimSpace(string(body))
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return &apperror.AuthError{Message: msg}
	case http.StatusNotFound:
		return &apperror.NotFound{Path: resp.Request.URL.Path}
	case http.StatusConflict:
		return &apperror.Conflict{Path: resp.Request.URL.Path}
	}
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &apperror.ClientError{StatusCode: resp.StatusCode, Message: msg}
	}
	return &apperror.UpstreamError{StatusCode: resp.StatusCode, Message: msg}
}

func mapTransportError(err error) error {
	return &apperror.UpstreamError{Message: err.Error(), Cause: err}
}

// GetNote fetches the raw UTF-8 body of a note.
func (c *Client) GetNote(ctx context.Context, path string) (string, error) {
	path, err := NormalizePath(path)
	if err != nil {
		return "", err
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/vault/"+encodePath(path), nil)
	if err != nil {
		return "", mapTransportError(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", mapTransportError(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", mapError(resp, body)
	}
	return string(body), nil
}

// PutNote creates or overwrites a note. The write is idempotent: calling
// it twice with the same body leaves the vault in the same state.
func (c *Client) PutNote(ctx context.Context, path, body string, createFolders bool) error {
	path, err := NormalizePath(path)
	if err != nil {
		return err
	}
	if len(body) > 50*1024*1024 {
		return &apperror.PathError{Path: path, Reason: "body exceeds 50 MiB"}
	}
	target := "/vault/" + encodePath(path)
	if createFolders {
		target += "?createDirectories=true"
	}
	req, err := c.newRequest(ctx, http.MethodPut, target, bytes.NewBufferString(body))
	if err != nil {
		return mapTransportError(err)
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	resp, err := c.http.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return mapError(resp, respBody)
	}
	return nil
}

// DeleteNote removes a note. Deleting an absent note is idempotent and
// reported as NotFound, not an error the caller needs to treat specially
// beyond the usual taxonomy.
func (c *Client) DeleteNote(ctx context.Context, path string) error {
	path, err := NormalizePath(path)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodDelete, "/vault/"+encodePath(path), nil)
	if err != nil {
		return mapTransportError(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return mapTransportError(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return mapError(resp, body)
	}
	return nil
}

type listFilesResponse struct {
	Files []string `json:"files"`
}

// ListFiles enumerates files under folder (or the vault root if folder
// is empty), returning vault-relative paths in whatever order the
// upstream reports them; C3 imposes lexicographic ordering on top.
func (c *Client) ListFiles(ctx context.Context, folder string) ([]FileEntry, error) {
	target := "/vault/"
	if folder != "" {
		normalized, err := NormalizePath(folder)
		if err != nil {
			return nil, err
		}
		target = "/vault/" + encodePath(normalized) + "/"
	}
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, mapTransportError(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, mapError(resp, body)
	}
	var parsed listFilesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, &apperror.UpstreamError{Message: "malformed file listing: " + err.Error(), Cause: err}
	}
	entries := make([]FileEntry, 0, len(parsed.Files))
	for _, f := range parsed.Files {
		entries = append(entries, FileEntry{Path: strings.TrimPrefix(f, "/")})
	}
	return entries, nil
}

type searchSimpleRequest struct {
	Query  string `json:"query"`
	Folder string `json:"folder,omitempty"`
}

type searchSimpleHit struct {
	Path    string `json:"path"`
	Snippet string `json:"snippet"`
}

// SearchSimple issues the upstream's simple keyword search.
func (c *Client) SearchSimple(ctx context.Context, query, folder string) ([]SearchHit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &apperror.InvalidArgs{Tool: "search_simple", Keys: []string{"query"}}
	}
	payload, err := json.Marshal(searchSimpleRequest{Query: query, Folder: folder})
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/search/simple/", bytes.NewReader(payload))
	if err != nil {
		return nil, mapTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, mapError(resp, body)
	}
	var hits []searchSimpleHit
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, &apperror.UpstreamError{Message: "malformed search response: " + err.Error(), Cause: err}
	}
	out := make([]SearchHit, 0, len(hits))
	for _, h := range hits {
		out = append(out, SearchHit{Path: h.Path, Snippet: h.Snippet})
	}
	return out, nil
}

type noteStatResponse struct {
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
	Created  string `json:"created,omitempty"`
}

// NoteStat fetches size and timestamps for a single note without
// transferring its body.
func (c *Client) NoteStat(ctx context.Context, path string) (Stat, error) {
	path, err := NormalizePath(path)
	if err != nil {
		return Stat{}, err
	}
	req, err := c.newRequest(ctx, http.MethodGet, "/vault/"+encodePath(path)+"?stat=true", nil)
	if err != nil {
		return Stat{}, mapTransportError(err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Stat{}, mapTransportError(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return Stat{}, mapError(resp, body)
	}
	var parsed noteStatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Stat{}, &apperror.UpstreamError{Message: "malformed stat response: " + err.Error(), Cause: err}
	}
	stat := Stat{Size: parsed.Size}
	if t, err := time.Parse(time.RFC3339, parsed.Modified); err == nil {
		stat.Modified = t
	}
	if parsed.Created != "" {
		if t, err := time.Parse(time.RFC3339, parsed.Created); err == nil {
			stat.Created = &t
		}
	}
	return stat, nil
}

type executeCommandRequest struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

// ExecuteCommand invokes an arbitrary named upstream command, returning
// its opaque JSON result as a decoded value.
func (c *Client) ExecuteCommand(ctx context.Context, name string, params map[string]any) (any, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &apperror.InvalidArgs{Tool: "execute_command", Keys: []string{"name"}}
	}
	payload, err := json.Marshal(executeCommandRequest{Name: name, Params: params})
	if err != nil {
		return nil, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/command/", bytes.NewReader(payload))
	if err != nil {
		return nil, mapTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, mapError(resp, body)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var result any
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &apperror.UpstreamError{Message: "malformed command response: " + err.Error(), Cause: err}
	}
	return result, nil
}

// IsNotFound reports whether err (possibly wrapped) is a NotFound.
func IsNotFound(err error) bool {
	var nf *apperror.NotFound
	return errors.As(err, &nf)
}
