// Package tools implements C5: the tool catalogue, schema-validated
// argument binding, prefix-based exact-name routing, and the uniform
// envelope contract every handler honors.
package tools

import (
	"context"
	"log/slog"

	"github.com/zach-snell/obsidian-go-mcp/internal/apperror"
	"github.com/zach-snell/obsidian-go-mcp/internal/discovery"
	"github.com/zach-snell/obsidian-go-mcp/internal/envelope"
	"github.com/zach-snell/obsidian-go-mcp/internal/vaultclient"
)

// Handler executes one tool call given its already-validated arguments.
type Handler func(ctx context.Context, args map[string]any) (envelope.Envelope, error)

// Tool is one entry in the registry: a name, description, a raw
// JSON-Schema-shaped declaration (informational, surfaced by
// tools/list), and the handler that runs it.
type Tool struct {
	Name        string
	Description string
	Schema      map[string]any
	Handler     Handler
}

// Registry is populated once at startup and never mutated afterward;
// readers need no synchronization, per spec.md §5.
type Registry struct {
	prefix string
	tools  map[string]Tool
	order  []string
}

// NewRegistry builds the fixed 13-tool catalogue (spec.md §4.5, tool
// count resolved in SPEC_FULL.md's Open Question section): the
// system-level "ping" plus 12 tools namespaced under prefix, all bound
// to the given dependencies.
func NewRegistry(prefix string, deps *Deps) *Registry {
	r := &Registry{prefix: prefix, tools: map[string]Tool{}}
	r.register(Tool{Name: "ping", Description: "Liveness check", Schema: schemaNone(), Handler: deps.ping})
	r.register(Tool{Name: prefix + "search_notes", Description: "Search notes via the upstream simple search", Schema: schemaSearchNotes(), Handler: deps.searchNotes})
	r.register(Tool{Name: prefix + "read_note", Description: "Read a note's body and stat metadata", Schema: schemaReadNote(), Handler: deps.readNote})
	r.register(Tool{Name: prefix + "create_note", Description: "Create a new note, optionally applying a template", Schema: schemaCreateNote(), Handler: deps.createNote})
	r.register(Tool{Name: prefix + "update_note", Description: "Replace a note's content, optionally preserving its header", Schema: schemaUpdateNote(), Handler: deps.updateNote})
	r.register(Tool{Name: prefix + "append_note", Description: "Append content to an existing note", Schema: schemaAppendNote(), Handler: deps.appendNote})
	r.register(Tool{Name: prefix + "delete_note", Description: "Delete a note", Schema: schemaDeleteNote(), Handler: deps.deleteNote})
	r.register(Tool{Name: prefix + "list_notes", Description: "List notes, optionally under a folder, optionally with headers", Schema: schemaListNotes(), Handler: deps.listNotes})
	r.register(Tool{Name: prefix + "get_vault_structure", Description: "Return the full discovered vault structure", Schema: schemaGetVaultStructure(), Handler: deps.getVaultStructure})
	r.register(Tool{Name: prefix + "execute_command", Description: "Invoke an arbitrary upstream command", Schema: schemaExecuteCommand(), Handler: deps.executeCommand})
	r.register(Tool{Name: prefix + "keyword_search", Description: "Linear keyword search over note bodies", Schema: schemaKeywordSearch(), Handler: deps.keywordSearch})
	r.register(Tool{Name: prefix + "check_note_exists", Description: "Check whether a note exists", Schema: schemaCheckNoteExists(), Handler: deps.checkNoteExists})
	r.register(Tool{Name: prefix + "list_daily_notes", Description: "List daily notes within a date range", Schema: schemaListDailyNotes(), Handler: deps.listDailyNotes})
	return r
}

func (r *Registry) register(t Tool) {
	r.tools[t.Name] = t
	r.order = append(r.order, t.Name)
}

// List returns the tool catalogue in registration order, for tools/list.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

// Count is the number of registered tools, surfaced by C7's initialize
// capabilities document.
func (r *Registry) Count() int { return len(r.order) }

// Dispatch routes by exact name and runs the tool's handler. Unknown
// names produce UnknownTool.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (envelope.Envelope, error) {
	t, ok := r.tools[name]
	if !ok {
		return envelope.Envelope{}, &apperror.UnknownTool{Name: name}
	}
	return t.Handler(ctx, args)
}

// Deps bundles everything a handler needs: the adapter, caches, the
// discoverer, and a logger for recovered-failure diagnostics.
type Deps struct {
	Client     *vaultclient.Client
	Discoverer *discovery.Discoverer
	Caches     *discovery.Caches
	Logger     *slog.Logger
}
