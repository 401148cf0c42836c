// Package rpcserver implements C7: the JSON-RPC 2.0 front-end, its
// method map, and content negotiation between a unary JSON response and
// a newline-delimited streaming response.
package rpcserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/zach-snell/obsidian-go-mcp/internal/apperror"
	"github.com/zach-snell/obsidian-go-mcp/internal/resources"
	"github.com/zach-snell/obsidian-go-mcp/internal/tools"
)

// Request is the JSON-RPC 2.0 request envelope C7 accepts.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// Response is the unary JSON-RPC response envelope.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is the JSON-RPC error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ServerInfo names this server for the initialize capabilities document.
type ServerInfo struct {
	Name    string
	Version string
}

// Server wires C5's registry and C6's router into a single JSON-RPC HTTP
// endpoint.
type Server struct {
	Registry *tools.Registry
	Router   *resources.Router
	Info     ServerInfo
	Logger   *slog.Logger
}

// New builds a Server.
func New(registry *tools.Registry, router *resources.Router, info ServerInfo, logger *slog.Logger) *Server {
	return &Server{Registry: registry, Router: router, Info: info, Logger: logger}
}

// Mux builds the chi router exposing the single JSON-RPC endpoint plus
// unauthenticated health checks, grounded in the teacher-adjacent
// Starford96-kenaz entry.go's chi-router wiring style. The outward
// HTTPS terminator, TLS, and CORS policy remain out of scope; this mux
// is the core's own internal handler registration.
func (s *Server) Mux() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Post("/rpc", s.handleRPC)
	return r
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())
	if reqID == "" {
		reqID = uuid.NewString()
	}
	logger := s.Logger.With(slog.String("request_id", reqID))

	var req Request
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		writeError(w, nil, &apperror.ParseError{Cause: err})
		return
	}
	if req.JSONRPC != "2.0" || req.Method == "" {
		writeError(w, req.ID, &apperror.InvalidRequest{Reason: "missing jsonrpc/method"})
		return
	}

	result, err := s.dispatch(r.Context(), req)
	if err != nil {
		logger.Warn("rpc call failed", slog.String("method", req.Method), slog.String("error", err.Error()))
		writeError(w, req.ID, err)
		return
	}

	wantStream := acceptsStream(r)
	if shouldStream(result, wantStream) {
		streamResult(w, result)
		return
	}
	writeResult(w, req.ID, result)
}

// acceptsStream reports the client's stream preference from an
// Accept-equivalent header.
func acceptsStream(r *http.Request) bool {
	return r.Header.Get("Accept") == "text/event-stream"
}

func (s *Server) dispatch(ctx context.Context, req Request) (any, error) {
	switch req.Method {
	case "ping":
		return s.Registry.Dispatch(ctx, "ping", nil)
	case "initialize":
		return s.initializeResult(), nil
	case "tools/list":
		return toolsListResult(s.Registry.List()), nil
	case "tools/call":
		var params struct {
			Name      string         `json:"name"`
			Arguments map[string]any `json:"arguments"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &apperror.InvalidRequest{Reason: "malformed params"}
		}
		env, err := s.Registry.Dispatch(ctx, params.Name, params.Arguments)
		if err != nil {
			return nil, err
		}
		return env, nil
	case "resources/list":
		listings, err := s.Router.List(ctx)
		if err != nil {
			return nil, err
		}
		return listings, nil
	case "resources/read":
		var params struct {
			URI string `json:"uri"`
		}
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return nil, &apperror.InvalidRequest{Reason: "malformed params"}
		}
		res, err := s.Router.Read(ctx, params.URI)
		if err != nil {
			return nil, err
		}
		return res, nil
	default:
		return nil, &apperror.UnknownMethod{Method: req.Method}
	}
}

type capabilities struct {
	SubProtocols  []string `json:"sub_protocols"`
	ToolCount     int      `json:"tool_count"`
	ResourceCount int      `json:"resource_count"`
	ServerName    string   `json:"server_name"`
	ServerVersion string   `json:"server_version"`
}

func (s *Server) initializeResult() capabilities {
	resourceCount := 1
	if listings, err := s.Router.List(context.Background()); err == nil {
		resourceCount = len(listings)
	}
	return capabilities{
		SubProtocols:  []string{"jsonrpc-2.0"},
		ToolCount:     s.Registry.Count(),
		ResourceCount: resourceCount,
		ServerName:    s.Info.Name,
		ServerVersion: s.Info.Version,
	}
}

type toolSummary struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}

func toolsListResult(ts []tools.Tool) []toolSummary {
	out := make([]toolSummary, 0, len(ts))
	for _, t := range ts {
		out = append(out, toolSummary{Name: t.Name, Description: t.Description, Schema: t.Schema})
	}
	return out
}

func writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func writeError(w http.ResponseWriter, id json.RawMessage, err error) {
	code, hasData := apperror.RPCCode(err)
	rpcErr := &RPCError{Code: int(code), Message: err.Error()}
	if hasData {
		rpcErr.Data = errorData(err)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(Response{JSONRPC: "2.0", ID: id, Error: rpcErr})
}

func errorData(err error) map[string]any {
	var nf *apperror.NotFound
	if errors.As(err, &nf) {
		return map[string]any{"path": nf.Path}
	}
	var ue *apperror.UpstreamError
	if errors.As(err, &ue) {
		return map[string]any{"status_code": ue.StatusCode}
	}
	return nil
}
