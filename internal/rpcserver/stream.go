package rpcserver

import (
	"encoding/json"
	"net/http"
	"reflect"

	"github.com/zach-snell/obsidian-go-mcp/internal/envelope"
	"github.com/zach-snell/obsidian-go-mcp/internal/resources"
)

const chunkSize = 512
const streamThresholdBytes = 1024
const streamThresholdItems = 10

// shouldStream implements spec.md §4.7's content-negotiation rule: the
// server MUST stream once the textual payload exceeds 1 KiB or the list
// payload exceeds 10 items, and MAY stream otherwise (here: only if the
// client asked for it via wantStream).
func shouldStream(result any, wantStream bool) bool {
	if env, ok := result.(envelope.Envelope); ok {
		for _, part := range env.Content {
			if part.Type == "text" && len(part.Text) > streamThresholdBytes {
				return true
			}
			if part.Type == "json" {
				if n, ok := sliceLen(part.Data); ok && n > streamThresholdItems {
					return true
				}
			}
		}
		return wantStream
	}
	if res, ok := result.(resources.Resource); ok {
		if len(res.Text) > streamThresholdBytes {
			return true
		}
		return wantStream
	}
	if n, ok := sliceLen(result); ok {
		if n > streamThresholdItems {
			return true
		}
		return wantStream
	}
	return wantStream
}

func sliceLen(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice {
		return 0, false
	}
	return rv.Len(), true
}

type streamFrame struct {
	Type    string `json:"type"`
	Chunk   string `json:"chunk,omitempty"`
	Item    any    `json:"item,omitempty"`
	Index   int    `json:"index,omitempty"`
	Message string `json:"message,omitempty"`
}

// streamResult writes result as newline-delimited JSON frames: text
// content chunked at exactly 512-byte boundaries, list payloads one
// frame per item, always ending with a completion frame and a [DONE]
// sentinel line.
func streamResult(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	flusher, _ := w.(http.Flusher)
	enc := json.NewEncoder(w)

	writeFrame := func(f streamFrame) {
		enc.Encode(f)
		if flusher != nil {
			flusher.Flush()
		}
	}

	if env, ok := result.(envelope.Envelope); ok {
		for _, part := range env.Content {
			switch {
			case part.Type == "text":
				for i := 0; i < len(part.Text); i += chunkSize {
					end := i + chunkSize
					if end > len(part.Text) {
						end = len(part.Text)
					}
					writeFrame(streamFrame{Type: "content", Chunk: part.Text[i:end]})
				}
			case part.Type == "json":
				if v := reflect.ValueOf(part.Data); v.Kind() == reflect.Slice {
					for i := 0; i < v.Len(); i++ {
						writeFrame(streamFrame{Type: "list_item", Item: v.Index(i).Interface(), Index: i})
					}
				} else {
					writeFrame(streamFrame{Type: "content", Item: part.Data})
				}
			}
		}
		if len(env.Warnings) > 0 {
			writeFrame(streamFrame{Type: "warnings", Item: env.Warnings})
		}
	} else if res, ok := result.(resources.Resource); ok {
		for i := 0; i < len(res.Text); i += chunkSize {
			end := i + chunkSize
			if end > len(res.Text) {
				end = len(res.Text)
			}
			writeFrame(streamFrame{Type: "content", Chunk: res.Text[i:end]})
		}
		if res.Metadata != nil {
			writeFrame(streamFrame{Type: "metadata", Item: res.Metadata})
		}
	} else if v := reflect.ValueOf(result); v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			writeFrame(streamFrame{Type: "list_item", Item: v.Index(i).Interface(), Index: i})
		}
	} else {
		payload, _ := json.Marshal(result)
		for i := 0; i < len(payload); i += chunkSize {
			end := i + chunkSize
			if end > len(payload) {
				end = len(payload)
			}
			writeFrame(streamFrame{Type: "content", Chunk: string(payload[i:end])})
		}
	}

	writeFrame(streamFrame{Type: "complete"})
	w.Write([]byte("[DONE]\n"))
}
