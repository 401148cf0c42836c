// Package envelope defines the uniform result type every tool handler
// returns, replacing the ad-hoc dicts the source assembles per call site
// (spec.md §9's "duck-typed response envelopes" redesign flag).
package envelope

// ContentPart is a tagged-variant piece of an Envelope's content: either
// plain text or a JSON value.
type ContentPart struct {
	Type string `json:"type"` // "text" or "json"
	Text string `json:"text,omitempty"`
	Data any    `json:"data,omitempty"`
}

// TextPart builds a text ContentPart.
func TextPart(text string) ContentPart { return ContentPart{Type: "text", Text: text} }

// JSONPart builds a json ContentPart.
func JSONPart(data any) ContentPart { return ContentPart{Type: "json", Data: data} }

// Envelope is the sole shape a tool handler returns to C7.
type Envelope struct {
	Content  []ContentPart  `json:"content"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
}

// Text builds an Envelope with a single text content part.
func Text(text string) Envelope {
	return Envelope{Content: []ContentPart{TextPart(text)}}
}

// JSON builds an Envelope with a single json content part.
func JSON(data any) Envelope {
	return Envelope{Content: []ContentPart{JSONPart(data)}}
}

// WithMetadata returns a copy of e with Metadata set.
func (e Envelope) WithMetadata(md map[string]any) Envelope {
	e.Metadata = md
	return e
}

// WithWarnings returns a copy of e with Warnings set, if any were given.
func (e Envelope) WithWarnings(warnings ...string) Envelope {
	if len(warnings) > 0 {
		e.Warnings = warnings
	}
	return e
}
