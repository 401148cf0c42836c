package notetemplate

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var headerKeyPattern = regexp.MustCompile(`^[a-z][a-z0-9-_]*$`)

// Header is a parsed structured header block: an ordered map from key to
// scalar-or-list value, preserving insertion order for stable
// re-serialization.
type Header struct {
	Order  []string
	Values map[string]any
}

// NewHeader returns an empty header.
func NewHeader() *Header {
	return &Header{Values: make(map[string]any)}
}

// Set assigns a value, appending the key to Order if it is new.
func (h *Header) Set(key string, value any) {
	if _, exists := h.Values[key]; !exists {
		h.Order = append(h.Order, key)
	}
	h.Values[key] = value
}

// Delete removes a key, if present.
func (h *Header) Delete(key string) {
	if _, exists := h.Values[key]; !exists {
		return
	}
	delete(h.Values, key)
	for i, k := range h.Order {
		if k == key {
			h.Order = append(h.Order[:i], h.Order[i+1:]...)
			break
		}
	}
}

// Get returns the value for key, and whether it was present.
func (h *Header) Get(key string) (any, bool) {
	v, ok := h.Values[key]
	return v, ok
}

// ParseHeader implements the tokenizer for the structured header block
// described in spec.md §6: a "---" line at byte 0, key: value lines
// until the closing "---" line, list items as "- "-indented lines under
// a bare key. It replaces the teacher's regex-per-line frontmatter
// parser with a proper line-oriented scanner, per spec.md §9's redesign
// flag. Returns the parsed header, the remaining body, and whether a
// valid header block was found at all — a missing opening delimiter (not
// exactly "---" at byte 0) or a missing closing delimiter both mean "no
// header block", per spec.md's boundary case.
func ParseHeader(content string) (hdr *Header, body string, ok bool) {
	if !strings.HasPrefix(content, "---\n") && content != "---" {
		return nil, content, false
	}
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || lines[0] != "---" {
		return nil, content, false
	}
	closeIdx := -1
	for i := 1; i < len(lines); i++ {
		if lines[i] == "---" {
			closeIdx = i
			break
		}
	}
	if closeIdx == -1 {
		return nil, content, false
	}

	h := NewHeader()
	var pendingKey string
	var pendingList []string
	flush := func() {
		if pendingKey == "" {
			return
		}
		if pendingList != nil {
			h.Set(pendingKey, pendingList)
		}
		pendingKey = ""
		pendingList = nil
	}

	for i := 1; i < closeIdx; i++ {
		line := lines[i]
		if strings.HasPrefix(line, "  - ") || (strings.HasPrefix(line, "- ") && pendingKey != "") {
			item := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- "))
			pendingList = append(pendingList, unquote(item))
			continue
		}
		flush()
		colon := strings.Index(line, ":")
		if colon == -1 {
			continue
		}
		key := strings.TrimSpace(line[:colon])
		if !headerKeyPattern.MatchString(key) {
			continue
		}
		rawValue := strings.TrimSpace(line[colon+1:])
		if rawValue == "" {
			pendingKey = key
			pendingList = []string{}
			continue
		}
		h.Set(key, parseScalar(unquote(rawValue)))
	}
	flush()

	rest := strings.Join(lines[closeIdx+1:], "\n")
	rest = strings.TrimPrefix(rest, "\n")
	return h, rest, true
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return s[1 : len(s)-1]
	}
	return s
}

func parseScalar(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

// Serialize renders the header back to the "---"-delimited block form,
// in the header's insertion order.
func (h *Header) Serialize() string {
	if h == nil || len(h.Order) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("---\n")
	for _, key := range h.Order {
		v := h.Values[key]
		switch val := v.(type) {
		case []string:
			b.WriteString(key + ":\n")
			for _, item := range val {
				b.WriteString("  - " + quoteIfNeeded(item) + "\n")
			}
		default:
			b.WriteString(key + ": " + formatScalar(v) + "\n")
		}
	}
	b.WriteString("---\n")
	return b.String()
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case string:
		return quoteIfNeeded(val)
	case bool:
		if val {
			return "true"
		}
		return "false"
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		return quoteIfNeeded(strings_Sprint(val))
	}
}

func quoteIfNeeded(s string) string {
	if s == "" || strings.ContainsAny(s, ":#") {
		return strconv.Quote(s)
	}
	return s
}

func strings_Sprint(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// SortedKeys returns a header's keys sorted, useful for deterministic
// diffs in tests.
func (h *Header) SortedKeys() []string {
	keys := make([]string, 0, len(h.Values))
	for k := range h.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
