package tools

import (
	"encoding/json"
	"reflect"
	"sort"
	"strings"

	"github.com/zach-snell/obsidian-go-mcp/internal/apperror"
)

// validator is implemented by argument structs whose fields alone aren't
// enough to express a rule (e.g. "query must be non-empty after
// trimming").
type validator interface {
	Validate() []string // returns offending field names, empty if valid
}

// bindArgs decodes raw tool arguments into dst (a pointer to an Args
// struct), enforcing additionalProperties:false when strict is true, and
// calling dst.Validate() if it implements validator. This is C5's
// schema-validation step: any failure becomes InvalidArgs naming the
// offending keys, per spec.md §4.5.
func bindArgs(toolName string, raw map[string]any, dst any, strict bool) error {
	if strict {
		allowed := jsonFieldNames(dst)
		var extra []string
		for k := range raw {
			if !allowed[k] {
				extra = append(extra, k)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			return &apperror.InvalidArgs{Tool: toolName, Keys: extra}
		}
	}

	payload, err := json.Marshal(raw)
	if err != nil {
		return &apperror.InvalidArgs{Tool: toolName, Keys: []string{"<unmarshalable>"}}
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		return &apperror.InvalidArgs{Tool: toolName, Keys: []string{"<malformed>"}}
	}

	if v, ok := dst.(validator); ok {
		if bad := v.Validate(); len(bad) > 0 {
			return &apperror.InvalidArgs{Tool: toolName, Keys: bad}
		}
	}
	return nil
}

func jsonFieldNames(dst any) map[string]bool {
	names := map[string]bool{}
	t := reflect.TypeOf(dst)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("json")
		if tag == "" {
			continue
		}
		name := strings.Split(tag, ",")[0]
		if name == "-" {
			continue
		}
		names[name] = true
	}
	return names
}
