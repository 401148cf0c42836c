// Package notetemplate implements C4: template selection by path prefix,
// structured-header synthesis and token substitution on create, and
// format-preserving header merge on update, plus the advisory
// date-mismatch check for daily notes.
package notetemplate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which template table row a path matched.
type Kind string

const (
	KindNone    Kind = "none"
	KindDaily   Kind = "daily"
	KindProject Kind = "project"
	KindArea    Kind = "area"
)

var numberedPrefix = regexp.MustCompile(`^\d{2}_`)

// SelectKind implements the selection table from spec.md §4.4: first
// match wins, prefixes may carry a "NN_" numeric folder-ordering prefix
// (as used by the folder-alias convention in the source vault layout).
func SelectKind(path string) Kind {
	first := path
	if idx := strings.Index(path, "/"); idx >= 0 {
		first = path[:idx]
	}
	stripped := numberedPrefix.ReplaceAllString(first, "")
	switch stripped {
	case "daily-notes":
		return KindDaily
	case "projects":
		return KindProject
	case "areas":
		return KindArea
	default:
		return KindNone
	}
}

// RequiredFields returns the header fields spec.md's table requires for
// a given kind, used only to document/validate template output; it is
// not itself an argument-schema.
func RequiredFields(k Kind) []string {
	switch k {
	case KindDaily:
		return []string{"creation-date", "type"}
	case KindProject:
		return []string{"status", "created", "type"}
	case KindArea:
		return []string{"review-frequency", "type"}
	default:
		return nil
	}
}

// tokenPattern matches the three documented substitution tokens:
// {date:YYYY-MM-DD}, {date:YYYY}, {time:HH:mm}.
var tokenPattern = regexp.MustCompile(`\{(date|time):([^}]*)\}`)

// SubstituteTokens performs the single substitution pass over the known
// token vocabulary described in spec.md §4.4. Any token that isn't one
// of the recognized (kind, format) pairs is removed outright, not left
// in place — this fixes the "broken-placeholder bug" the teacher's
// templates.go still exhibits (its ReplaceAllStringFunc falls back to
// `return match` on an unresolved token).
func SubstituteTokens(s string, at time.Time) string {
	return tokenPattern.ReplaceAllStringFunc(s, func(tok string) string {
		m := tokenPattern.FindStringSubmatch(tok)
		if m == nil {
			return ""
		}
		kind, format := m[1], m[2]
		switch {
		case kind == "date" && format == "YYYY-MM-DD":
			return at.Format("2006-01-02")
		case kind == "date" && format == "YYYY":
			return at.Format("2006")
		case kind == "time" && format == "HH:mm":
			return at.Format("15:04")
		default:
			return ""
		}
	})
}

// HasUnresolvedToken reports whether s still contains a recognizable
// `{...}` token placeholder after substitution — used by the update-path
// merge to drop keys whose value is a broken/unresolved template token.
func HasUnresolvedToken(s string) bool {
	return regexp.MustCompile(`\{[a-zA-Z]+:[^}]*\}`).MatchString(s)
}

// DefaultHeader synthesizes the required header fields for kind,
// prefilled from wall-clock time `at` and merged with caller-supplied
// defaults (which win on conflicting keys).
func DefaultHeader(kind Kind, at time.Time, callerDefaults map[string]any) *Header {
	h := NewHeader()
	switch kind {
	case KindDaily:
		h.Set("creation-date", at.Format("2006-01-02"))
		h.Set("type", "daily-note")
	case KindProject:
		h.Set("status", "active")
		h.Set("created", at.Format("2006-01-02"))
		h.Set("type", "project")
	case KindArea:
		h.Set("review-frequency", "monthly")
		h.Set("type", "area")
	}
	for k, v := range callerDefaults {
		if s, ok := v.(string); ok {
			v = SubstituteTokens(s, at)
			if v.(string) == "" && HasUnresolvedToken(s) {
				continue
			}
		}
		h.Set(k, v)
	}
	return h
}

// ApplyCreateTemplate implements the create path of spec.md §4.4: if
// useTemplate and the path matches a template kind, synthesize a header
// and prepend it to body unless body already starts with one.
func ApplyCreateTemplate(path, body string, useTemplate bool, at time.Time, callerDefaults map[string]any) string {
	if !useTemplate {
		return body
	}
	kind := SelectKind(path)
	if kind == KindNone {
		return body
	}
	if strings.HasPrefix(body, "---\n") {
		return body
	}
	header := DefaultHeader(kind, at, callerDefaults)
	return header.Serialize() + "\n" + body
}

// MergeForUpdate implements the preserve_format=true update path: the
// caller's header values win where provided, existing values are kept
// otherwise, and any key whose merged value is a broken/unresolved
// template token is dropped. The body is always replaced wholesale by
// the caller's new body.
func MergeForUpdate(existingContent, newContent string) (mergedContent string, warnings []string) {
	existingHeader, _, existingHasHeader := ParseHeader(existingContent)
	newHeader, newBody, newHasHeader := ParseHeader(newContent)

	if !newHasHeader {
		newBody = newContent
	}

	merged := NewHeader()
	if existingHasHeader {
		for _, k := range existingHeader.Order {
			merged.Set(k, existingHeader.Values[k])
		}
	}
	if newHasHeader {
		for _, k := range newHeader.Order {
			merged.Set(k, newHeader.Values[k])
		}
	}
	for _, k := range append([]string{}, merged.Order...) {
		if s, ok := merged.Values[k].(string); ok && HasUnresolvedToken(s) {
			merged.Delete(k)
		}
	}

	if len(merged.Order) == 0 {
		return newBody, nil
	}
	return merged.Serialize() + "\n" + newBody, nil
}

var dailyFilenamePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\.md$`)

var headingPattern = regexp.MustCompile(`(?m)^#\s+(.*)$`)

// CheckDateMismatch implements the advisory date-mismatch check from
// spec.md §4.4: for daily-template paths whose filename parses as
// YYYY-MM-DD, compare it against the creation-date header and the year
// of the first top-level heading in the (possibly merged) content. It
// never fails the write; it only ever returns a warning string.
func CheckDateMismatch(path, content string) (warning string, mismatched bool) {
	if SelectKind(path) != KindDaily {
		return "", false
	}
	name := path
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		name = path[idx+1:]
	}
	m := dailyFilenamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	filenameDate := fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
	filenameYear := m[1]

	header, body, hasHeader := ParseHeader(content)
	var creationDate string
	if hasHeader {
		if v, ok := header.Get("creation-date"); ok {
			if s, ok := v.(string); ok {
				creationDate = s
			}
		}
	} else {
		body = content
	}

	var headingYear string
	if hm := headingPattern.FindStringSubmatch(body); hm != nil {
		if y := extractYear(hm[1]); y != "" {
			headingYear = y
		}
	}

	var mismatches []string
	if creationDate != "" && creationDate != filenameDate {
		mismatches = append(mismatches, fmt.Sprintf("creation-date %s does not match filename date %s", creationDate, filenameDate))
	}
	if headingYear != "" && headingYear != filenameYear {
		mismatches = append(mismatches, fmt.Sprintf("heading year %s does not match filename year %s", headingYear, filenameYear))
	}
	if len(mismatches) == 0 {
		return "", false
	}
	return strings.Join(mismatches, "; "), true
}

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

func extractYear(heading string) string {
	m := yearPattern.FindStringSubmatch(heading)
	if m == nil {
		return ""
	}
	if _, err := strconv.Atoi(m[1]); err != nil {
		return ""
	}
	return m[1]
}
