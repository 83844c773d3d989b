package ingest

import (
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// parseJSON flattens a JSON document into one "path: value" line per scalar
// leaf, in document order. Paths use gjson dot syntax with array indexes.
func parseJSON(name string, data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", readError(name, "file is not valid JSON", nil)
	}

	var sb strings.Builder
	flatten(&sb, "", gjson.ParseBytes(data))
	return strings.TrimSuffix(sb.String(), "\n"), nil
}

func flatten(sb *strings.Builder, path string, r gjson.Result) {
	switch {
	case r.IsObject() || r.IsArray():
		if isEmptyContainer(r) {
			writeLeaf(sb, path, r.Raw)
			return
		}
		i := 0
		array := r.IsArray()
		r.ForEach(func(key, value gjson.Result) bool {
			seg := key.String()
			if array {
				seg = strconv.Itoa(i)
			}
			i++
			flatten(sb, joinPath(path, seg), value)
			return true
		})
	case r.Type == gjson.Null:
		writeLeaf(sb, path, "null")
	default:
		writeLeaf(sb, path, r.String())
	}
}

func isEmptyContainer(r gjson.Result) bool {
	empty := true
	r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}

func joinPath(prefix, seg string) string {
	seg = escapePathSegment(seg)
	if prefix == "" {
		return seg
	}
	return prefix + "." + seg
}

// escapePathSegment escapes gjson path metacharacters in an object key.
func escapePathSegment(seg string) string {
	if !strings.ContainsAny(seg, ".*?|#@") {
		return seg
	}
	var sb strings.Builder
	for _, r := range seg {
		if strings.ContainsRune(".*?|#@", r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func writeLeaf(sb *strings.Builder, path, value string) {
	if path != "" {
		sb.WriteString(path)
		sb.WriteString(": ")
	}
	sb.WriteString(value)
	sb.WriteByte('\n')
}
