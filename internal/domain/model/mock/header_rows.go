package model

import "sort"

// HeaderRow is one key/value line of a header list in the editor.
type HeaderRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ExpandHeaders turns a header map into rows sorted by key. An empty map
// yields a single blank row so the form always has something to type into.
func ExpandHeaders(h map[string]string) []HeaderRow {
	if len(h) == 0 {
		return []HeaderRow{{}}
	}
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]HeaderRow, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, HeaderRow{Key: k, Value: h[k]})
	}
	return rows
}

// CompactHeaderRows drops rows with an empty key; a later row wins over an
// earlier one with the same key.
func CompactHeaderRows(rows []HeaderRow) map[string]string {
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		if r.Key == "" {
			continue
		}
		out[r.Key] = r.Value
	}
	return out
}
