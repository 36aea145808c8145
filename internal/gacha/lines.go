package gacha

import "strings"

// SplitLines converts newline-delimited form text into the ordered
// list the API expects: each line trimmed, blank lines discarded.
func SplitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// JoinLines is the inverse of SplitLines, used to prefill the edit
// form. Round-tripping a list through JoinLines and SplitLines yields
// the same list.
func JoinLines(items []string) string {
	return strings.Join(items, "\n")
}
