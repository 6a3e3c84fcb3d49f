package sheet

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// CleanHeader trims and NFKC-normalizes every header cell (so a
// non-breaking space reads as a space) and renames repeated names to
// name.1, name.2, … the way spreadsheet exports are usually read.
func CleanHeader(raw []string) []string {
	out := make([]string, len(raw))
	used := make(map[string]int, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		name := strings.TrimSpace(norm.NFKC.String(h))
		if name == "" {
			continue
		}
		if n, dup := used[name]; dup {
			candidate := name + "." + strconv.Itoa(n)
			for {
				if _, taken := used[candidate]; !taken {
					break
				}
				n++
				candidate = name + "." + strconv.Itoa(n)
			}
			used[name] = n + 1
			name = candidate
		}
		used[name] = max(used[name], 1)
		out[i] = name
	}
	return out
}
