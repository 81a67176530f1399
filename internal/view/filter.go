package view

import (
	"strconv"
	"strings"

	"github.com/hargabyte/chaos-web/pkg/schema"
)

// FilterMemories returns the memories whose content or any tag contains query,
// case-insensitively, in their original order. An empty query returns the
// full list. The input is never modified.
func FilterMemories(memories []schema.Memory, query string) []schema.Memory {
	q := strings.ToLower(query)
	out := make([]schema.Memory, 0, len(memories))
	for _, m := range memories {
		if matches(m, q) {
			out = append(out, m)
		}
	}
	return out
}

func matches(m schema.Memory, q string) bool {
	if strings.Contains(strings.ToLower(m.Content), q) {
		return true
	}
	for _, t := range m.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// CountLabel renders "1 memory" or "N memories".
func CountLabel(n int) string {
	if n == 1 {
		return "1 memory"
	}
	return strconv.Itoa(n) + " memories"
}
