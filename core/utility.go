package core

import "fmt"

// The C side of the bindings expects null terminated strings.

func safeString(s string) string {
	return fmt.Sprintf("%s\x00", s)
}

func safeStrings(sgs []string) []string {
	safe := make([]string, 0, len(sgs))
	for _, s := range sgs {
		safe = append(safe, fmt.Sprintf("%s\x00", s))
	}
	return safe
}

// mergeUnique appends the extra names that base does not already hold,
// preserving order.
func mergeUnique(base, extra []string) []string {
	merged := base
	for _, name := range extra {
		if !contains(merged, name) {
			merged = append(merged, name)
		}
	}
	return merged
}
