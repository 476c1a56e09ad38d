package device

import (
	"strconv"
	"strings"
)

const hexPrefix = "0x"

// Select resolves an operator supplied selector against the enumerated
// devices and returns the index of the chosen one.
//
// A selector starting with "0x" is parsed as a hexadecimal device ID and
// matched exactly. Any other selector is first matched against device names
// case-sensitively, then as a substring, first occurrence in enumeration
// order winning. An empty selector, or one that matches nothing, falls back
// to the first enumerated device. The fallback is silent; callers that need
// certainty should inspect the name and ID of the result.
func Select(infos []PhysicalDeviceInfo, selector string) int {
	if selector == "" {
		return 0
	}

	if strings.HasPrefix(selector, hexPrefix) {
		id, err := strconv.ParseUint(selector[len(hexPrefix):], 16, 32)
		if err != nil {
			return 0
		}
		for i := range infos {
			if infos[i].ID == uint32(id) {
				return i
			}
		}
		return 0
	}

	for i := range infos {
		if infos[i].Name == selector {
			return i
		}
	}
	for i := range infos {
		if strings.Contains(infos[i].Name, selector) {
			return i
		}
	}
	return 0
}
