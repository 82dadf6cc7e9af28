package switcher

import (
	"fmt"
	"regexp"
	"slices"
)

const mappingFormat = "%s -> %s"

var mappingSeparator = regexp.MustCompile(`\s+->\s+`)

// EncodeMapping turns a package to keyboard id map into sorted "package -> id" entries.
func EncodeMapping(mapping map[string]string) []string {
	entries := make([]string, 0, len(mapping))

	for pkg, id := range mapping {
		entries = append(entries, fmt.Sprintf(mappingFormat, pkg, id))
	}

	slices.Sort(entries)

	return entries
}

// DecodeMapping parses entries written by EncodeMapping. Malformed entries are skipped.
func DecodeMapping(entries []string) map[string]string {
	mapping := make(map[string]string, len(entries))

	for _, entry := range entries {
		parts := mappingSeparator.Split(entry, -1)
		if len(parts) != 2 {
			continue
		}

		mapping[parts[0]] = parts[1]
	}

	return mapping
}
