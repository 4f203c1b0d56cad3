// # internal/shared/util/strings.go
package util

import "sort"

// SortedKeys returns map keys in ascending order, for deterministic
// report and log output.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
