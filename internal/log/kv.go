package log

import "sort"

// KV represents the key-value pairs attached to a single log line.
type KV map[string]any

// kvToArgs converts the first given KV into the flat argument list that
// slog expects. Keys are sorted so log lines are stable.
func kvToArgs(keyVals ...KV) []any {
	args := []any{}
	if len(keyVals) == 0 {
		return args
	}

	kv := keyVals[0]
	keys := make([]string, 0, len(kv))
	for key := range kv {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		args = append(args, key, kv[key])
	}
	return args
}

// kvToArgsNs is like kvToArgs but prepends the given namespace under
// the "ns" key.
func kvToArgsNs(namespace string, keyVals ...KV) []any {
	args := []any{"ns", namespace}
	return append(args, kvToArgs(keyVals...)...)
}
