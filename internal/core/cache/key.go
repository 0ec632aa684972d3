package cache

import (
	"fmt"
	"strings"
)

const keySep = ":"

// Key joins segments into a cache key: Key("job", 42) == "job:42".
func Key(parts ...any) string {
	segs := make([]string, len(parts))
	for i, p := range parts {
		segs[i] = fmt.Sprint(p)
	}
	return strings.Join(segs, keySep)
}

// Family returns the first segment of a key. It is used as a low-cardinality
// label for metrics and logs.
func Family(key string) string {
	if i := strings.Index(key, keySep); i >= 0 {
		return key[:i]
	}
	return key
}

// Matches reports whether key equals prefix or lies below it.
// "job" matches "job" and "job:42" but not "jobs".
func Matches(prefix, key string) bool {
	if prefix == key {
		return true
	}
	return strings.HasPrefix(key, prefix+keySep)
}
